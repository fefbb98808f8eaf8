// Package events publishes address change events from the reference
// address service.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/domain"
)

// Kind names an address change.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindRemoved Kind = "removed"
)

// AddressEvent is the JSON payload of every address event.
type AddressEvent struct {
	Kind       Kind            `json:"kind"`
	Subject    string          `json:"subject"`
	Address    address.Address `json:"address"`
	RequestID  string          `json:"requestId,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Publisher emits address events.
type Publisher interface {
	Publish(ctx context.Context, ev AddressEvent) error
}

// Conn is the subset of *nats.Conn used for publishing.
type Conn interface {
	Publish(subj string, data []byte) error
}

var _ Conn = (*nats.Conn)(nil)

// NATSPublisher publishes events to <prefix>.<kind>.
type NATSPublisher struct {
	conn   Conn
	prefix string
	now    func() time.Time
	logger zerolog.Logger
}

// NewNATSPublisher returns a publisher writing to conn under prefix.
func NewNATSPublisher(conn Conn, prefix string, logger zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:   conn,
		prefix: prefix,
		now:    time.Now,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// SubjectFor returns the NATS subject for kind.
func (p *NATSPublisher) SubjectFor(kind Kind) string {
	return p.prefix + "." + string(kind)
}

func (p *NATSPublisher) Publish(ctx context.Context, ev AddressEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = p.now().UTC()
	}
	if ev.RequestID == "" {
		ev.RequestID = domain.RequestIDFromContext(ctx)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Kind, err)
	}

	subject := p.SubjectFor(ev.Kind)
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish address event")
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug().Str("subject", subject).Str("address_id", ev.Address.ID).Msg("address event published")
	return nil
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, AddressEvent) error { return nil }

// Connect dials NATS with reconnect handlers that log through logger.
func Connect(url string, logger zerolog.Logger) (*nats.Conn, error) {
	logger = logger.With().Str("component", "nats").Logger()

	nc, err := nats.Connect(url,
		nats.Name("addressd"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}

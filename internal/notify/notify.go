// Package notify delivers user-facing success and failure messages.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dukerupert/addressbook/internal/domain"
)

// Notifier receives user-facing messages. Delivery is fire-and-forget.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// LogNotifier writes notifications through zerolog.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier that logs successes at info and
// failures at warn.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

func (n *LogNotifier) Success(ctx context.Context, message string) {
	n.event(n.logger.Info(), ctx).Str("kind", string(KindSuccess)).Msg(message)
}

func (n *LogNotifier) Error(ctx context.Context, message string) {
	n.event(n.logger.Warn(), ctx).Str("kind", string(KindError)).Msg(message)
}

func (n *LogNotifier) event(e *zerolog.Event, ctx context.Context) *zerolog.Event {
	if id := domain.RequestIDFromContext(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	return e
}

// Kind distinguishes success from error notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is one recorded notification.
type Message struct {
	Kind Kind
	Text string
}

// Recorder keeps every notification in memory. Used by tests and by the
// CLI to decide its exit status.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Success(_ context.Context, message string) {
	r.add(KindSuccess, message)
}

func (r *Recorder) Error(_ context.Context, message string) {
	r.add(KindError, message)
}

func (r *Recorder) add(kind Kind, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Kind: kind, Text: text})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Fanout forwards every notification to each wrapped notifier in order.
type Fanout []Notifier

func (f Fanout) Success(ctx context.Context, message string) {
	for _, n := range f {
		n.Success(ctx, message)
	}
}

func (f Fanout) Error(ctx context.Context, message string) {
	for _, n := range f {
		n.Error(ctx, message)
	}
}

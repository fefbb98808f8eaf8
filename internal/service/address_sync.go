package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/addressapi"
	"github.com/dukerupert/addressbook/internal/auth"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/state"
	"github.com/dukerupert/addressbook/internal/telemetry"
)

// AddressSynchronizer turns create/update/remove intents into calls to the
// remote address service and replaces the shared address list with the
// list the service returns.
//
// Every method makes at most one network call and never retries. On any
// failure the shared list is left untouched. Missing credentials are
// reported before a missing id.
type AddressSynchronizer interface {
	// Create stores a new address. Succeeds only on 201 Created.
	Create(ctx context.Context, candidate address.Address, token auth.Token) (address.List, error)

	// Update replaces an existing address. Succeeds only on 200 OK.
	// Returns ErrMissingAddressID without calling the service if candidate has no id.
	Update(ctx context.Context, candidate address.Address, token auth.Token) (address.List, error)

	// Remove deletes an address. Succeeds only on 200 OK.
	// Returns ErrMissingAddressID without calling the service if target has no id.
	Remove(ctx context.Context, target address.Address, token auth.Token) (address.List, error)

	// Load fetches the current list. Succeeds only on 200 OK.
	Load(ctx context.Context, token auth.Token) (address.List, error)
}

type addressSynchronizer struct {
	api     addressapi.Service
	store   state.Dispatcher
	metrics *telemetry.AddressMetrics
	logger  zerolog.Logger
}

// NewAddressSynchronizer creates a synchronizer that dispatches successful
// results into store. metrics may be nil.
func NewAddressSynchronizer(api addressapi.Service, store state.Dispatcher, metrics *telemetry.AddressMetrics, logger zerolog.Logger) AddressSynchronizer {
	return &addressSynchronizer{
		api:     api,
		store:   store,
		metrics: metrics,
		logger:  logger.With().Str("component", "address_sync").Logger(),
	}
}

func (s *addressSynchronizer) Create(ctx context.Context, candidate address.Address, token auth.Token) (address.List, error) {
	if !token.Present() {
		return s.reject("create", ErrMissingCredentials, telemetry.OutcomeMissingCredentials)
	}
	return s.run("create", http.StatusCreated, func() (*addressapi.Response, error) {
		return s.api.Add(ctx, candidate.WithoutID(), token)
	})
}

func (s *addressSynchronizer) Update(ctx context.Context, candidate address.Address, token auth.Token) (address.List, error) {
	if !token.Present() {
		return s.reject("update", ErrMissingCredentials, telemetry.OutcomeMissingCredentials)
	}
	if !candidate.Persisted() {
		return s.reject("update", ErrMissingAddressID, telemetry.OutcomeInvalid)
	}
	return s.run("update", http.StatusOK, func() (*addressapi.Response, error) {
		return s.api.Update(ctx, candidate, token)
	})
}

func (s *addressSynchronizer) Remove(ctx context.Context, target address.Address, token auth.Token) (address.List, error) {
	if !token.Present() {
		return s.reject("remove", ErrMissingCredentials, telemetry.OutcomeMissingCredentials)
	}
	if !target.Persisted() {
		return s.reject("remove", ErrMissingAddressID, telemetry.OutcomeInvalid)
	}
	return s.run("remove", http.StatusOK, func() (*addressapi.Response, error) {
		return s.api.Remove(ctx, target.ID, token)
	})
}

func (s *addressSynchronizer) Load(ctx context.Context, token auth.Token) (address.List, error) {
	if !token.Present() {
		return s.reject("load", ErrMissingCredentials, telemetry.OutcomeMissingCredentials)
	}
	return s.run("load", http.StatusOK, func() (*addressapi.Response, error) {
		return s.api.List(ctx, token)
	})
}

// run makes the single call, requires an exact status match and replaces
// the shared list wholesale on success. Callers check credentials first.
func (s *addressSynchronizer) run(op string, want int, call func() (*addressapi.Response, error)) (address.List, error) {
	logger := s.logger.With().Str("op", op).Logger()

	start := time.Now()
	resp, err := call()
	if s.metrics != nil {
		s.metrics.SyncLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		logger.Error().Err(err).Msg("address service call failed")
		telemetry.AddBreadcrumb("address_sync", op+" failed", map[string]interface{}{"error": err.Error()})
		s.count(op, telemetry.OutcomeUnexpected)
		return nil, domain.Unexpected(err, "address."+op, unexpectedMessage)
	}

	telemetry.AddBreadcrumb("address_sync", op, map[string]interface{}{
		"status":   resp.StatusCode,
		"expected": want,
	})

	if resp.StatusCode != want {
		logger.Warn().
			Int("status", resp.StatusCode).
			Int("expected", want).
			Str("service_message", resp.Message).
			Msg("unexpected address service acknowledgment")
		s.count(op, telemetry.OutcomeUnexpected)
		return nil, domain.Unexpected(
			fmt.Errorf("status %d, expected %d", resp.StatusCode, want),
			"address."+op, unexpectedMessage,
		)
	}

	list := resp.Addresses.Clone()
	if list == nil {
		list = address.List{}
	}
	s.store.Dispatch(state.SetAddress{Addresses: list})
	s.count(op, telemetry.OutcomeSuccess)

	logger.Info().Int("address_count", len(list)).Msg("address list replaced")

	return list.Clone(), nil
}

func (s *addressSynchronizer) reject(op string, err error, outcome string) (address.List, error) {
	s.logger.Debug().Str("op", op).Err(err).Msg("address sync rejected before call")
	s.count(op, outcome)
	return nil, err
}

func (s *addressSynchronizer) count(op, outcome string) {
	if s.metrics != nil {
		s.metrics.SyncRequests.WithLabelValues(op, outcome).Inc()
	}
}

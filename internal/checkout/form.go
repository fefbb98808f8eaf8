// Package checkout implements the address step of checkout: a form session
// for adding or editing an address and a section listing stored addresses
// with select and delete actions.
package checkout

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/auth"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/notify"
	"github.com/dukerupert/addressbook/internal/service"
	"github.com/dukerupert/addressbook/internal/telemetry"
)

// Phase is the form session's position in its submit cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Mode selects which synchronizer call a submit makes.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

// User-facing messages.
const (
	MsgAdded          = "New address added successfully!"
	MsgUpdated        = "Address updated successfully!"
	MsgSubmitFailed   = "Something went wrong!"
	MsgDeleteFailed   = "Failed to delete the address."
	msgDeletedSuffix  = "'s address successfully deleted!"
	msgSelectNotFound = "Selected address no longer exists."
)

var (
	// ErrSubmissionInFlight is returned when Submit, Cancel or either Open
	// is called while a previous submission has not resolved.
	ErrSubmissionInFlight = domain.Errorf(domain.ECONFLICT, "address.form", "A submission is already in progress")

	// ErrFormClosed is returned when Submit is called on a closed form.
	ErrFormClosed = domain.Errorf(domain.EINVALID, "address.form", "Address form is not open")
)

// FormDeps are the collaborators of an AddressForm.
type FormDeps struct {
	Validator address.Validator
	Sync      service.AddressSynchronizer
	Notifier  notify.Notifier
	Session   auth.Session
	Metrics   *telemetry.AddressMetrics // Optional
	Logger    zerolog.Logger
}

// AddressForm is one add/edit form session.
//
// Submit moves Idle → Validating → Submitting → Idle. Validation failures
// return to Idle without a network call. A successful submit resets the
// draft and closes the form; a failed one leaves both untouched so the
// user can correct and resubmit. Until a submit returns to Idle, Submit,
// Cancel, OpenAdd and OpenEdit are rejected with ErrSubmissionInFlight.
type AddressForm struct {
	deps   FormDeps
	logger zerolog.Logger

	mu    sync.Mutex
	open  bool
	mode  Mode
	phase Phase
	draft *address.Draft
}

// NewAddressForm creates a closed form with an empty draft.
func NewAddressForm(deps FormDeps) *AddressForm {
	return &AddressForm{
		deps:   deps,
		logger: deps.Logger.With().Str("component", "address_form").Logger(),
		draft:  address.NewDraft(),
	}
}

// OpenAdd opens the form with an empty draft for a new address.
func (f *AddressForm) OpenAdd() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhaseIdle {
		return ErrSubmissionInFlight
	}
	f.open, f.mode = true, ModeAdd
	f.draft.Reset()
	return nil
}

// OpenEdit opens the form seeded with an existing address.
func (f *AddressForm) OpenEdit(a address.Address) error {
	if !a.Persisted() {
		return service.ErrMissingAddressID
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhaseIdle {
		return ErrSubmissionInFlight
	}
	f.open, f.mode = true, ModeEdit
	f.draft = address.DraftFrom(a)
	return nil
}

// Set edits one draft field by its JSON name.
func (f *AddressForm) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Set(field, value)
}

// Prefill replaces every draft field with a's fields, keeping the draft's id.
func (f *AddressForm) Prefill(a address.Address) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.draft.Address().ID
	f.draft.Replace(a)
}

// Cancel closes the form and discards the draft.
func (f *AddressForm) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhaseIdle {
		return ErrSubmissionInFlight
	}
	f.closeLocked()
	return nil
}

// Draft returns a copy of the current draft.
func (f *AddressForm) Draft() address.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Address()
}

// IsOpen reports whether the form is showing.
func (f *AddressForm) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Mode reports whether the form adds or edits.
func (f *AddressForm) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Phase reports the current submit phase.
func (f *AddressForm) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Submit validates the draft and, if it passes, sends it to the
// synchronizer. Every outcome is also reported to the notifier.
func (f *AddressForm) Submit(ctx context.Context) error {
	candidate, mode, err := f.begin()
	if err != nil {
		return err
	}

	if err := f.deps.Validator.Validate(candidate); err != nil {
		f.setPhase(PhaseIdle)
		if f.deps.Metrics != nil {
			f.deps.Metrics.ValidationFailures.WithLabelValues(domain.FieldOf(err)).Inc()
		}
		f.logger.Debug().Str("field", domain.FieldOf(err)).Msg("draft failed validation")
		f.deps.Notifier.Error(ctx, domain.ErrorMessage(err))
		return err
	}

	f.setPhase(PhaseSubmitting)

	token := f.deps.Session.Token()
	var success string
	if mode == ModeEdit {
		_, err = f.deps.Sync.Update(ctx, candidate, token)
		success = MsgUpdated
	} else {
		_, err = f.deps.Sync.Create(ctx, candidate, token)
		success = MsgAdded
	}

	f.mu.Lock()
	f.phase = PhaseIdle
	if err == nil {
		f.closeLocked()
	}
	f.mu.Unlock()

	if err != nil {
		f.fail(ctx, err, mode)
		return err
	}

	f.deps.Notifier.Success(ctx, success)
	return nil
}

// begin performs the guarded Idle → Validating transition.
func (f *AddressForm) begin() (address.Address, Mode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != PhaseIdle {
		if f.deps.Metrics != nil {
			f.deps.Metrics.SubmissionsRejected.WithLabelValues("in_flight").Inc()
		}
		return address.Address{}, 0, ErrSubmissionInFlight
	}
	if !f.open {
		if f.deps.Metrics != nil {
			f.deps.Metrics.SubmissionsRejected.WithLabelValues("closed").Inc()
		}
		return address.Address{}, 0, ErrFormClosed
	}

	f.phase = PhaseValidating
	return f.draft.Address(), f.mode, nil
}

func (f *AddressForm) fail(ctx context.Context, err error, mode Mode) {
	logger := f.logger.With().Err(err).Bool("edit", mode == ModeEdit).Logger()

	if domain.IsCode(err, domain.EUNAUTHORIZED) || domain.IsCode(err, domain.EINVALID) {
		logger.Info().Msg("address submission rejected")
		f.deps.Notifier.Error(ctx, domain.ErrorMessage(err))
		return
	}

	logger.Error().Msg("address submission failed")
	telemetry.CaptureError(err, map[string]interface{}{"op": domain.ErrorOp(err)})
	f.deps.Notifier.Error(ctx, MsgSubmitFailed)
}

func (f *AddressForm) setPhase(p Phase) {
	f.mu.Lock()
	f.phase = p
	f.mu.Unlock()
}

func (f *AddressForm) closeLocked() {
	f.open = false
	f.mode = ModeAdd
	f.draft.Reset()
}

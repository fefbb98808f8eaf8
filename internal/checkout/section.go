package checkout

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/auth"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/notify"
	"github.com/dukerupert/addressbook/internal/service"
	"github.com/dukerupert/addressbook/internal/state"
	"github.com/dukerupert/addressbook/internal/telemetry"
)

// AddressSection lists the stored addresses and owns the add/edit form.
type AddressSection struct {
	store    *state.Store
	sync     service.AddressSynchronizer
	notifier notify.Notifier
	session  auth.Session
	form     *AddressForm
	logger   zerolog.Logger
}

// NewAddressSection wires a section and its form around store.
func NewAddressSection(store *state.Store, deps FormDeps) *AddressSection {
	return &AddressSection{
		store:    store,
		sync:     deps.Sync,
		notifier: deps.Notifier,
		session:  deps.Session,
		form:     NewAddressForm(deps),
		logger:   deps.Logger.With().Str("component", "address_section").Logger(),
	}
}

// Form returns the section's add/edit form.
func (s *AddressSection) Form() *AddressForm {
	return s.form
}

// Addresses returns the list as last returned by the service.
func (s *AddressSection) Addresses() address.List {
	return s.store.Addresses()
}

// Refresh replaces the list with the service's current one.
func (s *AddressSection) Refresh(ctx context.Context) error {
	if _, err := s.sync.Load(ctx, s.session.Token()); err != nil {
		s.logger.Warn().Err(err).Msg("failed to load addresses")
		return err
	}
	return nil
}

// AddNew opens the form for a new address.
func (s *AddressSection) AddNew() error {
	return s.form.OpenAdd()
}

// Edit opens the form seeded with the stored address id.
func (s *AddressSection) Edit(id string) error {
	a, ok := s.store.Addresses().Find(id)
	if !ok {
		return domain.NotFound("address.edit", "address", id)
	}
	return s.form.OpenEdit(a)
}

// Select records the stored address id as the order's shipping address.
func (s *AddressSection) Select(ctx context.Context, id string) error {
	a, ok := s.store.Addresses().Find(id)
	if !ok {
		s.notifier.Error(ctx, msgSelectNotFound)
		return domain.NotFound("address.select", "address", id)
	}
	s.store.Dispatch(state.SetOrder{OrderAddress: a})
	return nil
}

// Selected returns the order address if it is still in the list.
func (s *AddressSection) Selected() (address.Address, bool) {
	st := s.store.State()
	if st.OrderDetails.OrderAddress == nil {
		return address.Address{}, false
	}
	return st.Addresses.Find(st.OrderDetails.OrderAddress.ID)
}

// Delete removes target from the service and notifies the outcome.
func (s *AddressSection) Delete(ctx context.Context, target address.Address) error {
	_, err := s.sync.Remove(ctx, target, s.session.Token())
	if err != nil {
		logger := s.logger.With().Err(err).Str("address_id", target.ID).Logger()
		switch {
		case domain.IsCode(err, domain.EUNAUTHORIZED), domain.IsCode(err, domain.EINVALID):
			logger.Info().Msg("address delete rejected")
			s.notifier.Error(ctx, domain.ErrorMessage(err))
		default:
			logger.Error().Msg("address delete failed")
			telemetry.CaptureError(err, map[string]interface{}{"op": domain.ErrorOp(err)})
			s.notifier.Error(ctx, MsgDeleteFailed)
		}
		return err
	}

	s.notifier.Success(ctx, target.Name+msgDeletedSuffix)
	return nil
}

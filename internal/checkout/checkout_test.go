package checkout

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/addressapi"
	"github.com/dukerupert/addressbook/internal/auth"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/notify"
	"github.com/dukerupert/addressbook/internal/service"
	"github.com/dukerupert/addressbook/internal/state"
	"github.com/dukerupert/addressbook/internal/telemetry"
)

// ============================================================================
// Fixture
// ============================================================================

type fixture struct {
	api      *addressapi.MockService
	store    *state.Store
	notes    *notify.Recorder
	metrics  *telemetry.AddressMetrics
	section  *AddressSection
	form     *AddressForm
	stored   address.List
	returned address.List
}

func newFixture(t *testing.T, token string) *fixture {
	t.Helper()

	f := &fixture{
		api:     &addressapi.MockService{},
		notes:   &notify.Recorder{},
		metrics: telemetry.NewAddressMetrics("test", prometheus.NewRegistry()),
		stored: address.List{
			{ID: "a1", Name: "Home Sweet", Street: "12 Baker Street", City: "London", State: "Greater London", Country: "England", Pincode: "100001", Phone: "0123456789"},
			{ID: "a2", Name: "Office Block", Street: "1 Infinite Loop", City: "Cupertino", State: "California", Country: "USA", Pincode: "950140", Phone: "408-996-1010"},
		},
		returned: address.List{{ID: "srv-1", Name: "From Server"}},
	}
	f.store = state.NewStore(state.State{Addresses: f.stored.Clone()})

	logger := zerolog.Nop()
	syncer := service.NewAddressSynchronizer(f.api, f.store, f.metrics, logger)
	f.section = NewAddressSection(f.store, FormDeps{
		Validator: address.NewBasicValidator(),
		Sync:      syncer,
		Notifier:  f.notes,
		Session:   auth.StaticSession(token),
		Metrics:   f.metrics,
		Logger:    logger,
	})
	f.form = f.section.Form()
	return f
}

func (f *fixture) lastNote(t *testing.T) notify.Message {
	t.Helper()
	m, ok := f.notes.Last()
	require.True(t, ok, "expected a notification")
	return m
}

// ============================================================================
// AddressForm
// ============================================================================

func TestAddressForm_AddSuccess(t *testing.T) {
	f := newFixture(t, "tok")
	f.api.AddFunc = func(ctx context.Context, addr address.Address, token auth.Token) (*addressapi.Response, error) {
		return &addressapi.Response{StatusCode: http.StatusCreated, Addresses: f.returned}, nil
	}

	require.NoError(t, f.section.AddNew())
	f.form.Prefill(address.SampleAddress())

	err := f.form.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, f.returned, f.store.Addresses())
	assert.False(t, f.form.IsOpen())
	assert.Equal(t, address.Address{}, f.form.Draft())
	assert.Equal(t, PhaseIdle, f.form.Phase())
	assert.Equal(t, notify.Message{Kind: notify.KindSuccess, Text: MsgAdded}, f.lastNote(t))
}

func TestAddressForm_EditSuccess(t *testing.T) {
	f := newFixture(t, "tok")

	var sent address.Address
	f.api.UpdateFunc = func(ctx context.Context, addr address.Address, token auth.Token) (*addressapi.Response, error) {
		sent = addr
		return &addressapi.Response{StatusCode: http.StatusOK, Addresses: f.returned}, nil
	}

	require.NoError(t, f.section.Edit("a2"))
	assert.Equal(t, ModeEdit, f.form.Mode())
	require.NoError(t, f.form.Set(address.FieldCity, "San Jose"))

	err := f.form.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "a2", sent.ID)
	assert.Equal(t, "San Jose", sent.City)
	assert.Equal(t, MsgUpdated, f.lastNote(t).Text)
	assert.False(t, f.form.IsOpen())
	assert.Equal(t, ModeAdd, f.form.Mode())
}

func TestAddressForm_ValidationFailureSkipsNetwork(t *testing.T) {
	f := newFixture(t, "tok")

	require.NoError(t, f.section.AddNew())
	f.form.Prefill(address.SampleAddress())
	require.NoError(t, f.form.Set(address.FieldName, "Jo"))

	err := f.form.Submit(context.Background())

	assert.Equal(t, address.FieldName, domain.FieldOf(err))
	assert.Zero(t, f.api.Calls)
	assert.True(t, f.form.IsOpen())
	assert.Equal(t, "Jo", f.form.Draft().Name, "draft kept for correction")
	assert.Equal(t, PhaseIdle, f.form.Phase())
	assert.Equal(t, notify.Message{
		Kind: notify.KindError,
		Text: "Name must be at least 3 characters and contain only letters.",
	}, f.lastNote(t))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ValidationFailures.WithLabelValues("name")))
}

func TestAddressForm_ServiceFailureKeepsDraft(t *testing.T) {
	f := newFixture(t, "tok")
	f.api.AddFunc = func(context.Context, address.Address, auth.Token) (*addressapi.Response, error) {
		return &addressapi.Response{StatusCode: http.StatusInternalServerError}, nil
	}

	require.NoError(t, f.section.AddNew())
	f.form.Prefill(address.SampleAddress())

	err := f.form.Submit(context.Background())

	assert.True(t, domain.IsCode(err, domain.EUNEXPECTED))
	assert.True(t, f.form.IsOpen())
	assert.Equal(t, address.SampleAddress(), f.form.Draft())
	assert.Equal(t, f.stored, f.store.Addresses())
	assert.Equal(t, notify.Message{Kind: notify.KindError, Text: MsgSubmitFailed}, f.lastNote(t))
	assert.Equal(t, PhaseIdle, f.form.Phase())
}

func TestAddressForm_MissingCredentials(t *testing.T) {
	f := newFixture(t, "")

	require.NoError(t, f.section.AddNew())
	f.form.Prefill(address.SampleAddress())

	err := f.form.Submit(context.Background())

	assert.ErrorIs(t, err, service.ErrMissingCredentials)
	assert.Zero(t, f.api.Calls)
	assert.Equal(t, "Please log in to manage your addresses.", f.lastNote(t).Text)
	assert.True(t, f.form.IsOpen())
}

func TestAddressForm_SubmitWhenClosed(t *testing.T) {
	f := newFixture(t, "tok")

	err := f.form.Submit(context.Background())

	assert.ErrorIs(t, err, ErrFormClosed)
	assert.Zero(t, f.api.Calls)
}

func TestAddressForm_RejectsConcurrentSubmit(t *testing.T) {
	f := newFixture(t, "tok")

	entered := make(chan struct{})
	release := make(chan struct{})
	f.api.AddFunc = func(context.Context, address.Address, auth.Token) (*addressapi.Response, error) {
		close(entered)
		<-release
		return &addressapi.Response{StatusCode: http.StatusCreated, Addresses: f.returned}, nil
	}

	require.NoError(t, f.section.AddNew())
	f.form.Prefill(address.SampleAddress())

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = f.form.Submit(context.Background())
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never reached the service")
	}

	assert.Equal(t, PhaseSubmitting, f.form.Phase())
	assert.ErrorIs(t, f.form.Submit(context.Background()), ErrSubmissionInFlight)
	assert.ErrorIs(t, f.form.Cancel(), ErrSubmissionInFlight)
	assert.ErrorIs(t, f.form.OpenAdd(), ErrSubmissionInFlight)

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, 1, f.api.Calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SubmissionsRejected.WithLabelValues("in_flight")))
}

func TestAddressForm_RejectsReopenWhileValidating(t *testing.T) {
	f := newFixture(t, "tok")

	entered := make(chan struct{})
	release := make(chan struct{})
	validator := &address.MockValidator{
		ValidateFunc: func(address.Address) error {
			close(entered)
			<-release
			return nil
		},
	}
	f.api.AddFunc = func(context.Context, address.Address, auth.Token) (*addressapi.Response, error) {
		return &addressapi.Response{StatusCode: http.StatusCreated, Addresses: f.returned}, nil
	}
	section := NewAddressSection(f.store, FormDeps{
		Validator: validator,
		Sync:      service.NewAddressSynchronizer(f.api, f.store, nil, zerolog.Nop()),
		Notifier:  f.notes,
		Session:   auth.StaticSession("tok"),
		Logger:    zerolog.Nop(),
	})
	form := section.Form()

	require.NoError(t, section.AddNew())
	form.Prefill(address.SampleAddress())

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("submission never reached validation")
	}

	assert.Equal(t, PhaseValidating, form.Phase())
	assert.ErrorIs(t, section.Edit("a1"), ErrSubmissionInFlight)
	assert.ErrorIs(t, section.AddNew(), ErrSubmissionInFlight)
	assert.ErrorIs(t, form.Cancel(), ErrSubmissionInFlight)
	assert.Equal(t, ModeAdd, form.Mode())

	close(release)
	require.NoError(t, <-done)

	assert.False(t, form.IsOpen())
	assert.Equal(t, PhaseIdle, form.Phase())
	require.NoError(t, section.Edit("srv-1"), "the form reopens once the submit resolves")
}

func TestAddressForm_CancelResetsDraft(t *testing.T) {
	f := newFixture(t, "tok")

	require.NoError(t, f.section.Edit("a1"))
	require.NoError(t, f.form.Set(address.FieldName, "Changed Name"))

	require.NoError(t, f.form.Cancel())

	assert.False(t, f.form.IsOpen())
	assert.Equal(t, address.Address{}, f.form.Draft())
	assert.Equal(t, "Home Sweet", f.store.Addresses()[0].Name, "cancel never touches the list")
}

func TestAddressForm_PrefillKeepsID(t *testing.T) {
	f := newFixture(t, "tok")

	require.NoError(t, f.section.Edit("a1"))
	f.form.Prefill(address.SampleAddress())

	got := f.form.Draft()
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "Aniket Saini", got.Name)
}

func TestAddressForm_OpenEditRequiresID(t *testing.T) {
	f := newFixture(t, "tok")

	assert.ErrorIs(t, f.form.OpenEdit(address.SampleAddress()), service.ErrMissingAddressID)
	assert.False(t, f.form.IsOpen())
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "validating", PhaseValidating.String())
	assert.Equal(t, "submitting", PhaseSubmitting.String())
}

// ============================================================================
// AddressSection
// ============================================================================

func TestAddressSection_DeleteSuccess(t *testing.T) {
	f := newFixture(t, "tok")
	f.api.RemoveFunc = func(ctx context.Context, id string, token auth.Token) (*addressapi.Response, error) {
		return &addressapi.Response{StatusCode: http.StatusOK, Addresses: address.List{}}, nil
	}

	err := f.section.Delete(context.Background(), f.stored[0])

	require.NoError(t, err)
	assert.Empty(t, f.section.Addresses())
	assert.Equal(t, notify.Message{Kind: notify.KindSuccess, Text: "Home Sweet's address successfully deleted!"}, f.lastNote(t))
}

func TestAddressSection_DeleteFailure(t *testing.T) {
	f := newFixture(t, "tok")
	f.api.RemoveFunc = func(context.Context, string, auth.Token) (*addressapi.Response, error) {
		return &addressapi.Response{StatusCode: http.StatusNotFound}, nil
	}

	err := f.section.Delete(context.Background(), f.stored[0])

	assert.True(t, domain.IsCode(err, domain.EUNEXPECTED))
	assert.Equal(t, f.stored, f.section.Addresses())
	assert.Equal(t, notify.Message{Kind: notify.KindError, Text: MsgDeleteFailed}, f.lastNote(t))
}

func TestAddressSection_SelectAndSelected(t *testing.T) {
	f := newFixture(t, "tok")

	_, ok := f.section.Selected()
	assert.False(t, ok)

	require.NoError(t, f.section.Select(context.Background(), "a2"))

	got, ok := f.section.Selected()
	assert.True(t, ok)
	assert.Equal(t, "Office Block", got.Name)
}

func TestAddressSection_SelectUnknown(t *testing.T) {
	f := newFixture(t, "tok")

	err := f.section.Select(context.Background(), "nope")

	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	assert.Nil(t, f.store.State().OrderDetails.OrderAddress)
	assert.Equal(t, notify.KindError, f.lastNote(t).Kind)
}

func TestAddressSection_SelectedDropsDeletedAddress(t *testing.T) {
	f := newFixture(t, "tok")
	f.api.RemoveFunc = func(context.Context, string, auth.Token) (*addressapi.Response, error) {
		return &addressapi.Response{StatusCode: http.StatusOK, Addresses: f.stored[1:].Clone()}, nil
	}

	require.NoError(t, f.section.Select(context.Background(), "a1"))
	require.NoError(t, f.section.Delete(context.Background(), f.stored[0]))

	_, ok := f.section.Selected()
	assert.False(t, ok)
}

func TestAddressSection_Refresh(t *testing.T) {
	f := newFixture(t, "tok")
	f.api.ListFunc = func(context.Context, auth.Token) (*addressapi.Response, error) {
		return &addressapi.Response{StatusCode: http.StatusOK, Addresses: f.returned}, nil
	}

	require.NoError(t, f.section.Refresh(context.Background()))
	assert.Equal(t, f.returned, f.section.Addresses())
}

func TestAddressSection_EditUnknown(t *testing.T) {
	f := newFixture(t, "tok")

	err := f.section.Edit("missing")

	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	assert.False(t, f.form.IsOpen())
}

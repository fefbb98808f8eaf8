package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dukerupert/addressbook/internal"
	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/addressapi"
	"github.com/dukerupert/addressbook/internal/auth"
	"github.com/dukerupert/addressbook/internal/checkout"
	"github.com/dukerupert/addressbook/internal/notify"
	"github.com/dukerupert/addressbook/internal/service"
	"github.com/dukerupert/addressbook/internal/state"
	"github.com/dukerupert/addressbook/internal/telemetry"
)

// app is one CLI invocation's checkout section and the notifications it
// produced.
type app struct {
	section *checkout.AddressSection
	store   *state.Store
	notes   *notify.Recorder
	flush   func()
}

type appBuilder func(cmd *cobra.Command) (*app, error)

// configuredApp builds the app from the environment, with --url and
// --token overriding ADDRESS_SERVICE_URL and ADDRESS_TOKEN.
func configuredApp(cmd *cobra.Command) (*app, error) {
	cfg, err := internal.NewClientConfig()
	if err != nil {
		return nil, fmt.Errorf("config initialization failed: %w", err)
	}

	if v, _ := cmd.Flags().GetString("url"); v != "" {
		cfg.AddressService.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		cfg.Token = v
	}

	logger := internal.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)

	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
		Debug:       cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("sentry initialization failed: %w", err)
	}

	a, err := newApp(cfg.AddressService, auth.StaticSession(cfg.Token), logger)
	if err != nil {
		flushSentry()
		return nil, err
	}
	a.flush = flushSentry
	return a, nil
}

func newApp(svc internal.AddressServiceConfig, session auth.Session, logger zerolog.Logger) (*app, error) {
	client, err := addressapi.NewClient(addressapi.ClientConfig{
		BaseURL: svc.BaseURL,
		Timeout: svc.Timeout,
		Logger:  &logger,
	})
	if err != nil {
		return nil, err
	}

	store := state.NewStore(state.State{})
	notes := &notify.Recorder{}
	syncer := service.NewAddressSynchronizer(client, store, nil, logger)

	section := checkout.NewAddressSection(store, checkout.FormDeps{
		Validator: address.NewBasicValidator(),
		Sync:      syncer,
		Notifier:  notify.Fanout{notify.NewLogNotifier(logger), notes},
		Session:   session,
		Logger:    logger,
	})

	return &app{section: section, store: store, notes: notes, flush: func() {}}, nil
}

// close flushes buffered error reports.
func (a *app) close() {
	a.flush()
}

// watch prints the address list each time a dispatch replaces it.
func (a *app) watch(w io.Writer) {
	a.store.Subscribe(func(s state.State) {
		printList(w, s.Addresses)
	})
}

// report prints every notification to w, one per line.
func (a *app) report(w io.Writer) {
	for _, m := range a.notes.Messages() {
		prefix := "ok"
		if m.Kind == notify.KindError {
			prefix = "error"
		}
		fmt.Fprintf(w, "%s: %s\n", prefix, m.Text)
	}
}

func printList(w io.Writer, list address.List) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No saved addresses.")
		return
	}
	for _, a := range list {
		fmt.Fprintf(w, "%s\t%s\n\t%s\n", a.ID, a.Name, a.Summary())
	}
}

package picket

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/picket/pkg/adapters/memory"
	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/encoder"
	"github.com/aretw0/picket/pkg/ports"
	"github.com/aretw0/picket/pkg/session"
)

// App is the high-level entry point for the Picket library.
// It wraps the encoder and session management and provides a simplified API
// for hosts embedding the server side of the protocol.
type App struct {
	encoder  *encoder.Encoder
	sessions *session.Manager
	store    ports.StateStore
	locker   ports.DistributedLocker
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	Name     string
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithStore injects a custom StateStore, bypassing the default in-memory one.
func WithStore(store ports.StateStore) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithLocker sets a distributed locker for multi-instance deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(a *App) {
		a.locker = locker
	}
}

// WithLogger sets a custom structured logger for the app.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New initializes a new Picket App.
// By default, session state lives in an in-memory store; use WithStore to
// persist it elsewhere.
func New(name string, opts ...Option) *App {
	app := &App{Name: name}

	for _, opt := range opts {
		opt(app)
	}

	if app.store == nil {
		app.store = memory.NewStore()
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if app.Name != "" {
		app.logger = app.logger.With("app", app.Name)
	}

	sessionOpts := []session.Option{session.WithLogger(app.logger)}
	if app.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(app.locker))
	}
	app.sessions = session.NewManager(app.store, sessionOpts...)

	app.encoder = encoder.New(app.sessions,
		encoder.WithHooks(app.hooks),
		encoder.WithLogger(app.logger),
	)

	return app
}

// BeginRun starts a new rerun pass for the session. Widgets not re-encoded
// during the pass lose their registration and later updates for them are
// rejected.
func (a *App) BeginRun(sessionID string) {
	a.encoder.BeginRun(sessionID)
}

// Encode resolves a widget's current value and returns the wire descriptor
// plus the value the host's script call should return.
func (a *App) Encode(ctx context.Context, sessionID string, req encoder.EncodeRequest) (domain.WidgetDescriptor, []uint32, error) {
	return a.encoder.Encode(ctx, sessionID, req)
}

// ApplyUpdate validates and commits a value-update message from a frontend.
func (a *App) ApplyUpdate(ctx context.Context, sessionID string, update domain.ValueUpdate) error {
	return a.encoder.HandleUpdate(ctx, sessionID, update)
}

// Values returns the committed widget values of a session.
func (a *App) Values(ctx context.Context, sessionID string) (map[string][]uint32, error) {
	return a.encoder.Values(ctx, sessionID)
}

// EndSession evicts all state associated with the session.
func (a *App) EndSession(ctx context.Context, sessionID string) error {
	return a.encoder.EndSession(ctx, sessionID)
}

// Encoder returns the underlying encoder, for adapters that serve it directly.
func (a *App) Encoder() *encoder.Encoder {
	return a.encoder
}

// Sessions returns the underlying session manager.
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

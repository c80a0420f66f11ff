package encoder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/picket/internal/logging"
	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/session"
)

// EncodeRequest carries the developer's widget call for one rerun pass.
type EncodeRequest struct {
	// ID is the stable instance key assigned by the rerun engine.
	ID string

	// Options is the ordered option list.
	Options []domain.Option

	// Default seeds the selection when no committed value exists.
	Default []uint32

	// Disabled freezes the committed value; the client still renders controls.
	Disabled bool

	// ClickMode selects single or multi selection semantics.
	ClickMode domain.ClickMode

	// FormID defers commits to an external form submission. Empty = no form.
	FormID string

	// Visualization is a pure rendering hint.
	Visualization domain.SelectionVisualization

	// Value, when non-nil, is a programmatic set: it becomes both the value
	// returned to the script and the pushed descriptor value (SetValue=true).
	Value []uint32
}

// interest records what the encoder needs to validate future value updates
// for one widget.
type interest struct {
	optionCount uint32
	clickMode   domain.ClickMode
	formID      string
}

// Encoder produces widget descriptors and merges committed values into
// session state between script reruns.
type Encoder struct {
	sessions *session.Manager
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	mu       sync.Mutex
	interest map[string]map[string]interest // sessionID -> widgetID -> interest
}

// Option configures the Encoder.
type Option func(*Encoder)

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Encoder) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Encoder) {
		e.logger = logger
	}
}

// New creates an Encoder backed by the given session manager.
func New(sessions *session.Manager, opts ...Option) *Encoder {
	e := &Encoder{
		sessions: sessions,
		logger:   logging.NewNop(),
		interest: make(map[string]map[string]interest),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BeginRun resets the registered interest for a session at the start of a
// rerun pass. Widgets the script no longer encodes drop out, so stale IDs
// stop accepting updates.
func (e *Encoder) BeginRun(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interest[sessionID] = make(map[string]interest)
}

// Encode validates the request, produces the wire descriptor, and resolves
// the value the script call returns. Validation failures surface as
// *ConfigurationError.
func (e *Encoder) Encode(ctx context.Context, sessionID string, req EncodeRequest) (domain.WidgetDescriptor, []uint32, error) {
	if req.ID == "" {
		return domain.WidgetDescriptor{}, nil, &ConfigurationError{Field: "id", Reason: "widget ID must not be empty"}
	}
	if err := e.validate(req); err != nil {
		return domain.WidgetDescriptor{}, nil, err
	}

	desc := domain.WidgetDescriptor{
		ID:                     req.ID,
		Options:                append([]domain.Option(nil), req.Options...),
		Default:                append([]uint32(nil), req.Default...),
		Disabled:               req.Disabled,
		ClickMode:              req.ClickMode,
		FormID:                 req.FormID,
		SelectionVisualization: req.Visualization,
	}

	var resolved []uint32
	if req.Value != nil {
		// Programmatic set: the pushed value wins and becomes the committed
		// value immediately.
		desc.Value = append([]uint32(nil), req.Value...)
		desc.SetValue = true
		resolved = append([]uint32(nil), req.Value...)
		if err := e.sessions.Commit(ctx, sessionID, req.ID, req.Value); err != nil {
			return domain.WidgetDescriptor{}, nil, fmt.Errorf("failed to commit pushed value: %w", err)
		}
		e.fire(ctx, e.hooks.OnOverride, domain.EventOverride, sessionID, req.ID,
			interest{clickMode: req.ClickMode, formID: req.FormID}, resolved)
	} else {
		state, err := e.sessions.LoadOrInit(ctx, sessionID)
		if err != nil {
			return domain.WidgetDescriptor{}, nil, fmt.Errorf("failed to resolve session state: %w", err)
		}
		if committed, ok := state.Values[req.ID]; ok {
			resolved = append([]uint32(nil), committed...)
		} else {
			resolved = append([]uint32(nil), req.Default...)
		}
	}

	e.register(sessionID, req)
	e.fireEncode(ctx, sessionID, desc, resolved)

	return desc, resolved, nil
}

// HandleUpdate merges an incoming value-update message into session state so
// the next rerun resolves it as the committed value. Updates for widgets the
// current pass never encoded, or carrying out-of-range indices, fail loudly.
func (e *Encoder) HandleUpdate(ctx context.Context, sessionID string, update domain.ValueUpdate) error {
	e.mu.Lock()
	reg, ok := e.interest[sessionID][update.ID]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("update for session %q: widget %q: %w", sessionID, update.ID, domain.ErrWidgetNotFound)
	}

	for _, idx := range update.Value {
		if idx >= reg.optionCount {
			return fmt.Errorf("update for widget %q: index %d out of range [0,%d): %w",
				update.ID, idx, reg.optionCount, domain.ErrIndexOutOfRange)
		}
	}
	if reg.clickMode == domain.SingleSelect && len(update.Value) > 1 {
		return fmt.Errorf("update for widget %q: %d indices under single select", update.ID, len(update.Value))
	}

	if err := e.sessions.Commit(ctx, sessionID, update.ID, update.Value); err != nil {
		return fmt.Errorf("failed to commit update: %w", err)
	}

	e.fire(ctx, e.hooks.OnCommit, domain.EventCommit, sessionID, update.ID, reg, update.Value)
	e.logger.Debug("value update committed",
		"session_id", sessionID,
		"widget_id", update.ID,
		"value", update.Value,
	)
	return nil
}

// Values returns the committed values for a session.
func (e *Encoder) Values(ctx context.Context, sessionID string) (map[string][]uint32, error) {
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return state.Values, nil
}

// Value returns the committed value of one widget. It returns
// domain.ErrValueNotFound when the session exists but the widget has no
// committed value yet.
func (e *Encoder) Value(ctx context.Context, sessionID, widgetID string) ([]uint32, error) {
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	value, ok := state.Values[widgetID]
	if !ok {
		return nil, fmt.Errorf("widget %q: %w", widgetID, domain.ErrValueNotFound)
	}
	return value, nil
}

// EndSession evicts the session's committed state and registered interest.
func (e *Encoder) EndSession(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	delete(e.interest, sessionID)
	e.mu.Unlock()
	return e.sessions.Delete(ctx, sessionID)
}

func (e *Encoder) validate(req EncodeRequest) error {
	n := uint32(len(req.Options))

	for _, idx := range req.Default {
		if idx >= n {
			return &ConfigurationError{
				WidgetID: req.ID,
				Field:    "default",
				Reason:   fmt.Sprintf("index %d out of range [0,%d)", idx, n),
			}
		}
	}
	if req.ClickMode == domain.SingleSelect && len(req.Default) > 1 {
		return &ConfigurationError{
			WidgetID: req.ID,
			Field:    "default",
			Reason:   fmt.Sprintf("%d defaults given under single select, want at most 1", len(req.Default)),
		}
	}

	for _, idx := range req.Value {
		if idx >= n {
			return &ConfigurationError{
				WidgetID: req.ID,
				Field:    "value",
				Reason:   fmt.Sprintf("index %d out of range [0,%d)", idx, n),
			}
		}
	}
	if req.ClickMode == domain.SingleSelect && len(req.Value) > 1 {
		return &ConfigurationError{
			WidgetID: req.ID,
			Field:    "value",
			Reason:   fmt.Sprintf("%d values pushed under single select, want at most 1", len(req.Value)),
		}
	}
	return nil
}

func (e *Encoder) register(sessionID string, req EncodeRequest) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.interest[sessionID] == nil {
		e.interest[sessionID] = make(map[string]interest)
	}
	e.interest[sessionID][req.ID] = interest{
		optionCount: uint32(len(req.Options)),
		clickMode:   req.ClickMode,
		formID:      req.FormID,
	}
}

func (e *Encoder) fire(ctx context.Context, hook func(context.Context, *domain.WidgetEvent), typ domain.EventType, sessionID, widgetID string, reg interest, value []uint32) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.WidgetEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
			SessionID: sessionID,
		},
		WidgetID:  widgetID,
		ClickMode: reg.clickMode,
		Value:     value,
		FormID:    reg.formID,
	})
}

func (e *Encoder) fireEncode(ctx context.Context, sessionID string, desc domain.WidgetDescriptor, resolved []uint32) {
	if e.hooks.OnEncode == nil {
		return
	}
	e.hooks.OnEncode(ctx, &domain.WidgetEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventEncode,
			SessionID: sessionID,
		},
		WidgetID:  desc.ID,
		ClickMode: desc.ClickMode,
		Value:     resolved,
		FormID:    desc.FormID,
	})
}

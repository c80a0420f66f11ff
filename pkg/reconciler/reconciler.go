package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/picket/internal/logging"
	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/ports"
)

// phase tracks where a widget instance is in its lifecycle.
type phase string

const (
	// phaseDefaulted means the selection was seeded from defaults or a
	// server-pushed value and the user has not touched it yet.
	phaseDefaulted phase = "defaulted"
	// phaseInteracted means the user has clicked at least once.
	phaseInteracted phase = "interacted"
)

// widgetState is the reconciler-owned mutable state for one widget instance.
type widgetState struct {
	desc      domain.WidgetDescriptor
	selection map[uint32]struct{}
	phase     phase

	// pending is set when a form-scoped widget has buffered an unsent value.
	pending  bool
	buffered []uint32
}

// Reconciler owns the client-side widget state, keyed by descriptor ID.
// State is created on first sighting of an ID, updated on every interaction
// and server push, and destroyed when the ID no longer appears in a render
// pass.
type Reconciler struct {
	sink    ports.UpdateSink
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	widgets map[string]*widgetState
}

// Option configures the Reconciler.
type Option func(*Reconciler)

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Reconciler) {
		r.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler that delivers value updates to sink.
func New(sink ports.UpdateSink, opts ...Option) *Reconciler {
	r := &Reconciler{
		sink:    sink,
		logger:  logging.NewNop(),
		widgets: make(map[string]*widgetState),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply merges one incoming descriptor into local state.
//
// A new ID seeds selection from the pushed value (when SetValue) or the
// defaults. For a known ID, SetValue=true with a differing value overwrites
// local selection unconditionally — server-pushed state wins over unsynced
// interaction. SetValue=false never clobbers local selection, including
// form-pending buffers.
func (r *Reconciler) Apply(ctx context.Context, desc domain.WidgetDescriptor) error {
	if err := desc.Validate(); err != nil {
		return &ContractError{WidgetID: desc.ID, Reason: err.Error(), Err: err}
	}

	st, ok := r.widgets[desc.ID]
	if ok && !coversSelection(desc, st.selection) {
		// The option list no longer covers the live selection. The ID was
		// reused for a structurally different widget; start over.
		ok = false
	}

	if !ok {
		st = &widgetState{
			desc:  desc,
			phase: phaseDefaulted,
		}
		if desc.SetValue {
			st.selection = setOf(desc.Value)
		} else {
			st.selection = setOf(desc.Default)
		}
		r.widgets[desc.ID] = st
		return nil
	}

	st.desc = desc
	if desc.SetValue && !sameSet(st.selection, desc.Value) {
		st.selection = setOf(desc.Value)
		st.phase = phaseDefaulted
		st.pending = false
		st.buffered = nil
		r.fire(ctx, r.hooks.OnOverride, domain.EventOverride, st)
	}
	return nil
}

// Sync applies a full render pass and destroys state for every widget whose
// descriptor no longer appears (the widget was removed from the script).
func (r *Reconciler) Sync(ctx context.Context, pass []domain.WidgetDescriptor) error {
	seen := make(map[string]struct{}, len(pass))
	for _, desc := range pass {
		if err := r.Apply(ctx, desc); err != nil {
			return err
		}
		seen[desc.ID] = struct{}{}
	}
	for id := range r.widgets {
		if _, ok := seen[id]; !ok {
			delete(r.widgets, id)
		}
	}
	return nil
}

// Click processes a user click on option index of widget id.
//
// A click on an index outside the option range is an internal contract
// violation — the rendering layer must never produce such an event — and
// panics rather than clamping, to avoid masking corrupted state.
func (r *Reconciler) Click(ctx context.Context, id string, index uint32) error {
	st, ok := r.widgets[id]
	if !ok {
		return fmt.Errorf("click on widget %q: %w", id, domain.ErrWidgetNotFound)
	}
	if n := uint32(len(st.desc.Options)); index >= n {
		panic(fmt.Sprintf("reconciler: click index %d out of range [0,%d) for widget %q", index, n, id))
	}

	if st.desc.Disabled {
		// The UI may show the press visually, but the value is frozen:
		// no state mutation, no outbound message.
		r.logger.Debug("click ignored on disabled widget", "widget_id", id, "index", index)
		return nil
	}

	switch st.desc.ClickMode {
	case domain.SingleSelect:
		if _, selected := st.selection[index]; selected {
			// Toggle-off is permitted.
			delete(st.selection, index)
		} else {
			st.selection = map[uint32]struct{}{index: {}}
		}
	case domain.MultiSelect:
		if _, selected := st.selection[index]; selected {
			delete(st.selection, index)
		} else {
			st.selection[index] = struct{}{}
		}
	}

	st.phase = phaseInteracted
	r.fire(ctx, r.hooks.OnInteraction, domain.EventInteraction, st)

	if st.desc.FormID == "" {
		r.emit(ctx, st)
		return nil
	}

	// Form-scoped: buffer locally, emit only when the form submits.
	st.buffered = sortedSlice(st.selection)
	st.pending = true
	return nil
}

// SubmitForm flushes the buffered value of every touched widget scoped to
// formID in one batch: exactly one value-update message per widget with
// pending changes.
func (r *Reconciler) SubmitForm(ctx context.Context, formID string) {
	ids := make([]string, 0, len(r.widgets))
	for id, st := range r.widgets {
		if st.desc.FormID == formID && st.pending {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		st := r.widgets[id]
		st.pending = false
		r.emit(ctx, st)
	}
}

// Selection returns the current selection for a widget, sorted ascending.
func (r *Reconciler) Selection(id string) ([]uint32, bool) {
	st, ok := r.widgets[id]
	if !ok {
		return nil, false
	}
	return sortedSlice(st.selection), true
}

// FormPending reports whether the widget holds buffered, unsent changes.
func (r *Reconciler) FormPending(id string) bool {
	st, ok := r.widgets[id]
	return ok && st.pending
}

// emit sends the current committed selection. Sends are fire-and-forget:
// transport failures are logged, never retried at this layer.
func (r *Reconciler) emit(ctx context.Context, st *widgetState) {
	value := st.buffered
	if value == nil {
		value = sortedSlice(st.selection)
	}
	update := domain.ValueUpdate{ID: st.desc.ID, Value: value}
	if err := r.sink.Send(ctx, update); err != nil {
		r.logger.Warn("failed to send value update",
			"widget_id", st.desc.ID,
			"err", err,
		)
		return
	}
	st.buffered = nil
	r.fire(ctx, r.hooks.OnCommit, domain.EventCommit, st)
}

func (r *Reconciler) fire(ctx context.Context, hook func(context.Context, *domain.WidgetEvent), typ domain.EventType, st *widgetState) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.WidgetEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
		},
		WidgetID:  st.desc.ID,
		ClickMode: st.desc.ClickMode,
		Value:     sortedSlice(st.selection),
		FormID:    st.desc.FormID,
	})
}

// coversSelection reports whether every selected index is a valid option
// index in the descriptor.
func coversSelection(desc domain.WidgetDescriptor, selection map[uint32]struct{}) bool {
	n := uint32(len(desc.Options))
	for idx := range selection {
		if idx >= n {
			return false
		}
	}
	return true
}

func setOf(indices []uint32) map[uint32]struct{} {
	set := make(map[uint32]struct{}, len(indices))
	for _, idx := range indices {
		set[idx] = struct{}{}
	}
	return set
}

func sortedSlice(set map[uint32]struct{}) []uint32 {
	out := make([]uint32, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sameSet(set map[uint32]struct{}, indices []uint32) bool {
	if len(set) != len(indices) {
		return false
	}
	for _, idx := range indices {
		if _, ok := set[idx]; !ok {
			return false
		}
	}
	return true
}

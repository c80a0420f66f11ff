package domain

import "fmt"

// ClickMode governs the cardinality of the selection set and toggle semantics.
type ClickMode int32

const (
	// SingleSelect keeps at most one index selected; clicking the selected
	// option again deselects it.
	SingleSelect ClickMode = 0
	// MultiSelect toggles membership of the clicked index.
	MultiSelect ClickMode = 1
)

// String returns the human-readable mode name.
func (m ClickMode) String() string {
	switch m {
	case SingleSelect:
		return "single_select"
	case MultiSelect:
		return "multi_select"
	default:
		return fmt.Sprintf("click_mode(%d)", int32(m))
	}
}

// SelectionVisualization is a rendering hint. It carries no effect on the
// logical value.
type SelectionVisualization int32

const (
	// OnlySelected renders selected options with their selected label and
	// everything else with the plain label.
	OnlySelected SelectionVisualization = 0
	// AllUpToSelected renders options from index 0 up to the highest selected
	// index, for progress/step-indicator style widgets.
	AllUpToSelected SelectionVisualization = 1
)

// String returns the human-readable visualization name.
func (v SelectionVisualization) String() string {
	switch v {
	case OnlySelected:
		return "only_selected"
	case AllUpToSelected:
		return "all_up_to_selected"
	default:
		return fmt.Sprintf("selection_visualization(%d)", int32(v))
	}
}

// Option is a single selectable entry of a widget.
type Option struct {
	// Content is the label shown while the option is not selected.
	Content string `json:"content"`

	// SelectedContent overrides Content while the option is selected.
	// Empty means "use Content".
	SelectedContent string `json:"selectedContent,omitempty"`
}

// Label returns the label to display for the given selection state.
func (o Option) Label(selected bool) string {
	if selected && o.SelectedContent != "" {
		return o.SelectedContent
	}
	return o.Content
}

// WidgetDescriptor identifies and describes one widget instance for a single
// script-run pass. It is immutable once produced by the encoder.
//
// Indices into Options are the only identity options have; options are not
// otherwise unique.
type WidgetDescriptor struct {
	// ID is an opaque key, stable across reruns that produce an equivalent
	// widget. The ID assignment scheme is the rerun engine's responsibility.
	ID string `json:"id"`

	// Options is the ordered option list.
	Options []Option `json:"options"`

	// Default seeds the selection when no committed value exists. Multiple
	// entries are only meaningful under MultiSelect.
	Default []uint32 `json:"default,omitempty"`

	// Disabled renders controls but rejects all interaction-driven changes.
	Disabled bool `json:"disabled,omitempty"`

	// ClickMode selects single or multi selection semantics.
	ClickMode ClickMode `json:"clickMode"`

	// FormID ties commit timing to an external form submission event.
	// Empty means "commit immediately on interaction".
	FormID string `json:"formId,omitempty"`

	// Value is the selection the server asserts as current. Only meaningful
	// when SetValue is true.
	Value []uint32 `json:"value,omitempty"`

	// SetValue distinguishes "server is authoritatively pushing Value" from
	// "no opinion, defer to client-held state or defaults".
	SetValue bool `json:"setValue,omitempty"`

	// SelectionVisualization is a pure rendering hint.
	SelectionVisualization SelectionVisualization `json:"selectionVisualization,omitempty"`
}

// Validate checks the descriptor's internal index invariants: Default and
// Value must be subsets of [0, len(Options)), and under SingleSelect a pushed
// Value may hold at most one index.
func (d WidgetDescriptor) Validate() error {
	n := uint32(len(d.Options))
	for _, idx := range d.Default {
		if idx >= n {
			return fmt.Errorf("widget %q: default index %d out of range [0,%d): %w", d.ID, idx, n, ErrIndexOutOfRange)
		}
	}
	for _, idx := range d.Value {
		if idx >= n {
			return fmt.Errorf("widget %q: value index %d out of range [0,%d): %w", d.ID, idx, n, ErrIndexOutOfRange)
		}
	}
	if d.ClickMode == SingleSelect && len(d.Value) > 1 {
		return fmt.Errorf("widget %q: %d values pushed under single select", d.ID, len(d.Value))
	}
	return nil
}

package reconciler

import (
	"fmt"

	"github.com/aretw0/picket/pkg/domain"
)

// RenderedOption is one option row the rendering substrate should display.
// The substrate turns these into clickable elements and reports index-based
// click events back.
type RenderedOption struct {
	// Index is the option's position in the descriptor's option list. Click
	// events must carry this index, not the rendered position.
	Index uint32

	// Label is the content to display, already resolved against the
	// selection state.
	Label string

	// Selected reports whether the option is part of the current selection.
	Selected bool
}

// Render resolves the option rows for a widget according to its
// visualization hint. The hint is purely presentational; it never affects
// the logical value.
//
// Under OnlySelected every option renders, using the selected label for
// selected options. Under AllUpToSelected only indices 0 through the highest
// selected index render: selected options use the selected label, interstitial
// unselected ones the plain label, and everything past the highest selected
// index is omitted entirely. An empty selection renders nothing.
func (r *Reconciler) Render(id string) ([]RenderedOption, error) {
	st, ok := r.widgets[id]
	if !ok {
		return nil, fmt.Errorf("render of widget %q: %w", id, domain.ErrWidgetNotFound)
	}

	switch st.desc.SelectionVisualization {
	case domain.AllUpToSelected:
		return renderUpToSelected(st), nil
	default:
		return renderOnlySelected(st), nil
	}
}

func renderOnlySelected(st *widgetState) []RenderedOption {
	out := make([]RenderedOption, len(st.desc.Options))
	for i, opt := range st.desc.Options {
		idx := uint32(i)
		_, selected := st.selection[idx]
		out[i] = RenderedOption{
			Index:    idx,
			Label:    opt.Label(selected),
			Selected: selected,
		}
	}
	return out
}

func renderUpToSelected(st *widgetState) []RenderedOption {
	if len(st.selection) == 0 {
		return nil
	}

	var highest uint32
	for idx := range st.selection {
		if idx > highest {
			highest = idx
		}
	}

	out := make([]RenderedOption, 0, highest+1)
	for i := uint32(0); i <= highest; i++ {
		_, selected := st.selection[i]
		out = append(out, RenderedOption{
			Index:    i,
			Label:    st.desc.Options[i].Label(selected),
			Selected: selected,
		})
	}
	return out
}

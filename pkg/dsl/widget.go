package dsl

import (
	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/encoder"
)

// WidgetBuilder provides a fluent API for configuring a widget.
type WidgetBuilder struct {
	req     encoder.EncodeRequest
	builder *PageBuilder
}

// Option appends one selectable option. An empty selectedContent falls back
// to content when the option is selected.
func (w *WidgetBuilder) Option(content, selectedContent string) *WidgetBuilder {
	w.req.Options = append(w.req.Options, domain.Option{
		Content:         content,
		SelectedContent: selectedContent,
	})
	return w
}

// Options appends plain options without a selected variant.
func (w *WidgetBuilder) Options(contents ...string) *WidgetBuilder {
	for _, c := range contents {
		w.req.Options = append(w.req.Options, domain.Option{Content: c})
	}
	return w
}

// Default sets the indices selected before any interaction.
func (w *WidgetBuilder) Default(indices ...uint32) *WidgetBuilder {
	w.req.Default = indices
	return w
}

// Disabled freezes the widget: it still renders, but clicks are ignored.
func (w *WidgetBuilder) Disabled() *WidgetBuilder {
	w.req.Disabled = true
	return w
}

// SingleSelect keeps at most one index selected.
func (w *WidgetBuilder) SingleSelect() *WidgetBuilder {
	w.req.ClickMode = domain.SingleSelect
	return w
}

// MultiSelect toggles membership of clicked indices.
func (w *WidgetBuilder) MultiSelect() *WidgetBuilder {
	w.req.ClickMode = domain.MultiSelect
	return w
}

// InForm scopes the widget to a form: interactions stay pending until the
// form is submitted.
func (w *WidgetBuilder) InForm(formID string) *WidgetBuilder {
	w.req.FormID = formID
	return w
}

// UpToSelected renders options from index 0 up to the highest selected one.
func (w *WidgetBuilder) UpToSelected() *WidgetBuilder {
	w.req.Visualization = domain.AllUpToSelected
	return w
}

// Push sets a programmatic value for this pass, overriding any committed
// interaction.
func (w *WidgetBuilder) Push(indices ...uint32) *WidgetBuilder {
	if indices == nil {
		indices = []uint32{}
	}
	w.req.Value = indices
	return w
}

// Widget starts configuring another widget on the same page.
func (w *WidgetBuilder) Widget(id string) *WidgetBuilder {
	return w.builder.Widget(id)
}

// Build compiles the whole page, like PageBuilder.Build.
func (w *WidgetBuilder) Build() []encoder.EncodeRequest {
	return w.builder.Build()
}

// Request returns the underlying encode request.
// This is primarily used by the PageBuilder, but exposed for advanced usage.
func (w *WidgetBuilder) Request() encoder.EncodeRequest {
	return w.req
}

package dsl

import (
	"github.com/aretw0/picket/pkg/encoder"
)

// PageBuilder manages the page construction. Widgets keep the order they
// were added in, which is the order the page encodes them.
type PageBuilder struct {
	order   []string
	widgets map[string]*WidgetBuilder
}

// NewPage creates a new page builder.
func NewPage() *PageBuilder {
	return &PageBuilder{
		widgets: make(map[string]*WidgetBuilder),
	}
}

// Widget creates a new widget on the page.
// If the widget already exists, it returns the existing builder.
func (b *PageBuilder) Widget(id string) *WidgetBuilder {
	if wb, ok := b.widgets[id]; ok {
		return wb
	}
	wb := &WidgetBuilder{
		req:     encoder.EncodeRequest{ID: id},
		builder: b,
	}
	b.order = append(b.order, id)
	b.widgets[id] = wb
	return wb
}

// Build compiles the page into the encode requests of one rerun pass.
func (b *PageBuilder) Build() []encoder.EncodeRequest {
	page := make([]encoder.EncodeRequest, 0, len(b.order))
	for _, id := range b.order {
		page = append(page, b.widgets[id].req)
	}
	return page
}

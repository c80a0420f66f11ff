package tui

import (
	"context"
	"testing"

	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/ports"
	"github.com/aretw0/picket/pkg/reconciler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nopSink = ports.UpdateSinkFunc(func(ctx context.Context, update domain.ValueUpdate) error {
	return nil
})

func TestWidgetRenderer_GlyphExpansion(t *testing.T) {
	rec := reconciler.New(nopSink)
	require.NoError(t, rec.Apply(context.Background(), domain.WidgetDescriptor{
		ID: "feedback",
		Options: []domain.Option{
			{Content: ":star_outline: One", SelectedContent: ":star: One"},
			{Content: ":star_outline: Two", SelectedContent: ":star: Two"},
		},
		Default:   []uint32{1},
		ClickMode: domain.SingleSelect,
	}))

	r := NewWidgetRenderer(DefaultGlyphs())
	out := r.Render(rec, "feedback")

	assert.Contains(t, out, "★ Two")
	assert.Contains(t, out, "☆ One")
	assert.NotContains(t, out, ":star:")
}

func TestWidgetRenderer_UnknownTokenPassesThrough(t *testing.T) {
	rec := reconciler.New(nopSink)
	require.NoError(t, rec.Apply(context.Background(), domain.WidgetDescriptor{
		ID:      "w",
		Options: []domain.Option{{Content: ":no_such_glyph: label"}},
	}))

	r := NewWidgetRenderer(DefaultGlyphs())
	out := r.Render(rec, "w")

	assert.Contains(t, out, ":no_such_glyph: label")
}

func TestWidgetRenderer_UnknownWidget(t *testing.T) {
	r := NewWidgetRenderer(DefaultGlyphs())
	assert.Empty(t, r.Render(reconciler.New(nopSink), "missing"))
}

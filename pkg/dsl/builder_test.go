package dsl

import (
	"testing"

	"github.com/aretw0/picket/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_Order(t *testing.T) {
	page := NewPage().
		Widget("rating").Options("1", "2", "3").SingleSelect().
		Widget("topics").Options("docs", "api").MultiSelect().InForm("survey").
		Build()

	require.Len(t, page, 2)
	assert.Equal(t, "rating", page[0].ID)
	assert.Equal(t, "topics", page[1].ID)
	assert.Equal(t, domain.MultiSelect, page[1].ClickMode)
	assert.Equal(t, "survey", page[1].FormID)
}

func TestWidget_Reopen(t *testing.T) {
	b := NewPage()
	b.Widget("w").Options("a")
	b.Widget("w").Options("b").Default(1)

	page := b.Build()
	require.Len(t, page, 1)
	require.Len(t, page[0].Options, 2)
	assert.Equal(t, []uint32{1}, page[0].Default)
}

func TestWidget_SelectedVariantAndPush(t *testing.T) {
	page := NewPage().
		Widget("stars").
		Option(":star_outline:", ":star:").
		Option(":star_outline:", ":star:").
		SingleSelect().
		UpToSelected().
		Push(1).
		Build()

	req := page[0]
	assert.Equal(t, domain.AllUpToSelected, req.Visualization)
	assert.Equal(t, []uint32{1}, req.Value)
	assert.Equal(t, ":star:", req.Options[1].SelectedContent)
}

func TestWidget_PushEmptyClears(t *testing.T) {
	page := NewPage().Widget("w").Options("a").Push().Build()

	require.NotNil(t, page[0].Value)
	assert.Empty(t, page[0].Value)
}

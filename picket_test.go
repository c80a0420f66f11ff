package picket_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/picket"
	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/encoder"
	"github.com/aretw0/picket/pkg/ports"
	"github.com/aretw0/picket/pkg/reconciler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingOptions() []domain.Option {
	return []domain.Option{
		{Content: "1", SelectedContent: "1*"},
		{Content: "2", SelectedContent: "2*"},
		{Content: "3", SelectedContent: "3*"},
	}
}

func TestApp_RoundTrip(t *testing.T) {
	ctx := context.Background()
	app := picket.New("survey")

	rec := reconciler.New(ports.UpdateSinkFunc(func(ctx context.Context, update domain.ValueUpdate) error {
		return app.ApplyUpdate(ctx, "s1", update)
	}))

	req := encoder.EncodeRequest{
		ID:        "rating",
		Options:   ratingOptions(),
		Default:   []uint32{0},
		ClickMode: domain.SingleSelect,
	}

	// First rerun pass: defaults resolve.
	app.BeginRun("s1")
	desc, value, err := app.Encode(ctx, "s1", req)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, value)

	require.NoError(t, rec.Apply(ctx, desc))

	// The user picks option 2; the sink commits it server-side.
	require.NoError(t, rec.Click(ctx, "rating", 2))

	// The next pass observes the interaction instead of the default.
	app.BeginRun("s1")
	_, value, err = app.Encode(ctx, "s1", req)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, value)

	values, err := app.Values(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, values["rating"])
}

func TestApp_FormDeferredCommit(t *testing.T) {
	ctx := context.Background()
	app := picket.New("survey")

	rec := reconciler.New(ports.UpdateSinkFunc(func(ctx context.Context, update domain.ValueUpdate) error {
		return app.ApplyUpdate(ctx, "s1", update)
	}))

	req := encoder.EncodeRequest{
		ID:        "topics",
		Options:   ratingOptions(),
		ClickMode: domain.MultiSelect,
		FormID:    "signup",
	}

	app.BeginRun("s1")
	desc, _, err := app.Encode(ctx, "s1", req)
	require.NoError(t, err)
	require.NoError(t, rec.Apply(ctx, desc))

	// Clicks inside a form stay pending until submit.
	require.NoError(t, rec.Click(ctx, "topics", 0))
	require.NoError(t, rec.Click(ctx, "topics", 2))

	values, err := app.Values(ctx, "s1")
	require.NoError(t, err)
	assert.NotContains(t, values, "topics")
	assert.True(t, rec.FormPending("topics"))

	rec.SubmitForm(ctx, "signup")

	values, err = app.Values(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, values["topics"])
}

func TestApp_ServerOverride(t *testing.T) {
	ctx := context.Background()
	app := picket.New("survey")

	req := encoder.EncodeRequest{
		ID:        "rating",
		Options:   ratingOptions(),
		Default:   []uint32{0},
		ClickMode: domain.SingleSelect,
	}

	app.BeginRun("s1")
	_, _, err := app.Encode(ctx, "s1", req)
	require.NoError(t, err)

	require.NoError(t, app.ApplyUpdate(ctx, "s1", domain.ValueUpdate{ID: "rating", Value: []uint32{1}}))

	// A later pass pushes a programmatic value; it wins over the interaction.
	pushed := req
	pushed.Value = []uint32{2}
	app.BeginRun("s1")
	_, value, err := app.Encode(ctx, "s1", pushed)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, value)
}

func TestRunner_ScriptedSession(t *testing.T) {
	app := picket.New("survey")

	var out bytes.Buffer
	runner := picket.NewRunner()
	runner.Input = strings.NewReader("rating 1\nquit\n")
	runner.Output = &out
	runner.Headless = true

	page := []encoder.EncodeRequest{{
		ID:        "rating",
		Options:   ratingOptions(),
		ClickMode: domain.SingleSelect,
	}}

	require.NoError(t, runner.Run(context.Background(), app, "s1", page))

	values, err := app.Values(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, values["rating"])
	assert.Contains(t, out.String(), "[x] 1")
}

package encoder_test

import (
	"context"
	"testing"

	"github.com/aretw0/picket/pkg/adapters/memory"
	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/encoder"
	"github.com/aretw0/picket/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEncoder() *encoder.Encoder {
	return encoder.New(session.NewManager(memory.NewStore()))
}

func ratingRequest() encoder.EncodeRequest {
	return encoder.EncodeRequest{
		ID: "rating",
		Options: []domain.Option{
			{Content: "1"},
			{Content: "2"},
			{Content: "3"},
		},
		Default:   []uint32{2},
		ClickMode: domain.SingleSelect,
	}
}

func TestEncode_DefaultsSeedTheFirstPass(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	desc, value, err := enc.Encode(ctx, "s1", ratingRequest())
	require.NoError(t, err)

	assert.Equal(t, []uint32{2}, value, "absent interaction, the script sees the defaults")
	assert.False(t, desc.SetValue)
	assert.Empty(t, desc.Value)
	assert.Equal(t, []uint32{2}, desc.Default)
}

func TestEncode_CommittedValueSurvivesRerun(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	_, _, err := enc.Encode(ctx, "s1", ratingRequest())
	require.NoError(t, err)

	// The client commits a different selection.
	err = enc.HandleUpdate(ctx, "s1", domain.ValueUpdate{ID: "rating", Value: []uint32{0}})
	require.NoError(t, err)

	// The next rerun resolves the committed value, not the defaults.
	desc, value, err := enc.Encode(ctx, "s1", ratingRequest())
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, value)
	assert.False(t, desc.SetValue, "a committed value is returned, never re-pushed")
}

func TestEncode_ProgrammaticPush(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	req := ratingRequest()
	req.Value = []uint32{1}

	desc, value, err := enc.Encode(ctx, "s1", req)
	require.NoError(t, err)
	assert.True(t, desc.SetValue)
	assert.Equal(t, []uint32{1}, desc.Value)
	assert.Equal(t, []uint32{1}, value)

	// The push became the committed value for the next pass.
	_, value, err = enc.Encode(ctx, "s1", ratingRequest())
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, value)
}

func TestEncode_ConfigurationErrors(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*encoder.EncodeRequest)
	}{
		{"default out of range", func(r *encoder.EncodeRequest) {
			r.Default = []uint32{3}
		}},
		{"multiple defaults under single select", func(r *encoder.EncodeRequest) {
			r.Default = []uint32{0, 1}
		}},
		{"pushed value out of range", func(r *encoder.EncodeRequest) {
			r.Value = []uint32{7}
		}},
		{"multiple pushed values under single select", func(r *encoder.EncodeRequest) {
			r.Value = []uint32{0, 1}
		}},
		{"empty widget ID", func(r *encoder.EncodeRequest) {
			r.ID = ""
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := ratingRequest()
			tc.mutate(&req)

			_, _, err := enc.Encode(ctx, "s1", req)
			require.Error(t, err)

			var cfg *encoder.ConfigurationError
			assert.ErrorAs(t, err, &cfg, "misconfiguration must surface to the script author")
		})
	}
}

func TestEncode_MultiSelectAllowsMultipleDefaults(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	req := ratingRequest()
	req.ClickMode = domain.MultiSelect
	req.Default = []uint32{0, 2}

	_, value, err := enc.Encode(ctx, "s1", req)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, value)
}

func TestHandleUpdate_UnknownWidget(t *testing.T) {
	enc := newEncoder()
	err := enc.HandleUpdate(context.Background(), "s1", domain.ValueUpdate{ID: "ghost", Value: []uint32{0}})
	assert.ErrorIs(t, err, domain.ErrWidgetNotFound)
}

func TestHandleUpdate_OutOfRangeIndex(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	_, _, err := enc.Encode(ctx, "s1", ratingRequest())
	require.NoError(t, err)

	err = enc.HandleUpdate(ctx, "s1", domain.ValueUpdate{ID: "rating", Value: []uint32{9}})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange, "corrupt updates fail loudly, never clamp")
}

func TestHandleUpdate_SingleSelectCardinality(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	_, _, err := enc.Encode(ctx, "s1", ratingRequest())
	require.NoError(t, err)

	err = enc.HandleUpdate(ctx, "s1", domain.ValueUpdate{ID: "rating", Value: []uint32{0, 1}})
	assert.Error(t, err)
}

func TestBeginRun_DropsStaleInterest(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	_, _, err := enc.Encode(ctx, "s1", ratingRequest())
	require.NoError(t, err)

	// A new pass that never re-encodes the widget drops its interest.
	enc.BeginRun("s1")

	err = enc.HandleUpdate(ctx, "s1", domain.ValueUpdate{ID: "rating", Value: []uint32{0}})
	assert.ErrorIs(t, err, domain.ErrWidgetNotFound)
}

func TestEndSession_EvictsState(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	_, _, err := enc.Encode(ctx, "s1", ratingRequest())
	require.NoError(t, err)
	require.NoError(t, enc.HandleUpdate(ctx, "s1", domain.ValueUpdate{ID: "rating", Value: []uint32{1}}))

	require.NoError(t, enc.EndSession(ctx, "s1"))

	_, err = enc.Values(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestValue_PerWidgetLookup(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	_, _, err := enc.Encode(ctx, "s1", ratingRequest())
	require.NoError(t, err)

	// Encoding alone commits nothing.
	_, err = enc.Value(ctx, "s1", "rating")
	assert.ErrorIs(t, err, domain.ErrValueNotFound)

	require.NoError(t, enc.HandleUpdate(ctx, "s1", domain.ValueUpdate{ID: "rating", Value: []uint32{1}}))

	value, err := enc.Value(ctx, "s1", "rating")
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, value)
}

func TestEncode_SessionsAreIsolated(t *testing.T) {
	enc := newEncoder()
	ctx := context.Background()

	_, _, err := enc.Encode(ctx, "s1", ratingRequest())
	require.NoError(t, err)
	_, _, err = enc.Encode(ctx, "s2", ratingRequest())
	require.NoError(t, err)

	require.NoError(t, enc.HandleUpdate(ctx, "s1", domain.ValueUpdate{ID: "rating", Value: []uint32{0}}))

	_, value, err := enc.Encode(ctx, "s2", ratingRequest())
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, value, "another session keeps its own defaults")
}

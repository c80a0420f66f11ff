package registry_test

import (
	"testing"

	"github.com/aretw0/picket/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndResolve(t *testing.T) {
	reg := registry.New()
	reg.Register("star", registry.Glyph("★"))
	reg.Register("check", registry.Glyph("✓"))

	v, err := reg.Resolve("star")
	require.NoError(t, err)
	assert.Equal(t, "★", v.Render())

	assert.Equal(t, []string{"check", "star"}, reg.Keys())
}

func TestRegistry_ResolveUnknownKey(t *testing.T) {
	reg := registry.New()

	_, err := reg.Resolve("missing")
	require.Error(t, err)

	var notFound *registry.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Key)
}

func TestRegistry_OverwriteWins(t *testing.T) {
	reg := registry.New()
	reg.Register("star", registry.Glyph("*"))
	reg.Register("star", registry.Glyph("★"))

	v, err := reg.Resolve("star")
	require.NoError(t, err)
	assert.Equal(t, "★", v.Render())
}

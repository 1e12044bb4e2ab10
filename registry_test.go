package snapfit

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestSocketRegistry(t *testing.T) {
	reg := NewSocketRegistry()
	assert.False(t, reg.Loaded())
	assert.Empty(t, reg.Sockets())

	input := []Anchor{
		{Name: "a", Transform: NewTransform(mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent())},
		{Name: "b", Transform: NewTransform(mgl64.Vec3{2, 0, 0}, mgl64.QuatIdent())},
	}
	reg.Replace(input)
	assert.True(t, reg.Loaded())
	assert.Equal(t, 2, reg.Len())

	// Snapshots are isolated from both the source and the readers.
	input[0].Name = "mutated"
	out := reg.Sockets()
	out[1].Name = "mutated"
	s, ok := reg.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, s.Transform.Position)
	_, ok = reg.Lookup("b")
	assert.True(t, ok)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)

	reg.Clear()
	assert.False(t, reg.Loaded())
	assert.Nil(t, reg.Sockets())
	_, ok = reg.Lookup("a")
	assert.False(t, ok)
}

func TestSocketRegistry_EmptyTargetIsLoaded(t *testing.T) {
	reg := NewSocketRegistry()
	reg.Replace(nil)
	assert.True(t, reg.Loaded())
	assert.Empty(t, reg.Sockets())
}

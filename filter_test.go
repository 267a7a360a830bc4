package archecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -run ^TestFilter1$ . -count 1
func TestFilter1(t *testing.T) {
	w, _, vel, _ := setupWorld(t)
	for i := range 5 {
		e := mustCreate(t, w)
		require.NoError(t, Add(w, e, Position{X: float32(i)}))
		if i >= 3 {
			require.NoError(t, Add(w, e, Velocity{}))
		}
	}

	f := NewFilter1[Position](w)
	count := 0
	for f.Next() {
		p := f.Get()
		assert.Equal(t, p.X, Get[Position](w, f.Entity()).X)
		p.Y = 10
		count++
	}
	assert.Equal(t, 5, count)

	f = NewFilter1[Position](w, vel)
	count = 0
	for f.Next() {
		assert.False(t, Has[Velocity](w, f.Entity()))
		assert.Equal(t, float32(10), f.Get().Y)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestFilter2(t *testing.T) {
	w, _, _, _ := setupWorld(t)
	var moving []EntityID
	for i := range 1000 {
		e := mustCreate(t, w)
		require.NoError(t, Add(w, e, Position{}))
		if i%3 == 0 {
			require.NoError(t, Add(w, e, Velocity{X: 1, Y: 2}))
			moving = append(moving, e)
		}
	}

	f := NewFilter2[Position, Velocity](w)
	for f.Next() {
		p, v := f.Get()
		p.X += v.X
		p.Y += v.Y
	}
	for _, e := range moving {
		assert.Equal(t, Position{1, 2, 0}, *Get[Position](w, e))
	}
}

func TestFilter3(t *testing.T) {
	w, _, _, _ := setupWorld(t)
	e := mustCreate(t, w)
	require.NoError(t, Add(w, e, Position{}))
	require.NoError(t, Add(w, e, Velocity{}))
	other := mustCreate(t, w)
	require.NoError(t, Add(w, other, Position{}))
	require.NoError(t, Add(w, e, Health{Current: 3, Max: 3}))

	f := NewFilter3[Position, Velocity, Health](w)
	require.True(t, f.Next())
	assert.Equal(t, e, f.Entity())
	_, _, h := f.Get()
	assert.Equal(t, int32(3), h.Current)
	assert.False(t, f.Next())
}

func TestFilterResetSeesNewArchetypes(t *testing.T) {
	w, _, _, _ := setupWorld(t)
	f := NewFilter1[Health](w)
	assert.False(t, f.Next())

	e := mustCreate(t, w)
	require.NoError(t, Add(w, e, Health{Max: 1}))
	f.Reset()
	require.True(t, f.Next())
	assert.Equal(t, e, f.Entity())
	assert.False(t, f.Next())

	f.Reset()
	assert.True(t, f.Next())
}

func TestFilterUnregisteredTypePanics(t *testing.T) {
	w := newTestWorld(t, DefaultConfig())
	assert.Panics(t, func() { NewFilter1[Position](w) })
}

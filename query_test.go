package archecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryMatches(t *testing.T) {
	q := NewQuery([]ComponentID{1, 2}, []ComponentID{7})
	assert.True(t, q.Matches(SignatureOf(1, 2)))
	assert.True(t, q.Matches(SignatureOf(1, 2, 200)))
	assert.False(t, q.Matches(SignatureOf(1)))
	assert.False(t, q.Matches(SignatureOf(1, 2, 7)))
	assert.Equal(t, SignatureOf(1, 2), q.Include())
	assert.Equal(t, SignatureOf(7), q.Exclude())

	// The empty query matches everything, including the empty archetype.
	assert.True(t, NewQuery(nil, nil).Matches(Signature{}))
}

// go test -run ^TestEachChunk$ . -count 1
func TestEachChunk(t *testing.T) {
	w, pos, vel, health := setupWorld(t)
	for i := range 10 {
		e := mustCreate(t, w)
		require.NoError(t, Add(w, e, Position{X: float32(i)}))
		if i%2 == 0 {
			require.NoError(t, Add(w, e, Velocity{X: 1}))
		}
		if i%5 == 0 {
			require.NoError(t, Add(w, e, Health{Current: 1}))
		}
	}

	var seen int
	var sum float32
	w.EachChunk(NewQuery([]ComponentID{pos, vel}, []ComponentID{health}), func(a *Archetype, c *Chunk) {
		assert.True(t, a.Has(pos))
		assert.True(t, a.Has(vel))
		assert.False(t, a.Has(health))
		assert.Same(t, a, c.Archetype())
		ps := ColumnOf[Position](c, pos)
		vs := ColumnOf[Velocity](c, vel)
		require.Len(t, ps, c.Len())
		require.Len(t, vs, c.Len())
		for i := range ps {
			ps[i].X += vs[i].X
			sum += ps[i].X
		}
		seen += c.Len()
	})
	// 2, 4, 6 and 8 qualify; 0 carries Health.
	assert.Equal(t, 4, seen)
	assert.Equal(t, float32(3+5+7+9), sum)
	assert.Equal(t, 4, w.Count(NewQuery([]ComponentID{pos, vel}, []ComponentID{health})))
	assert.Equal(t, 10, w.Count(NewQuery([]ComponentID{pos}, nil)))
	assert.Equal(t, 2, w.Count(NewQuery([]ComponentID{health}, nil)))
}

func TestEachChunkSkipsEmptyChunks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkBytes = 256
	w := newTestWorld(t, cfg)
	pos, err := Register[Position](w, "Position")
	require.NoError(t, err)

	ids, err := w.CreateEntities(40)
	require.NoError(t, err)
	for _, e := range ids {
		require.NoError(t, w.AddComponent(e, pos, nil))
	}
	// Everything moved out of the empty archetype, whose chunks stay allocated.
	assert.Len(t, w.EmptyArchetype().Chunks(), 2)

	visited := 0
	w.EachChunk(NewQuery(nil, nil), func(a *Archetype, c *Chunk) {
		assert.NotZero(t, c.Len())
		assert.NotSame(t, w.EmptyArchetype(), a)
		visited++
	})
	// 40 rows at 12 per chunk.
	assert.Equal(t, 4, visited)
}

func TestChunksIterator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkBytes = 256
	w := newTestWorld(t, cfg)
	pos, err := Register[Position](w, "Position")
	require.NoError(t, err)
	b, err := NewBuilder(w, pos)
	require.NoError(t, err)
	_, err = b.NewEntities(30)
	require.NoError(t, err)

	n := 0
	for a, c := range w.Chunks(NewQuery([]ComponentID{pos}, nil)) {
		assert.Same(t, b.Archetype(), a)
		n += c.Len()
	}
	assert.Equal(t, 30, n)

	first := 0
	for _, c := range w.Chunks(NewQuery([]ComponentID{pos}, nil)) {
		first = c.Len()
		break
	}
	assert.Equal(t, 12, first)
}

func TestChunkColumns(t *testing.T) {
	w, pos, vel, _ := setupWorld(t)
	e := mustCreate(t, w)
	require.NoError(t, Add(w, e, Position{1, 2, 3}))

	c := w.ArchetypeOf(e).Chunks()[0]
	assert.Equal(t, []EntityID{e}, c.Entities())
	assert.Len(t, c.Column(pos), 12)
	assert.Nil(t, c.Column(vel))
	assert.Nil(t, ColumnOf[Velocity](c, vel))
	assert.Equal(t, []Position{{1, 2, 3}}, ColumnOf[Position](c, pos))
	assert.Equal(t, 16384/20, c.Cap())

	assert.Panics(t, func() { ColumnOf[Health](c, pos) })
}

package archecs

import "iter"

// Query selects archetypes whose signature contains every included type and
// none of the excluded ones.
type Query struct {
	include Signature
	exclude Signature
}

// NewQuery compiles include and exclude type lists into a Query.
func NewQuery(include, exclude []ComponentID) Query {
	return Query{include: SignatureOf(include...), exclude: SignatureOf(exclude...)}
}

// Include returns the required types.
func (q Query) Include() Signature { return q.include }

// Exclude returns the forbidden types.
func (q Query) Exclude() Signature { return q.exclude }

// Matches reports whether an archetype with signature s satisfies q.
func (q Query) Matches(s Signature) bool {
	return s.Contains(q.include) && !s.Intersects(q.exclude)
}

// EachChunk calls fn for every non-empty chunk of every archetype matching
// q. Rows are [0, c.Len()) of the chunk's columns. fn must not create or
// destroy entities or add or remove components.
func (w *World) EachChunk(q Query, fn func(a *Archetype, c *Chunk)) {
	w.mustLive()
	for _, a := range w.archetypes.list {
		if a.count == 0 || !q.Matches(a.signature) {
			continue
		}
		for _, c := range a.chunks {
			if c.count > 0 {
				fn(a, c)
			}
		}
	}
}

// Chunks is EachChunk as an iterator.
func (w *World) Chunks(q Query) iter.Seq2[*Archetype, *Chunk] {
	return func(yield func(*Archetype, *Chunk) bool) {
		w.mustLive()
		for _, a := range w.archetypes.list {
			if a.count == 0 || !q.Matches(a.signature) {
				continue
			}
			for _, c := range a.chunks {
				if c.count > 0 && !yield(a, c) {
					return
				}
			}
		}
	}
}

// Count returns the number of entities matching q.
func (w *World) Count(q Query) int {
	w.mustLive()
	n := 0
	for _, a := range w.archetypes.list {
		if q.Matches(a.signature) {
			n += a.count
		}
	}
	return n
}

package archecs

import "unsafe"

// cursor walks the rows of every non-empty chunk matching a query.
type cursor struct {
	world *World
	chunk *Chunk
	query Query
	arch  int // index into world.archetypes.list
	next  int // next chunk index within the current archetype
	row   int
}

func newCursor(w *World, include []ComponentID, exclude []ComponentID) cursor {
	w.mustLive()
	return cursor{world: w, query: NewQuery(include, exclude), row: -1}
}

func (c *cursor) reset() {
	c.chunk = nil
	c.arch = 0
	c.next = 0
	c.row = -1
}

// advance moves to the next row, stepping into the next matching chunk when
// the current one is exhausted.
func (c *cursor) advance() bool {
	c.row++
	if c.chunk != nil && c.row < c.chunk.count {
		return true
	}
	list := c.world.archetypes.list
	for c.arch < len(list) {
		a := list[c.arch]
		if a.count > 0 && c.query.Matches(a.signature) {
			for c.next < len(a.chunks) {
				ch := a.chunks[c.next]
				c.next++
				if ch.count > 0 {
					c.chunk = ch
					c.row = 0
					return true
				}
			}
		}
		c.arch++
		c.next = 0
	}
	c.chunk = nil
	return false
}

func (c *cursor) entity() EntityID {
	return c.chunk.entities[c.row]
}

func (c *cursor) component(t ComponentID) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(c.chunk.row(c.chunk.archetype.column(t), c.row)))
}

// Filter1 iterates, row by row, over every entity that has the component
// registered for A. Structural changes to the World during iteration are
// not allowed.
//
// Example:
//
//	f := archecs.NewFilter1[Position](world)
//	for f.Next() {
//	    p := f.Get()
//	    p.X++
//	}
type Filter1[A any] struct {
	cursor
	a ComponentID
}

// NewFilter1 creates a filter over entities with A and none of exclude.
func NewFilter1[A any](w *World, exclude ...ComponentID) *Filter1[A] {
	a := mustComponentFor[A](w)
	return &Filter1[A]{cursor: newCursor(w, []ComponentID{a}, exclude), a: a}
}

// Next advances to the next entity; it returns false when done.
func (f *Filter1[A]) Next() bool { return f.advance() }

// Reset rewinds the filter, picking up archetypes created since.
func (f *Filter1[A]) Reset() { f.reset() }

// Entity returns the current entity.
func (f *Filter1[A]) Entity() EntityID { return f.entity() }

// Get returns the current entity's component.
func (f *Filter1[A]) Get() *A {
	return (*A)(f.component(f.a))
}

// Filter2 is Filter1 for two component types.
type Filter2[A, B any] struct {
	cursor
	a, b ComponentID
}

// NewFilter2 creates a filter over entities with A and B and none of exclude.
func NewFilter2[A, B any](w *World, exclude ...ComponentID) *Filter2[A, B] {
	a, b := mustComponentFor[A](w), mustComponentFor[B](w)
	return &Filter2[A, B]{cursor: newCursor(w, []ComponentID{a, b}, exclude), a: a, b: b}
}

func (f *Filter2[A, B]) Next() bool { return f.advance() }
func (f *Filter2[A, B]) Reset() { f.reset() }
func (f *Filter2[A, B]) Entity() EntityID { return f.entity() }

// Get returns the current entity's components.
func (f *Filter2[A, B]) Get() (*A, *B) {
	return (*A)(f.component(f.a)), (*B)(f.component(f.b))
}

// Filter3 is Filter1 for three component types.
type Filter3[A, B, C any] struct {
	cursor
	a, b, c ComponentID
}

// NewFilter3 creates a filter over entities with A, B and C and none of exclude.
func NewFilter3[A, B, C any](w *World, exclude ...ComponentID) *Filter3[A, B, C] {
	a, b, c := mustComponentFor[A](w), mustComponentFor[B](w), mustComponentFor[C](w)
	return &Filter3[A, B, C]{cursor: newCursor(w, []ComponentID{a, b, c}, exclude), a: a, b: b, c: c}
}

func (f *Filter3[A, B, C]) Next() bool { return f.advance() }
func (f *Filter3[A, B, C]) Reset() { f.reset() }
func (f *Filter3[A, B, C]) Entity() EntityID { return f.entity() }

// Get returns the current entity's components.
func (f *Filter3[A, B, C]) Get() (*A, *B, *C) {
	return (*A)(f.component(f.a)), (*B)(f.component(f.b)), (*C)(f.component(f.c))
}

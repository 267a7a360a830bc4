package archecs

import (
	"fmt"
	"unsafe"

	"github.com/rotisserie/eris"

	"github.com/edwinsyarief/archecs/alloc"
)

// Chunk is a fixed-capacity structure-of-arrays block holding rows of one
// archetype. Live rows occupy [0, Len()).
//
// A chunk's contents and an entity's position within it change on every
// structural mutation of the World; do not hold on to a (chunk, row) pair
// across such calls.
type Chunk struct {
	archetype *Archetype
	buf       []byte
	entities  []EntityID // view of the entity-id column, len = capacity
	columns   [][]byte   // view of each component column, len = capacity*size
	index     int
	count     int
}

// Archetype returns the archetype the chunk belongs to.
func (c *Chunk) Archetype() *Archetype { return c.archetype }

// Len returns the number of live rows.
func (c *Chunk) Len() int { return c.count }

// Cap returns the number of rows the chunk can hold.
func (c *Chunk) Cap() int { return len(c.entities) }

// Entities returns the ids of the live rows.
func (c *Chunk) Entities() []EntityID { return c.entities[:c.count] }

// Column returns the raw bytes of component t for the live rows, or nil if
// the archetype does not store t. Row i occupies bytes [i*size, (i+1)*size).
func (c *Chunk) Column(t ComponentID) []byte {
	col := c.archetype.column(t)
	if col < 0 {
		return nil
	}
	return c.columns[col][:c.count*int(c.archetype.sizes[col])]
}

// ColumnOf returns component column t of c as a typed slice over the live
// rows, or nil if the archetype does not store t. It panics if T's size
// differs from the registered size of t.
func ColumnOf[T any](c *Chunk, t ComponentID) []T {
	col := c.archetype.column(t)
	if col < 0 {
		return nil
	}
	var zero T
	if size := c.archetype.sizes[col]; uintptr(size) != unsafe.Sizeof(zero) {
		panic(fmt.Sprintf("ecs: component %d has size %d, %T has size %d", t, size, zero, unsafe.Sizeof(zero)))
	}
	if c.count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(c.columns[col]))), c.count)
}

// row returns the bytes of column col at slot.
func (c *Chunk) row(col, slot int) []byte {
	size := int(c.archetype.sizes[col])
	return c.columns[col][slot*size : (slot+1)*size : (slot+1)*size]
}

// acquireChunk returns a chunk of a with a free row, allocating a new one
// when every existing chunk is full.
func (w *World) acquireChunk(a *Archetype) (*Chunk, error) {
	for _, c := range a.chunks {
		if c.count < a.capacity {
			return c, nil
		}
	}
	buf, err := w.allocator.Alloc(a.chunkBytes, alloc.TagChunk)
	if err != nil {
		w.logger.Warn().Err(err).Str("archetype", a.key).Int("bytes", a.chunkBytes).Msg("chunk allocation failed")
		return nil, eris.Wrapf(err, "allocate chunk for archetype %s", a.key)
	}
	c := &Chunk{
		archetype: a,
		buf:       buf,
		index:     len(a.chunks),
		entities:  unsafe.Slice((*EntityID)(unsafe.Pointer(unsafe.SliceData(buf))), a.capacity),
		columns:   make([][]byte, len(a.types)),
	}
	for i := range a.types {
		start := int(a.offsets[i])
		end := start + int(a.sizes[i])*a.capacity
		c.columns[i] = buf[start:end:end]
	}
	a.chunks = append(a.chunks, c)
	w.logger.Debug().Str("archetype", a.key).Int("chunk", c.index).Int("capacity", a.capacity).Msg("chunk allocated")
	return c, nil
}

// pushRow appends a row for e to c and returns its slot. Component columns
// are left for the caller to initialise.
func (c *Chunk) pushRow(e EntityID) int {
	slot := c.count
	c.entities[slot] = e
	c.count++
	c.archetype.count++
	return slot
}

// swapRemove deletes the row at slot by moving the last live row into it,
// then points the moved entity's directory record at its new slot.
func (w *World) swapRemove(c *Chunk, slot int) {
	last := c.count - 1
	if slot != last {
		moved := c.entities[last]
		c.entities[slot] = moved
		for col := range c.columns {
			copy(c.row(col, slot), c.row(col, last))
		}
		w.entities.records[moved.Index()].slot = uint32(slot)
	}
	c.count--
	c.archetype.count--
}

package archecs

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/edwinsyarief/archecs/alloc"
	"github.com/edwinsyarief/archecs/internal/strtable"
)

// entityIDSize is the width of the entity-id column; it is also that
// column's alignment and it always starts at offset 0.
const entityIDSize = 8

// Archetype is a unique combination of component types. Entities with the
// same set of components are stored in the same archetype, in fixed-size
// chunks laid out as structure-of-arrays: the entity-id column first, then
// one column per component type in ascending id order, each padded to its
// alignment.
type Archetype struct {
	key       string
	signature Signature
	types     []ComponentID // sorted ascending, allocator-owned
	sizes     []uint32      // per column, allocator-owned
	aligns    []uint32      // per column, allocator-owned
	offsets   []uint32      // byte offset of each column in a chunk, allocator-owned
	columns   [MaxComponents]int16
	chunks    []*Chunk
	// addEdges and removeEdges cache archetype transitions, keyed by the
	// component that is added or removed, as indices into World.archetypes.list.
	addEdges    map[ComponentID]int32
	removeEdges map[ComponentID]int32
	index       int
	capacity    int
	chunkBytes  int
	footprint   int
	count       int
}

// Key is the canonical key the archetype is registered under.
func (a *Archetype) Key() string { return a.key }

// Signature is the set of component types in the archetype.
func (a *Archetype) Signature() Signature { return a.signature }

// Types returns the component types in ascending order. The slice must not
// be modified.
func (a *Archetype) Types() []ComponentID { return a.types }

// Has reports whether the archetype stores component type t.
func (a *Archetype) Has(t ComponentID) bool { return a.signature.Has(t) }

// ChunkCapacity is the number of rows each chunk of this archetype holds.
func (a *Archetype) ChunkCapacity() int { return a.capacity }

// Chunks returns the archetype's chunks, including empty ones.
func (a *Archetype) Chunks() []*Chunk { return a.chunks }

// Len returns the number of live entities across all chunks.
func (a *Archetype) Len() int { return a.count }

// column returns the column index of t, or -1.
func (a *Archetype) column(t ComponentID) int {
	if !t.Valid() {
		return -1
	}
	return int(a.columns[t])
}

// layoutEnd returns the byte length of a chunk holding capacity rows of the
// given columns, storing each column's offset into offsets when non-nil.
func layoutEnd(sizes, aligns []uint32, capacity int, offsets []uint32) int {
	end := entityIDSize * capacity
	for i := range sizes {
		end = alignUp(end, int(aligns[i]))
		if offsets != nil {
			offsets[i] = uint32(end)
		}
		end += int(sizes[i]) * capacity
	}
	return end
}

// ComputeChunkCapacity returns the largest row count whose padded layout
// (entity-id column, then each column aligned to its alignment) fits in
// budget bytes. It starts from the estimate that ignores padding and walks
// down from there. If not even one row fits, it returns 1.
func ComputeChunkCapacity(sizes, aligns []uint32, budget int) int {
	row := entityIDSize
	for _, s := range sizes {
		row += int(s)
	}
	capacity := max(budget/row, 1)
	for capacity > 1 && layoutEnd(sizes, aligns, capacity, nil) > budget {
		capacity--
	}
	return capacity
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// smallTypeList is how many component types a transition list holds before
// it spills into scratch memory.
const smallTypeList = 64

// typeBuffer is a component type list with inline storage for small counts
// and an allocator-backed fallback beyond that.
type typeBuffer struct {
	inline  [smallTypeList]ComponentID
	scratch []ComponentID
}

func (b *typeBuffer) get(a alloc.Allocator, n int) ([]ComponentID, error) {
	if n <= smallTypeList {
		return b.inline[:n], nil
	}
	s, err := alloc.Make[ComponentID](a, n, alloc.TagScratch)
	if err != nil {
		return nil, eris.Wrapf(err, "scratch type list of %d", n)
	}
	b.scratch = s
	return s, nil
}

func (b *typeBuffer) release(a alloc.Allocator) {
	alloc.Release(a, b.scratch, alloc.TagScratch)
	b.scratch = nil
}

// sortTypes sorts in place with insertion sort, since lists are short, and
// drops duplicates. It returns the deduplicated prefix.
func sortTypes(types []ComponentID) []ComponentID {
	for i := 1; i < len(types); i++ {
		v := types[i]
		j := i - 1
		for j >= 0 && types[j] > v {
			types[j+1] = types[j]
			j--
		}
		types[j+1] = v
	}
	n := 0
	for i, t := range types {
		if i > 0 && t == types[n-1] {
			continue
		}
		types[n] = t
		n++
	}
	return types[:n]
}

// canonicalKey renders a sorted type list as "[t0,t1,...]".
func canonicalKey(sorted []ComponentID) string {
	var stack [128]byte
	b := append(stack[:0], '[')
	for i, t := range sorted {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendUint(b, uint64(t), 10)
	}
	b = append(b, ']')
	return string(b)
}

// archetypeRegistry owns every archetype of a World.
type archetypeRegistry struct {
	byKey *strtable.Table[int32]
	list  []*Archetype
	empty *Archetype

	// created holds archetypes whose ArchetypeCreated event is still due.
	created []*Archetype
}

// ArchetypeFor returns the archetype holding exactly the given component
// types, creating it if needed. Order and duplicates in types do not matter.
func (w *World) ArchetypeFor(types ...ComponentID) (*Archetype, error) {
	w.mustLive()
	var buf typeBuffer
	list, err := buf.get(w.allocator, len(types))
	if err != nil {
		return nil, err
	}
	defer buf.release(w.allocator)
	copy(list, types)
	a, err := w.archetypeFor(list)
	w.publishArchetypesCreated()
	return a, err
}

// archetypeFor resolves the archetype for types, sorting types in place.
func (w *World) archetypeFor(types []ComponentID) (*Archetype, error) {
	for _, t := range types {
		mustValid(t)
		w.components.mustRegistered(t)
	}
	types = sortTypes(types)
	key := canonicalKey(types)
	if idx, ok := w.archetypes.byKey.Get(key); ok {
		return w.archetypes.list[idx], nil
	}
	return w.newArchetype(key, types)
}

func (w *World) newArchetype(key string, sorted []ComponentID) (*Archetype, error) {
	a := &Archetype{
		key:   key,
		index: len(w.archetypes.list),
	}
	for i := range a.columns {
		a.columns[i] = -1
	}
	if err := w.allocArchetypeArrays(a, len(sorted)); err != nil {
		w.releaseArchetype(a)
		w.logger.Warn().Err(err).Str("key", key).Msg("archetype allocation failed")
		return nil, err
	}
	for i, t := range sorted {
		shape := w.components.shapes[t]
		a.types[i] = t
		a.sizes[i] = shape.size
		a.aligns[i] = shape.align
		a.columns[t] = int16(i)
		a.signature.Set(t)
	}
	a.capacity = ComputeChunkCapacity(a.sizes, a.aligns, w.cfg.ChunkBytes)
	a.footprint = layoutEnd(a.sizes, a.aligns, a.capacity, a.offsets)
	a.chunkBytes = max(a.footprint, w.cfg.ChunkBytes)

	if err := w.archetypes.byKey.Put(key, int32(a.index)); err != nil {
		w.releaseArchetype(a)
		w.logger.Warn().Err(err).Str("key", key).Int("archetypes", len(w.archetypes.list)).
			Msg("archetype table insert failed")
		return nil, eris.Wrapf(err, "register archetype %s", key)
	}
	w.archetypes.list = append(w.archetypes.list, a)
	w.logger.Debug().Str("key", key).Int("components", len(sorted)).
		Int("chunk_capacity", a.capacity).Int("footprint", a.footprint).Msg("archetype created")
	w.archetypes.created = append(w.archetypes.created, a)
	return a, nil
}

// publishArchetypesCreated announces archetypes created by the mutation that
// just completed. Handlers may create more; those are announced as well.
func (w *World) publishArchetypesCreated() {
	for len(w.archetypes.created) > 0 {
		pending := w.archetypes.created
		w.archetypes.created = nil
		for _, a := range pending {
			Publish(&w.events, ArchetypeCreated{Archetype: a})
		}
	}
}

func (w *World) allocArchetypeArrays(a *Archetype, n int) error {
	var err error
	if a.types, err = alloc.Make[ComponentID](w.allocator, n, alloc.TagArchetype); err != nil {
		return err
	}
	if a.sizes, err = alloc.Make[uint32](w.allocator, n, alloc.TagArchetype); err != nil {
		return err
	}
	if a.aligns, err = alloc.Make[uint32](w.allocator, n, alloc.TagArchetype); err != nil {
		return err
	}
	if a.offsets, err = alloc.Make[uint32](w.allocator, n, alloc.TagArchetype); err != nil {
		return err
	}
	return nil
}

// releaseArchetype frees the archetype's chunks and layout arrays.
func (w *World) releaseArchetype(a *Archetype) {
	for _, c := range a.chunks {
		w.allocator.Free(c.buf, alloc.TagChunk)
		c.buf = nil
		c.entities = nil
		c.columns = nil
	}
	a.chunks = nil
	alloc.Release(w.allocator, a.types, alloc.TagArchetype)
	alloc.Release(w.allocator, a.sizes, alloc.TagArchetype)
	alloc.Release(w.allocator, a.aligns, alloc.TagArchetype)
	alloc.Release(w.allocator, a.offsets, alloc.TagArchetype)
	a.types, a.sizes, a.aligns, a.offsets = nil, nil, nil, nil
}

// withComponent returns the archetype reached from src by adding t.
func (w *World) withComponent(src *Archetype, t ComponentID) (*Archetype, error) {
	if idx, ok := src.addEdges[t]; ok {
		return w.archetypes.list[idx], nil
	}
	var buf typeBuffer
	list, err := buf.get(w.allocator, len(src.types)+1)
	if err != nil {
		return nil, err
	}
	defer buf.release(w.allocator)
	copy(list, src.types)
	list[len(src.types)] = t
	dst, err := w.archetypeFor(list)
	if err != nil {
		return nil, err
	}
	linkArchetypes(src, dst, t)
	return dst, nil
}

// withoutComponent returns the archetype reached from src by removing t.
func (w *World) withoutComponent(src *Archetype, t ComponentID) (*Archetype, error) {
	if idx, ok := src.removeEdges[t]; ok {
		return w.archetypes.list[idx], nil
	}
	var buf typeBuffer
	list, err := buf.get(w.allocator, len(src.types)-1)
	if err != nil {
		return nil, err
	}
	defer buf.release(w.allocator)
	n := 0
	for _, have := range src.types {
		if have != t {
			list[n] = have
			n++
		}
	}
	dst, err := w.archetypeFor(list[:n])
	if err != nil {
		return nil, err
	}
	linkArchetypes(dst, src, t)
	return dst, nil
}

// linkArchetypes records that adding t to from yields to, and vice versa.
func linkArchetypes(from, to *Archetype, t ComponentID) {
	if from.addEdges == nil {
		from.addEdges = make(map[ComponentID]int32)
	}
	if to.removeEdges == nil {
		to.removeEdges = make(map[ComponentID]int32)
	}
	from.addEdges[t] = int32(to.index)
	to.removeEdges[t] = int32(from.index)
}

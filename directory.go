package archecs

import (
	"github.com/rotisserie/eris"

	"github.com/edwinsyarief/archecs/alloc"
)

// entityRecord is the live location of one entity index. It is rewritten
// whenever the entity's row moves, including when another entity's
// swap-remove relocates it.
type entityRecord struct {
	archetype int32 // index in World.archetypes.list, -1 when free
	chunk     int32 // index in the archetype's chunk list
	slot      uint32
}

var freeRecord = entityRecord{archetype: -1, chunk: -1}

// entityDirectory maps entity indices to their locations and generations and
// recycles indices through a LIFO free stack. All three arrays live in
// allocator memory and share one capacity, which doubles when exhausted.
type entityDirectory struct {
	records     []entityRecord
	generations []uint16
	free        []uint32 // stack storage; free[:freeLen] holds recycled indices
	freeLen     int
	highWater   uint32 // next never-used index
	alive       int
}

func (d *entityDirectory) init(a alloc.Allocator, capacity int) error {
	return d.grow(a, capacity)
}

func (d *entityDirectory) capacity() int {
	return len(d.generations)
}

// reserve makes sure acquire has an index to hand out.
func (d *entityDirectory) reserve(a alloc.Allocator) error {
	if d.freeLen > 0 || int(d.highWater) < d.capacity() {
		return nil
	}
	return d.grow(a, max(2*d.capacity(), 1))
}

// grow resizes the arrays to n entries. generations is grown last; its
// length is the authoritative capacity, so a partial failure leaves the
// directory consistent.
func (d *entityDirectory) grow(a alloc.Allocator, n int) error {
	old := len(d.records)
	records, err := alloc.Grow(a, d.records, n, alloc.TagDirectory)
	if err != nil {
		return eris.Wrapf(err, "grow entity records to %d", n)
	}
	d.records = records
	for i := old; i < len(d.records); i++ {
		d.records[i] = freeRecord
	}
	free, err := alloc.Grow(a, d.free, n, alloc.TagDirectory)
	if err != nil {
		return eris.Wrapf(err, "grow free index stack to %d", n)
	}
	d.free = free
	generations, err := alloc.Grow(a, d.generations, n, alloc.TagDirectory)
	if err != nil {
		return eris.Wrapf(err, "grow generations to %d", n)
	}
	d.generations = generations
	return nil
}

// acquire pops a free index, or takes the next high-water one, and bumps its
// generation. reserve must have succeeded first.
func (d *entityDirectory) acquire() (uint32, uint16) {
	var index uint32
	if d.freeLen > 0 {
		d.freeLen--
		index = d.free[d.freeLen]
	} else {
		index = d.highWater
		d.highWater++
	}
	g := nextGeneration(d.generations[index])
	d.generations[index] = g
	d.alive++
	return index, g
}

// release invalidates every outstanding id for index and recycles it.
func (d *entityDirectory) release(index uint32) {
	d.generations[index] = nextGeneration(d.generations[index])
	d.records[index] = freeRecord
	d.free[d.freeLen] = index
	d.freeLen++
	d.alive--
}

// isAlive checks the generation and that the index currently has a location,
// which also rejects indices that were never handed out.
func (d *entityDirectory) isAlive(id EntityID) bool {
	index := id.Index()
	if int(index) >= d.capacity() {
		return false
	}
	return d.generations[index] == id.Generation() && d.records[index].archetype >= 0
}

func (d *entityDirectory) releaseAll(a alloc.Allocator) {
	alloc.Release(a, d.records, alloc.TagDirectory)
	alloc.Release(a, d.free, alloc.TagDirectory)
	alloc.Release(a, d.generations, alloc.TagDirectory)
	*d = entityDirectory{}
}

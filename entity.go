package archecs

import "fmt"

// EntityID is a generation-checked entity handle packed into 64 bits:
// index in the low 32 bits, generation in the next 16, world id in the top 16.
//
// An id is alive while the directory's generation for its index equals the
// id's generation. Generations are bumped on both create and destroy and
// never take the value 0, so the zero EntityID is never alive.
type EntityID uint64

// NilEntity is the zero id.
const NilEntity EntityID = 0

const (
	generationShift = 32
	worldShift      = 48
)

// NewEntityID packs an id from its parts.
func NewEntityID(index uint32, generation, world uint16) EntityID {
	return EntityID(uint64(index) | uint64(generation)<<generationShift | uint64(world)<<worldShift)
}

// Index is the directory slot of the entity.
func (e EntityID) Index() uint32 {
	return uint32(e)
}

// Generation distinguishes successive occupants of the same index.
func (e EntityID) Generation() uint16 {
	return uint16(e >> generationShift)
}

// World is the id of the World that created the entity.
func (e EntityID) World() uint16 {
	return uint16(e >> worldShift)
}

func (e EntityID) String() string {
	return fmt.Sprintf("%d:%d@%d", e.Index(), e.Generation(), e.World())
}

// nextGeneration advances a generation counter, skipping zero on wraparound.
func nextGeneration(g uint16) uint16 {
	g++
	if g == 0 {
		g = 1
	}
	return g
}

package archecs

// Builder spawns entities directly into one archetype, skipping the chain of
// migrations that adding components one at a time would cause. Components
// start zeroed; fill them through GetComponent, Get or the chunk columns.
type Builder struct {
	world *World
	arch  *Archetype
}

// NewBuilder resolves the archetype for types once.
//
// Parameters:
//   - w: The World to spawn into.
//   - types: The component types every spawned entity carries.
//
// Returns:
//   - The Builder, or an error if the archetype could not be created.
func NewBuilder(w *World, types ...ComponentID) (*Builder, error) {
	a, err := w.ArchetypeFor(types...)
	if err != nil {
		return nil, err
	}
	return &Builder{world: w, arch: a}, nil
}

// Archetype returns the archetype the builder spawns into.
func (b *Builder) Archetype() *Archetype {
	return b.arch
}

// NewEntity spawns one entity.
func (b *Builder) NewEntity() (EntityID, error) {
	b.world.mustLive()
	return b.world.spawn(b.arch)
}

// NewEntities spawns count entities. On failure the entities created so far
// are returned with the error.
func (b *Builder) NewEntities(count int) ([]EntityID, error) {
	b.world.mustLive()
	return b.world.spawnMany(b.arch, count)
}

package archecs

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/edwinsyarief/archecs/alloc"
	"github.com/edwinsyarief/archecs/internal/strtable"
)

// World owns the component registry, the entity directory and every
// archetype and chunk. It is not safe for concurrent use.
type World struct {
	allocator  alloc.Allocator
	hasher     strtable.Hasher
	resources  *Resources
	logger     zerolog.Logger
	archetypes archetypeRegistry
	components componentRegistry
	events     EventBus
	entities   entityDirectory
	cfg        Config
	id         uint16
	destroyed  bool
}

// NewWorld creates a World and its empty archetype, in which every entity
// starts.
//
// Parameters:
//   - cfg: Chunk budget, initial directory capacity and world id; see Config.
//   - opts: Optional allocator, logger and hasher overrides.
//
// Returns:
//   - The new World, or an error if cfg is invalid or allocation fails.
func NewWorld(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		cfg:       cfg,
		id:        uint16(cfg.WorldID),
		logger:    zerolog.Nop(),
		resources: &Resources{},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.allocator == nil {
		w.allocator = alloc.NewHeap(0)
	}
	if err := w.components.init(w.allocator); err != nil {
		w.Destroy()
		return nil, err
	}
	if err := w.entities.init(w.allocator, cfg.InitialEntities); err != nil {
		w.Destroy()
		return nil, eris.Wrap(err, "allocate entity directory")
	}
	w.archetypes.byKey = strtable.New[int32](64, 0, w.hasher)
	w.archetypes.list = make([]*Archetype, 0, 16)
	empty, err := w.archetypeFor(nil)
	if err != nil {
		w.Destroy()
		return nil, eris.Wrap(err, "create empty archetype")
	}
	w.archetypes.empty = empty
	w.archetypes.created = nil
	w.logger.Debug().Uint16("world", w.id).Int("chunk_bytes", cfg.ChunkBytes).
		Int("initial_entities", cfg.InitialEntities).Msg("world created")
	return w, nil
}

// Destroy releases every chunk, archetype, the registry and the directory.
// It is a no-op on a nil or already destroyed World; any other use of a
// destroyed World panics.
func (w *World) Destroy() {
	if w == nil || w.destroyed {
		return
	}
	for _, a := range w.archetypes.list {
		w.releaseArchetype(a)
	}
	w.archetypes = archetypeRegistry{}
	w.components.release(w.allocator)
	w.entities.releaseAll(w.allocator)
	w.resources.Clear()
	w.destroyed = true
	w.logger.Debug().Uint16("world", w.id).Msg("world destroyed")
}

func (w *World) mustLive() {
	if w == nil {
		panic("ecs: nil world")
	}
	if w.destroyed {
		panic("ecs: world used after Destroy")
	}
}

// ID returns the world id stamped into entity ids.
func (w *World) ID() uint16 {
	return w.id
}

// Config returns the configuration the World was created with.
func (w *World) Config() Config {
	return w.cfg
}

// Events returns the bus on which the World publishes EntityCreated,
// EntityDestroyed, ComponentAdded, ComponentRemoved and ArchetypeCreated.
func (w *World) Events() *EventBus {
	return &w.events
}

// Resources returns the World's singleton store.
func (w *World) Resources() *Resources {
	return w.resources
}

// EmptyArchetype returns the archetype with no components.
func (w *World) EmptyArchetype() *Archetype {
	w.mustLive()
	return w.archetypes.empty
}

// Archetypes returns every archetype in creation order. The slice must not
// be modified.
func (w *World) Archetypes() []*Archetype {
	w.mustLive()
	return w.archetypes.list
}

// CreateEntity creates an entity with no components in the empty archetype.
func (w *World) CreateEntity() (EntityID, error) {
	w.mustLive()
	return w.spawn(w.archetypes.empty)
}

// CreateEntities creates count entities with no components.
func (w *World) CreateEntities(count int) ([]EntityID, error) {
	w.mustLive()
	return w.spawnMany(w.archetypes.empty, count)
}

// IsAlive reports whether e refers to a live entity of this World.
func (w *World) IsAlive(e EntityID) bool {
	w.mustLive()
	return e.World() == w.id && w.entities.isAlive(e)
}

// DestroyEntity removes e and all its components. It returns false if e is
// not alive.
func (w *World) DestroyEntity(e EntityID) bool {
	if !w.IsAlive(e) {
		return false
	}
	rec := w.entities.records[e.Index()]
	a := w.archetypes.list[rec.archetype]
	w.swapRemove(a.chunks[rec.chunk], int(rec.slot))
	w.entities.release(e.Index())
	Publish(&w.events, EntityDestroyed{Entity: e})
	return true
}

// DestroyEntities destroys every live entity in ids and returns how many
// were destroyed.
func (w *World) DestroyEntities(ids []EntityID) int {
	n := 0
	for _, e := range ids {
		if w.DestroyEntity(e) {
			n++
		}
	}
	return n
}

// ArchetypeOf returns the archetype e currently lives in, or nil if e is not
// alive.
func (w *World) ArchetypeOf(e EntityID) *Archetype {
	if !w.IsAlive(e) {
		return nil
	}
	return w.archetypes.list[w.entities.records[e.Index()].archetype]
}

// spawn creates an entity directly in archetype a with zeroed components.
func (w *World) spawn(a *Archetype) (EntityID, error) {
	capacity := w.entities.capacity()
	if err := w.entities.reserve(w.allocator); err != nil {
		w.logger.Warn().Err(err).Int("capacity", capacity).Msg("entity directory growth failed")
		return NilEntity, err
	}
	if w.entities.capacity() != capacity {
		w.logger.Debug().Int("from", capacity).Int("to", w.entities.capacity()).Msg("entity directory grown")
	}
	c, err := w.acquireChunk(a)
	if err != nil {
		return NilEntity, err
	}
	index, gen := w.entities.acquire()
	e := NewEntityID(index, gen, w.id)
	slot := c.pushRow(e)
	for col := range c.columns {
		clear(c.row(col, slot))
	}
	w.entities.records[index] = entityRecord{archetype: int32(a.index), chunk: int32(c.index), slot: uint32(slot)}
	Publish(&w.events, EntityCreated{Entity: e, Archetype: a})
	return e, nil
}

// spawnMany creates count entities in a. On failure it returns the entities
// created so far along with the error.
func (w *World) spawnMany(a *Archetype, count int) ([]EntityID, error) {
	if count <= 0 {
		return nil, nil
	}
	ids := make([]EntityID, 0, count)
	for range count {
		e, err := w.spawn(a)
		if err != nil {
			return ids, err
		}
		ids = append(ids, e)
	}
	return ids, nil
}

// Stats is a snapshot of a World's bookkeeping.
type Stats struct {
	Entities          int `json:"entities"`
	Components        int `json:"components"`
	Archetypes        int `json:"archetypes"`
	Chunks            int `json:"chunks"`
	DirectoryCapacity int `json:"directory_capacity"`
	FreeIndices       int `json:"free_indices"`
}

// Stats returns current counts of entities, archetypes and chunks.
func (w *World) Stats() Stats {
	w.mustLive()
	s := Stats{
		Entities:          w.entities.alive,
		Components:        w.components.count(),
		Archetypes:        len(w.archetypes.list),
		DirectoryCapacity: w.entities.capacity(),
		FreeIndices:       w.entities.freeLen,
	}
	for _, a := range w.archetypes.list {
		s.Chunks += len(a.chunks)
	}
	return s
}

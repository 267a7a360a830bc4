package archecs

import "github.com/rs/zerolog"

// ColumnLayout describes one component column inside a chunk.
type ColumnLayout struct {
	Component ComponentID `json:"component"`
	Name      string      `json:"name"`
	Size      uint32      `json:"size"`
	Align     uint32      `json:"align"`
	Offset    uint32      `json:"offset"`
}

// LayoutReport describes how an archetype packs its rows into a chunk. The
// entity-id column always sits at offset 0.
type LayoutReport struct {
	Key        string         `json:"key"`
	Capacity   int            `json:"capacity"`
	ChunkBytes int            `json:"chunk_bytes"`
	Footprint  int            `json:"footprint"`
	Entities   int            `json:"entities"`
	Chunks     int            `json:"chunks"`
	Columns    []ColumnLayout `json:"columns"`
}

// Layout reports the chunk layout of a.
func (w *World) Layout(a *Archetype) LayoutReport {
	w.mustLive()
	r := LayoutReport{
		Key:        a.key,
		Capacity:   a.capacity,
		ChunkBytes: a.chunkBytes,
		Footprint:  a.footprint,
		Entities:   a.count,
		Chunks:     len(a.chunks),
		Columns:    make([]ColumnLayout, len(a.types)),
	}
	for i, t := range a.types {
		r.Columns[i] = ColumnLayout{
			Component: t,
			Name:      w.components.names[t],
			Size:      a.sizes[i],
			Align:     a.aligns[i],
			Offset:    a.offsets[i],
		}
	}
	return r
}

// Logger returns the World's logger.
func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// LogLayout writes one event at level listing every archetype with its
// chunk capacity, entity count and components.
func (w *World) LogLayout(level zerolog.Level) {
	w.mustLive()
	archs := zerolog.Arr()
	for _, a := range w.archetypes.list {
		comps := zerolog.Arr()
		for _, t := range a.types {
			comps = comps.Dict(zerolog.Dict().
				Int("component_id", int(t)).
				Str("component_name", w.components.names[t]))
		}
		archs = archs.Dict(zerolog.Dict().
			Str("key", a.key).
			Int("chunk_capacity", a.capacity).
			Int("entities", a.count).
			Int("chunks", len(a.chunks)).
			Array("components", comps))
	}
	w.logger.WithLevel(level).
		Int("total_archetypes", len(w.archetypes.list)).
		Int("total_components", w.components.count()).
		Int("total_entities", w.entities.alive).
		Array("archetypes", archs).
		Msg("world layout")
}

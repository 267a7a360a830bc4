package archecs

import (
	"fmt"
	"unsafe"

	"github.com/rotisserie/eris"
)

// AddComponent adds component type t to e, moving e to the archetype that
// includes t. The new component is initialised from init, which must be
// exactly the registered size, or zero-filled when init is nil. Adding a
// type e already has is a no-op that leaves the existing value untouched.
//
// Returns an error wrapping ErrEntityNotAlive for stale ids, or the
// allocation/table error that prevented the move; e is unchanged then.
func (w *World) AddComponent(e EntityID, t ComponentID, init []byte) error {
	w.mustLive()
	mustValid(t)
	w.components.mustRegistered(t)
	if init != nil && len(init) != int(w.components.shapes[t].size) {
		panic(fmt.Sprintf("ecs: init for component %d has %d bytes, want %d", t, len(init), w.components.shapes[t].size))
	}
	if !w.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "add component %d to %s", t, e)
	}
	src := w.archetypes.list[w.entities.records[e.Index()].archetype]
	if src.Has(t) {
		return nil
	}
	dst, err := w.withComponent(src, t)
	if err != nil {
		return eris.Wrapf(err, "add component %d to %s", t, e)
	}
	err = w.moveEntity(e, dst, t, init)
	w.publishArchetypesCreated()
	if err != nil {
		return err
	}
	// An ArchetypeCreated handler may have destroyed e.
	if w.IsAlive(e) {
		Publish(&w.events, ComponentAdded{Entity: e, Component: t})
	}
	return nil
}

// RemoveComponent removes component type t from e, moving e to the
// archetype without t. Removing a type e does not have is a no-op.
func (w *World) RemoveComponent(e EntityID, t ComponentID) error {
	w.mustLive()
	mustValid(t)
	w.components.mustRegistered(t)
	if !w.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "remove component %d from %s", t, e)
	}
	src := w.archetypes.list[w.entities.records[e.Index()].archetype]
	if !src.Has(t) {
		return nil
	}
	dst, err := w.withoutComponent(src, t)
	if err != nil {
		return eris.Wrapf(err, "remove component %d from %s", t, e)
	}
	err = w.moveEntity(e, dst, InvalidComponent, nil)
	w.publishArchetypesCreated()
	if err != nil {
		return err
	}
	// An ArchetypeCreated handler may have destroyed e.
	if w.IsAlive(e) {
		Publish(&w.events, ComponentRemoved{Entity: e, Component: t})
	}
	return nil
}

// SetComponent overwrites component t of e with data, adding it first if e
// does not have it.
func (w *World) SetComponent(e EntityID, t ComponentID, data []byte) error {
	if dst := w.GetComponent(e, t); dst != nil {
		if len(data) != len(dst) {
			panic(fmt.Sprintf("ecs: data for component %d has %d bytes, want %d", t, len(data), len(dst)))
		}
		copy(dst, data)
		return nil
	}
	return w.AddComponent(e, t, data)
}

// HasComponent reports whether e is alive and has component t.
func (w *World) HasComponent(e EntityID, t ComponentID) bool {
	w.mustLive()
	mustValid(t)
	if !w.IsAlive(e) {
		return false
	}
	return w.archetypes.list[w.entities.records[e.Index()].archetype].Has(t)
}

// GetComponent returns the stored bytes of component t of e, or nil if e is
// not alive or lacks t. The slice aliases chunk storage and is invalidated
// by the next structural change to the World.
func (w *World) GetComponent(e EntityID, t ComponentID) []byte {
	w.mustLive()
	mustValid(t)
	if !w.IsAlive(e) {
		return nil
	}
	rec := w.entities.records[e.Index()]
	a := w.archetypes.list[rec.archetype]
	col := a.column(t)
	if col < 0 {
		return nil
	}
	return a.chunks[rec.chunk].row(col, int(rec.slot))
}

// moveEntity migrates e's row into archetype dst. Columns shared with the
// source are copied; the column for added is initialised from init or
// zeroed, as is any other column the source lacks. The source row is then
// swap-removed and e's record pointed at its new slot.
func (w *World) moveEntity(e EntityID, dst *Archetype, added ComponentID, init []byte) error {
	rec := w.entities.records[e.Index()]
	src := w.archetypes.list[rec.archetype]
	srcChunk := src.chunks[rec.chunk]
	srcSlot := int(rec.slot)

	dstChunk, err := w.acquireChunk(dst)
	if err != nil {
		return eris.Wrapf(err, "move %s to archetype %s", e, dst.key)
	}
	dstSlot := dstChunk.pushRow(e)
	for col, t := range dst.types {
		to := dstChunk.row(col, dstSlot)
		if from := src.column(t); from >= 0 {
			copy(to, srcChunk.row(from, srcSlot))
		} else if t == added && init != nil {
			copy(to, init)
		} else {
			clear(to)
		}
	}
	w.swapRemove(srcChunk, srcSlot)
	w.entities.records[e.Index()] = entityRecord{
		archetype: int32(dst.index),
		chunk:     int32(dstChunk.index),
		slot:      uint32(dstSlot),
	}
	return nil
}

// Add adds the component registered for T to e, initialised to value.
func Add[T any](w *World, e EntityID, value T) error {
	t := mustComponentFor[T](w)
	return w.AddComponent(e, t, valueBytes(&value))
}

// Set overwrites or adds the component registered for T on e.
func Set[T any](w *World, e EntityID, value T) error {
	t := mustComponentFor[T](w)
	return w.SetComponent(e, t, valueBytes(&value))
}

// Get returns a pointer to e's component of type T, or nil if e is not alive
// or lacks it. The pointer is invalidated by the next structural change.
func Get[T any](w *World, e EntityID) *T {
	t := mustComponentFor[T](w)
	b := w.GetComponent(e, t)
	if b == nil {
		return nil
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// Has reports whether e has the component registered for T.
func Has[T any](w *World, e EntityID) bool {
	return w.HasComponent(e, mustComponentFor[T](w))
}

// Remove removes the component registered for T from e.
func Remove[T any](w *World, e EntityID) error {
	return w.RemoveComponent(e, mustComponentFor[T](w))
}

func valueBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

package archecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"

	"github.com/edwinsyarief/archecs/alloc"
)

// MaxComponents is the maximum number of component types a World can
// register. It matches the width of a Signature.
const MaxComponents = 256

// ComponentID identifies a registered component type. Ids are assigned
// sequentially from zero and never change once registered.
type ComponentID uint16

// InvalidComponent is returned when registration fails.
const InvalidComponent ComponentID = 0xFFFF

// Valid reports whether id lies in [0, MaxComponents).
func (id ComponentID) Valid() bool {
	return id < MaxComponents
}

func mustValid(id ComponentID) {
	if !id.Valid() {
		panic(fmt.Sprintf("ecs: component id %d out of range", id))
	}
}

// ComponentInfo describes a registered component type.
type ComponentInfo struct {
	Name  string
	Size  uint32
	Align uint32
}

// componentShape is the pointer-free part of ComponentInfo, kept in
// allocator-owned memory.
type componentShape struct {
	size  uint32
	align uint32
}

// componentRegistry holds every registered component type.
type componentRegistry struct {
	shapes []componentShape // len = MaxComponents, allocator-owned
	names  []string
	byType map[reflect.Type]ComponentID
}

func (r *componentRegistry) init(a alloc.Allocator) error {
	shapes, err := alloc.Make[componentShape](a, MaxComponents, alloc.TagRegistry)
	if err != nil {
		return eris.Wrap(err, "allocate component registry")
	}
	r.shapes = shapes
	r.names = make([]string, 0, 16)
	r.byType = make(map[reflect.Type]ComponentID)
	return nil
}

func (r *componentRegistry) release(a alloc.Allocator) {
	alloc.Release(a, r.shapes, alloc.TagRegistry)
	r.shapes = nil
	r.names = nil
	r.byType = nil
}

func (r *componentRegistry) count() int {
	return len(r.names)
}

func (r *componentRegistry) registered(id ComponentID) bool {
	return int(id) < len(r.names)
}

// mustRegistered panics for ids that were never handed out.
func (r *componentRegistry) mustRegistered(id ComponentID) {
	if !r.registered(id) {
		panic(fmt.Sprintf("ecs: component id %d is not registered", id))
	}
}

// RegisterComponent registers a component type of the given byte size and
// alignment and returns its id.
//
// Parameters:
//   - name: A descriptive name, used in logs and layout reports.
//   - size: The size of one component value in bytes; must be non-zero.
//   - align: The required alignment; a power of two no greater than alloc.MaxAlign.
//
// Returns:
//   - The new ComponentID, or InvalidComponent together with an error wrapping
//     ErrInvalidComponentSize, ErrInvalidAlignment or ErrRegistryFull.
func (w *World) RegisterComponent(name string, size, align uint32) (ComponentID, error) {
	w.mustLive()
	if size == 0 {
		return InvalidComponent, eris.Wrapf(ErrInvalidComponentSize, "component %q", name)
	}
	if align == 0 || align&(align-1) != 0 || align > alloc.MaxAlign {
		return InvalidComponent, eris.Wrapf(ErrInvalidAlignment, "component %q has alignment %d", name, align)
	}
	r := &w.components
	if r.count() >= MaxComponents {
		w.logger.Warn().Str("component", name).Int("max", MaxComponents).Msg("component registry full")
		return InvalidComponent, eris.Wrapf(ErrRegistryFull, "cannot register %q", name)
	}
	id := ComponentID(r.count())
	r.shapes[id] = componentShape{size: size, align: align}
	r.names = append(r.names, name)
	w.logger.Debug().Str("component", name).Uint16("id", uint16(id)).
		Uint32("size", size).Uint32("align", align).Msg("component registered")
	return id, nil
}

// ComponentInfo returns the description of a registered component type. It
// reports false for InvalidComponent and for ids that were never registered.
func (w *World) ComponentInfo(id ComponentID) (ComponentInfo, bool) {
	w.mustLive()
	if !id.Valid() || !w.components.registered(id) {
		return ComponentInfo{}, false
	}
	s := w.components.shapes[id]
	return ComponentInfo{Name: w.components.names[id], Size: s.size, Align: s.align}, true
}

// ComponentCount returns the number of registered component types.
func (w *World) ComponentCount() int {
	w.mustLive()
	return w.components.count()
}

// Register registers the Go type T as a component, using its size and
// alignment. Registering the same type twice returns the existing id. T must
// not contain pointers (including strings, slices, maps and interfaces),
// since chunk storage is invisible to the garbage collector.
func Register[T any](w *World, name string) (ComponentID, error) {
	w.mustLive()
	t := reflect.TypeFor[T]()
	if id, ok := w.components.byType[t]; ok {
		return id, nil
	}
	if hasPointers(t) {
		return InvalidComponent, eris.Wrapf(ErrComponentHasPointers, "component %q (%s)", name, t)
	}
	var zero T
	id, err := w.RegisterComponent(name, uint32(unsafe.Sizeof(zero)), uint32(unsafe.Alignof(zero)))
	if err != nil {
		return InvalidComponent, err
	}
	w.components.byType[t] = id
	return id, nil
}

// ComponentFor returns the id registered for the Go type T.
func ComponentFor[T any](w *World) (ComponentID, bool) {
	w.mustLive()
	id, ok := w.components.byType[reflect.TypeFor[T]()]
	return id, ok
}

// mustComponentFor is ComponentFor for typed accessors, where an
// unregistered type is a programming error.
func mustComponentFor[T any](w *World) ComponentID {
	id, ok := ComponentFor[T](w)
	if !ok {
		panic(fmt.Sprintf("ecs: component type %s is not registered", reflect.TypeFor[T]()))
	}
	return id
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice,
		reflect.String, reflect.Interface, reflect.Chan, reflect.Func:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

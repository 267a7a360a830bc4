package archecs

import "reflect"

// Resources holds World-wide singletons, at most one per type. Resources are
// stored as pointers and live on the Go heap, unlike component data.
type Resources struct {
	items   []any
	types   map[reflect.Type]int
	freeIDs []int
}

// Add stores res, which must be a non-nil pointer, and returns its id. It
// panics if a resource of the same type is already present. Freed ids are
// reused.
func (r *Resources) Add(res any) int {
	if res == nil {
		panic("ecs: cannot add nil resource")
	}
	t := reflect.TypeOf(res)
	if t.Kind() != reflect.Pointer {
		panic("ecs: resources must be pointers, got " + t.String())
	}
	if r.types == nil {
		r.types = make(map[reflect.Type]int)
	}
	if _, ok := r.types[t]; ok {
		panic("ecs: resource of type " + t.String() + " already exists")
	}
	var id int
	if n := len(r.freeIDs); n > 0 {
		id = r.freeIDs[n-1]
		r.freeIDs = r.freeIDs[:n-1]
		r.items[id] = res
	} else {
		id = len(r.items)
		r.items = append(r.items, res)
	}
	r.types[t] = id
	return id
}

// Has reports whether id refers to a stored resource.
func (r *Resources) Has(id int) bool {
	return id >= 0 && id < len(r.items) && r.items[id] != nil
}

// Get returns the resource with id, or nil.
func (r *Resources) Get(id int) any {
	if !r.Has(id) {
		return nil
	}
	return r.items[id]
}

// Remove drops the resource with id, if any.
func (r *Resources) Remove(id int) {
	if !r.Has(id) {
		return
	}
	delete(r.types, reflect.TypeOf(r.items[id]))
	r.items[id] = nil
	r.freeIDs = append(r.freeIDs, id)
}

// Len returns the number of stored resources.
func (r *Resources) Len() int {
	return len(r.types)
}

// Clear removes every resource.
func (r *Resources) Clear() {
	clear(r.items)
	r.items = r.items[:0]
	clear(r.types)
	r.freeIDs = r.freeIDs[:0]
}

// Resource returns the stored *T and its id, or nil and -1.
func Resource[T any](r *Resources) (*T, int) {
	if id, ok := r.types[reflect.TypeFor[*T]()]; ok {
		return r.items[id].(*T), id
	}
	return nil, -1
}

package archecs

import "reflect"

// MaxEventTypes defines the maximum number of unique event types that can be
// registered in an EventBus.
const MaxEventTypes = 256

// EntityCreated is published after an entity is spawned.
type EntityCreated struct {
	Entity    EntityID
	Archetype *Archetype
}

// EntityDestroyed is published after an entity is destroyed. Its id is no
// longer alive.
type EntityDestroyed struct {
	Entity EntityID
}

// ComponentAdded is published after a component is added to an entity.
type ComponentAdded struct {
	Entity    EntityID
	Component ComponentID
}

// ComponentRemoved is published after a component is removed from an entity.
type ComponentRemoved struct {
	Entity    EntityID
	Component ComponentID
}

// ArchetypeCreated is published when a new component combination is first
// used.
type ArchetypeCreated struct {
	Archetype *Archetype
}

// EventBus is a typed publish/subscribe bus. Handlers run synchronously, in
// subscription order, after the mutation that triggered them has completed.
//
// Publishing to a bus without any subscribers costs one comparison, so the
// World can publish structural events unconditionally.
type EventBus struct {
	eventTypeMap map[reflect.Type]uint8
	handlers     [MaxEventTypes][]any
	subscribers  int
}

// Subscribe registers a handler function to be called when an event of type
// T is published.
//
// Parameters:
//   - bus: The EventBus instance to subscribe to.
//   - handler: A function that takes a single argument of type T.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	id := bus.eventTypeID(reflect.TypeFor[T]())
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]any, 0, 4)
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
	bus.subscribers++
}

// Publish sends event to every handler subscribed to T.
func Publish[T any](bus *EventBus, event T) {
	if bus.subscribers == 0 {
		return
	}
	if id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]; ok {
		for _, h := range bus.handlers[id] {
			h.(func(T))(event)
		}
	}
}

// eventTypeID retrieves or assigns an id for the event type.
func (bus *EventBus) eventTypeID(t reflect.Type) uint8 {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	if len(bus.eventTypeMap) >= MaxEventTypes {
		panic("ecs: too many event types")
	}
	id := uint8(len(bus.eventTypeMap))
	bus.eventTypeMap[t] = id
	return id
}

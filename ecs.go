// Package archecs implements an archetype-based Entity Component System
// with chunked structure-of-arrays storage.
//
// Features:
//   - Component types are registered once as {size, alignment} pairs, or from
//     pointer-free Go types with Register, and identified by small integer ids.
//   - Entities sharing a component set live in one archetype, stored in
//     fixed-budget chunks: an entity-id column followed by one aligned column
//     per component.
//   - Entity ids carry an index, a generation and a world id; stale ids are
//     detected rather than silently reused.
//   - Adding or removing a component migrates the entity's row to the
//     neighbouring archetype in O(1); row deletion is a swap-remove.
//   - Queries hand out whole chunks for batch processing; typed filters
//     iterate row by row.
//   - All storage goes through an alloc.Allocator.
//
// A World is owned by a single goroutine; it provides no locking.
package archecs

// Package alloc defines the tagged allocation interface used by the ECS for
// every pointer-free buffer it owns (chunk storage, directory arrays, archetype
// layout tables, scratch type lists), together with a GC-backed implementation
// that keeps per-tag accounting.
package alloc

import "github.com/rotisserie/eris"

// MaxAlign is the alignment, in bytes, that every buffer returned by an
// Allocator must satisfy. Component alignments above this value are rejected.
const MaxAlign = 64

// ErrOutOfMemory is returned when an allocation cannot be satisfied.
var ErrOutOfMemory = eris.New("alloc: out of memory")

// Tag identifies the subsystem an allocation belongs to.
type Tag uint8

const (
	TagUnknown Tag = iota
	TagRegistry
	TagDirectory
	TagArchetype
	TagChunk
	TagScratch
	tagCount
)

// NumTags is the number of distinct allocation tags.
const NumTags = int(tagCount)

var tagNames = [tagCount]string{
	TagUnknown:   "unknown",
	TagRegistry:  "registry",
	TagDirectory: "directory",
	TagArchetype: "archetype",
	TagChunk:     "chunk",
	TagScratch:   "scratch",
}

func (t Tag) String() string {
	if t >= tagCount {
		return "invalid"
	}
	return tagNames[t]
}

// Allocator hands out zeroed byte buffers aligned to MaxAlign.
//
// Alloc returns a buffer of exactly size bytes. Realloc resizes buf, which
// must have been returned by the same allocator, preserving its leading bytes
// and zeroing any new tail; the old buffer must not be used afterwards.
// Free releases buf; len(buf) is the size that was requested for it.
//
// Implementations report exhaustion by returning an error wrapping
// ErrOutOfMemory and never retry on their own.
type Allocator interface {
	Alloc(size int, tag Tag) ([]byte, error)
	Realloc(buf []byte, newSize int, tag Tag) ([]byte, error)
	Free(buf []byte, tag Tag)
}

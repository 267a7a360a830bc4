package alloc

import (
	"unsafe"

	"github.com/rotisserie/eris"
)

// Heap is an Allocator backed by the Go heap. Memory is reclaimed by the
// garbage collector once freed buffers are no longer referenced; Heap only
// keeps the books. A non-zero limit caps the number of bytes that may be in
// use at once, which makes allocation failure reproducible.
type Heap struct {
	inUse  [tagCount]int
	total  int
	peak   int
	limit  int
	allocs int
	frees  int
}

// NewHeap creates a Heap. A limit of zero means unlimited.
func NewHeap(limit int) *Heap {
	return &Heap{limit: limit}
}

// Alloc implements Allocator.
func (h *Heap) Alloc(size int, tag Tag) ([]byte, error) {
	if size < 0 {
		panic("alloc: negative size")
	}
	if h.limit > 0 && h.total+size > h.limit {
		return nil, eris.Wrapf(ErrOutOfMemory, "%d bytes for %s (in use %d, limit %d)", size, tag, h.total, h.limit)
	}
	buf := alignedBytes(size)
	h.account(tag, size)
	h.allocs++
	return buf, nil
}

// Realloc implements Allocator.
func (h *Heap) Realloc(buf []byte, newSize int, tag Tag) ([]byte, error) {
	if newSize < 0 {
		panic("alloc: negative size")
	}
	old := len(buf)
	if h.limit > 0 && h.total-old+newSize > h.limit {
		return nil, eris.Wrapf(ErrOutOfMemory, "grow %s from %d to %d bytes (in use %d, limit %d)", tag, old, newSize, h.total, h.limit)
	}
	nb := alignedBytes(newSize)
	copy(nb, buf)
	h.account(tag, newSize-old)
	return nb, nil
}

// Free implements Allocator.
func (h *Heap) Free(buf []byte, tag Tag) {
	h.account(tag, -len(buf))
	h.frees++
}

// InUse reports the bytes currently allocated under tag.
func (h *Heap) InUse(tag Tag) int {
	return h.inUse[tag]
}

// Total reports the bytes currently allocated under all tags.
func (h *Heap) Total() int {
	return h.total
}

// Peak reports the highest value Total has reached.
func (h *Heap) Peak() int {
	return h.peak
}

// Allocations reports how many Alloc and Free calls succeeded.
func (h *Heap) Allocations() (allocs, frees int) {
	return h.allocs, h.frees
}

func (h *Heap) account(tag Tag, delta int) {
	h.inUse[tag] += delta
	h.total += delta
	if h.total > h.peak {
		h.peak = h.total
	}
}

// alignedBytes returns a zeroed slice of size bytes whose first byte sits on
// a MaxAlign boundary. The backing array is over-allocated by MaxAlign-1.
func alignedBytes(size int) []byte {
	raw := make([]byte, size+MaxAlign-1)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := int((MaxAlign - addr%MaxAlign) % MaxAlign)
	return raw[off : off+size : off+size]
}

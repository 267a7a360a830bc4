package alloc_test

import (
	"testing"
	"unsafe"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/archecs/alloc"
)

func TestHeapAllocIsAlignedAndZeroed(t *testing.T) {
	h := alloc.NewHeap(0)
	for _, size := range []int{0, 1, 7, 64, 100, 16384} {
		buf, err := h.Alloc(size, alloc.TagChunk)
		require.NoError(t, err)
		require.Len(t, buf, size)
		if size > 0 {
			addr := uintptr(unsafe.Pointer(&buf[0]))
			assert.Zero(t, addr%alloc.MaxAlign, "size %d", size)
		}
		for _, b := range buf {
			require.Zero(t, b)
		}
		h.Free(buf, alloc.TagChunk)
	}
	assert.Zero(t, h.Total())
}

func TestHeapAccountsPerTag(t *testing.T) {
	h := alloc.NewHeap(0)
	a, err := h.Alloc(100, alloc.TagChunk)
	require.NoError(t, err)
	b, err := h.Alloc(40, alloc.TagDirectory)
	require.NoError(t, err)

	assert.Equal(t, 100, h.InUse(alloc.TagChunk))
	assert.Equal(t, 40, h.InUse(alloc.TagDirectory))
	assert.Equal(t, 140, h.Total())

	b, err = h.Realloc(b, 80, alloc.TagDirectory)
	require.NoError(t, err)
	assert.Equal(t, 80, h.InUse(alloc.TagDirectory))
	assert.Equal(t, 180, h.Peak())

	h.Free(a, alloc.TagChunk)
	h.Free(b, alloc.TagDirectory)
	assert.Zero(t, h.Total())
	assert.Equal(t, 180, h.Peak())
}

func TestHeapLimit(t *testing.T) {
	h := alloc.NewHeap(128)
	buf, err := h.Alloc(100, alloc.TagChunk)
	require.NoError(t, err)

	_, err = h.Alloc(64, alloc.TagChunk)
	require.Error(t, err)
	assert.True(t, eris.Is(err, alloc.ErrOutOfMemory))

	_, err = h.Realloc(buf, 200, alloc.TagChunk)
	assert.True(t, eris.Is(err, alloc.ErrOutOfMemory))
	assert.Equal(t, 100, h.Total(), "failed realloc must not change accounting")
}

func TestTypedSlices(t *testing.T) {
	h := alloc.NewHeap(0)
	s, err := alloc.Make[uint32](h, 4, alloc.TagDirectory)
	require.NoError(t, err)
	require.Len(t, s, 4)
	assert.Equal(t, 16, h.InUse(alloc.TagDirectory))
	for i := range s {
		s[i] = uint32(i + 1)
	}

	s, err = alloc.Grow(h, s, 8, alloc.TagDirectory)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3, 4, 0, 0, 0, 0}, s)
	assert.Equal(t, 32, h.InUse(alloc.TagDirectory))

	same, err := alloc.Grow(h, s, 2, alloc.TagDirectory)
	require.NoError(t, err)
	assert.Len(t, same, 8)

	alloc.Release(h, s, alloc.TagDirectory)
	assert.Zero(t, h.Total())

	empty, err := alloc.Make[uint64](h, 0, alloc.TagScratch)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "chunk", alloc.TagChunk.String())
	assert.Equal(t, "invalid", alloc.Tag(200).String())
}

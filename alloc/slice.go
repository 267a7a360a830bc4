package alloc

import "unsafe"

// The helpers below view allocator buffers as typed slices. T must not
// contain Go pointers: the garbage collector does not scan byte buffers.

// Make allocates a zeroed slice of n elements of T.
func Make[T any](a Allocator, n int, tag Tag) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	buf, err := a.Alloc(n*sizeOf[T](), tag)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), n), nil
}

// Grow resizes s, which must have been returned by Make or Grow, to n
// elements. New elements are zeroed. Shrinking is a no-op.
func Grow[T any](a Allocator, s []T, n int, tag Tag) ([]T, error) {
	if n <= len(s) {
		return s, nil
	}
	if len(s) == 0 {
		return Make[T](a, n, tag)
	}
	buf, err := a.Realloc(bytesOf(s), n*sizeOf[T](), tag)
	if err != nil {
		return s, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), n), nil
}

// Release frees s, which must have been returned by Make or Grow.
func Release[T any](a Allocator, s []T, tag Tag) {
	if len(s) == 0 {
		return
	}
	a.Free(bytesOf(s), tag)
}

func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func bytesOf[T any](s []T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*sizeOf[T]())
}

package memory

import "braces.dev/errtrace"

// Heap is the default Allocator. Blocks come straight from the Go heap and
// are cleared on release so the garbage collector can reclaim whatever they
// referenced.
type Heap[T any] struct{}

// Allocate implements Allocator.
func (Heap[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, errtrace.Wrap(ErrInvalidSize)
	}
	return make([]T, n), nil
}

// Deallocate implements Allocator.
func (Heap[T]) Deallocate(buf []T) { clear(buf) }

package memory

import (
	"fmt"

	"braces.dev/errtrace"
)

// Tracked decorates an Allocator with accounting and fault injection. Tests
// use it to check that every rollback path returns what it allocated.
type Tracked[T any] struct {
	next      Allocator[T]
	allocs    int
	frees     int
	failAfter int // -1 disables injection
}

// NewTracked wraps next. A nil next means Heap.
func NewTracked[T any](next Allocator[T]) *Tracked[T] {
	if next == nil {
		next = Heap[T]{}
	}
	return &Tracked[T]{next: next, failAfter: -1}
}

// FailAfter lets the next n allocations through and fails every one after
// that with ErrOutOfMemory until Heal is called.
func (t *Tracked[T]) FailAfter(n int) { t.failAfter = max(n, 0) }

// Heal turns fault injection off.
func (t *Tracked[T]) Heal() { t.failAfter = -1 }

// Allocate implements Allocator.
func (t *Tracked[T]) Allocate(n int) ([]T, error) {
	if t.failAfter == 0 {
		return nil, errtrace.Wrap(fmt.Errorf("%w: injected failure for %d slots", ErrOutOfMemory, n))
	}
	buf, err := t.next.Allocate(n)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if t.failAfter > 0 {
		t.failAfter--
	}
	t.allocs++
	return buf, nil
}

// Deallocate implements Allocator.
func (t *Tracked[T]) Deallocate(buf []T) {
	t.frees++
	t.next.Deallocate(buf)
}

// Live is the number of blocks handed out and not yet released.
func (t *Tracked[T]) Live() int { return t.allocs - t.frees }

// Allocs is the number of successful allocations.
func (t *Tracked[T]) Allocs() int { return t.allocs }

// Frees is the number of deallocations.
func (t *Tracked[T]) Frees() int { return t.frees }

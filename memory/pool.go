package memory

import "braces.dev/errtrace"

// PoolStats is a snapshot of a Pool's counters.
type PoolStats struct {
	Hits   uint64
	Misses uint64
	Idle   int
}

// Pool recycles released blocks instead of handing them back to the heap.
// At most maxIdle blocks of each length are retained; the rest are dropped.
type Pool[T any] struct {
	free    map[int][][]T
	maxIdle int
	idle    int
	hits    uint64
	misses  uint64
}

// NewPool returns a Pool keeping up to maxIdle released blocks per length.
// A non-positive maxIdle disables recycling.
func NewPool[T any](maxIdle int) *Pool[T] {
	return &Pool[T]{
		free:    make(map[int][][]T),
		maxIdle: max(maxIdle, 0),
	}
}

// Allocate implements Allocator.
func (p *Pool[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, errtrace.Wrap(ErrInvalidSize)
	}
	if list := p.free[n]; len(list) > 0 {
		buf := list[len(list)-1]
		list[len(list)-1] = nil
		p.free[n] = list[:len(list)-1]
		p.idle--
		p.hits++
		return buf, nil
	}
	p.misses++
	return make([]T, n), nil
}

// Deallocate implements Allocator. The block is cleared before it is kept.
func (p *Pool[T]) Deallocate(buf []T) {
	if len(buf) == 0 {
		return
	}
	clear(buf)
	n := len(buf)
	if len(p.free[n]) >= p.maxIdle {
		return
	}
	p.free[n] = append(p.free[n], buf)
	p.idle++
}

// Stats returns the pool's counters.
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{Hits: p.hits, Misses: p.misses, Idle: p.idle}
}

// Purge drops every idle block.
func (p *Pool[T]) Purge() {
	clear(p.free)
	p.idle = 0
}

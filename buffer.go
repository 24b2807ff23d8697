package deque

import (
	"log/slog"
	"unsafe"

	"braces.dev/errtrace"

	"github.com/lucasgdosr/segdeque/memory"
)

const (
	blockBytes   = 4096
	minBlockSize = 16
)

// BlockSize returns the number of elements a block of a Deque[T] holds: as
// many as fit in 4 KiB, but never fewer than 16.
func BlockSize[T any]() int {
	var zero T
	size := max(int(unsafe.Sizeof(zero)), 1)
	return max(blockBytes/size, minBlockSize)
}

// allocateMap returns a map of size empty slots.
func (d *Deque[T]) allocateMap(size int) [][]T {
	return make([][]T, size)
}

// createBuffer gives every slot in slots[from:to] a fresh block. If any
// allocation fails the blocks it already handed out are released again.
func (d *Deque[T]) createBuffer(slots [][]T, from, to int) error {
	for i := from; i < to; i++ {
		block, err := d.opts.alloc.Allocate(d.bsize)
		if err != nil {
			d.releaseBuffer(slots, from, i)
			return errtrace.Wrap(err)
		}
		if debug && len(block) != d.bsize {
			panic("deque: allocator returned a block of the wrong length")
		}
		slots[i] = block
	}
	return nil
}

// destroyBuffer releases the blocks of d.slots[from:to].
func (d *Deque[T]) destroyBuffer(from, to int) {
	d.releaseBuffer(d.slots, from, to)
}

func (d *Deque[T]) releaseBuffer(slots [][]T, from, to int) {
	for i := from; i < to; i++ {
		if slots[i] != nil {
			d.opts.alloc.Deallocate(slots[i])
			slots[i] = nil
		}
	}
}

// mapInit builds a map able to hold n elements, with the blocks in the middle
// and at least one free slot on each side. begin and end delimit n
// uninitialized slots on return.
func (d *Deque[T]) mapInit(n int) error {
	nodes := n/d.bsize + 1
	size := max(d.opts.mapSize, nodes+2)
	slots := d.allocateMap(size)
	start := (size - nodes) / 2
	if err := d.createBuffer(slots, start, start+nodes); err != nil {
		return errtrace.Wrap(err)
	}
	d.slots = slots
	d.begin = pos{start, 0}
	d.end = pos{start + nodes - 1, n % d.bsize}
	return nil
}

// requireCapacity makes sure n more elements fit before begin (front) or
// after end, allocating the missing blocks. On failure nothing but the map
// layout may have changed.
func (d *Deque[T]) requireCapacity(n int, front bool) error {
	if front {
		room := d.begin.off
		if room >= n {
			return nil
		}
		need := ceilDiv(n-room, d.bsize)
		if need > d.begin.node {
			d.reallocateMap(need, true)
		}
		return errtrace.Wrap(d.createBuffer(d.slots, d.begin.node-need, d.begin.node))
	}
	room := d.bsize - d.end.off - 1
	if room >= n {
		return nil
	}
	need := ceilDiv(n-room, d.bsize)
	if need > len(d.slots)-d.end.node-1 {
		d.reallocateMap(need, false)
	}
	return errtrace.Wrap(d.createBuffer(d.slots, d.end.node+1, d.end.node+1+need))
}

// reallocateMap makes room for need more block slots at the front or the
// back. Block handles move; elements never do.
//
// If the blocks in use plus need fit in half the map, the handles are
// re-centred in place. Otherwise a map of max(old size, used+need)*2 slots
// replaces the old one.
func (d *Deque[T]) reallocateMap(need int, front bool) {
	used := d.end.node - d.begin.node + 1
	total := used + need
	oldSize := len(d.slots)

	slots := d.slots
	if total*2 > oldSize {
		slots = d.allocateMap(max(oldSize, total) * 2)
	}
	start := (len(slots) - total) / 2
	if front {
		start += need
	}
	copy(slots[start:start+used], d.slots[d.begin.node:d.end.node+1])

	if len(slots) == oldSize {
		// Same map: drop the handles the copy left behind.
		from, to := d.begin.node, d.end.node+1
		switch {
		case start < from:
			clear(slots[max(start+used, from):to])
		case start > from:
			clear(slots[from:min(start, to)])
		}
	} else {
		clear(d.slots)
	}

	shift := start - d.begin.node
	d.begin.node += shift
	d.end.node += shift
	d.slots = slots

	d.opts.logger.Debug("deque: map reallocated",
		slog.Int("old_slots", oldSize),
		slog.Int("new_slots", len(slots)),
		slog.Int("blocks", used),
		slog.Int("need", need),
		slog.Bool("front", front),
	)
}

// ShrinkToFit replaces the map with the smallest one that still holds every
// block plus one free slot on each side. Blocks and elements stay put.
func (d *Deque[T]) ShrinkToFit() {
	if d.slots == nil {
		return
	}
	used := d.end.node - d.begin.node + 1
	size := max(d.opts.mapSize, used+2)
	if size >= len(d.slots) {
		return
	}
	slots := d.allocateMap(size)
	start := (size - used) / 2
	copy(slots[start:], d.slots[d.begin.node:d.end.node+1])
	clear(d.slots)

	shift := start - d.begin.node
	d.begin.node += shift
	d.end.node += shift
	d.slots = slots
}

// destroyRange resets every slot in [from, to).
func (d *Deque[T]) destroyRange(from, to pos) {
	for s := range d.segments(from, to) {
		memory.DestroyRange(s)
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

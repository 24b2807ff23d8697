package deque

import (
	"cmp"
	"fmt"
)

// pos addresses a slot: the index of its block in the map and its offset in
// that block. A normalized pos always has 0 <= off < block size.
type pos struct {
	node, off int
}

// add moves p by n slots. Offsets that leave the current block are split
// into a block step and an in-block offset, flooring toward negative
// infinity so that walking backwards lands on the last slot of the previous
// block rather than on a negative offset.
func (p pos) add(n, bsize int) pos {
	offset := p.off + n
	if offset >= 0 && offset < bsize {
		return pos{p.node, offset}
	}
	var step int
	if offset > 0 {
		step = offset / bsize
	} else {
		step = -((-offset-1)/bsize + 1)
	}
	return pos{p.node + step, offset - step*bsize}
}

// sub returns the number of slots from q to p.
func (p pos) sub(q pos, bsize int) int {
	return bsize*(p.node-q.node) + p.off - q.off
}

func (p pos) next(bsize int) pos {
	if p.off++; p.off == bsize {
		return pos{p.node + 1, 0}
	}
	return p
}

func (p pos) prev(bsize int) pos {
	if p.off == 0 {
		return pos{p.node - 1, bsize - 1}
	}
	p.off--
	return p
}

func (p pos) compare(q pos) int {
	if c := cmp.Compare(p.node, q.node); c != 0 {
		return c
	}
	return cmp.Compare(p.off, q.off)
}

/*****************************************************************************
 * CURSOR
 *****************************************************************************/

// Cursor is a position in a Deque. It is a small value: copying it is cheap
// and never affects the Deque.
//
// Arithmetic is O(1) whatever the distance, and moving across a block
// boundary is transparent. A Cursor is invalidated by any operation that may
// grow or shrink the Deque other than popping a different element, and by
// Swap and Take on its Deque, which hand the storage to another Deque while
// the Cursor keeps pointing at the old one. Using an invalidated Cursor, or
// one from another Deque, leads to undefined behavior.
// Build with -tags deque_debug to turn those mistakes into panics where they
// can be detected.
type Cursor[T any] struct {
	d *Deque[T]
	p pos
}

func (c Cursor[T]) slot() *T {
	if debug {
		c.d.checkSlot(c.p)
	}
	return &c.d.slots[c.p.node][c.p.off]
}

// Value returns the element under the cursor.
func (c Cursor[T]) Value() T { return *c.slot() }

// Ptr returns the address of the element under the cursor. It stays valid
// across pushes and pops at either end that leave the element in place.
func (c Cursor[T]) Ptr() *T { return c.slot() }

// Set overwrites the element under the cursor.
func (c Cursor[T]) Set(t T) { *c.slot() = t }

// Next returns the cursor one element further.
func (c Cursor[T]) Next() Cursor[T] { return Cursor[T]{c.d, c.p.next(c.d.bsize)} }

// Prev returns the cursor one element back.
func (c Cursor[T]) Prev() Cursor[T] { return Cursor[T]{c.d, c.p.prev(c.d.bsize)} }

// Add returns the cursor n elements further; n may be negative.
func (c Cursor[T]) Add(n int) Cursor[T] { return Cursor[T]{c.d, c.p.add(n, c.d.bsize)} }

// Sub returns the cursor n elements back.
func (c Cursor[T]) Sub(n int) Cursor[T] { return c.Add(-n) }

// At returns the element n positions away from the cursor.
func (c Cursor[T]) At(n int) T { return c.Add(n).Value() }

// Diff returns the number of elements from o to c.
func (c Cursor[T]) Diff(o Cursor[T]) int {
	if debug {
		c.d.checkOwn(o)
	}
	return c.p.sub(o.p, c.d.bsize)
}

// Index returns the position of the cursor relative to the front.
func (c Cursor[T]) Index() int { return c.p.sub(c.d.begin, c.d.bsize) }

// Compare returns -1, 0 or +1 when c is before, at or after o.
func (c Cursor[T]) Compare(o Cursor[T]) int { return c.p.compare(o.p) }

// Equal reports whether both cursors point to the same slot.
func (c Cursor[T]) Equal(o Cursor[T]) bool { return c.p == o.p }

// Less reports whether c comes before o.
func (c Cursor[T]) Less(o Cursor[T]) bool { return c.p.compare(o.p) < 0 }

// String is meant for debugging.
func (c Cursor[T]) String() string {
	return fmt.Sprintf("cursor{node: %d, off: %d}", c.p.node, c.p.off)
}

// ReverseCursor walks a Deque from back to front. It wraps the cursor one
// past the element it designates, so RBegin wraps End and REnd wraps Begin.
type ReverseCursor[T any] struct {
	base Cursor[T]
}

// Base returns the wrapped forward cursor.
func (r ReverseCursor[T]) Base() Cursor[T] { return r.base }

// Value returns the designated element.
func (r ReverseCursor[T]) Value() T { return r.base.Prev().Value() }

// Next moves one element toward the front.
func (r ReverseCursor[T]) Next() ReverseCursor[T] { return ReverseCursor[T]{r.base.Prev()} }

// Prev moves one element toward the back.
func (r ReverseCursor[T]) Prev() ReverseCursor[T] { return ReverseCursor[T]{r.base.Next()} }

// Add moves n elements toward the front.
func (r ReverseCursor[T]) Add(n int) ReverseCursor[T] { return ReverseCursor[T]{r.base.Add(-n)} }

// Equal reports whether both reverse cursors designate the same slot.
func (r ReverseCursor[T]) Equal(o ReverseCursor[T]) bool { return r.base.Equal(o.base) }

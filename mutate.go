package deque

import (
	"iter"
	"log/slog"
	"slices"

	"braces.dev/errtrace"

	"github.com/lucasgdosr/segdeque/memory"
)

/*****************************************************************************
 * PUSH / EMPLACE
 *****************************************************************************/

// PushBack puts t at the back of the Deque. Use PushBack and PopFront for
// FIFO ordering, or PushBack and PopBack for LIFO ordering.
//
// Only allocation can fail, in which case the Deque is left unchanged.
func (d *Deque[T]) PushBack(t T) error {
	if err := d.lazyInit(); err != nil {
		return errtrace.Wrap(err)
	}
	if d.end.off != d.bsize-1 {
		memory.Construct(&d.slots[d.end.node][d.end.off], t)
		d.end.off++
		return nil
	}
	if err := d.requireCapacity(1, false); err != nil {
		return errtrace.Wrap(err)
	}
	memory.Construct(&d.slots[d.end.node][d.end.off], t)
	d.end = pos{d.end.node + 1, 0}
	return nil
}

// PushFront puts t at the front of the Deque.
//
// Only allocation can fail, in which case the Deque is left unchanged.
func (d *Deque[T]) PushFront(t T) error {
	if err := d.lazyInit(); err != nil {
		return errtrace.Wrap(err)
	}
	if d.begin.off != 0 {
		d.begin.off--
		memory.Construct(&d.slots[d.begin.node][d.begin.off], t)
		return nil
	}
	if err := d.requireCapacity(1, true); err != nil {
		return errtrace.Wrap(err)
	}
	d.begin = pos{d.begin.node - 1, d.bsize - 1}
	memory.Construct(&d.slots[d.begin.node][d.begin.off], t)
	return nil
}

// EmplaceBack builds an element with fn directly in the slot after the back.
// If fn or the allocation of a new block fails, the Deque is left unchanged
// and the block, if any, is released before the error is returned.
func (d *Deque[T]) EmplaceBack(fn func() (T, error)) error {
	if err := d.lazyInit(); err != nil {
		return errtrace.Wrap(err)
	}
	if d.end.off != d.bsize-1 {
		t, err := fn()
		if err != nil {
			return errtrace.Wrap(err)
		}
		memory.Construct(&d.slots[d.end.node][d.end.off], t)
		d.end.off++
		return nil
	}
	if err := d.requireCapacity(1, false); err != nil {
		return errtrace.Wrap(err)
	}
	t, err := fn()
	if err != nil {
		d.destroyBuffer(d.end.node+1, d.end.node+2)
		d.logRollback("emplace back", err)
		return errtrace.Wrap(err)
	}
	memory.Construct(&d.slots[d.end.node][d.end.off], t)
	d.end = pos{d.end.node + 1, 0}
	return nil
}

// EmplaceFront builds an element with fn directly in the slot before the
// front. It offers the same guarantee as EmplaceBack.
func (d *Deque[T]) EmplaceFront(fn func() (T, error)) error {
	if err := d.lazyInit(); err != nil {
		return errtrace.Wrap(err)
	}
	if d.begin.off != 0 {
		t, err := fn()
		if err != nil {
			return errtrace.Wrap(err)
		}
		d.begin.off--
		memory.Construct(&d.slots[d.begin.node][d.begin.off], t)
		return nil
	}
	if err := d.requireCapacity(1, true); err != nil {
		return errtrace.Wrap(err)
	}
	t, err := fn()
	if err != nil {
		d.destroyBuffer(d.begin.node-1, d.begin.node)
		d.logRollback("emplace front", err)
		return errtrace.Wrap(err)
	}
	d.begin = pos{d.begin.node - 1, d.bsize - 1}
	memory.Construct(&d.slots[d.begin.node][d.begin.off], t)
	return nil
}

/*****************************************************************************
 * POP
 *****************************************************************************/

// PopFront removes the first element in the Deque and returns it. If it's
// empty, returns false. The vacated slot is zeroed, and a block left empty
// by the pop is released.
func (d *Deque[T]) PopFront() (t T, ok bool) {
	if d.Empty() {
		return
	}
	slot := &d.slots[d.begin.node][d.begin.off]
	t = *slot
	memory.Destroy(slot)
	if d.begin.off != d.bsize-1 {
		d.begin.off++
	} else {
		d.destroyBuffer(d.begin.node, d.begin.node+1)
		d.begin = pos{d.begin.node + 1, 0}
	}
	return t, true
}

// PopBack removes the last element in the Deque and returns it. If it's
// empty, returns false. The vacated slot is zeroed, and a block left empty
// by the pop is released.
func (d *Deque[T]) PopBack() (t T, ok bool) {
	if d.Empty() {
		return
	}
	if d.end.off != 0 {
		d.end.off--
	} else {
		d.destroyBuffer(d.end.node, d.end.node+1)
		d.end = pos{d.end.node - 1, d.bsize - 1}
	}
	slot := &d.slots[d.end.node][d.end.off]
	t = *slot
	memory.Destroy(slot)
	return t, true
}

/*****************************************************************************
 * INSERT
 *****************************************************************************/

// Insert puts t before at and returns a cursor to it. Elements on the side of
// at closer to an end are shifted by one; the other side does not move.
//
// Only allocation can fail, in which case the Deque is left unchanged.
func (d *Deque[T]) Insert(at Cursor[T], t T) (Cursor[T], error) {
	return errtrace.Wrap2(d.insertValues(at, []T{t}))
}

// InsertSlice puts the elements of ts, in order, before at and returns a
// cursor to the first of them.
func (d *Deque[T]) InsertSlice(at Cursor[T], ts ...T) (Cursor[T], error) {
	return errtrace.Wrap2(d.insertValues(at, ts))
}

// InsertSeq puts the values of seq, in order, before at and returns a cursor
// to the first of them. seq is drained before the Deque is touched.
func (d *Deque[T]) InsertSeq(at Cursor[T], seq iter.Seq[T]) (Cursor[T], error) {
	return errtrace.Wrap2(d.insertValues(at, slices.Collect(seq)))
}

// InsertN puts n copies of t before at and returns a cursor to the first of
// them.
func (d *Deque[T]) InsertN(at Cursor[T], n int, t T) (Cursor[T], error) {
	if debug {
		d.checkOwn(at)
	}
	if err := d.checkLength(d.Len(), n); err != nil {
		return at, errtrace.Wrap(err)
	}
	idx := d.indexOf(at)
	if err := d.lazyInit(); err != nil {
		return at, errtrace.Wrap(err)
	}
	if n == 0 {
		return Cursor[T]{d, d.begin.add(idx, d.bsize)}, nil
	}
	gap, err := d.openGap(idx, n)
	if err != nil {
		return at, errtrace.Wrap(err)
	}
	d.fill(gap, gap.add(n, d.bsize), t)
	return Cursor[T]{d, gap}, nil
}

// InsertFunc puts n elements built by fn(0), ..., fn(n-1) before at and
// returns a cursor to the first of them. All n elements are built before the
// Deque is touched: if fn fails the Deque is left unchanged.
func (d *Deque[T]) InsertFunc(at Cursor[T], n int, fn func(i int) (T, error)) (Cursor[T], error) {
	if err := d.checkLength(d.Len(), n); err != nil {
		return at, errtrace.Wrap(err)
	}
	staged := make([]T, n)
	for i := range staged {
		t, err := fn(i)
		if err != nil {
			memory.DestroyRange(staged[:i])
			d.logRollback("insert", err)
			return at, errtrace.Wrap(err)
		}
		staged[i] = t
	}
	return errtrace.Wrap2(d.insertValues(at, staged))
}

// Emplace builds an element with fn and inserts it before at.
func (d *Deque[T]) Emplace(at Cursor[T], fn func() (T, error)) (Cursor[T], error) {
	return errtrace.Wrap2(d.InsertFunc(at, 1, func(int) (T, error) { return fn() }))
}

func (d *Deque[T]) insertValues(at Cursor[T], ts []T) (Cursor[T], error) {
	if debug {
		d.checkOwn(at)
	}
	if err := d.checkLength(d.Len(), len(ts)); err != nil {
		return at, errtrace.Wrap(err)
	}
	idx := d.indexOf(at)
	if err := d.lazyInit(); err != nil {
		return at, errtrace.Wrap(err)
	}
	if len(ts) == 0 {
		return Cursor[T]{d, d.begin.add(idx, d.bsize)}, nil
	}
	gap, err := d.openGap(idx, len(ts))
	if err != nil {
		return at, errtrace.Wrap(err)
	}
	d.copyIn(gap, ts)
	return Cursor[T]{d, gap}, nil
}

// openGap makes n slots available in front of the element at index idx and
// returns the position of the first of them. Every block the gap needs is
// allocated before any element moves, so a failure leaves the sequence
// untouched. The gap's slots hold stale values the caller must overwrite.
func (d *Deque[T]) openGap(idx, n int) (pos, error) {
	size := d.Len()
	if idx < size-idx {
		if err := d.requireCapacity(n, true); err != nil {
			return pos{}, errtrace.Wrap(err)
		}
		newBegin := d.begin.add(-n, d.bsize)
		d.moveForward(d.begin, d.begin.add(idx, d.bsize), newBegin)
		d.begin = newBegin
		return newBegin.add(idx, d.bsize), nil
	}
	if err := d.requireCapacity(n, false); err != nil {
		return pos{}, errtrace.Wrap(err)
	}
	at := d.begin.add(idx, d.bsize)
	newEnd := d.end.add(n, d.bsize)
	d.moveBackward(at, d.end, newEnd)
	d.end = newEnd
	return at, nil
}

// moveForward copies [from, to) to the slots starting at dst, front to back.
// dst must not lie inside (from, to).
func (d *Deque[T]) moveForward(from, to, dst pos) {
	for from != to {
		d.slots[dst.node][dst.off] = d.slots[from.node][from.off]
		from = from.next(d.bsize)
		dst = dst.next(d.bsize)
	}
}

// moveBackward copies [from, to) to the slots ending right before dstEnd,
// back to front. dstEnd must not lie inside (from, to).
func (d *Deque[T]) moveBackward(from, to, dstEnd pos) {
	for to != from {
		to = to.prev(d.bsize)
		dstEnd = dstEnd.prev(d.bsize)
		d.slots[dstEnd.node][dstEnd.off] = d.slots[to.node][to.off]
	}
}

// indexOf returns the index of c. The cursors of a Deque that has not
// allocated yet all sit at index 0.
func (d *Deque[T]) indexOf(c Cursor[T]) int {
	return c.p.sub(d.begin, d.bsize)
}

/*****************************************************************************
 * ERASE / CLEAR
 *****************************************************************************/

// Erase removes the element under at and returns a cursor to the element
// that followed it.
func (d *Deque[T]) Erase(at Cursor[T]) Cursor[T] {
	return d.EraseRange(at, at.Next())
}

// EraseRange removes the elements in [first, last) and returns a cursor to
// the element that followed them. The shorter of the two remaining sides is
// shifted to close the gap.
func (d *Deque[T]) EraseRange(first, last Cursor[T]) Cursor[T] {
	if debug {
		d.checkOwn(first)
		d.checkOwn(last)
	}
	if first.p == last.p {
		return first
	}
	if first.p == d.begin && last.p == d.end {
		d.Clear()
		return d.End()
	}
	n := last.p.sub(first.p, d.bsize)
	idx := d.indexOf(first)
	if idx < (d.Len()-n)/2 {
		d.moveBackward(d.begin, first.p, last.p)
		newBegin := d.begin.add(n, d.bsize)
		d.destroyRange(d.begin, newBegin)
		d.destroyBuffer(d.begin.node, newBegin.node)
		d.begin = newBegin
	} else {
		d.moveForward(last.p, d.end, first.p)
		newEnd := d.end.add(-n, d.bsize)
		d.destroyRange(newEnd, d.end)
		d.destroyBuffer(newEnd.node+1, d.end.node+1)
		d.end = newEnd
	}
	return Cursor[T]{d, d.begin.add(idx, d.bsize)}
}

// DropFront removes the n first elements of the Deque, or every element if
// it has fewer. If n is negative, no element is dropped. Dropped slots are
// zeroed and emptied blocks released.
func (d *Deque[T]) DropFront(n int) {
	if n <= 0 || d.Empty() {
		return
	}
	n = min(n, d.Len())
	d.EraseRange(d.Begin(), Cursor[T]{d, d.begin.add(n, d.bsize)})
}

// DropBack removes the n last elements of the Deque, or every element if it
// has fewer. If n is negative, no element is dropped.
func (d *Deque[T]) DropBack(n int) {
	if n <= 0 || d.Empty() {
		return
	}
	d.truncate(max(d.Len()-n, 0))
}

// Clear destroys every element and releases every block but one, which is
// kept so the Deque can be reused without allocating. Both ends are reset to
// the middle of that block.
func (d *Deque[T]) Clear() {
	if d.slots == nil {
		return
	}
	d.destroyRange(d.begin, d.end)
	d.destroyBuffer(d.begin.node+1, d.end.node+1)
	d.begin = pos{d.begin.node, d.bsize / 2}
	d.end = d.begin
}

// Release destroys every element and hands every block and the map back. The
// Deque is left empty and allocates again on next use.
func (d *Deque[T]) Release() {
	if d.slots == nil {
		return
	}
	d.destroyRange(d.begin, d.end)
	d.releaseBuffer(d.slots, 0, len(d.slots))
	d.slots = nil
	d.begin, d.end = pos{}, pos{}
}

/*****************************************************************************
 * ASSIGN / RESIZE / SWAP
 *****************************************************************************/

// Assign replaces the contents of the Deque with n copies of t. Existing
// slots are overwritten first; on failure the Deque holds a valid but
// unspecified prefix of the result.
func (d *Deque[T]) Assign(n int, t T) error {
	if err := d.checkLength(0, n); err != nil {
		return errtrace.Wrap(err)
	}
	size := d.Len()
	if n <= size {
		d.truncate(n)
		d.fill(d.begin, d.end, t)
		return nil
	}
	d.fill(d.begin, d.end, t)
	_, err := d.InsertN(d.End(), n-size, t)
	return errtrace.Wrap(err)
}

// AssignSlice replaces the contents of the Deque with a copy of ts.
func (d *Deque[T]) AssignSlice(ts ...T) error {
	size := d.Len()
	if len(ts) <= size {
		d.truncate(len(ts))
		d.copyIn(d.begin, ts)
		return nil
	}
	d.copyIn(d.begin, ts[:size])
	_, err := d.insertValues(d.End(), ts[size:])
	return errtrace.Wrap(err)
}

// AssignSeq replaces the contents of the Deque with the values of seq.
func (d *Deque[T]) AssignSeq(seq iter.Seq[T]) error {
	return errtrace.Wrap(d.AssignSlice(slices.Collect(seq)...))
}

// Resize makes the Deque n elements long, dropping elements from the back or
// appending copies of t.
func (d *Deque[T]) Resize(n int, t T) error {
	if err := d.checkLength(0, n); err != nil {
		return errtrace.Wrap(err)
	}
	if size := d.Len(); n < size {
		d.truncate(n)
	} else if n > size {
		_, err := d.InsertN(d.End(), n-size, t)
		return errtrace.Wrap(err)
	}
	return nil
}

// truncate drops every element from index n on.
func (d *Deque[T]) truncate(n int) {
	if n < d.Len() {
		d.EraseRange(Cursor[T]{d, d.begin.add(n, d.bsize)}, d.End())
	}
}

// Swap exchanges the contents of d and other in O(1). No element is copied.
func (d *Deque[T]) Swap(other *Deque[T]) {
	*d, *other = *other, *d
}

func (d *Deque[T]) logRollback(op string, err error) {
	d.opts.logger.Debug("deque: rolled back", slog.String("op", op), slog.Any("error", err))
}

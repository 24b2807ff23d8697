// Package deque implements a double-ended queue on top of a segmented array.
//
// Elements live in fixed-size blocks reached through a map of block handles.
// Pushing or popping at either end is amortized O(1) and never moves an
// element that is already stored; indexing is O(1).
package deque

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"slices"
	"unsafe"

	"braces.dev/errtrace"
)

// Deque is a double-ended queue that can be used for either LIFO or FIFO
// ordering, or something in between, and that supports insertion and removal
// anywhere in the sequence at a cost proportional to the distance to the
// nearest end.
//
// The zero value is an empty Deque using the default options. It allocates
// its first block on first use.
//
// Storage is a map of block handles. Each block holds BlockSize[T]() slots.
// The map keeps free slots on both sides so that growing at an edge seldom
// touches it, and when it does, only the handles move. Addresses obtained
// through Cursor.Ptr therefore stay valid while elements are pushed or popped
// elsewhere.
//
// A Deque is not safe for concurrent use.
type Deque[T any] struct {
	slots      [][]T
	begin, end pos
	bsize      int
	opts       options[T]
}

/*****************************************************************************
 * CONSTRUCTORS
 *****************************************************************************/

// New returns an empty Deque with its map and first block allocated.
func New[T any](opts ...Option[T]) (*Deque[T], error) {
	d := newDeque(opts)
	if err := d.mapInit(0); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return d, nil
}

// NewN returns a Deque holding n zero values.
func NewN[T any](n int, opts ...Option[T]) (*Deque[T], error) {
	var zero T
	return errtrace.Wrap2(NewFill(n, zero, opts...))
}

// NewFill returns a Deque holding n copies of t.
func NewFill[T any](n int, t T, opts ...Option[T]) (*Deque[T], error) {
	d := newDeque(opts)
	if err := d.checkLength(0, n); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := d.mapInit(n); err != nil {
		return nil, errtrace.Wrap(err)
	}
	d.fill(d.begin, d.end, t)
	return d, nil
}

// NewFunc returns a Deque whose i-th element is built by fn(i), called in
// order. If fn fails, every element built so far is destroyed, all storage is
// released and fn's error is returned.
func NewFunc[T any](n int, fn func(i int) (T, error), opts ...Option[T]) (*Deque[T], error) {
	d := newDeque(opts)
	if err := d.checkLength(0, n); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := d.mapInit(n); err != nil {
		return nil, errtrace.Wrap(err)
	}
	p := d.begin
	for i := range n {
		t, err := fn(i)
		if err != nil {
			d.end = p
			d.Release()
			return nil, errtrace.Wrap(err)
		}
		d.slots[p.node][p.off] = t
		p = p.next(d.bsize)
	}
	return d, nil
}

// FromSeq returns a Deque holding the values of seq in order.
func FromSeq[T any](seq iter.Seq[T], opts ...Option[T]) (*Deque[T], error) {
	d, err := New(opts...)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	for t := range seq {
		if err := d.PushBack(t); err != nil {
			d.Release()
			return nil, errtrace.Wrap(err)
		}
	}
	return d, nil
}

// FromSlice takes in a slice and copies every element of it to a new Deque.
// The slice's capacity is irrelevant, and memory is not shared.
func FromSlice[T any](s []T, opts ...Option[T]) (*Deque[T], error) {
	d := newDeque(opts)
	if err := d.mapInit(len(s)); err != nil {
		return nil, errtrace.Wrap(err)
	}
	d.copyIn(d.begin, s)
	return d, nil
}

// Clone returns a copy of d sharing its options, allocator included.
func (d *Deque[T]) Clone() (*Deque[T], error) {
	c := &Deque[T]{bsize: d.blockSize(), opts: d.opts}
	c.opts.defaults()
	n := d.Len()
	if err := c.mapInit(n); err != nil {
		return nil, errtrace.Wrap(err)
	}
	p := c.begin
	for s := range d.segments(d.begin, d.end) {
		c.copyIn(p, s)
		p = p.add(len(s), c.bsize)
	}
	return c, nil
}

// Take moves the contents of src into a new Deque in O(1). src is left empty
// and keeps its options; it allocates again on next use.
func Take[T any](src *Deque[T]) *Deque[T] {
	d := new(Deque[T])
	*d = *src
	*src = Deque[T]{bsize: d.bsize, opts: d.opts}
	return d
}

func newDeque[T any](opts []Option[T]) *Deque[T] {
	d := &Deque[T]{bsize: BlockSize[T]()}
	d.opts.apply(opts)
	return d
}

// lazyInit gives a zero Deque its map and first block.
func (d *Deque[T]) lazyInit() error {
	if d.slots != nil {
		return nil
	}
	d.bsize = d.blockSize()
	d.opts.defaults()
	return errtrace.Wrap(d.mapInit(0))
}

func (d *Deque[T]) blockSize() int {
	if d.bsize == 0 {
		return BlockSize[T]()
	}
	return d.bsize
}

/*****************************************************************************
 * DEQUE API
 *****************************************************************************/

// Len returns the number of elements in the Deque or 0 if nil.
func (d *Deque[T]) Len() int {
	if d == nil {
		return 0
	}
	return d.end.sub(d.begin, d.bsize)
}

// Empty returns whether the Deque is empty.
func (d *Deque[T]) Empty() bool { return d.Len() == 0 }

// MaxSize returns the largest number of elements a Deque[T] can hold.
func (d *Deque[T]) MaxSize() int {
	var zero T
	return math.MaxInt / max(int(unsafe.Sizeof(zero)), 1)
}

// Front returns the first element in the Deque. If the Deque is empty, it
// returns false.
func (d *Deque[T]) Front() (t T, ok bool) {
	if d.Empty() {
		return
	}
	return d.slots[d.begin.node][d.begin.off], true
}

// Back returns the last element in the Deque. If the Deque is empty, it
// returns false.
func (d *Deque[T]) Back() (t T, ok bool) {
	if d.Empty() {
		return
	}
	p := d.end.prev(d.bsize)
	return d.slots[p.node][p.off], true
}

// Begin returns a cursor to the first element.
func (d *Deque[T]) Begin() Cursor[T] {
	d.bsize = d.blockSize()
	return Cursor[T]{d, d.begin}
}

// End returns a cursor one past the last element.
func (d *Deque[T]) End() Cursor[T] {
	d.bsize = d.blockSize()
	return Cursor[T]{d, d.end}
}

// RBegin returns a reverse cursor to the last element.
func (d *Deque[T]) RBegin() ReverseCursor[T] { return ReverseCursor[T]{d.End()} }

// REnd returns a reverse cursor one before the first element.
func (d *Deque[T]) REnd() ReverseCursor[T] { return ReverseCursor[T]{d.Begin()} }

// At returns the i-th element in the Deque, or ErrOutOfRange.
func (d *Deque[T]) At(i int) (T, error) {
	if err := d.checkIndex(i); err != nil {
		var zero T
		return zero, errtrace.Wrap(err)
	}
	return d.AtUnsafe(i), nil
}

// AtUnsafe returns the i-th element in the Deque without checking i. An
// index outside [0, Len()) leads to undefined behavior.
func (d *Deque[T]) AtUnsafe(i int) T {
	if debug {
		d.assertIndex(i)
	}
	p := d.begin.add(i, d.bsize)
	return d.slots[p.node][p.off]
}

// Set writes t to the i-th position in the Deque, or returns ErrOutOfRange.
func (d *Deque[T]) Set(i int, t T) error {
	if err := d.checkIndex(i); err != nil {
		return errtrace.Wrap(err)
	}
	d.SetUnsafe(i, t)
	return nil
}

// SetUnsafe writes t to the i-th position in the Deque without checking i.
func (d *Deque[T]) SetUnsafe(i int, t T) {
	if debug {
		d.assertIndex(i)
	}
	p := d.begin.add(i, d.bsize)
	d.slots[p.node][p.off] = t
}

/*****************************************************************************
 * SLICE API
 *****************************************************************************/

// segments yields the contiguous runs of slots making up [from, to), one per
// block touched.
func (d *Deque[T]) segments(from, to pos) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for from.node < to.node {
			if !yield(d.slots[from.node][from.off:]) {
				return
			}
			from = pos{from.node + 1, 0}
		}
		if from.off < to.off {
			yield(d.slots[from.node][from.off:to.off])
		}
	}
}

// copyIn copies s into the slots starting at p.
func (d *Deque[T]) copyIn(p pos, s []T) {
	for len(s) > 0 {
		n := copy(d.slots[p.node][p.off:], s)
		s = s[n:]
		p = p.add(n, d.bsize)
	}
}

func (d *Deque[T]) fill(from, to pos, t T) {
	for s := range d.segments(from, to) {
		for i := range s {
			s[i] = t
		}
	}
}

// MakeSliceCopy allocates a slice to hold every Deque element and copies them.
// Prefer passing a buffer to CopySlice for memory reuse.
func (d *Deque[T]) MakeSliceCopy() []T {
	s := make([]T, d.Len())
	_ = d.CopySlice(0, s)
	return s
}

// MakeSliceIndexCopy allocates a slice and copies the contents from the start
// index (inclusive) to the end index (non-inclusive). This is regular slice
// semantics, except it's a copy, and doesn't share memory with the Deque. This
// means it also panics with invalid indexes.
func (d *Deque[T]) MakeSliceIndexCopy(start, end int) []T {
	if start < 0 || start > end || end > d.Len() {
		panic(fmt.Sprintf("deque: slice bounds [%d:%d] out of range with length %d", start, end, d.Len()))
	}
	s := make([]T, end-start)
	_ = d.CopySlice(start, s)
	return s
}

// CopySlice has the same semantics as the copy() built-in function. It copies
// elements in the Deque starting at the start index up until the buffer is
// full or the Deque is over, whichever happens first.
//
// CopySlice returns the number of elements copied. A negative start panics.
func (d *Deque[T]) CopySlice(start int, buf []T) int {
	if start < 0 {
		panic(fmt.Sprintf("deque: negative start index %d", start))
	}
	if d == nil || start >= d.Len() || len(buf) == 0 {
		return 0
	}
	result := 0
	for s := range d.segments(d.begin.add(start, d.bsize), d.end) {
		n := copy(buf[result:], s)
		result += n
		if result == len(buf) {
			break
		}
	}
	return result
}

// Contains returns whether the element is in the Deque. This must not be a
// method, otherwise Deque would be constrained to comparable elements. It has
// the same semantics as slices.Contains.
func Contains[T comparable](d *Deque[T], t T) bool {
	return Index(d, t) != -1
}

// ContainsFunc returns whether an element satisfying f is in the Deque. It has
// the same semantics as slices.ContainsFunc.
func (d *Deque[T]) ContainsFunc(f func(T) bool) bool {
	return d.IndexFunc(f) != -1
}

// Equal returns whether both Deques have the same length and the same elements
// in the same order. Two nil Deques are equal, but an empty Deque and nil are
// not.
func Equal[T comparable](d1 *Deque[T], d2 *Deque[T]) bool {
	return d1.EqualFunc(d2, func(a, b T) bool { return a == b })
}

// EqualFunc returns whether both Deques have the same length and eq holds
// for every pair of elements at the same index. Two nil Deques are equal, but
// an empty Deque and nil are not.
func (d1 *Deque[T]) EqualFunc(d2 *Deque[T], eq func(T, T) bool) bool {
	if d1 == nil || d2 == nil {
		return d1 == d2
	}
	if d1.Len() != d2.Len() {
		return false
	}
	c2 := d2.begin
	for s := range d1.segments(d1.begin, d1.end) {
		for _, t := range s {
			if !eq(t, d2.slots[c2.node][c2.off]) {
				return false
			}
			c2 = c2.next(d2.bsize)
		}
	}
	return true
}

// Compare compares the elements of both Deques lexicographically, the way
// slices.Compare does. A nil Deque compares like an empty one.
func Compare[T cmp.Ordered](d1 *Deque[T], d2 *Deque[T]) int {
	return d1.CompareFunc(d2, cmp.Compare[T])
}

// CompareFunc is like Compare but uses c to compare elements.
func (d1 *Deque[T]) CompareFunc(d2 *Deque[T], c func(T, T) int) int {
	n1, n2 := d1.Len(), d2.Len()
	for i := range min(n1, n2) {
		if r := c(d1.AtUnsafe(i), d2.AtUnsafe(i)); r != 0 {
			return r
		}
	}
	return cmp.Compare(n1, n2)
}

// Index returns the index of the first ocurrence of t in the Deque or -1 if
// absent. It cannot be a method, otherwise Deque would be constrained to
// comparable elements only. Index has the same semantics as slices.Index.
func Index[T comparable](d *Deque[T], t T) int {
	return d.IndexFunc(func(e T) bool { return e == t })
}

// IndexFunc returns the index of the first element that satisfies f in the
// Deque or -1 if none do. IndexFunc has the same semantics as
// slices.IndexFunc.
func (d *Deque[T]) IndexFunc(f func(T) bool) int {
	if d == nil {
		return -1
	}
	base := 0
	for s := range d.segments(d.begin, d.end) {
		if i := slices.IndexFunc(s, f); i != -1 {
			return base + i
		}
		base += len(s)
	}
	return -1
}

// Max returns the maximum element in the Deque. It has the same semantics as
// slices.Max, so it panics on an empty Deque.
func Max[T cmp.Ordered](d *Deque[T]) T {
	if d.Empty() {
		panic("deque: Max of empty deque")
	}
	result, _ := d.Front()
	for s := range d.segments(d.begin, d.end) {
		result = max(result, slices.Max(s))
	}
	return result
}

// Min returns the minimum element in the Deque. It has the same semantics as
// slices.Min, so it panics on an empty Deque.
func Min[T cmp.Ordered](d *Deque[T]) T {
	if d.Empty() {
		panic("deque: Min of empty deque")
	}
	result, _ := d.Front()
	for s := range d.segments(d.begin, d.end) {
		result = min(result, slices.Min(s))
	}
	return result
}

// ForEach takes in a function that returns a bool and calls it in order for
// every element in the Deque, or until the first call that returns false.
func (d *Deque[T]) ForEach(f func(T) bool) {
	for t := range d.Iter() {
		if !f(t) {
			return
		}
	}
}

/*****************************************************************************
 * ITER API
 *****************************************************************************/

// All returns an iterator over index-value pairs in order. It has the same
// semantics as slices.All. If you don't need indexes, use Iter instead.
// The Deque must not be modified during iteration.
func (d *Deque[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if d == nil {
			return
		}
		i := 0
		for s := range d.segments(d.begin, d.end) {
			for _, t := range s {
				if !yield(i, t) {
					return
				}
				i++
			}
		}
	}
}

// Iter returns an iterator over values only in order.
func (d *Deque[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		if d == nil {
			return
		}
		for s := range d.segments(d.begin, d.end) {
			for _, t := range s {
				if !yield(t) {
					return
				}
			}
		}
	}
}

// Backward returns an iterator over index-value pairs from back to front, like
// slices.Backward.
func (d *Deque[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if d == nil {
			return
		}
		p := d.end
		for i := d.Len() - 1; i >= 0; i-- {
			p = p.prev(d.bsize)
			if !yield(i, d.slots[p.node][p.off]) {
				return
			}
		}
	}
}

/*****************************************************************************
 * HELPERS
 *****************************************************************************/

func (d *Deque[T]) checkIndex(i int) error {
	if n := d.Len(); i < 0 || i >= n {
		return fmt.Errorf("%w: index %d with length %d", ErrOutOfRange, i, n)
	}
	return nil
}

// checkLength validates growing a Deque of length cur by n elements.
func (d *Deque[T]) checkLength(cur, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeLength, n)
	}
	if n > d.MaxSize()-cur {
		return fmt.Errorf("%w: %d + %d", ErrLengthOverflow, cur, n)
	}
	return nil
}

func (d *Deque[T]) assertIndex(i int) {
	if i < 0 || i >= d.Len() {
		panic(fmt.Sprintf("deque: index %d out of bounds with length %d", i, d.Len()))
	}
}

// checkSlot panics unless p addresses an allocated block.
func (d *Deque[T]) checkSlot(p pos) {
	if p.node < 0 || p.node >= len(d.slots) || d.slots[p.node] == nil ||
		p.off < 0 || p.off >= d.bsize {
		panic(fmt.Sprintf("deque: invalid cursor {node: %d, off: %d}", p.node, p.off))
	}
}

// checkOwn panics unless c belongs to d and lies in [begin, end].
func (d *Deque[T]) checkOwn(c Cursor[T]) {
	if c.d != d {
		panic("deque: cursor belongs to another deque")
	}
	if c.p.compare(d.begin) < 0 || c.p.compare(d.end) > 0 {
		panic(fmt.Sprintf("deque: cursor {node: %d, off: %d} outside live range", c.p.node, c.p.off))
	}
}

package deque

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/lucasgdosr/segdeque/memory"
)

func TestBlockSize(t *testing.T) {
	t.Parallel()

	require.Equal(t, 512, BlockSize[int64]())
	require.Equal(t, 1024, BlockSize[int32]())
	require.Equal(t, 4096, BlockSize[byte]())
	require.Equal(t, 4096, BlockSize[struct{}]())
	require.Equal(t, 16, BlockSize[[300]byte]())
	require.Equal(t, 16, BlockSize[[8192]byte]())
}

func TestNil(t *testing.T) {
	t.Parallel()

	var d *Deque[int]
	require.Zero(t, d.Len())
	require.True(t, d.Empty())
	require.PanicsWithValue(t, "deque: Max of empty deque", func() { Max(d) })
	require.PanicsWithValue(t, "deque: Min of empty deque", func() { Min(d) })
	require.Equal(t, -1, d.IndexFunc(func(int) bool { return true }))
	require.Zero(t, d.CopySlice(0, make([]int, 4)))
	for range d.Iter() {
		t.Fatal("nil deque yielded a value")
	}
}

func TestZeroValue(t *testing.T) {
	t.Parallel()

	var d Deque[string]
	require.Zero(t, d.Len())
	require.True(t, d.Empty())
	_, ok := d.Front()
	require.False(t, ok)
	_, ok = d.PopBack()
	require.False(t, ok)
	require.True(t, d.Begin().Equal(d.End()))
	checkInvariants(t, &d)

	require.NoError(t, d.PushBack("b"))
	require.NoError(t, d.PushFront("a"))
	require.Equal(t, []string{"a", "b"}, d.MakeSliceCopy())
	checkInvariants(t, &d)

	var e Deque[int]
	_, err := e.InsertSlice(e.End(), 1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, e.MakeSliceCopy())

	var f Deque[int]
	require.NoError(t, f.Assign(3, 7))
	require.Equal(t, []int{7, 7, 7}, f.MakeSliceCopy())
}

func TestNew(t *testing.T) {
	t.Parallel()

	alloc := newTracked[int](t)
	d, err := New(WithAllocator[int](alloc))
	require.NoError(t, err)
	require.Zero(t, d.Len())
	require.Len(t, d.slots, DefaultMapSize)
	require.Equal(t, 1, alloc.Live())
	checkInvariants(t, d)

	d, err = New(WithMapSize[int](64))
	require.NoError(t, err)
	require.Len(t, d.slots, 64)
}

func TestNewFill(t *testing.T) {
	t.Parallel()

	bsize := BlockSize[int]()
	for _, n := range []int{0, 1, bsize - 1, bsize, bsize + 1, 20 * bsize} {
		d, err := NewFill(n, 9)
		require.NoError(t, err)
		require.Equal(t, n, d.Len())
		if diff := cmp.Diff(slices.Repeat([]int{9}, n), d.MakeSliceCopy(), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("NewFill(%d) mismatch (-want +got):\n%s", n, diff)
		}
		require.Equal(t, n/bsize+1, liveBlocks(d))
		require.Len(t, d.slots, max(n/bsize+3, DefaultMapSize))
		checkInvariants(t, d)
	}

	d, err := NewN[string](3)
	require.NoError(t, err)
	require.Equal(t, []string{"", "", ""}, d.MakeSliceCopy())

	_, err = NewFill(-1, 0)
	require.ErrorIs(t, err, ErrNegativeLength)
}

func TestNewFuncRollback(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	alloc := newTracked[*int](t)
	n := 3*BlockSize[*int]() + 10

	_, err := NewFunc(n, func(i int) (*int, error) {
		if i == n-5 {
			return nil, errBoom
		}
		return &i, nil
	}, WithAllocator[*int](alloc))
	require.ErrorIs(t, err, errBoom)
	require.Zero(t, alloc.Live(), "rollback leaked blocks")

	d, err := NewFunc(n, func(i int) (*int, error) { return &i, nil }, WithAllocator[*int](alloc))
	require.NoError(t, err)
	require.Equal(t, n, d.Len())
	require.Equal(t, n-1, *d.AtUnsafe(n - 1))

	alloc.FailAfter(1)
	_, err = NewFunc(n, func(i int) (*int, error) { return &i, nil }, WithAllocator[*int](alloc))
	require.ErrorIs(t, err, memory.ErrOutOfMemory)
	alloc.Heal()
	require.Equal(t, liveBlocks(d), alloc.Live())
}

func TestFromSeqAndSlice(t *testing.T) {
	t.Parallel()

	want := intRange(0, 1500)
	d, err := FromSeq(slices.Values(want))
	require.NoError(t, err)
	require.Equal(t, want, d.MakeSliceCopy())
	checkInvariants(t, d)

	e := mustFromSlice(t, want)
	require.True(t, Equal(d, e))
	checkInvariants(t, e)

	alloc := newTracked[int](t)
	alloc.FailAfter(2)
	_, err = FromSeq(slices.Values(want), WithAllocator[int](alloc))
	require.ErrorIs(t, err, memory.ErrOutOfMemory)
	require.Zero(t, alloc.Live())
}

func TestCloneAndTake(t *testing.T) {
	t.Parallel()

	d := mustFromSlice(t, intRange(0, 2000))
	_, _ = d.PopFront()
	require.NoError(t, d.PushFront(-1))

	c, err := d.Clone()
	require.NoError(t, err)
	require.True(t, Equal(d, c))
	checkInvariants(t, c)

	c.SetUnsafe(0, 100)
	require.Equal(t, -1, d.AtUnsafe(0), "clone shares storage")

	moved := Take(d)
	require.Zero(t, d.Len())
	require.Nil(t, d.slots)
	require.Equal(t, 2000, moved.Len())
	require.NoError(t, d.PushBack(5))
	require.Equal(t, []int{5}, d.MakeSliceCopy())
	checkInvariants(t, d)
	checkInvariants(t, moved)

	var zero Deque[int]
	zc, err := zero.Clone()
	require.NoError(t, err)
	require.Zero(t, zc.Len())
}

func TestAtAndSet(t *testing.T) {
	t.Parallel()

	d := mustFromSlice(t, []int{1, 2, 3})
	v, err := d.At(2)
	require.NoError(t, err)
	require.Equal(t, 3, v)

	_, err = d.At(3)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = d.At(-1)
	require.ErrorIs(t, err, ErrOutOfRange)

	require.NoError(t, d.Set(0, 10))
	require.ErrorIs(t, d.Set(5, 0), ErrOutOfRange)

	front, ok := d.Front()
	require.True(t, ok)
	require.Equal(t, 10, front)
	back, ok := d.Back()
	require.True(t, ok)
	require.Equal(t, 3, back)

	require.Positive(t, d.MaxSize())
	require.Less(t, (&Deque[[64]byte]{}).MaxSize(), d.MaxSize())
}

func TestEqualAndCompare(t *testing.T) {
	t.Parallel()

	a := mustFromSlice(t, []int{1, 2, 3})
	b := mustFromSlice(t, []int{1, 2, 3})
	c := mustFromSlice(t, []int{1, 2, 4})
	short := mustFromSlice(t, []int{1, 2})

	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
	require.False(t, Equal(a, short))
	require.True(t, Equal[int](nil, nil))
	require.False(t, Equal(a, nil))

	require.Zero(t, Compare(a, b))
	require.Equal(t, -1, Compare(a, c))
	require.Equal(t, 1, Compare(c, a))
	require.Equal(t, 1, Compare(a, short))
	require.Equal(t, -1, Compare(short, a))
	require.Equal(t, 1, Compare(a, nil))

	// the same content laid out differently in the map
	d, err := New[int]()
	require.NoError(t, err)
	for i := 2000; i > 0; i-- {
		require.NoError(t, d.PushFront(i))
	}
	e := mustFromSlice(t, intRange(1, 2001))
	require.True(t, Equal(d, e))
	require.Zero(t, Compare(d, e))
	require.True(t, d.EqualFunc(e, func(x, y int) bool { return x == y }))
}

func TestSearch(t *testing.T) {
	t.Parallel()

	n := 3 * BlockSize[int]()
	d := mustFromSlice(t, intRange(0, n))

	require.Equal(t, n-1, Index(d, n-1))
	require.Equal(t, -1, Index(d, n))
	require.True(t, Contains(d, 700))
	require.False(t, Contains(d, -1))
	require.True(t, d.ContainsFunc(func(v int) bool { return v > n-2 }))
	require.Equal(t, 1000, d.IndexFunc(func(v int) bool { return v >= 1000 }))

	require.Equal(t, n-1, Max(d))
	require.Zero(t, Min(d))
	require.NoError(t, d.PushFront(-7))
	require.Equal(t, -7, Min(d))

	require.Panics(t, func() { Max(&Deque[int]{}) })
}

func TestIterators(t *testing.T) {
	t.Parallel()

	want := intRange(0, 1300)
	d := mustFromSlice(t, want)

	require.Equal(t, want, slices.Collect(d.Iter()))

	for i, v := range d.All() {
		require.Equal(t, i, v)
	}

	var back []int
	for i, v := range d.Backward() {
		require.Equal(t, i, v)
		back = append(back, v)
	}
	slices.Reverse(back)
	require.Equal(t, want, back)

	var seen int
	d.ForEach(func(v int) bool {
		seen++
		return v < 9
	})
	require.Equal(t, 10, seen)
}

func TestCopySlice(t *testing.T) {
	t.Parallel()

	bsize := BlockSize[int]()
	d := mustFromSlice(t, intRange(0, 2*bsize+7))

	buf := make([]int, 10)
	require.Equal(t, 10, d.CopySlice(bsize-5, buf))
	require.Equal(t, intRange(bsize-5, bsize+5), buf)

	buf = make([]int, 100)
	require.Equal(t, 7, d.CopySlice(2*bsize, buf))
	if diff := cmp.Diff(intRange(2*bsize, 2*bsize+7), buf[:7]); diff != "" {
		t.Errorf("CopySlice() mismatch (-want +got):\n%s", diff)
	}
	require.Zero(t, d.CopySlice(d.Len(), buf))
}

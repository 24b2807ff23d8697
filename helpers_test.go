package deque

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucasgdosr/segdeque/memory"
)

// checkInvariants verifies the layout rules every operation must preserve:
// blocks exist exactly for the nodes [begin.node, end.node], both ends are
// normalized, and every slot outside [begin, end) holds the zero value.
func checkInvariants[T any](t *testing.T, d *Deque[T]) {
	t.Helper()

	if d.slots == nil {
		require.Equal(t, pos{}, d.begin)
		require.Equal(t, pos{}, d.end)
		return
	}
	require.LessOrEqual(t, d.begin.compare(d.end), 0, "begin after end")
	require.True(t, d.begin.off >= 0 && d.begin.off < d.bsize, "begin not normalized: %+v", d.begin)
	require.True(t, d.end.off >= 0 && d.end.off < d.bsize, "end not normalized: %+v", d.end)

	for i, block := range d.slots {
		if i < d.begin.node || i > d.end.node {
			require.Nil(t, block, "slot %d outside [%d, %d] holds a block", i, d.begin.node, d.end.node)
			continue
		}
		require.Len(t, block, d.bsize, "slot %d", i)
		for off := range block {
			p := pos{i, off}
			live := p.compare(d.begin) >= 0 && p.compare(d.end) < 0
			if !live {
				require.True(t, reflect.ValueOf(&block[off]).Elem().IsZero(),
					"dead slot %+v holds %v", p, block[off])
			}
		}
	}
}

// liveBlocks is the number of blocks the deque must own.
func liveBlocks[T any](d *Deque[T]) int {
	if d.slots == nil {
		return 0
	}
	return d.end.node - d.begin.node + 1
}

func newTracked[T any](t *testing.T) *memory.Tracked[T] {
	t.Helper()
	return memory.NewTracked[T](nil)
}

func mustFromSlice[T any](t *testing.T, s []T, opts ...Option[T]) *Deque[T] {
	t.Helper()
	d, err := FromSlice(s, opts...)
	require.NoError(t, err)
	return d
}

func intRange(from, to int) []int {
	s := make([]int, 0, max(to-from, 0))
	for i := from; i < to; i++ {
		s = append(s, i)
	}
	return s
}

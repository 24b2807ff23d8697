package bench

import (
	"log/slog"

	"braces.dev/errtrace"
	ring "github.com/gammazero/deque"

	deque "github.com/lucasgdosr/segdeque"
	"github.com/lucasgdosr/segdeque/memory"
)

// Queue is the surface every workload drives. Pops on an empty queue return
// false instead of panicking.
type Queue interface {
	PushBack(v uint64) error
	PushFront(v uint64) error
	PopFront() (uint64, bool)
	PopBack() (uint64, bool)
	At(i int) uint64
	Len() int
	Release()
}

// Implementation names accepted in Config.Impls.
const (
	ImplSegmented = "segmented"
	ImplRing      = "ring"
)

func newQueue(impl string, cfg Config) (Queue, error) {
	switch impl {
	case ImplSegmented:
		q, err := newSegmented(cfg)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return q, nil
	case ImplRing:
		return &ringQueue{q: ring.New[uint64]()}, nil
	default:
		return nil, errtrace.Wrap(errUnknown("implementation", impl))
	}
}

type segmentedQueue struct {
	d *deque.Deque[uint64]
}

func newSegmented(cfg Config) (*segmentedQueue, error) {
	d, err := deque.New(
		deque.WithAllocator(allocator(cfg)),
		deque.WithLogger[uint64](cfg.logger()),
	)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &segmentedQueue{d: d}, nil
}

// allocator builds the block allocator chain selected by cfg.
func allocator(cfg Config) memory.Allocator[uint64] {
	var a memory.Allocator[uint64] = memory.Heap[uint64]{}
	if cfg.Pool != nil {
		a = cfg.Pool
	}
	if cfg.LogAllocs {
		a = memory.NewLogged(a, cfg.logger().With(slog.String("component", "allocator")))
	}
	return a
}

func (q *segmentedQueue) PushBack(v uint64) error  { return errtrace.Wrap(q.d.PushBack(v)) }
func (q *segmentedQueue) PushFront(v uint64) error { return errtrace.Wrap(q.d.PushFront(v)) }
func (q *segmentedQueue) PopFront() (uint64, bool) { return q.d.PopFront() }
func (q *segmentedQueue) PopBack() (uint64, bool)  { return q.d.PopBack() }
func (q *segmentedQueue) At(i int) uint64          { return q.d.AtUnsafe(i) }
func (q *segmentedQueue) Len() int                 { return q.d.Len() }
func (q *segmentedQueue) Release()                 { q.d.Release() }

type ringQueue struct {
	q *ring.Deque[uint64]
}

func (q *ringQueue) PushBack(v uint64) error {
	q.q.PushBack(v)
	return nil
}

func (q *ringQueue) PushFront(v uint64) error {
	q.q.PushFront(v)
	return nil
}

func (q *ringQueue) PopFront() (uint64, bool) {
	if q.q.Len() == 0 {
		return 0, false
	}
	return q.q.PopFront(), true
}

func (q *ringQueue) PopBack() (uint64, bool) {
	if q.q.Len() == 0 {
		return 0, false
	}
	return q.q.PopBack(), true
}

func (q *ringQueue) At(i int) uint64 { return q.q.At(i) }
func (q *ringQueue) Len() int        { return q.q.Len() }
func (q *ringQueue) Release()        { q.q.Clear() }

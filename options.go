package deque

import (
	"log/slog"

	"github.com/lucasgdosr/segdeque/internal/log"
	"github.com/lucasgdosr/segdeque/memory"
)

// DefaultMapSize is the number of block slots a freshly built map holds.
const DefaultMapSize = 8

type options[T any] struct {
	alloc   memory.Allocator[T]
	logger  *slog.Logger
	mapSize int
}

// Option configures a Deque at construction.
type Option[T any] func(*options[T])

// WithAllocator makes the Deque take its blocks from a. The same allocator
// receives them back when they are released.
func WithAllocator[T any](a memory.Allocator[T]) Option[T] {
	return func(o *options[T]) {
		o.alloc = a
	}
}

// WithLogger sets the logger receiving map growth and rollback events at debug
// level. The default discards everything.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(o *options[T]) {
		o.logger = l
	}
}

// WithMapSize sets the minimum number of block slots of the initial map.
// Values below DefaultMapSize are ignored.
func WithMapSize[T any](n int) Option[T] {
	return func(o *options[T]) {
		o.mapSize = n
	}
}

func (o *options[T]) apply(opts []Option[T]) {
	for _, opt := range opts {
		opt(o)
	}
	o.defaults()
}

func (o *options[T]) defaults() {
	if o.alloc == nil {
		o.alloc = memory.Heap[T]{}
	}
	if o.logger == nil {
		o.logger = log.Noop
	}
	o.mapSize = max(o.mapSize, DefaultMapSize)
}

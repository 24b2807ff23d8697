package memory

import (
	"context"
	"log/slog"

	"braces.dev/errtrace"
)

// Logged decorates an Allocator with structured logging: every block at debug
// level, failures at warn level.
type Logged[T any] struct {
	next   Allocator[T]
	logger *slog.Logger
}

// NewLogged wraps next. A nil next means Heap; a nil logger means
// slog.Default().
func NewLogged[T any](next Allocator[T], logger *slog.Logger) *Logged[T] {
	if next == nil {
		next = Heap[T]{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Logged[T]{next: next, logger: logger}
}

// Allocate implements Allocator.
func (l *Logged[T]) Allocate(n int) ([]T, error) {
	buf, err := l.next.Allocate(n)
	if err != nil {
		l.logger.Warn("block allocation failed", slog.Int("slots", n), slog.Any("error", err))
		return nil, errtrace.Wrap(err)
	}
	if l.logger.Enabled(context.Background(), slog.LevelDebug) {
		l.logger.Debug("block allocated", slog.Int("slots", n))
	}
	return buf, nil
}

// Deallocate implements Allocator.
func (l *Logged[T]) Deallocate(buf []T) {
	if l.logger.Enabled(context.Background(), slog.LevelDebug) {
		l.logger.Debug("block released", slog.Int("slots", len(buf)))
	}
	l.next.Deallocate(buf)
}

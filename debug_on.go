//go:build deque_debug

package deque

// Built with -tags deque_debug, caller contract violations (unchecked
// indexes, stale or foreign cursors) panic instead of corrupting the Deque.
const debug = true

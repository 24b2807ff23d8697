//go:build !deque_debug

package deque

const debug = false

// Package memory provides the storage primitives a segmented deque is built
// on: allocators handing out fixed-length blocks of element slots, and the
// construct/destroy operations over those slots.
//
// Nothing in this package is safe for concurrent use.
package memory

import "errors"

// Allocator provisions and releases blocks of element storage.
//
// Allocate returns a slice of exactly n zeroed slots or an error. Deallocate
// takes back a slice previously returned by Allocate on the same allocator;
// the caller must not touch the slice afterwards.
type Allocator[T any] interface {
	Allocate(n int) ([]T, error)
	Deallocate(buf []T)
}

// ErrOutOfMemory is returned when an allocator cannot provision a block.
var ErrOutOfMemory = errors.New("out of memory")

// ErrInvalidSize is returned when asking for a block of zero or negative
// length.
var ErrInvalidSize = errors.New("invalid allocation size")

// Construct stores v in the slot p points to.
func Construct[T any](p *T, v T) { *p = v }

// Destroy resets the slot p points to, dropping any references it held.
func Destroy[T any](p *T) {
	var zero T
	*p = zero
}

// DestroyRange resets every slot in s.
func DestroyRange[T any](s []T) { clear(s) }

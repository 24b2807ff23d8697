package deque

import "errors"

/*****************************************************************************
 * SENTINEL ERRORS
 *****************************************************************************/

// ErrOutOfRange is returned by checked accessors when the index is not in
// [0, Len()).
var ErrOutOfRange = errors.New("index out of range")

// ErrNegativeLength is returned when asking for a negative number of
// elements.
var ErrNegativeLength = errors.New("length cannot be negative")

// ErrLengthOverflow is returned when an operation would make the Deque longer
// than MaxSize.
var ErrLengthOverflow = errors.New("length exceeds maximum size")

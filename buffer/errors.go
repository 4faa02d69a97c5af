package buffer

import "errors"

var (
	// ErrReleased indicates an operation on a view that was already released.
	ErrReleased = errors.New("buffer: already released")

	// ErrOutOfRange indicates a slice request outside the view's bounds.
	ErrOutOfRange = errors.New("buffer: slice out of range")
)

package store

import "errors"

var (
	// ErrDuplicateName is returned when a name is inserted twice into a
	// Fields that does not allow duplicates.
	ErrDuplicateName = errors.New("store: duplicate name")
	// ErrIndex is returned for a position outside the container.
	ErrIndex = errors.New("store: index out of range")
)

package buffer

import (
	"fmt"

	"github.com/joshuapare/bsonkit/internal/mmfile"
)

// Map memory-maps the file at path and returns a buffer over its contents.
// The mapping is removed when the last view carved from it is released.
func Map(path string) (*Shared, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("buffer: map %s: %w", path, err)
	}
	return NewWithFinalizer(data, func([]byte) error { return cleanup() }), nil
}

//go:build !unix

// Package mmfile provides platform-specific helpers for memory-mapping BSON files.
package mmfile

import (
	"fmt"
	"os"
)

// Map reads the whole file into memory where mmap is unavailable. The
// returned cleanup drops the reference so a released dump can be collected.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: read %s: %w", path, err)
	}
	return data, func() error {
		data = nil
		return nil
	}, nil
}

package buffer

import (
	"fmt"
	"sync/atomic"

	"github.com/joshuapare/bsonkit/internal/buf"
)

// Buffer is an immutable view over a byte region with an explicit lifetime.
type Buffer interface {
	// Bytes returns the view's bytes. Callers must not modify them or retain
	// them after Release. Returns nil once released.
	Bytes() []byte

	// Len returns the view length, 0 once released.
	Len() int

	// Slice returns a zero-copy sub-view [off:off+n] with its own lifetime.
	Slice(off, n int) (Buffer, error)

	// Duplicate returns an independent view over the same bytes.
	Duplicate() (Buffer, error)

	// Release gives up this view. It must be called exactly once.
	Release() error
}

// storage is the backing region shared by every view carved from it.
type storage struct {
	data      []byte
	refs      atomic.Int32
	finalizer func([]byte) error
}

// Shared is the reference-counted Buffer implementation.
type Shared struct {
	st       *storage
	data     []byte
	released bool
}

var _ Buffer = (*Shared)(nil)

// New creates a buffer over data without finalizer (GC managed).
func New(data []byte) *Shared {
	return NewWithFinalizer(data, nil)
}

// NewWithFinalizer creates a buffer whose finalizer runs once the last view
// over data is released.
func NewWithFinalizer(data []byte, finalizer func([]byte) error) *Shared {
	st := &storage{data: data, finalizer: finalizer}
	st.refs.Store(1)
	return &Shared{st: st, data: data}
}

// Bytes returns the view's bytes.
func (b *Shared) Bytes() []byte {
	if b == nil || b.released {
		return nil
	}
	return b.data
}

// Len returns the length of the view.
func (b *Shared) Len() int {
	return len(b.Bytes())
}

// Refs returns the number of live views over the shared storage.
func (b *Shared) Refs() int {
	if b == nil || b.st == nil {
		return 0
	}
	return int(b.st.refs.Load())
}

// Released reports whether this view was released.
func (b *Shared) Released() bool {
	return b == nil || b.released
}

// Slice returns a zero-copy sub-view [off:off+n] that retains the storage.
func (b *Shared) Slice(off, n int) (Buffer, error) {
	if b == nil || b.released {
		return nil, ErrReleased
	}
	sub, ok := buf.Slice(b.data, off, n)
	if !ok {
		return nil, fmt.Errorf("[%d:%d+%d] of %d: %w", off, off, n, len(b.data), ErrOutOfRange)
	}
	b.st.refs.Add(1)
	return &Shared{st: b.st, data: sub}, nil
}

// Duplicate returns an independent view over the same bytes.
func (b *Shared) Duplicate() (Buffer, error) {
	if b == nil || b.released {
		return nil, ErrReleased
	}
	return b.Slice(0, len(b.data))
}

// Release decrements the reference count and runs the finalizer when it
// reaches zero.
func (b *Shared) Release() error {
	if b == nil || b.released {
		return ErrReleased
	}
	b.released = true
	b.data = nil
	if b.st.refs.Add(-1) == 0 && b.st.finalizer != nil {
		return b.st.finalizer(b.st.data)
	}
	return nil
}

package lazy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/bsonkit/buffer"
	"github.com/joshuapare/bsonkit/decoder"
	"github.com/joshuapare/bsonkit/pkg/types"
	"github.com/joshuapare/bsonkit/store"
)

// countingDecoder counts begin/end container calls on the real reader.
type countingDecoder struct {
	StreamDecoder
	c *decodeCounter
}

type decodeCounter struct {
	starts int
	ends   int
}

func (d *countingDecoder) ReadStartDocument() error {
	d.c.starts++
	return d.StreamDecoder.ReadStartDocument()
}

func (d *countingDecoder) ReadEndDocument() error {
	d.c.ends++
	return d.StreamDecoder.ReadEndDocument()
}

func (c *decodeCounter) factory() DecoderFunc {
	return func(b buffer.Buffer, opts types.Options) StreamDecoder {
		return &countingDecoder{StreamDecoder: decoder.New(b, opts), c: c}
	}
}

// countingBuffer counts Release calls across itself and every view carved
// or duplicated from it.
type countingBuffer struct {
	buffer.Buffer
	releases *int
}

func newCountingBuffer(raw []byte) (*countingBuffer, *int) {
	n := 0
	return &countingBuffer{Buffer: buffer.New(raw), releases: &n}, &n
}

func (b *countingBuffer) Slice(off, n int) (buffer.Buffer, error) {
	s, err := b.Buffer.Slice(off, n)
	if err != nil {
		return nil, err
	}
	return &countingBuffer{Buffer: s, releases: b.releases}, nil
}

func (b *countingBuffer) Duplicate() (buffer.Buffer, error) {
	s, err := b.Buffer.Duplicate()
	if err != nil {
		return nil, err
	}
	return &countingBuffer{Buffer: s, releases: b.releases}, nil
}

func (b *countingBuffer) Release() error {
	*b.releases++
	return b.Buffer.Release()
}

var errInjected = errors.New("injected store failure")

// flakyFields fails the first `failures` AddRange calls after inserting the
// first element, so the rollback has something to clear.
type flakyFields struct {
	store.Fields[Value]
	failures int
	clears   int
	clearErr error
}

func (f *flakyFields) AddRange(elems []store.Element[Value]) error {
	if f.failures > 0 {
		f.failures--
		if len(elems) > 0 {
			_ = f.Fields.Add(elems[0].Name, elems[0].Value)
		}
		return errInjected
	}
	return f.Fields.AddRange(elems)
}

func (f *flakyFields) Clear() error {
	f.clears++
	if err := f.Fields.Clear(); err != nil {
		return err
	}
	return f.clearErr
}

// firstFields hands f to the first document constructed and a default
// store to every later one (children, clones).
func firstFields(f store.Fields[Value]) Option {
	used := false
	return WithFieldStore(func(allowDup bool) store.Fields[Value] {
		if used {
			return store.NewOrdered[Value](allowDup)
		}
		used = true
		return f
	})
}

// reentrantFields calls back into its owning document from AddRange, the
// way a store with observers might.
type reentrantFields struct {
	store.Fields[Value]
	doc      *Document
	lenErr   error
	cloneErr error
}

func (f *reentrantFields) AddRange(elems []store.Element[Value]) error {
	_, f.lenErr = f.doc.Len()
	_, f.cloneErr = f.doc.Clone()
	return f.Fields.AddRange(elems)
}

// noDupBuffer refuses to be duplicated.
type noDupBuffer struct {
	buffer.Buffer
}

var errNoDup = errors.New("duplicate refused")

func (b *noDupBuffer) Duplicate() (buffer.Buffer, error) { return nil, errNoDup }

func mustNames(t testing.TB, d *Document) []string {
	t.Helper()
	names, err := d.Names()
	require.NoError(t, err)
	return names
}

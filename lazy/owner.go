package lazy

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/bsonkit/buffer"
	"github.com/joshuapare/bsonkit/pkg/types"
)

// owner is the lifecycle shared by Document and Array: the held buffer, the
// materialization state, the closed flag and the child arena.
type owner struct {
	cfg      *config
	kind     string // "document" or "array", for logs and errors
	buf      buffer.Buffer
	state    state
	closed   bool
	children []io.Closer
}

// accessible is the gate every field-observing or mutating method passes
// through. It fails on a closed handle and runs materialize once.
func (o *owner) accessible(materialize func() error) error {
	if o.closed {
		return types.ErrDisposed
	}
	switch o.state {
	case stateMaterialized:
		return nil
	case stateMaterializing:
		return types.Wrap(types.ErrKindState, o.kind+": materialization in progress", nil)
	}
	return materialize()
}

func (o *owner) advance(e event) {
	next, ok := transition(o.state, e)
	if !ok {
		panic(fmt.Sprintf("lazy: %s event %s invalid in state %s", o.kind, e, o.state))
	}
	o.state = next
}

// adopt records c in the arena. Every child handle is adopted the moment it
// is constructed.
func (o *owner) adopt(c io.Closer) {
	o.children = append(o.children, c)
}

// decode walks one level of the held buffer. Nested containers become
// adopted child handles; named is false for arrays, whose element names are
// skipped. Children adopted by a walk that fails are closed and dropped, so
// retrying a malformed handle does not grow the arena.
func (o *owner) decode(named bool, emit func(name string, v Value)) (err error) {
	mark := len(o.children)
	defer func() {
		if err != nil {
			o.dropSince(mark)
		}
	}()

	dec := o.cfg.decoder(o.buf, o.cfg.opts)
	if err := dec.ReadStartDocument(); err != nil {
		return err
	}
	for {
		t, err := dec.ReadType()
		if err != nil {
			return err
		}
		if t == types.TypeEndOfDocument {
			break
		}
		var name string
		if named {
			name, err = dec.ReadName()
		} else {
			err = dec.SkipName()
		}
		if err != nil {
			return err
		}
		v, err := o.element(dec, t)
		if err != nil {
			return err
		}
		emit(name, v)
	}
	return dec.ReadEndDocument()
}

// dropSince closes and forgets the children adopted after mark. None of
// them has reached the store yet.
func (o *owner) dropSince(mark int) {
	for _, c := range o.children[mark:] {
		if err := c.Close(); err != nil {
			o.cfg.log.Warn("lazy: release discarded child failed", "kind", o.kind, "error", err)
		}
	}
	clear(o.children[mark:])
	o.children = o.children[:mark]
}

func (o *owner) element(dec StreamDecoder, t types.BSONType) (Value, error) {
	switch t {
	case types.TypeDocument:
		sub, err := dec.ReadRawDocument()
		if err != nil {
			return Value{}, err
		}
		d := newDocument(sub, o.cfg)
		o.adopt(d)
		return DocumentValue(d), nil
	case types.TypeArray:
		sub, err := dec.ReadRawArray()
		if err != nil {
			return Value{}, err
		}
		a := newArray(sub, o.cfg)
		o.adopt(a)
		return ArrayValue(a), nil
	default:
		sv, err := dec.ReadValue()
		if err != nil {
			return Value{}, err
		}
		return Scalar(sv), nil
	}
}

// malformed wraps a decode-phase error. Nothing was swapped, so the handle
// is left exactly as it was.
func (o *owner) malformed(err error) error {
	o.cfg.stats.record(statMalformed)
	o.cfg.log.Debug("lazy: decode failed", "kind", o.kind, "error", err)
	return types.Wrap(types.ErrKindFormat, "decode "+o.kind, err)
}

// commit moves the decoded fields into the store. The buffer is moved out
// before insert runs and restored if it fails, after a best-effort clear.
//
// The clear is not atomic: a store whose Clear fails may keep stray fields
// while the handle reports itself unmaterialized again.
func (o *owner) commit(n int, insert, reset func() error) error {
	saved := o.buf
	o.buf = nil
	o.advance(eventBegin)

	if err := insert(); err != nil {
		if cerr := reset(); cerr != nil {
			o.cfg.log.Warn("lazy: rollback clear failed", "kind", o.kind, "error", cerr)
		}
		o.buf = saved
		o.advance(eventRolledBack)
		o.cfg.stats.record(statRolledBack)
		o.cfg.log.Debug("lazy: commit rolled back", "kind", o.kind, "error", err)
		return types.Wrap(types.ErrKindCommit, "commit "+o.kind, err)
	}

	o.advance(eventCommitted)
	if err := saved.Release(); err != nil {
		o.cfg.log.Warn("lazy: release after commit failed", "kind", o.kind, "error", err)
	}
	o.cfg.stats.record(statMaterialized)
	o.cfg.log.Debug("lazy: materialized", "kind", o.kind, "fields", n, "children", len(o.children))
	return nil
}

// duplicate returns an independent view of the held buffer for cloning an
// unmaterialized handle.
func (o *owner) duplicate() (buffer.Buffer, error) {
	dup, err := o.buf.Duplicate()
	if err != nil {
		return nil, types.Wrap(types.ErrKindState, "duplicate "+o.kind+" buffer", err)
	}
	o.cfg.stats.record(statCloned)
	o.cfg.log.Debug("lazy: cloned without materializing", "kind", o.kind, "bytes", dup.Len())
	return dup, nil
}

// cloneable reports why a handle cannot be cloned right now, if it can't.
func (o *owner) cloneable() error {
	if o.closed {
		return types.ErrDisposed
	}
	if o.state == stateMaterializing {
		return types.Wrap(types.ErrKindState, o.kind+": materialization in progress", nil)
	}
	return nil
}

// deepCopy returns v with nested containers deep-cloned and adopted by o.
func (o *owner) deepCopy(v Value) (Value, error) {
	if v.isNilContainer() {
		return v, nil
	}
	switch v.kind {
	case KindDocument:
		c, err := v.doc.DeepClone()
		if err != nil {
			return Value{}, err
		}
		o.adopt(c)
		return DocumentValue(c), nil
	case KindArray:
		c, err := v.arr.DeepClone()
		if err != nil {
			return Value{}, err
		}
		o.adopt(c)
		return ArrayValue(c), nil
	default:
		return v, nil
	}
}

// RawBuffer returns the encoded bytes while the handle is unmaterialized,
// nil after materialization or Close.
func (o *owner) RawBuffer() []byte {
	if o.buf == nil {
		return nil
	}
	return o.buf.Bytes()
}

// IsMaterialized reports whether the fields have been decoded.
func (o *owner) IsMaterialized() bool { return o.state == stateMaterialized }

// IsClosed reports whether Close has been called.
func (o *owner) IsClosed() bool { return o.closed }

// Children returns the number of child handles this handle owns.
func (o *owner) Children() int { return len(o.children) }

// Close releases the buffer if still held and closes every owned child,
// depth first. Errors are joined and returned by the first call only; later
// calls return nil.
func (o *owner) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	var errs []error
	if o.buf != nil {
		if err := o.buf.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release %s buffer: %w", o.kind, err))
		}
		o.buf = nil
	}
	n := len(o.children)
	for _, c := range o.children {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	clear(o.children)
	o.children = nil

	o.cfg.stats.record(statClosed)
	o.cfg.log.Debug("lazy: closed", "kind", o.kind, "children", n)
	return errors.Join(errs...)
}

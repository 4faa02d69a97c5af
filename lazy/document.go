package lazy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/fnv"
	"iter"

	"github.com/joshuapare/bsonkit/buffer"
	"github.com/joshuapare/bsonkit/pkg/types"
	"github.com/joshuapare/bsonkit/store"
)

// Document is a lazily decoded document: named fields in encounter order.
type Document struct {
	owner
	fields store.Fields[Value]
}

// NewDocument returns an unmaterialized Document over b, taking ownership of
// b. Nothing is decoded until the first field access.
func NewDocument(b buffer.Buffer, opts ...Option) (*Document, error) {
	if b == nil {
		return nil, types.Wrap(types.ErrKindArgument, "document: nil buffer", nil)
	}
	return newDocument(b, newConfig(opts)), nil
}

// NewDocumentFromBytes wraps raw in a buffer the Document owns outright.
// raw is not copied and must not be modified while the Document holds it.
func NewDocumentFromBytes(raw []byte, opts ...Option) (*Document, error) {
	if raw == nil {
		return nil, types.Wrap(types.ErrKindArgument, "document: nil bytes", nil)
	}
	return newDocument(buffer.New(raw), newConfig(opts)), nil
}

func newDocument(b buffer.Buffer, cfg *config) *Document {
	return &Document{
		owner:  owner{cfg: cfg, kind: "document", buf: b},
		fields: cfg.newFields(cfg.opts.AllowDuplicateNames),
	}
}

func (d *Document) ensure() error { return d.accessible(d.materialize) }

func (d *Document) materialize() error {
	var pending []store.Element[Value]
	err := d.decode(true, func(name string, v Value) {
		pending = append(pending, store.Element[Value]{Name: name, Value: v})
	})
	if err != nil {
		return d.malformed(err)
	}
	return d.commit(len(pending), func() error { return d.fields.AddRange(pending) }, d.fields.Clear)
}

// Len returns the number of fields.
func (d *Document) Len() (int, error) {
	if err := d.ensure(); err != nil {
		return 0, err
	}
	return d.fields.Len(), nil
}

// At returns the name and value of the i-th field.
func (d *Document) At(i int) (string, Value, error) {
	if err := d.ensure(); err != nil {
		return "", Value{}, err
	}
	e, err := d.fields.At(i)
	if err != nil {
		return "", Value{}, storeErr(err)
	}
	return e.Name, e.Value, nil
}

// Lookup returns the first field named name.
func (d *Document) Lookup(name string) (Value, bool, error) {
	if err := d.ensure(); err != nil {
		return Value{}, false, err
	}
	v, ok := d.fields.Lookup(name)
	return v, ok, nil
}

// Get is Lookup that fails with types.ErrNotFound for a missing name.
func (d *Document) Get(name string) (Value, error) {
	v, ok, err := d.Lookup(name)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return Value{}, types.Wrap(types.ErrKindNotFound, fmt.Sprintf("field %q", name), nil)
	}
	return v, nil
}

// Contains reports whether a field named name exists.
func (d *Document) Contains(name string) (bool, error) {
	_, ok, err := d.Lookup(name)
	return ok, err
}

// IndexOf returns the position of the first field named name, or -1.
func (d *Document) IndexOf(name string) (int, error) {
	if err := d.ensure(); err != nil {
		return -1, err
	}
	return d.fields.IndexOf(name), nil
}

// Names returns the field names in order.
func (d *Document) Names() ([]string, error) {
	if err := d.ensure(); err != nil {
		return nil, err
	}
	out := make([]string, 0, d.fields.Len())
	for name := range d.fields.All() {
		out = append(out, name)
	}
	return out, nil
}

// Values returns the field values in order.
func (d *Document) Values() ([]Value, error) {
	if err := d.ensure(); err != nil {
		return nil, err
	}
	out := make([]Value, 0, d.fields.Len())
	for _, v := range d.fields.All() {
		out = append(out, v)
	}
	return out, nil
}

// All returns an iterator over the fields in encounter order. The iterator
// reads the live store; mutating the document while ranging is undefined.
func (d *Document) All() (iter.Seq2[string, Value], error) {
	if err := d.ensure(); err != nil {
		return nil, err
	}
	return d.fields.All(), nil
}

// Add appends a field. v's nested containers stay owned by the caller.
func (d *Document) Add(name string, v Value) error {
	if err := d.ensure(); err != nil {
		return err
	}
	return storeErr(d.fields.Add(name, v))
}

// Set replaces the first field named name, or appends it.
func (d *Document) Set(name string, v Value) error {
	if err := d.ensure(); err != nil {
		return err
	}
	d.fields.Set(name, v)
	return nil
}

// SetAt replaces the value at position i, keeping its name.
func (d *Document) SetAt(i int, v Value) error {
	if err := d.ensure(); err != nil {
		return err
	}
	return storeErr(d.fields.SetAt(i, v))
}

// InsertAt inserts a field at position i, shifting later fields.
func (d *Document) InsertAt(i int, name string, v Value) error {
	if err := d.ensure(); err != nil {
		return err
	}
	return storeErr(d.fields.InsertAt(i, name, v))
}

// Remove deletes the first field named name and reports whether it existed.
// A removed child handle stays owned and is closed with the document.
func (d *Document) Remove(name string) (bool, error) {
	if err := d.ensure(); err != nil {
		return false, err
	}
	_, ok := d.fields.Remove(name)
	return ok, nil
}

// RemoveAt deletes the field at position i.
func (d *Document) RemoveAt(i int) error {
	if err := d.ensure(); err != nil {
		return err
	}
	_, err := d.fields.RemoveAt(i)
	return storeErr(err)
}

// Clear removes every field.
func (d *Document) Clear() error {
	if err := d.ensure(); err != nil {
		return err
	}
	return d.fields.Clear()
}

// Merge copies other's fields into d. Names d already has are replaced only
// when overwrite is set. Nested containers are deep-cloned and owned by d.
func (d *Document) Merge(other *Document, overwrite bool) error {
	if other == nil {
		return types.Wrap(types.ErrKindArgument, "merge: nil document", nil)
	}
	if err := d.ensure(); err != nil {
		return err
	}
	if err := other.ensure(); err != nil {
		return err
	}
	var pending []store.Element[Value]
	for name, v := range other.fields.All() {
		pending = append(pending, store.Element[Value]{Name: name, Value: v})
	}
	for _, e := range pending {
		i := d.fields.IndexOf(e.Name)
		if i >= 0 && !overwrite {
			continue
		}
		v, err := d.deepCopy(e.Value)
		if err != nil {
			return err
		}
		if i >= 0 {
			err = d.fields.SetAt(i, v)
		} else {
			err = d.fields.Add(e.Name, v)
		}
		if err != nil {
			return storeErr(err)
		}
	}
	return nil
}

// Equal reports whether both documents hold the same names and values in
// the same order. Both sides are materialized.
func (d *Document) Equal(other *Document) (bool, error) {
	if err := d.ensure(); err != nil {
		return false, err
	}
	if other == nil {
		return false, nil
	}
	if other == d {
		return true, nil
	}
	if err := other.ensure(); err != nil {
		return false, err
	}
	if d.fields.Len() != other.fields.Len() {
		return false, nil
	}
	for i := range d.fields.Len() {
		a, _ := d.fields.At(i)
		b, _ := other.fields.At(i)
		if a.Name != b.Name {
			return false, nil
		}
		eq, err := a.Value.Equal(b.Value)
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

// Hash returns an FNV-1a hash of the names and values; equal documents hash
// equally. Nested containers are materialized.
func (d *Document) Hash() (uint64, error) {
	h := fnv.New64a()
	if err := d.hashInto(h); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func (d *Document) hashInto(h hash.Hash64) error {
	if err := d.ensure(); err != nil {
		return err
	}
	h.Write(binary.LittleEndian.AppendUint64(nil, uint64(d.fields.Len())))
	for name, v := range d.fields.All() {
		h.Write([]byte(name))
		h.Write([]byte{0})
		if err := v.hashInto(h); err != nil {
			return err
		}
	}
	return nil
}

// ToMap converts the document to plain Go values, materializing every
// nested container. The first occurrence of a duplicate name wins.
func (d *Document) ToMap() (map[string]any, error) {
	if err := d.ensure(); err != nil {
		return nil, err
	}
	out := make(map[string]any, d.fields.Len())
	for name, v := range d.fields.All() {
		if _, dup := out[name]; dup {
			continue
		}
		plain, err := v.Interface()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = plain
	}
	return out, nil
}

// Clone copies d. An unmaterialized document is cloned over a duplicate of
// its buffer without decoding. A materialized one gets a shallow store copy
// whose nested handles are shared with, and owned by, d.
func (d *Document) Clone() (*Document, error) {
	return d.clone(false)
}

// DeepClone is Clone with nested containers cloned recursively and owned by
// the copy.
func (d *Document) DeepClone() (*Document, error) {
	return d.clone(true)
}

func (d *Document) clone(deep bool) (*Document, error) {
	if err := d.cloneable(); err != nil {
		return nil, err
	}
	if d.state == stateUnmaterialized {
		dup, err := d.duplicate()
		if err != nil {
			return nil, err
		}
		return newDocument(dup, d.cfg), nil
	}

	c := &Document{owner: owner{cfg: d.cfg, kind: d.kind, state: stateMaterialized}}
	d.cfg.stats.record(statCloned)
	if !deep {
		c.fields = d.fields.Clone()
		return c, nil
	}
	c.fields = d.cfg.newFields(d.cfg.opts.AllowDuplicateNames)
	elems := make([]store.Element[Value], 0, d.fields.Len())
	for name, v := range d.fields.All() {
		cv, err := c.deepCopy(v)
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		elems = append(elems, store.Element[Value]{Name: name, Value: cv})
	}
	if err := c.fields.AddRange(elems); err != nil {
		return nil, errors.Join(types.Wrap(types.ErrKindCommit, "deep clone document", err), c.Close())
	}
	return c, nil
}

// storeErr maps store errors onto the typed categories.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrIndex):
		return types.Wrap(types.ErrKindNotFound, "index", err)
	case errors.Is(err, store.ErrDuplicateName):
		return types.Wrap(types.ErrKindArgument, "name", err)
	default:
		return err
	}
}

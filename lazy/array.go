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

// Array is a lazily decoded array. Positions come from decode order; the
// element names in the encoding are skipped, not validated.
type Array struct {
	owner
	items store.List[Value]
}

// NewArray returns an unmaterialized Array over b, taking ownership of b.
func NewArray(b buffer.Buffer, opts ...Option) (*Array, error) {
	if b == nil {
		return nil, types.Wrap(types.ErrKindArgument, "array: nil buffer", nil)
	}
	return newArray(b, newConfig(opts)), nil
}

// NewArrayFromBytes wraps raw in a buffer the Array owns outright.
func NewArrayFromBytes(raw []byte, opts ...Option) (*Array, error) {
	if raw == nil {
		return nil, types.Wrap(types.ErrKindArgument, "array: nil bytes", nil)
	}
	return newArray(buffer.New(raw), newConfig(opts)), nil
}

func newArray(b buffer.Buffer, cfg *config) *Array {
	return &Array{
		owner: owner{cfg: cfg, kind: "array", buf: b},
		items: cfg.newList(),
	}
}

func (a *Array) ensure() error { return a.accessible(a.materialize) }

func (a *Array) materialize() error {
	var pending []Value
	err := a.decode(false, func(_ string, v Value) {
		pending = append(pending, v)
	})
	if err != nil {
		return a.malformed(err)
	}
	return a.commit(len(pending), func() error { return a.items.AddRange(pending) }, a.items.Clear)
}

// Len returns the number of elements.
func (a *Array) Len() (int, error) {
	if err := a.ensure(); err != nil {
		return 0, err
	}
	return a.items.Len(), nil
}

// At returns the element at position i; out of range is types.ErrNotFound.
func (a *Array) At(i int) (Value, error) {
	if err := a.ensure(); err != nil {
		return Value{}, err
	}
	v, err := a.items.At(i)
	return v, storeErr(err)
}

// All returns an iterator over the elements in order.
func (a *Array) All() (iter.Seq2[int, Value], error) {
	if err := a.ensure(); err != nil {
		return nil, err
	}
	return a.items.All(), nil
}

// Values returns the elements in order.
func (a *Array) Values() ([]Value, error) {
	if err := a.ensure(); err != nil {
		return nil, err
	}
	out := make([]Value, 0, a.items.Len())
	for _, v := range a.items.All() {
		out = append(out, v)
	}
	return out, nil
}

// IndexOf returns the position of the first element equal to v, or -1.
func (a *Array) IndexOf(v Value) (int, error) {
	if err := a.ensure(); err != nil {
		return -1, err
	}
	for i, item := range a.items.All() {
		eq, err := item.Equal(v)
		if err != nil {
			return -1, err
		}
		if eq {
			return i, nil
		}
	}
	return -1, nil
}

// Contains reports whether any element equals v.
func (a *Array) Contains(v Value) (bool, error) {
	i, err := a.IndexOf(v)
	return i >= 0, err
}

// Append adds vs at the end. Nested containers stay owned by the caller.
func (a *Array) Append(vs ...Value) error {
	if err := a.ensure(); err != nil {
		return err
	}
	a.items.Append(vs...)
	return nil
}

// InsertAt inserts v at position i, shifting later elements.
func (a *Array) InsertAt(i int, v Value) error {
	if err := a.ensure(); err != nil {
		return err
	}
	return storeErr(a.items.InsertAt(i, v))
}

// SetAt replaces the element at position i.
func (a *Array) SetAt(i int, v Value) error {
	if err := a.ensure(); err != nil {
		return err
	}
	return storeErr(a.items.SetAt(i, v))
}

// RemoveAt deletes the element at position i.
func (a *Array) RemoveAt(i int) error {
	if err := a.ensure(); err != nil {
		return err
	}
	_, err := a.items.RemoveAt(i)
	return storeErr(err)
}

// Clear removes every element. Removed child handles stay owned.
func (a *Array) Clear() error {
	if err := a.ensure(); err != nil {
		return err
	}
	return a.items.Clear()
}

// Equal reports whether both arrays hold equal elements in the same order.
func (a *Array) Equal(other *Array) (bool, error) {
	if err := a.ensure(); err != nil {
		return false, err
	}
	if other == nil {
		return false, nil
	}
	if other == a {
		return true, nil
	}
	if err := other.ensure(); err != nil {
		return false, err
	}
	if a.items.Len() != other.items.Len() {
		return false, nil
	}
	for i := range a.items.Len() {
		x, _ := a.items.At(i)
		y, _ := other.items.At(i)
		eq, err := x.Equal(y)
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

// Hash returns an FNV-1a hash of the elements; equal arrays hash equally.
func (a *Array) Hash() (uint64, error) {
	h := fnv.New64a()
	if err := a.hashInto(h); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func (a *Array) hashInto(h hash.Hash64) error {
	if err := a.ensure(); err != nil {
		return err
	}
	h.Write(binary.LittleEndian.AppendUint64(nil, uint64(a.items.Len())))
	for _, v := range a.items.All() {
		if err := v.hashInto(h); err != nil {
			return err
		}
	}
	return nil
}

// ToSlice converts the array to plain Go values, materializing every nested
// container.
func (a *Array) ToSlice() ([]any, error) {
	if err := a.ensure(); err != nil {
		return nil, err
	}
	out := make([]any, 0, a.items.Len())
	for i, v := range a.items.All() {
		plain, err := v.Interface()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, plain)
	}
	return out, nil
}

// Clone follows the same rules as Document.Clone.
func (a *Array) Clone() (*Array, error) {
	return a.clone(false)
}

// DeepClone follows the same rules as Document.DeepClone.
func (a *Array) DeepClone() (*Array, error) {
	return a.clone(true)
}

func (a *Array) clone(deep bool) (*Array, error) {
	if err := a.cloneable(); err != nil {
		return nil, err
	}
	if a.state == stateUnmaterialized {
		dup, err := a.duplicate()
		if err != nil {
			return nil, err
		}
		return newArray(dup, a.cfg), nil
	}

	c := &Array{owner: owner{cfg: a.cfg, kind: a.kind, state: stateMaterialized}}
	a.cfg.stats.record(statCloned)
	if !deep {
		c.items = a.items.Clone()
		return c, nil
	}
	c.items = a.cfg.newList()
	vals := make([]Value, 0, a.items.Len())
	for _, v := range a.items.All() {
		cv, err := c.deepCopy(v)
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		vals = append(vals, cv)
	}
	if err := c.items.AddRange(vals); err != nil {
		return nil, errors.Join(types.Wrap(types.ErrKindCommit, "deep clone array", err), c.Close())
	}
	return c, nil
}

package store

import (
	"fmt"
	"iter"
)

// Element is one name/value pair.
type Element[V any] struct {
	Name  string
	Value V
}

// Fields is an insertion-ordered, name-addressed container.
type Fields[V any] interface {
	Len() int
	At(i int) (Element[V], error)
	// Lookup returns the value of the first element named name.
	Lookup(name string) (V, bool)
	// IndexOf returns the position of the first element named name, or -1.
	IndexOf(name string) int
	Add(name string, v V) error
	// AddRange appends elems in order.
	AddRange(elems []Element[V]) error
	// Set replaces the first element named name, or appends it.
	Set(name string, v V)
	SetAt(i int, v V) error
	InsertAt(i int, name string, v V) error
	RemoveAt(i int) (Element[V], error)
	// Remove deletes the first element named name.
	Remove(name string) (V, bool)
	Clear() error
	All() iter.Seq2[string, V]
	// Clone returns a shallow copy: values are copied, not deep-cloned.
	Clone() Fields[V]
}

// Ordered is the default Fields: a slice of elements plus a name index that
// points at the first occurrence of each name.
type Ordered[V any] struct {
	elems    []Element[V]
	index    map[string]int
	allowDup bool
}

var _ Fields[int] = (*Ordered[int])(nil)

// NewOrdered returns an empty Ordered. With allowDup false, Add, AddRange and
// InsertAt reject a name already present.
func NewOrdered[V any](allowDup bool) *Ordered[V] {
	return &Ordered[V]{index: make(map[string]int), allowDup: allowDup}
}

func (o *Ordered[V]) Len() int { return len(o.elems) }

func (o *Ordered[V]) At(i int) (Element[V], error) {
	if i < 0 || i >= len(o.elems) {
		return Element[V]{}, fmt.Errorf("at %d (len %d): %w", i, len(o.elems), ErrIndex)
	}
	return o.elems[i], nil
}

func (o *Ordered[V]) Lookup(name string) (V, bool) {
	i, ok := o.index[name]
	if !ok {
		var zero V
		return zero, false
	}
	return o.elems[i].Value, true
}

func (o *Ordered[V]) IndexOf(name string) int {
	if i, ok := o.index[name]; ok {
		return i
	}
	return -1
}

func (o *Ordered[V]) Add(name string, v V) error {
	if err := o.checkNew(name); err != nil {
		return err
	}
	o.index[name] = len(o.elems)
	o.elems = append(o.elems, Element[V]{Name: name, Value: v})
	return nil
}

// AddRange validates the whole batch before inserting, so a rejected batch
// leaves the container unchanged.
func (o *Ordered[V]) AddRange(elems []Element[V]) error {
	if !o.allowDup {
		seen := make(map[string]struct{}, len(elems))
		for _, e := range elems {
			if err := o.checkNew(e.Name); err != nil {
				return err
			}
			if _, dup := seen[e.Name]; dup {
				return fmt.Errorf("%q: %w", e.Name, ErrDuplicateName)
			}
			seen[e.Name] = struct{}{}
		}
	}
	for _, e := range elems {
		if _, ok := o.index[e.Name]; !ok {
			o.index[e.Name] = len(o.elems)
		}
		o.elems = append(o.elems, e)
	}
	return nil
}

func (o *Ordered[V]) Set(name string, v V) {
	if i, ok := o.index[name]; ok {
		o.elems[i].Value = v
		return
	}
	o.index[name] = len(o.elems)
	o.elems = append(o.elems, Element[V]{Name: name, Value: v})
}

func (o *Ordered[V]) SetAt(i int, v V) error {
	if i < 0 || i >= len(o.elems) {
		return fmt.Errorf("set at %d (len %d): %w", i, len(o.elems), ErrIndex)
	}
	o.elems[i].Value = v
	return nil
}

func (o *Ordered[V]) InsertAt(i int, name string, v V) error {
	if i < 0 || i > len(o.elems) {
		return fmt.Errorf("insert at %d (len %d): %w", i, len(o.elems), ErrIndex)
	}
	if err := o.checkNew(name); err != nil {
		return err
	}
	o.elems = append(o.elems, Element[V]{})
	copy(o.elems[i+1:], o.elems[i:])
	o.elems[i] = Element[V]{Name: name, Value: v}
	o.reindex()
	return nil
}

func (o *Ordered[V]) RemoveAt(i int) (Element[V], error) {
	if i < 0 || i >= len(o.elems) {
		return Element[V]{}, fmt.Errorf("remove at %d (len %d): %w", i, len(o.elems), ErrIndex)
	}
	e := o.elems[i]
	o.elems = append(o.elems[:i], o.elems[i+1:]...)
	o.reindex()
	return e, nil
}

func (o *Ordered[V]) Remove(name string) (V, bool) {
	i, ok := o.index[name]
	if !ok {
		var zero V
		return zero, false
	}
	e, _ := o.RemoveAt(i)
	return e.Value, true
}

func (o *Ordered[V]) Clear() error {
	clear(o.elems)
	o.elems = o.elems[:0]
	clear(o.index)
	return nil
}

func (o *Ordered[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, e := range o.elems {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}

func (o *Ordered[V]) Clone() Fields[V] {
	c := &Ordered[V]{
		elems:    make([]Element[V], len(o.elems)),
		index:    make(map[string]int, len(o.index)),
		allowDup: o.allowDup,
	}
	copy(c.elems, o.elems)
	for k, v := range o.index {
		c.index[k] = v
	}
	return c
}

func (o *Ordered[V]) checkNew(name string) error {
	if o.allowDup {
		return nil
	}
	if _, ok := o.index[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	return nil
}

// reindex rebuilds the first-occurrence index after a positional shift.
func (o *Ordered[V]) reindex() {
	clear(o.index)
	for i, e := range o.elems {
		if _, ok := o.index[e.Name]; !ok {
			o.index[e.Name] = i
		}
	}
}

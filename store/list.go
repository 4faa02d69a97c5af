package store

import (
	"fmt"
	"iter"
	"slices"
)

// List is a position-addressed container.
type List[V any] interface {
	Len() int
	At(i int) (V, error)
	Append(vs ...V)
	// AddRange appends vs in order.
	AddRange(vs []V) error
	SetAt(i int, v V) error
	InsertAt(i int, v V) error
	RemoveAt(i int) (V, error)
	Clear() error
	All() iter.Seq2[int, V]
	// Clone returns a shallow copy.
	Clone() List[V]
}

// Slice is the default List.
type Slice[V any] struct {
	vals []V
}

var _ List[int] = (*Slice[int])(nil)

func NewSlice[V any]() *Slice[V] { return &Slice[V]{} }

func (s *Slice[V]) Len() int { return len(s.vals) }

func (s *Slice[V]) At(i int) (V, error) {
	if i < 0 || i >= len(s.vals) {
		var zero V
		return zero, fmt.Errorf("at %d (len %d): %w", i, len(s.vals), ErrIndex)
	}
	return s.vals[i], nil
}

func (s *Slice[V]) Append(vs ...V) { s.vals = append(s.vals, vs...) }

func (s *Slice[V]) AddRange(vs []V) error {
	s.vals = append(s.vals, vs...)
	return nil
}

func (s *Slice[V]) SetAt(i int, v V) error {
	if i < 0 || i >= len(s.vals) {
		return fmt.Errorf("set at %d (len %d): %w", i, len(s.vals), ErrIndex)
	}
	s.vals[i] = v
	return nil
}

func (s *Slice[V]) InsertAt(i int, v V) error {
	if i < 0 || i > len(s.vals) {
		return fmt.Errorf("insert at %d (len %d): %w", i, len(s.vals), ErrIndex)
	}
	s.vals = slices.Insert(s.vals, i, v)
	return nil
}

func (s *Slice[V]) RemoveAt(i int) (V, error) {
	if i < 0 || i >= len(s.vals) {
		var zero V
		return zero, fmt.Errorf("remove at %d (len %d): %w", i, len(s.vals), ErrIndex)
	}
	v := s.vals[i]
	s.vals = slices.Delete(s.vals, i, i+1)
	return v, nil
}

func (s *Slice[V]) Clear() error {
	clear(s.vals)
	s.vals = s.vals[:0]
	return nil
}

func (s *Slice[V]) All() iter.Seq2[int, V] {
	return slices.All(s.vals)
}

func (s *Slice[V]) Clone() List[V] {
	return &Slice[V]{vals: slices.Clone(s.vals)}
}

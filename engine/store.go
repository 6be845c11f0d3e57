package engine

import (
	"iter"

	"github.com/lixenwraith/softsim/core"
)

const absent = -1

// Store is a fixed-capacity sparse set holding component T for at most one entity per slot
// Dense values and owners are parallel arrays; sparse maps slot to dense index
// Not safe for concurrent mutation; each table is written by one system per substep
type Store[T any] struct {
	values []T
	owners []core.Entity
	sparse []int32
}

// NewStore creates a store for slots [0, capacity)
func NewStore[T any](capacity int) *Store[T] {
	sparse := make([]int32, capacity)
	for i := range sparse {
		sparse[i] = absent
	}
	return &Store[T]{
		values: make([]T, 0, capacity),
		owners: make([]core.Entity, 0, capacity),
		sparse: sparse,
	}
}

// index resolves e to its dense index, rejecting handles from another generation
func (s *Store[T]) index(e core.Entity) (int, bool) {
	slot := int(e.Slot())
	if e.IsNull() || slot >= len(s.sparse) {
		return 0, false
	}
	i := s.sparse[slot]
	if i == absent || s.owners[i] != e {
		return 0, false
	}
	return int(i), true
}

// Insert adds val for e; returns false if e already has one or its slot is out of range
// A leftover entry from an older generation of the slot is replaced
func (s *Store[T]) Insert(e core.Entity, val T) bool {
	slot := int(e.Slot())
	if e.IsNull() || slot >= len(s.sparse) {
		return false
	}
	if i := s.sparse[slot]; i != absent {
		if s.owners[i] == e {
			return false
		}
		s.owners[i] = e
		s.values[i] = val
		return true
	}
	s.sparse[slot] = int32(len(s.values))
	s.values = append(s.values, val)
	s.owners = append(s.owners, e)
	return true
}

// Set inserts or overwrites the component for e
func (s *Store[T]) Set(e core.Entity, val T) bool {
	if i, ok := s.index(e); ok {
		s.values[i] = val
		return true
	}
	return s.Insert(e, val)
}

// Remove swap-removes the component for e, patching the moved entry's slot
func (s *Store[T]) Remove(e core.Entity) bool {
	i, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.values) - 1
	if i != last {
		moved := s.owners[last]
		s.values[i] = s.values[last]
		s.owners[i] = moved
		s.sparse[moved.Slot()] = int32(i)
	}
	var zero T
	s.values[last] = zero
	s.values = s.values[:last]
	s.owners = s.owners[:last]
	s.sparse[e.Slot()] = absent
	return true
}

// Get returns a pointer into the dense array, valid until the next Insert or Remove
func (s *Store[T]) Get(e core.Entity) (*T, bool) {
	i, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return &s.values[i], true
}

// Has reports whether e currently owns a component
func (s *Store[T]) Has(e core.Entity) bool {
	_, ok := s.index(e)
	return ok
}

// Len returns the number of stored components
func (s *Store[T]) Len() int {
	return len(s.values)
}

// Capacity returns the slot count the store was created with
func (s *Store[T]) Capacity() int {
	return len(s.sparse)
}

// Clear removes every component
func (s *Store[T]) Clear() {
	for _, e := range s.owners {
		s.sparse[e.Slot()] = absent
	}
	clear(s.values)
	s.values = s.values[:0]
	s.owners = s.owners[:0]
}

// Entities returns a copy of the owners in dense order
func (s *Store[T]) Entities() []core.Entity {
	result := make([]core.Entity, len(s.owners))
	copy(result, s.owners)
	return result
}

// Values returns the dense value array; order matches Entities until the next mutation
func (s *Store[T]) Values() []T {
	return s.values
}

// All iterates owners and values in dense order
func (s *Store[T]) All() iter.Seq2[core.Entity, T] {
	return func(yield func(core.Entity, T) bool) {
		for i := range s.values {
			if !yield(s.owners[i], s.values[i]) {
				return
			}
		}
	}
}

// AllMut iterates owners and pointers to values in dense order
// The body must not insert into or remove from this store
func (s *Store[T]) AllMut() iter.Seq2[core.Entity, *T] {
	return func(yield func(core.Entity, *T) bool) {
		for i := range s.values {
			if !yield(s.owners[i], &s.values[i]) {
				return
			}
		}
	}
}

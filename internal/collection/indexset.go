package collection

import (
	"github.com/google/btree"
)

const indexSetDegree = 16

// IndexSet is an ordered set of non-negative indices. It stays sparse, so
// tracking a handful of selected rows in a large collection costs O(k).
type IndexSet struct {
	tree *btree.BTreeG[int]
}

// NewIndexSet creates a set holding indices
func NewIndexSet(indices ...int) *IndexSet {
	s := &IndexSet{tree: btree.NewOrderedG[int](indexSetDegree)}
	for _, i := range indices {
		s.tree.ReplaceOrInsert(i)
	}
	return s
}

// Add inserts i and reports whether it was absent
func (s *IndexSet) Add(i int) bool {
	_, existed := s.tree.ReplaceOrInsert(i)
	return !existed
}

// Remove deletes i and reports whether it was present
func (s *IndexSet) Remove(i int) bool {
	_, found := s.tree.Delete(i)
	return found
}

// Has reports whether i is in the set
func (s *IndexSet) Has(i int) bool {
	return s.tree.Has(i)
}

// Len returns the number of indices
func (s *IndexSet) Len() int {
	return s.tree.Len()
}

// Clear empties the set
func (s *IndexSet) Clear() {
	s.tree.Clear(false)
}

// Values returns the indices in ascending order
func (s *IndexSet) Values() []int {
	out := make([]int, 0, s.tree.Len())
	s.tree.Ascend(func(i int) bool {
		out = append(out, i)
		return true
	})
	return out
}

// Ascend calls fn for each index in ascending order until fn returns false
func (s *IndexSet) Ascend(fn func(i int) bool) {
	s.tree.Ascend(fn)
}

// Clone returns an independent copy
func (s *IndexSet) Clone() *IndexSet {
	return &IndexSet{tree: s.tree.Clone()}
}

// ShiftFrom moves every index >= start by delta. Used when rows are inserted
// (delta > 0) ahead of tracked indices.
func (s *IndexSet) ShiftFrom(start, delta int) {
	if delta == 0 {
		return
	}
	var moved []int
	s.tree.AscendGreaterOrEqual(start, func(i int) bool {
		moved = append(moved, i)
		return true
	})
	for _, i := range moved {
		s.tree.Delete(i)
	}
	for _, i := range moved {
		if i+delta >= 0 {
			s.tree.ReplaceOrInsert(i + delta)
		}
	}
}

// RemoveAndShift drops index and closes the gap by moving every larger index
// down by one. It reports whether index was present.
func (s *IndexSet) RemoveAndShift(index int) bool {
	found := s.Remove(index)
	s.ShiftFrom(index+1, -1)
	return found
}

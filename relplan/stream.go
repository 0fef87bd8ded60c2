package relplan

import "iter"

// Stream is a lazily evaluated, single-pass sequence.
//
// A Stream is spent once it has been ranged over, even partially.  Ranging over a spent Stream yields nothing,
// so a caller wanting to revisit results must Collect() them.
type Stream[T any] struct {
	seq   iter.Seq[T]
	spent bool
}

// NewStream wraps the given sequence.
func NewStream[T any](seq iter.Seq[T]) *Stream[T] {
	return &Stream[T]{
		seq: seq,
	}
}

// All returns the sequence backing this Stream, marking it spent when iteration starts.
func (s *Stream[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s.spent || s.seq == nil {
			return
		}
		s.spent = true
		s.seq(yield)
	}
}

// Spent reports if this Stream has already been iterated.
func (s *Stream[T]) Spent() bool {
	return s.spent
}

// First returns the first item and stops the underlying search.
func (s *Stream[T]) First() (T, bool) {
	for item := range s.All() {
		return item, true
	}
	var zero T
	return zero, false
}

// Any reports if this Stream yields at least one item.
func (s *Stream[T]) Any() bool {
	_, ok := s.First()
	return ok
}

// Collect drains this Stream into a slice.
func (s *Stream[T]) Collect() []T {
	var items []T
	for item := range s.All() {
		items = append(items, item)
	}
	return items
}

// Count drains this Stream and returns the number of items seen.
func (s *Stream[T]) Count() int {
	count := 0
	for range s.All() {
		count++
	}
	return count
}

// Filter returns a Stream of the items of s for which keep returns true.
func Filter[T any](s *Stream[T], keep func(T) bool) *Stream[T] {
	return NewStream(func(yield func(T) bool) {
		for item := range s.All() {
			if keep(item) && !yield(item) {
				return
			}
		}
	})
}

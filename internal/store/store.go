package store

import (
	"fmt"
	"sync"
)

const (
	// defaultCapacity roughly matches the image count of a typical fixed
	// target collection, so most runs never reallocate.
	defaultCapacity = 26000
	// growthIncrement is the minimum number of slots added on growth.
	growthIncrement = 10000
)

// Store is an append-only, index-addressable buffer of records.
//
// A single writer appends; concurrent readers are safe. Length is
// monotonically non-decreasing and already-written positions never change.
type Store[T any] struct {
	mu      sync.RWMutex
	records []T
}

// New returns an empty store with the default preallocated capacity.
func New[T any]() *Store[T] {
	return &Store[T]{records: make([]T, 0, defaultCapacity)}
}

// NewWithCapacity returns an empty store with a specific initial capacity.
func NewWithCapacity[T any](capacity int) *Store[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Store[T]{records: make([]T, 0, capacity)}
}

// Append adds one record to the end of the store.
func (s *Store[T]) Append(record T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == cap(s.records) {
		grown := make([]T, len(s.records), grownCapacity(cap(s.records)))
		copy(grown, s.records)
		s.records = grown
	}
	s.records = append(s.records, record)
}

func grownCapacity(current int) int {
	next := current * 2
	if next < current+growthIncrement {
		next = current + growthIncrement
	}
	return next
}

// Len returns the number of records appended so far.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Tail returns a copy of the last n records in append order. If n exceeds
// the current length, all records are returned.
func (s *Store[T]) Tail(n int) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	if n > len(s.records) {
		n = len(s.records)
	}
	out := make([]T, n)
	copy(out, s.records[len(s.records)-n:])
	return out
}

// Slice returns a copy of the records in [from, to). Negative indices count
// from the end, so Slice(-5, Len()) is the last five records. Bounds are
// clamped to the valid range.
func (s *Store[T]) Slice(from, to int) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	length := len(s.records)
	from = resolveIndex(from, length)
	to = resolveIndex(to, length)
	if from >= to {
		return nil
	}
	out := make([]T, to-from)
	copy(out, s.records[from:to])
	return out
}

// At returns the record at the given index. Negative indices count from
// the end.
func (s *Store[T]) At(index int) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	length := len(s.records)
	if index < 0 {
		index += length
	}
	if index < 0 || index >= length {
		var zero T
		return zero, fmt.Errorf("store index %d out of range (len %d)", index, length)
	}
	return s.records[index], nil
}

func resolveIndex(index, length int) int {
	if index < 0 {
		index += length
	}
	if index < 0 {
		return 0
	}
	if index > length {
		return length
	}
	return index
}

package ds

import (
	"sync"
	"sync/atomic"
)

type coarseGrained[T comparable] struct {
	mu    sync.RWMutex
	h     hasher[T]
	table [][]T
	size  atomic.Int64
}

// NewCoarseGrained returns a set that serializes every mutation behind
// one write lock; Contains runs under the shared read lock. The lock
// is always acquired before the membership check so that check and
// mutation form a single critical section.
func NewCoarseGrained[T comparable](initialCapacity int) (Set[T], error) {
	if initialCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &coarseGrained[T]{
		h:     newHasher[T](),
		table: make([][]T, initialCapacity),
	}, nil
}

func (s *coarseGrained[T]) Add(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.h.bucketIndex(item, len(s.table))
	if bucketContains(s.table[i], item) {
		return false
	}
	s.table[i] = append(s.table[i], item)
	s.size.Add(1)

	// the write lock needed for a resize is already held
	if s.policy() {
		s.table = rehash(s.table, s.h, len(s.table)*2)
	}
	return true
}

func (s *coarseGrained[T]) Remove(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.h.bucketIndex(item, len(s.table))
	bucket, removed := bucketRemove(s.table[i], item)
	if !removed {
		return false
	}
	s.table[i] = bucket
	s.size.Add(-1)
	return true
}

func (s *coarseGrained[T]) Contains(item T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bucketContains(s.table[s.h.bucketIndex(item, len(s.table))], item)
}

func (s *coarseGrained[T]) Size() int {
	return int(s.size.Load())
}

func (s *coarseGrained[T]) policy() bool {
	return int(s.size.Load()) > bucketCapacity*len(s.table)
}

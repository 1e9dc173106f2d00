package ds

import (
	"sync"
	"sync/atomic"
)

type striped[T comparable] struct {
	h       hasher[T]
	stripes []sync.Mutex // fixed at construction, never grows
	table   [][]T        // each bucket guarded by the stripe owning it
	size    atomic.Int64
}

// NewStriped returns a set whose buckets are guarded by a fixed array
// of stripe locks sized at construction. Operations on elements owned
// by different stripes run in parallel; a resize takes every stripe.
// The stripe count stays fixed while the table doubles, so each stripe
// owns more buckets over time.
func NewStriped[T comparable](initialCapacity int) (Set[T], error) {
	if initialCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &striped[T]{
		h:       newHasher[T](),
		stripes: make([]sync.Mutex, initialCapacity),
		table:   make([][]T, initialCapacity),
	}, nil
}

func (s *striped[T]) Add(item T) bool {
	added, oldCapacity, grow := s.insert(item)
	if grow {
		s.resize(oldCapacity)
	}
	return added
}

// insert is the locked part of Add. It reports the capacity it
// observed so a triggered resize can detect that another goroutine
// already grew the table.
func (s *striped[T]) insert(item T) (added bool, oldCapacity int, grow bool) {
	stripe := s.stripeFor(item)
	stripe.Lock()
	defer stripe.Unlock()

	capacity := len(s.table)
	i := s.h.bucketIndex(item, capacity)
	if bucketContains(s.table[i], item) {
		return false, capacity, false
	}
	s.table[i] = append(s.table[i], item)
	s.size.Add(1)
	return true, capacity, s.policy(capacity)
}

func (s *striped[T]) Remove(item T) bool {
	stripe := s.stripeFor(item)
	stripe.Lock()
	defer stripe.Unlock()

	i := s.h.bucketIndex(item, len(s.table))
	bucket, removed := bucketRemove(s.table[i], item)
	if !removed {
		return false
	}
	s.table[i] = bucket
	s.size.Add(-1)
	return true
}

func (s *striped[T]) Contains(item T) bool {
	stripe := s.stripeFor(item)
	stripe.Lock()
	defer stripe.Unlock()
	return bucketContains(s.table[s.h.bucketIndex(item, len(s.table))], item)
}

func (s *striped[T]) Size() int {
	return int(s.size.Load())
}

func (s *striped[T]) stripeFor(item T) *sync.Mutex {
	return &s.stripes[s.h.hash(item)%uint64(len(s.stripes))]
}

func (s *striped[T]) policy(capacity int) bool {
	return int(s.size.Load()) > bucketCapacity*capacity
}

// resize doubles the table unless another goroutine already did. The
// caller must hold no stripe: lockAll would deadlock re-acquiring it.
func (s *striped[T]) resize(oldCapacity int) {
	s.lockAll()
	defer s.unlockAll()

	if len(s.table) != oldCapacity {
		// someone else resized first
		return
	}
	s.table = rehash(s.table, s.h, oldCapacity*2)
}

// lockAll takes every stripe in ascending index order. Every
// full-exclusion path goes through here; the single fixed order is
// what rules out deadlock between competing resizes.
func (s *striped[T]) lockAll() {
	for i := range s.stripes {
		s.stripes[i].Lock()
	}
}

func (s *striped[T]) unlockAll() {
	for i := len(s.stripes) - 1; i >= 0; i-- {
		s.stripes[i].Unlock()
	}
}

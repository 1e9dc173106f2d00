package ds

import (
	"sync"
	"sync/atomic"
)

type refinable[T comparable] struct {
	// coordinator held shared by ordinary operations and exclusively
	// by a structural change (resize).
	coordinator sync.RWMutex
	slots       []*sync.Mutex // one per bucket, replaced as a unit on resize
	h           hasher[T]
	table       [][]T
	size        atomic.Int64
}

// NewRefinable returns a set with the same per-element serialization
// as the striped variant, except the lock array itself is refined:
// it doubles together with the table, so one slot always guards one
// bucket. Ordinary operations take the coordinator shared plus the
// slot owning the element; a resize takes the coordinator exclusively
// plus every slot, then swaps in both a larger table and a larger
// slot array.
func NewRefinable[T comparable](initialCapacity int) (Set[T], error) {
	if initialCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &refinable[T]{
		h:     newHasher[T](),
		slots: newSlots(initialCapacity),
		table: make([][]T, initialCapacity),
	}, nil
}

func newSlots(n int) []*sync.Mutex {
	slots := make([]*sync.Mutex, n)
	for i := range slots {
		slots[i] = new(sync.Mutex)
	}
	return slots
}

func (r *refinable[T]) Add(item T) bool {
	added, oldCapacity, grow := r.insert(item)
	if grow {
		r.resize(oldCapacity)
	}
	return added
}

// insert is the locked part of Add. Both locks are released before a
// triggered resize runs, so the resize can take the coordinator
// exclusively; the capacity observed here lets it detect a resize
// that won the race in between.
func (r *refinable[T]) insert(item T) (added bool, oldCapacity int, grow bool) {
	r.coordinator.RLock()
	defer r.coordinator.RUnlock()
	slot := r.slotFor(item)
	slot.Lock()
	defer slot.Unlock()

	capacity := len(r.table)
	i := r.h.bucketIndex(item, capacity)
	if bucketContains(r.table[i], item) {
		return false, capacity, false
	}
	r.table[i] = append(r.table[i], item)
	r.size.Add(1)
	return true, capacity, r.policy(capacity)
}

func (r *refinable[T]) Remove(item T) bool {
	r.coordinator.RLock()
	defer r.coordinator.RUnlock()
	slot := r.slotFor(item)
	slot.Lock()
	defer slot.Unlock()

	i := r.h.bucketIndex(item, len(r.table))
	bucket, removed := bucketRemove(r.table[i], item)
	if !removed {
		return false
	}
	r.table[i] = bucket
	r.size.Add(-1)
	return true
}

func (r *refinable[T]) Contains(item T) bool {
	r.coordinator.RLock()
	defer r.coordinator.RUnlock()
	slot := r.slotFor(item)
	slot.Lock()
	defer slot.Unlock()

	return bucketContains(r.table[r.h.bucketIndex(item, len(r.table))], item)
}

func (r *refinable[T]) Size() int {
	return int(r.size.Load())
}

// slotFor must be called with the coordinator held; the slot array is
// only replaced under its exclusive side.
func (r *refinable[T]) slotFor(item T) *sync.Mutex {
	return r.slots[r.h.hash(item)%uint64(len(r.slots))]
}

func (r *refinable[T]) policy(capacity int) bool {
	return int(r.size.Load()) > bucketCapacity*capacity
}

// resize re-validates the decision made under the shared lock once
// exclusion is actually held: the observed capacity may be stale by
// the time the coordinator is acquired exclusively.
func (r *refinable[T]) resize(oldCapacity int) {
	r.coordinator.Lock()
	defer r.coordinator.Unlock()
	held := r.lockAllSlots()
	defer unlockSlots(held)

	if len(r.table) != oldCapacity {
		// someone else resized first
		return
	}
	newCapacity := oldCapacity * 2
	r.table = rehash(r.table, r.h, newCapacity)
	// Refine: swap in a grown slot array as a single unit. No slot can
	// be held or waited on here, because slots are only ever taken
	// under the shared coordinator.
	r.slots = newSlots(newCapacity)
}

// lockAllSlots takes every slot in ascending index order and returns
// the array it locked, so the caller releases those handles even after
// r.slots has been replaced.
func (r *refinable[T]) lockAllSlots() []*sync.Mutex {
	slots := r.slots
	for _, slot := range slots {
		slot.Lock()
	}
	return slots
}

func unlockSlots(slots []*sync.Mutex) {
	for i := len(slots) - 1; i >= 0; i-- {
		slots[i].Unlock()
	}
}

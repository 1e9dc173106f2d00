package ds

import "hash/maphash"

// hasher maps elements to buckets. Every set owns its own seed, so an
// element hashes identically for the lifetime of that set.
type hasher[T comparable] struct {
	seed maphash.Seed
}

func newHasher[T comparable]() hasher[T] {
	return hasher[T]{seed: maphash.MakeSeed()}
}

func (h hasher[T]) hash(item T) uint64 {
	return maphash.Comparable(h.seed, item)
}

func (h hasher[T]) bucketIndex(item T, capacity int) int {
	return int(h.hash(item) % uint64(capacity))
}

// Package ds provides a family of hash-based set containers sharing one
// contract but differing in locking discipline: an unsynchronized
// sequential reference, a coarse-grained variant behind a single
// read/write lock, a striped variant with a fixed array of stripe
// locks, and a refinable variant whose lock array grows with the
// table.
package ds

import "errors"

// ErrInvalidCapacity is returned by every constructor when the initial
// capacity is not positive.
var ErrInvalidCapacity = errors.New("ds: initial capacity must be positive")

// bucketCapacity is the average bucket length beyond which a set
// doubles its bucket count.
const bucketCapacity = 4

// Set is a container of distinct elements.
//
// Add reports whether the element was absent and is now present.
// Remove reports whether the element was present and is now absent.
// Size is the current number of distinct elements.
type Set[T comparable] interface {
	Add(item T) bool
	Remove(item T) bool
	Contains(item T) bool
	Size() int
}

package ds

// Bucket and table helpers shared by every variant. Callers must hold
// whatever exclusion their locking discipline requires.

func bucketContains[T comparable](bucket []T, item T) bool {
	for i := range bucket {
		if bucket[i] == item {
			return true
		}
	}
	return false
}

func bucketRemove[T comparable](bucket []T, item T) ([]T, bool) {
	for i := range bucket {
		if bucket[i] == item {
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			var zero T
			bucket[last] = zero
			return bucket[:last], true
		}
	}
	return bucket, false
}

// rehash places every element of table into a fresh table of
// newCapacity buckets, indexed by hash modulo the new capacity.
func rehash[T comparable](table [][]T, h hasher[T], newCapacity int) [][]T {
	next := make([][]T, newCapacity)
	for _, bucket := range table {
		for _, item := range bucket {
			i := h.bucketIndex(item, newCapacity)
			next[i] = append(next[i], item)
		}
	}
	return next
}

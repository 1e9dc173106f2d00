package ds

type sequential[T comparable] struct {
	h     hasher[T]
	table [][]T
	size  int
}

// NewSequential returns the single-threaded reference implementation.
// It performs no locking and must not be shared between goroutines;
// the concurrent variants are required to be observationally
// equivalent to some sequential history of this one.
func NewSequential[T comparable](initialCapacity int) (Set[T], error) {
	if initialCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &sequential[T]{
		h:     newHasher[T](),
		table: make([][]T, initialCapacity),
	}, nil
}

func (s *sequential[T]) Add(item T) bool {
	i := s.h.bucketIndex(item, len(s.table))
	if bucketContains(s.table[i], item) {
		return false
	}
	s.table[i] = append(s.table[i], item)
	s.size++
	if s.policy() {
		s.table = rehash(s.table, s.h, len(s.table)*2)
	}
	return true
}

func (s *sequential[T]) Remove(item T) bool {
	i := s.h.bucketIndex(item, len(s.table))
	bucket, removed := bucketRemove(s.table[i], item)
	if !removed {
		return false
	}
	s.table[i] = bucket
	s.size--
	return true
}

func (s *sequential[T]) Contains(item T) bool {
	return bucketContains(s.table[s.h.bucketIndex(item, len(s.table))], item)
}

func (s *sequential[T]) Size() int {
	return s.size
}

// policy reports whether the average bucket length exceeds
// bucketCapacity, i.e. size/capacity > bucketCapacity.
func (s *sequential[T]) policy() bool {
	return s.size > bucketCapacity*len(s.table)
}

package soak

import "github.com/puzpuzpuz/xsync/v4"

// xsyncSet adapts xsync.Map to the ds.Set contract. It is not one of
// the lock-based variants; the harness offers it as a lock-free
// baseline to compare runs against and to sanity-check the harness
// itself.
type xsyncSet[T comparable] struct {
	m *xsync.Map[T, struct{}]
}

func newXSyncSet[T comparable]() *xsyncSet[T] {
	return &xsyncSet[T]{m: xsync.NewMap[T, struct{}]()}
}

func (s *xsyncSet[T]) Add(item T) bool {
	_, loaded := s.m.LoadOrStore(item, struct{}{})
	return !loaded
}

func (s *xsyncSet[T]) Remove(item T) bool {
	_, loaded := s.m.LoadAndDelete(item)
	return loaded
}

func (s *xsyncSet[T]) Contains(item T) bool {
	_, ok := s.m.Load(item)
	return ok
}

func (s *xsyncSet[T]) Size() int {
	return s.m.Size()
}

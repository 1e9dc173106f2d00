package ds_test

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// the sequential variant is excluded here: it is the unsynchronized
// reference and must not be shared between goroutines
func concurrentConstructors() []constructor {
	return constructors()[1:]
}

func TestConcurrentAddSameElement(t *testing.T) {
	const workers = 16

	for _, c := range concurrentConstructors() {
		t.Run(c.name, func(t *testing.T) {
			s, err := c.make(initialCapacity)
			assert.NoError(t, err)

			var added atomic.Int32
			start := make(chan struct{})
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					if s.Add(7) {
						added.Add(1)
					}
				}()
			}
			close(start)
			wg.Wait()

			assert.Equal(t, int32(1), added.Load(), "exactly one concurrent add may win")
			assert.Equal(t, 1, s.Size())
			assert.True(t, s.Contains(7))
		})
	}
}

func TestConcurrentDistinctAddsAcrossResize(t *testing.T) {
	const (
		workers   = 8
		perWorker = 500
	)

	for _, c := range concurrentConstructors() {
		t.Run(c.name, func(t *testing.T) {
			s, err := c.make(initialCapacity)
			assert.NoError(t, err)

			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						if !s.Add(w*perWorker + i) {
							t.Errorf("add of fresh element %d returned false", w*perWorker+i)
						}
					}
				}(w)
			}
			wg.Wait()

			assert.Equal(t, workers*perWorker, s.Size())
			for i := 0; i < workers*perWorker; i++ {
				if !s.Contains(i) {
					t.Fatalf("element %d lost across concurrent resizes", i)
				}
			}
		})
	}
}

func TestConcurrentMixedQuiescence(t *testing.T) {
	const (
		workers      = 8
		opsPerWorker = 4000
		keySpace     = 256
	)

	for _, c := range concurrentConstructors() {
		t.Run(c.name, func(t *testing.T) {
			s, err := c.make(initialCapacity)
			assert.NoError(t, err)

			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					rng := rand.New(rand.NewSource(int64(w) + 1))
					for i := 0; i < opsPerWorker; i++ {
						key := rng.Intn(keySpace)
						switch rng.Intn(3) {
						case 0:
							s.Add(key)
						case 1:
							s.Remove(key)
						default:
							s.Contains(key)
						}
					}
				}(w)
			}
			wg.Wait()

			// once every operation has completed, Size must agree with
			// membership over the whole key space
			present := 0
			for key := 0; key < keySpace; key++ {
				if s.Contains(key) {
					present++
				}
			}
			assert.Equal(t, present, s.Size())
		})
	}
}

func TestConcurrentAddRemovePair(t *testing.T) {
	// two goroutines fight over the same element with opposite
	// operations; whatever interleaving happens, the final state must
	// be one of the two sequential outcomes
	const rounds = 2000

	for _, c := range concurrentConstructors() {
		t.Run(c.name, func(t *testing.T) {
			s, err := c.make(initialCapacity)
			assert.NoError(t, err)

			for i := 0; i < rounds; i++ {
				var wg sync.WaitGroup
				wg.Add(2)
				go func() {
					defer wg.Done()
					s.Add(1)
				}()
				go func() {
					defer wg.Done()
					s.Remove(1)
				}()
				wg.Wait()

				if s.Contains(1) {
					assert.Equal(t, 1, s.Size())
					s.Remove(1)
				} else {
					assert.Equal(t, 0, s.Size())
				}
			}
		})
	}
}

package soak

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/eric2788/hashset/internal/modules/config"
	"github.com/eric2788/hashset/pkg/ds"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var logger = logrus.WithField("service", "soak")

var ErrUnknownVariant = fmt.Errorf("unknown set variant")
var ErrQuiescenceMismatch = fmt.Errorf("size disagrees with membership after quiescence")

// Service hammers one set variant from a pool of workers and verifies
// that Size agrees with Contains over the whole key space once every
// worker has stopped.
type Service struct {
	cfg *config.Config

	ops     *xsync.Counter
	adds    *xsync.Counter
	removes *xsync.Counter
	hits    *xsync.Counter
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		ops:     xsync.NewCounter(),
		adds:    xsync.NewCounter(),
		removes: xsync.NewCounter(),
		hits:    xsync.NewCounter(),
	}
}

func (s *Service) Run(ctx context.Context) error {
	set, workers, err := s.build()
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if s.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateLimit)
	}

	duration := time.Duration(s.cfg.DurationSeconds) * time.Second
	runCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	logger.WithFields(logrus.Fields{
		"variant":  s.cfg.Variant,
		"workers":  workers,
		"keySpace": s.cfg.KeySpace,
		"duration": duration,
	}).Info("starting soak run")

	// the sequential reference is unsynchronized, so not even Size may
	// be read off the worker goroutine; the reporter then only logs
	// counters and process stats
	reported := set
	if s.cfg.Variant == "sequential" {
		reported = nil
	}
	go s.report(runCtx, reported)

	g, gctx := errgroup.WithContext(runCtx)
	for w := 0; w < workers; w++ {
		seed := time.Now().UnixNano() + int64(w)
		g.Go(func() error {
			return s.worker(gctx, set, limiter, rand.New(rand.NewSource(seed)))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	present := 0
	for key := 0; key < s.cfg.KeySpace; key++ {
		if set.Contains(uint64(key)) {
			present++
		}
	}
	if present != set.Size() {
		return fmt.Errorf("%w: size=%d, members=%d", ErrQuiescenceMismatch, set.Size(), present)
	}

	logger.WithFields(logrus.Fields{
		"ops":     s.ops.Value(),
		"adds":    s.adds.Value(),
		"removes": s.removes.Value(),
		"hits":    s.hits.Value(),
		"size":    set.Size(),
	}).Info("soak run passed")
	return nil
}

// build constructs the configured variant. The sequential reference is
// unsynchronized, so it is always driven by a single worker.
func (s *Service) build() (ds.Set[uint64], int, error) {
	workers := max(s.cfg.Workers, 1)

	var (
		set ds.Set[uint64]
		err error
	)
	switch s.cfg.Variant {
	case "sequential":
		workers = 1
		set, err = ds.NewSequential[uint64](s.cfg.InitialCapacity)
	case "coarse":
		set, err = ds.NewCoarseGrained[uint64](s.cfg.InitialCapacity)
	case "striped":
		set, err = ds.NewStriped[uint64](s.cfg.InitialCapacity)
	case "refinable":
		set, err = ds.NewRefinable[uint64](s.cfg.InitialCapacity)
	case "xsync":
		set = newXSyncSet[uint64]()
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s.cfg.Variant)
	}
	if err != nil {
		return nil, 0, err
	}
	return set, workers, nil
}

func (s *Service) worker(ctx context.Context, set ds.Set[uint64], limiter *rate.Limiter, rng *rand.Rand) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				// deadline reached while throttled
				return nil
			}
		}

		key := uint64(rng.Intn(s.cfg.KeySpace))
		switch rng.Intn(10) {
		case 0, 1, 2, 3:
			if set.Add(key) {
				s.adds.Inc()
			}
		case 4, 5:
			if set.Remove(key) {
				s.removes.Inc()
			}
		default:
			if set.Contains(key) {
				s.hits.Inc()
			}
		}
		s.ops.Inc()
	}
}

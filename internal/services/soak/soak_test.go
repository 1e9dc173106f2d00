package soak_test

import (
	"context"
	"testing"
	"time"

	"github.com/eric2788/hashset/internal/modules/config"
	"github.com/eric2788/hashset/internal/services/soak"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func newService(t *testing.T, variant, durationSeconds, reportSeconds string) *soak.Service {
	t.Setenv("SET_VARIANT", variant)
	t.Setenv("SOAK_WORKERS", "4")
	t.Setenv("SOAK_DURATION_SECONDS", durationSeconds)
	t.Setenv("SOAK_KEY_SPACE", "512")
	t.Setenv("INITIAL_CAPACITY", "4")
	t.Setenv("SOAK_RATE_LIMIT", "0")
	t.Setenv("SOAK_REPORT_SECONDS", reportSeconds)

	var svc *soak.Service
	app := fxtest.New(t,
		config.Module,
		fx.Provide(soak.NewService),
		fx.Populate(&svc),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
	return svc
}

func TestSoakRun(t *testing.T) {
	for _, variant := range []string{"sequential", "coarse", "striped", "refinable", "xsync"} {
		t.Run(variant, func(t *testing.T) {
			svc := newService(t, variant, "1", "0")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			assert.NoError(t, svc.Run(ctx))
		})
	}
}

func TestSoakSequentialWithReporter(t *testing.T) {
	// the reporter must coexist with the single worker mutating the
	// unsynchronized reference; the race detector guards this pairing
	svc := newService(t, "sequential", "2", "1")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	assert.NoError(t, svc.Run(ctx))
}

func TestSoakUnknownVariant(t *testing.T) {
	svc := newService(t, "lockfree-wait-free", "1", "0")

	err := svc.Run(context.Background())
	assert.ErrorIs(t, err, soak.ErrUnknownVariant)
}

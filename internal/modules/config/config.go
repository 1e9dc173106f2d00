package config

import (
	"os"

	"github.com/eric2788/hashset/utils"
	"go.uber.org/fx"
)

// all config is loaded from environment variables
type Config struct {
	// Variant selects the set implementation under soak:
	// sequential | coarse | striped | refinable | xsync
	Variant string

	Workers         int
	DurationSeconds int
	KeySpace        int
	InitialCapacity int
	RateLimit       int // total ops/sec across workers, 0 = unlimited
	ReportSeconds   int // 0 disables progress reports
}

func provider() (*Config, error) {
	return &Config{
		Variant:         utils.EmptyOrElse(os.Getenv("SET_VARIANT"), "refinable"),
		Workers:         utils.MustAtoi(utils.EmptyOrElse(os.Getenv("SOAK_WORKERS"), "8")),
		DurationSeconds: utils.MustAtoi(utils.EmptyOrElse(os.Getenv("SOAK_DURATION_SECONDS"), "30")),
		KeySpace:        utils.MustAtoi(utils.EmptyOrElse(os.Getenv("SOAK_KEY_SPACE"), "65536")),
		InitialCapacity: utils.MustAtoi(utils.EmptyOrElse(os.Getenv("INITIAL_CAPACITY"), "16")),
		RateLimit:       utils.MustAtoi(utils.EmptyOrElse(os.Getenv("SOAK_RATE_LIMIT"), "0")),
		ReportSeconds:   utils.MustAtoi(utils.EmptyOrElse(os.Getenv("SOAK_REPORT_SECONDS"), "5")),
	}, nil
}

var Module = fx.Module("config", fx.Provide(provider))

package soak

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/eric2788/hashset/pkg/ds"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/sirupsen/logrus"
)

// report logs op totals and process resource usage every report
// interval until the run context ends. A nil set means the variant
// under soak cannot be observed concurrently and only counters are
// reported.
func (s *Service) report(ctx context.Context, set ds.Set[uint64]) {
	interval := time.Duration(s.cfg.ReportSeconds) * time.Second
	if interval <= 0 {
		return
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Warnf("cannot attach process stats: %v", err)
		proc = nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fields := logrus.Fields{
				"ops":     s.ops.Value(),
				"adds":    s.adds.Value(),
				"removes": s.removes.Value(),
				"hits":    s.hits.Value(),
			}
			if set != nil {
				fields["size"] = set.Size()
			}
			if proc != nil {
				if mem, err := proc.MemoryInfo(); err == nil {
					fields["rss_mb"] = mem.RSS / 1024 / 1024
				}
				if cpu, err := proc.CPUPercent(); err == nil {
					fields["cpu"] = fmt.Sprintf("%.1f%%", cpu)
				}
			}
			logger.WithFields(fields).Info("soak progress")
		}
	}
}

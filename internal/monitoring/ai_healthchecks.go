package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/commentflow/internal/metrics"
)

const HEALTHCHECK_INTERVAL = 15 * time.Second

type AnalyzerChecker interface {
	AnalyzerHealthCheck(ctx context.Context) bool
}

// MonitorAnalyzerHealth polls the remote analyzer until ctx is done, storing
// the latest result in healthy. The first check runs immediately.
func MonitorAnalyzerHealth(ctx context.Context, healthy *atomic.Bool, checker AnalyzerChecker, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_INTERVAL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		checkAnalyzer(ctx, healthy, checker)
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func checkAnalyzer(ctx context.Context, healthy *atomic.Bool, checker AnalyzerChecker) {
	isHealthy := checker.AnalyzerHealthCheck(ctx)
	wasHealthy := healthy.Swap(isHealthy)

	if isHealthy {
		metrics.AnalyzerHealthy.Set(1)
		if !wasHealthy {
			slog.Info("[HealthCheck] Analyzer is healthy")
		}
		return
	}
	metrics.AnalyzerHealthy.Set(0)
	slog.Warn("[HealthCheck] Analyzer is unhealthy")
}

package monitoring

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sequenceChecker struct {
	mu      sync.Mutex
	results []bool
	calls   int
	cancel  context.CancelFunc
}

func (s *sequenceChecker) AnalyzerHealthCheck(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.results[s.calls]
	s.calls++
	if s.calls == len(s.results) {
		s.cancel()
	}
	return res
}

func TestMonitorAnalyzerHealth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := &sequenceChecker{results: []bool{true, false, true}, cancel: cancel}
	var healthy atomic.Bool

	MonitorAnalyzerHealth(ctx, &healthy, checker, time.Millisecond)

	assert.Equal(t, 3, checker.calls)
	assert.True(t, healthy.Load())
}

func TestCheckAnalyzer_Unhealthy(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	checker := &sequenceChecker{results: []bool{false}, cancel: func() {}}

	checkAnalyzer(context.Background(), &healthy, checker)

	assert.False(t, healthy.Load())
}

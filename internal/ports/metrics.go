package ports

import (
	"time"

	"github.com/eleven-am/failover/internal/domain"
)

type MetricsRecorder interface {
	ObservePass(result domain.ReconciliationResult, duration time.Duration)
	ObservePeerError()
	ObserveDecision(decision domain.Decision)
}

type NoopMetrics struct{}

func (NoopMetrics) ObservePass(domain.ReconciliationResult, time.Duration) {}
func (NoopMetrics) ObservePeerError()                                      {}
func (NoopMetrics) ObserveDecision(domain.Decision)                        {}

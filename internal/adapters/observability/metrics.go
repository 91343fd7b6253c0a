package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/ports"
)

const namespace = "failover"

var _ ports.MetricsRecorder = (*Metrics)(nil)

var violationKinds = []domain.ViolationKind{
	domain.ViolationNoFailoverInterfaces,
	domain.ViolationDoubleBackup,
	domain.ViolationDoubleMaster,
}

// Metrics records reconciliation outcomes as Prometheus series.
type Metrics struct {
	passes            *prometheus.CounterVec
	violations        *prometheus.CounterVec
	currentViolations *prometheus.GaugeVec
	consistent        prometheus.Gauge
	passDuration      prometheus.Histogram
	peerErrors        prometheus.Counter
	decisions         *prometheus.CounterVec
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_passes_total",
			Help:      "Completed reconciliation passes by outcome.",
		}, []string{"result"}),
		violations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Consistency violations reported, by kind.",
		}, []string{"kind"}),
		currentViolations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "violations",
			Help:      "Violations found by the most recent pass, by kind.",
		}, []string{"kind"}),
		consistent: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pair_consistent",
			Help:      "1 when the most recent pass found no violations.",
		}),
		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliation passes.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		peerErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "peer_errors_total",
			Help:      "Passes that could not obtain the peer summary.",
		}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_decisions_total",
			Help:      "Failover event decisions by event and action.",
		}, []string{"event", "action"}),
	}

	for _, kind := range violationKinds {
		m.violations.WithLabelValues(kind.String())
		m.currentViolations.WithLabelValues(kind.String())
	}
	return m
}

func (m *Metrics) ObservePass(result domain.ReconciliationResult, duration time.Duration) {
	m.passDuration.Observe(duration.Seconds())

	if result.Consistent() {
		m.passes.WithLabelValues("consistent").Inc()
		m.consistent.Set(1)
	} else {
		m.passes.WithLabelValues("inconsistent").Inc()
		m.consistent.Set(0)
	}

	for _, kind := range violationKinds {
		n := result.Count(kind)
		m.currentViolations.WithLabelValues(kind.String()).Set(float64(n))
		if n > 0 {
			m.violations.WithLabelValues(kind.String()).Add(float64(n))
		}
	}
}

func (m *Metrics) ObservePeerError() {
	m.peerErrors.Inc()
}

func (m *Metrics) ObserveDecision(decision domain.Decision) {
	m.decisions.WithLabelValues(decision.Event.String(), decision.Action.String()).Inc()
}

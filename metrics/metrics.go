package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// FixtureMetrics records tournament start outcomes.
type FixtureMetrics interface {
	ObserveStart(outcome string, matches int, seconds float64)
}

const (
	OutcomeScheduled      = "scheduled"
	OutcomeAlreadyStarted = "already_started"
	OutcomeRejected       = "rejected"
	OutcomeFailed         = "failed"
)

type prometheusFixtureMetrics struct {
	starts   *prometheus.CounterVec
	matches  prometheus.Counter
	duration prometheus.Histogram
}

// NewPrometheusFixtureMetrics registers the collectors on reg.
func NewPrometheusFixtureMetrics(reg prometheus.Registerer) (FixtureMetrics, error) {
	m := &prometheusFixtureMetrics{
		starts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tournament",
			Name:      "start_total",
			Help:      "Tournament start attempts by outcome.",
		}, []string{"outcome"}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tournament",
			Name:      "fixtures_generated_total",
			Help:      "Matches created by tournament starts.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tournament",
			Name:      "start_duration_seconds",
			Help:      "Time spent in the start transaction.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{m.starts, m.matches, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *prometheusFixtureMetrics) ObserveStart(outcome string, matches int, seconds float64) {
	m.starts.WithLabelValues(outcome).Inc()
	if matches > 0 {
		m.matches.Add(float64(matches))
	}
	m.duration.Observe(seconds)
}

type noop struct{}

func NewNoop() FixtureMetrics { return noop{} }

func (noop) ObserveStart(string, int, float64) {}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splash"

// Metrics holds the Prometheus counters, histograms, and gauges for the jump kiosk.
type Metrics struct {
	ControllerRunning prometheus.Gauge
	CurrentPhase      prometheus.Gauge       // value is the domain.Phase ordinal
	PhaseTransitions  *prometheus.CounterVec // labels: phase
	FillCycles        prometheus.Counter     // completed 0→100 fills
	Resolutions       *prometheus.CounterVec // labels: outcome={ranked,unranked,degraded,cancelled}
	StaleResolutions  prometheus.Counter     // resolutions dropped after a reset

	// Scoring service client metrics.
	APIRequests   *prometheus.CounterVec   // labels: endpoint={latest_jump,leaderboard}, outcome={success,network_error,malformed}
	APIDuration   *prometheus.HistogramVec // labels: endpoint
	SnapshotCache *prometheus.CounterVec   // labels: result={hit,miss}

	// Result publishing metrics.
	ResultsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all kiosk metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ControllerRunning,
		m.CurrentPhase,
		m.PhaseTransitions,
		m.FillCycles,
		m.Resolutions,
		m.StaleResolutions,
		m.APIRequests,
		m.APIDuration,
		m.SnapshotCache,
		m.ResultsPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// NewUnregisteredMetrics creates Metrics that are never exported, for
// short-lived processes with no /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ControllerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "controller_running",
			Help:      "1 when the jump controller loop is active, 0 when shut down.",
		}),
		CurrentPhase: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_phase",
			Help:      "Ordinal of the active phase (0 idle .. 5 leaderboard).",
		}),
		PhaseTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_transitions_total",
			Help:      "Phase entries by phase.",
		}, []string{"phase"}),
		FillCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fill_cycles_total",
			Help:      "Completed fill cycles, looped or final.",
		}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Score resolutions by outcome.",
		}, []string{"outcome"}),
		StaleResolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_resolutions_total",
			Help:      "Resolutions discarded because the cycle had been reset.",
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Scoring service requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_duration_seconds",
			Help:      "Scoring service request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		SnapshotCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_total",
			Help:      "Leaderboard snapshot cache lookups by result.",
		}, []string{"result"}),
		ResultsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_published_total",
			Help:      "Jump results written to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}

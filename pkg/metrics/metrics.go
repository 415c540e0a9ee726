package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the portal's Prometheus collectors
type Metrics struct {
	// Upstream practice API
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec

	// Workflow outcomes
	BookingOutcomes *prometheus.CounterVec
	Reconciliations *prometheus.CounterVec
	StaleDiscards   *prometheus.CounterVec

	// Sessions
	ActiveSessions prometheus.Gauge
}

// New creates and registers all collectors on reg
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of requests sent to the practice API",
		}, []string{"endpoint", "method", "status"}),
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests sent to the practice API",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"endpoint", "method"}),
		BookingOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "booking_outcomes_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		Reconciliations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "reconciliations_total",
			Help:      "List reloads performed after a successful mutation",
		}, []string{"list"}),
		StaleDiscards: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "stale_results_discarded_total",
			Help:      "Load results dropped because a newer load superseded them",
		}, []string{"workflow"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Session workspaces currently held in memory",
		}),
	}
}

// NewNop returns collectors registered on a throwaway registry
func NewNop() *Metrics {
	return New(prometheus.NewRegistry(), "nop")
}

// ObserveUpstream records one practice API call
func (m *Metrics) ObserveUpstream(endpoint, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(endpoint, method, statusLabel).Inc()
	m.UpstreamLatency.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

func (m *Metrics) IncBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncReconcile(list string) {
	if m == nil {
		return
	}
	m.Reconciliations.WithLabelValues(list).Inc()
}

func (m *Metrics) IncStale(workflow string) {
	if m == nil {
		return
	}
	m.StaleDiscards.WithLabelValues(workflow).Inc()
}

// SetSessions reports the number of live session workspaces
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

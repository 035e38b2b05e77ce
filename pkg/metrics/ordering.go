package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	EventLineAdded   = "line_added"
	EventLineRemoved = "line_removed"
	EventLineUpdated = "line_updated"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// OrderingMetrics records cart activity and order submissions.
type OrderingMetrics struct {
	cartEvents     *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	submitDuration *prometheus.HistogramVec
	sessions       prometheus.Gauge
}

// NewOrderingMetrics registers the ordering metrics on the provided registerer.
// A nil registerer yields a recorder that drops everything.
func NewOrderingMetrics(reg prometheus.Registerer) *OrderingMetrics {
	if reg == nil {
		return &OrderingMetrics{}
	}
	cartEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_events_total",
		Help: "Cart mutations by kind.",
	}, []string{"event"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submissions_total",
		Help: "Order submissions by sink and outcome.",
	}, []string{"sink", "outcome"})
	submitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_submission_duration_seconds",
		Help:    "Duration of order submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"sink"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ordering_sessions",
		Help: "Open ordering sessions.",
	})
	reg.MustRegister(cartEvents, submissions, submitDuration, sessions)
	return &OrderingMetrics{
		cartEvents:     cartEvents,
		submissions:    submissions,
		submitDuration: submitDuration,
		sessions:       sessions,
	}
}

// IncCartEvent counts one cart mutation of the given kind.
func (m *OrderingMetrics) IncCartEvent(event string) {
	if m == nil || m.cartEvents == nil {
		return
	}
	m.cartEvents.WithLabelValues(normalizeLabel(event)).Inc()
}

// ObserveSubmission records the outcome and duration of one submission.
func (m *OrderingMetrics) ObserveSubmission(sink string, duration time.Duration, err error) {
	if m == nil || m.submissions == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	sink = normalizeLabel(sink)
	m.submissions.WithLabelValues(sink, outcome).Inc()
	m.submitDuration.WithLabelValues(sink).Observe(duration.Seconds())
}

func (m *OrderingMetrics) SessionOpened() {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Inc()
}

func (m *OrderingMetrics) SessionClosed() {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Dec()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

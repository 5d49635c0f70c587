package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for signature sessions.
type Metrics struct {
	SessionsCreated   prometheus.Counter
	SessionsSigned    prometheus.Counter
	SessionsCancelled prometheus.Counter
	SessionsSwept     prometheus.Counter
	SubmitRejected    *prometheus.CounterVec
	SubmitLatency     prometheus.Histogram
}

// New registers and returns signature metrics collectors.
func New() *Metrics {
	return &Metrics{
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "diyivi_signature_sessions_created_total",
			Help: "Total number of signature sessions created",
		}),
		SessionsSigned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "diyivi_signature_sessions_signed_total",
			Help: "Total number of signature sessions resolved with a valid signature",
		}),
		SessionsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "diyivi_signature_sessions_cancelled_total",
			Help: "Total number of signature sessions cancelled by their initiator",
		}),
		SessionsSwept: promauto.NewCounter(prometheus.CounterOpts{
			Name: "diyivi_signature_sessions_swept_total",
			Help: "Total number of expired signature sessions reclaimed by the sweeper",
		}),
		SubmitRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "diyivi_signature_submits_rejected_total",
			Help: "Total number of rejected signature submissions, labeled by error code",
		}, []string{"code"}),
		SubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "diyivi_signature_submit_latency_seconds",
			Help:    "Latency of signature submissions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementSessionsCreated() { m.SessionsCreated.Inc() }

func (m *Metrics) IncrementSessionsSigned() { m.SessionsSigned.Inc() }

func (m *Metrics) IncrementSessionsCancelled() { m.SessionsCancelled.Inc() }

func (m *Metrics) AddSessionsSwept(count int) { m.SessionsSwept.Add(float64(count)) }

func (m *Metrics) IncrementSubmitRejected(code string) {
	m.SubmitRejected.WithLabelValues(code).Inc()
}

func (m *Metrics) ObserveSubmitLatency(durationSeconds float64) {
	m.SubmitLatency.Observe(durationSeconds)
}

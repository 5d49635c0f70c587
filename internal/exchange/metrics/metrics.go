package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for exchange sessions.
type Metrics struct {
	SessionsCreated   prometheus.Counter
	SessionsResolved  prometheus.Counter
	SessionsCancelled prometheus.Counter
	SessionsSwept     prometheus.Counter
	SubmitRejected    *prometheus.CounterVec
	SubmitLatency     prometheus.Histogram
}

// New registers and returns exchange metrics collectors.
func New() *Metrics {
	return &Metrics{
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "diyivi_exchange_sessions_created_total",
			Help: "Total number of exchange sessions created",
		}),
		SessionsResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "diyivi_exchange_sessions_resolved_total",
			Help: "Total number of exchange sessions resolved with a valid disclosure",
		}),
		SessionsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "diyivi_exchange_sessions_cancelled_total",
			Help: "Total number of exchange sessions cancelled by their initiator",
		}),
		SessionsSwept: promauto.NewCounter(prometheus.CounterOpts{
			Name: "diyivi_exchange_sessions_swept_total",
			Help: "Total number of expired exchange sessions reclaimed by the sweeper",
		}),
		SubmitRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "diyivi_exchange_submits_rejected_total",
			Help: "Total number of rejected disclosure submissions, labeled by error code",
		}, []string{"code"}),
		SubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "diyivi_exchange_submit_latency_seconds",
			Help:    "Latency of disclosure submissions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementSessionsCreated() { m.SessionsCreated.Inc() }

func (m *Metrics) IncrementSessionsResolved() { m.SessionsResolved.Inc() }

func (m *Metrics) IncrementSessionsCancelled() { m.SessionsCancelled.Inc() }

func (m *Metrics) AddSessionsSwept(count int) { m.SessionsSwept.Add(float64(count)) }

func (m *Metrics) IncrementSubmitRejected(code string) {
	m.SubmitRejected.WithLabelValues(code).Inc()
}

func (m *Metrics) ObserveSubmitLatency(durationSeconds float64) {
	m.SubmitLatency.Observe(durationSeconds)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
)

// Metrics holds the service collectors. Each instance registers on its own
// registerer so tests can use a fresh registry.
type Metrics struct {
	blendsCreated    prometheus.Counter
	blendTransitions *prometheus.CounterVec
	rejectedUpdates  *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		blendsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "blendtrack_blends_created_total",
			Help: "The total number of blends created",
		}),
		blendTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blendtrack_blend_transitions_total",
			Help: "Blend status changes by source and target status",
		}, []string{"from", "to"}),
		rejectedUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blendtrack_blend_status_rejected_total",
			Help: "Status updates refused, by reason",
		}, []string{"reason"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blendtrack_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blendtrack_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// NewNop returns metrics registered nowhere
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) BlendCreated() {
	m.blendsCreated.Inc()
}

func (m *Metrics) BlendTransition(from, to entities.BlendStatus) {
	m.blendTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) StatusRejected(reason string) {
	m.rejectedUpdates.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveRequest(method, route, code string, seconds float64) {
	m.httpRequests.WithLabelValues(method, route, code).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

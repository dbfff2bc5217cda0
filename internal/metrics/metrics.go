// Package metrics provides Prometheus metrics for the callback pipeline and
// the provider client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "songforge"

type Metrics struct {
	registry *prometheus.Registry

	callbackOutcomesTotal *prometheus.CounterVec

	upstreamRequestsTotal   *prometheus.CounterVec
	upstreamRequestDuration *prometheus.HistogramVec

	mediaDownloadsTotal *prometheus.CounterVec
}

// New creates the metrics and registers them on registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}

	m.callbackOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callback_outcomes_total",
			Help:      "Total number of provider callbacks by response status",
		},
		[]string{"status"},
	)

	m.upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests sent to the generation provider",
		},
		[]string{"operation", "outcome"},
	)

	m.upstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Time taken by generation provider requests",
			// 50ms to ~100s
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"operation"},
	)

	m.mediaDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_downloads_total",
			Help:      "Total number of media downloads by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	for _, c := range []prometheus.Collector{
		m.callbackOutcomesTotal,
		m.upstreamRequestsTotal,
		m.upstreamRequestDuration,
		m.mediaDownloadsTotal,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveCallback(status string) {
	m.callbackOutcomesTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveUpstream(op, outcome string, elapsed time.Duration) {
	m.upstreamRequestsTotal.WithLabelValues(op, outcome).Inc()
	m.upstreamRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveDownload(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.mediaDownloadsTotal.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

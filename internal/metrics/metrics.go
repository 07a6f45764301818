// Package metrics exposes collection and HTTP metrics in the Prometheus
// format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const namespace = "bookshelf"

// StatsSource reports the current collection summary. It is read at scrape
// time. collection.Locked satisfies it.
type StatsSource interface {
	Stats() collection.Stats
}

type Metrics struct {
	registry *prometheus.Registry

	mutations       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers all metrics on a private registry. stats may be nil, in
// which case the collection gauges are omitted.
func New(stats StatsSource) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_mutations_total",
			Help:      "Collection mutation calls by operation and outcome",
		}, []string{"op", "outcome"}),
		persistFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_persist_failures_total",
			Help:      "Mutations whose write to the store failed",
		}, []string{"op"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	if stats != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_books",
			Help:      "Books in the collection",
		}, func() float64 { return float64(stats.Stats().Total) })

		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_favorites",
			Help:      "Books marked as favourite",
		}, func() float64 { return float64(stats.Stats().Favorites) })

		for _, status := range entities.AllReadingStatuses() {
			status := status
			factory.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "collection_books_by_status",
				Help:        "Books in the collection per reading status",
				ConstLabels: prometheus.Labels{"status": status.Slug()},
			}, func() float64 { return float64(stats.Stats().ByStatus[status]) })
		}
	}

	return m
}

// Observe counts a collection event. It matches collection.Observer.
func (m *Metrics) Observe(e collection.Event) {
	m.mutations.WithLabelValues(string(e.Op), e.Outcome.String()).Inc()
	if e.Err != nil {
		m.persistFailures.WithLabelValues(string(e.Op)).Inc()
	}
}

// Middleware records request latency. Unmatched routes are grouped.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests and for registering extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Dosada05/livescores-dashboard/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "livescores"

// Metrics holds the dashboard collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	rowsLoaded     prometheus.Gauge
	rowsDisplayed  prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	liveSessions   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Dashboard runs by outcome.",
		}, []string{"outcome"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent in load, filter and render.",
			Buckets:   prometheus.DefBuckets,
		}),
		rowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_loaded",
			Help:      "Rows read from the scores table by the last run.",
		}),
		rowsDisplayed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_displayed",
			Help:      "Rows left after filtering in the last run.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Connected websocket sessions.",
		}),
	}

	m.registry.MustRegister(
		m.renders,
		m.renderDuration,
		m.rowsLoaded,
		m.rowsDisplayed,
		m.httpRequests,
		m.liveSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRender records one dashboard run. Row gauges follow successful runs
// only, an empty table included.
func (m *Metrics) ObserveRender(outcome string, duration time.Duration, loaded, displayed int) {
	m.renders.WithLabelValues(outcome).Inc()
	m.renderDuration.Observe(duration.Seconds())
	if outcome == services.OutcomeOK {
		m.rowsLoaded.Set(float64(loaded))
		m.rowsDisplayed.Set(float64(displayed))
	}
}

func (m *Metrics) ObserveRequest(method string, status int) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) SetLiveSessions(n int) {
	m.liveSessions.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

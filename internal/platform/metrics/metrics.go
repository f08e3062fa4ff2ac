// Package metrics exposes Prometheus request metrics for the HTTP server.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "github.com/janisto/cicd-demo-api/internal/platform/logging"
)

const namespace = "cicd_demo"

// unmatchedRoute labels requests that no route pattern matched, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// exemplarLabel carries the request's trace or request ID on latency observations.
const exemplarLabel = "trace_id"

// Collector records request counts and latencies.
type Collector struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
	build    *prometheus.GaugeVec
}

// New creates a Collector backed by its own registry, which also carries the
// Go runtime and process collectors.
func New(version, environment string) *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests being served",
			},
		),
		build: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "build_info",
				Help:      "Build and environment labels; value is always 1",
			},
			[]string{"version", "environment"},
		),
	}
	reg.MustRegister(
		c.requests,
		c.duration,
		c.inFlight,
		c.build,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.build.WithLabelValues(version, environment).Set(1)
	return c
}

// Middleware records every request. Mount it inside the chi router so the
// matched route pattern is available after the handler returns.
func (c *Collector) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			c.inFlight.Inc()
			defer c.inFlight.Dec()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			c.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			observe(r.Context(), c.duration.WithLabelValues(r.Method, route), time.Since(start).Seconds())
		})
	}
}

// Handler serves the registry in the Prometheus exposition format. Exemplars
// are only rendered when the scraper negotiates OpenMetrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		Registry:          c.registry,
		EnableOpenMetrics: true,
	})
}

// observe records v with the request's trace ID as exemplar when one fits the
// exemplar label budget.
func observe(ctx context.Context, o prometheus.Observer, v float64) {
	traceID := applog.TraceIDFromContext(ctx)
	eo, ok := o.(prometheus.ExemplarObserver)
	if !ok || traceID == "" ||
		utf8.RuneCountInString(exemplarLabel)+utf8.RuneCountInString(traceID) > prometheus.ExemplarMaxRunes {
		o.Observe(v)
		return
	}
	eo.ObserveWithExemplar(v, prometheus.Labels{exemplarLabel: traceID})
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

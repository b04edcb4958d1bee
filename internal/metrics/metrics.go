// Package metrics records operational metrics for parsing, generation and
// verification, and exposes them in Prometheus format.
//
// A nil *Recorder is valid and records nothing, so callers never need to
// check whether metrics are enabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "csv2sql"

// Recorder owns a private registry so that tests and multiple servers in one
// process do not collide on metric names.
type Recorder struct {
	registry *prometheus.Registry

	parses          prometheus.Counter
	parseDuration   prometheus.Histogram
	rowsParsed      prometheus.Counter
	parseErrors     prometheus.Counter
	generations     *prometheus.CounterVec
	generateLatency prometheus.Histogram
	verifications   *prometheus.CounterVec
	verifyLatency   *prometheus.HistogramVec
	activeSessions  prometheus.Gauge
	requests        *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		parses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Number of CSV inputs parsed.",
		}),
		parseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing CSV input.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		rowsParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_parsed_total",
			Help:      "Number of data rows parsed.",
		}),
		parseErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Number of per-row parse errors.",
		}),
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "SQL generations by outcome code.",
		}, []string{"status", "code"}),
		generateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      "Time spent generating SQL.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "SQL verifications by backend and status.",
		}, []string{"backend", "status"}),
		verifyLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "verify_duration_seconds",
			Help:      "Time spent verifying generated SQL.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend"}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Editing sessions currently held in memory.",
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		requestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveParse records one parse.
func (r *Recorder) ObserveParse(d time.Duration, rows, parseErrors int) {
	if r == nil {
		return
	}
	r.parses.Inc()
	r.parseDuration.Observe(d.Seconds())
	r.rowsParsed.Add(float64(rows))
	r.parseErrors.Add(float64(parseErrors))
}

// ObserveGenerate records one generation. code is empty on success and the
// user-facing error code otherwise.
func (r *Recorder) ObserveGenerate(d time.Duration, code string) {
	if r == nil {
		return
	}
	status := "success"
	if code != "" {
		status = "failure"
	}
	r.generations.WithLabelValues(status, code).Inc()
	r.generateLatency.Observe(d.Seconds())
}

// ObserveVerify records one verification against backend.
func (r *Recorder) ObserveVerify(backend string, d time.Duration, err error) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	r.verifications.WithLabelValues(backend, status).Inc()
	r.verifyLatency.WithLabelValues(backend).Observe(d.Seconds())
}

// SetActiveSessions reports the current session count.
func (r *Recorder) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	r.activeSessions.Set(float64(n))
}

// ObserveRequest records one HTTP request. route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

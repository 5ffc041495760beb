// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics provides Prometheus instrumentation for the API server.

It exposes request throughput, latency, authentication failures, and
status-transition outcomes so that operators can alert on both transport
health and business-rule rejection rates.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface consumed by middleware and services.
//
// # Why an interface?
//
// Handlers and services depend on this narrow contract so that tests can
// inject a no-op recorder without touching a Prometheus registry.
type Recorder interface {
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
	RecordAuthFailure(reason string)
	RecordStatusTransition(entity, action, outcome string)
}

// Collector is the Prometheus-backed [Recorder] implementation.
type Collector struct {
	httpRequests      *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
	authFailures      *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with the registry.
func NewCollector(registry prometheus.Registerer) *Collector {
	collector := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskora_http_requests_total",
			Help: "Total HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),

		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskora_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskora_auth_failures_total",
			Help: "Authentication failures by reason (missing_bearer, unauthorized, token_expired, refresh_expired).",
		}, []string{"reason"}),

		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskora_status_transitions_total",
			Help: "Project/task status transition attempts by entity, action, and outcome.",
		}, []string{"entity", "action", "outcome"}),
	}

	registry.MustRegister(
		collector.httpRequests,
		collector.httpLatency,
		collector.authFailures,
		collector.statusTransitions,
	)

	return collector
}

// RecordHTTPRequest counts a finished request and observes its latency.
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthFailure counts a rejected authentication attempt.
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// RecordStatusTransition counts a status transition attempt and its outcome
// ("accepted" or the rejection code).
func (c *Collector) RecordStatusTransition(entity, action, outcome string) {
	c.statusTransitions.WithLabelValues(entity, action, outcome).Inc()
}

// Handler returns the HTTP handler serving the /metrics scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// # Test Support

// Noop is a [Recorder] that discards all observations.
type Noop struct{}

func (Noop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Noop) RecordAuthFailure(string)                             {}
func (Noop) RecordStatusTransition(string, string, string)        {}

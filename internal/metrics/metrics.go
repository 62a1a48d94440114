// Package metrics defines Prometheus metrics for reddit-top.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reddit_top"

// HTTP server metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served by the control API in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served by the control API.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the last /healthz probe succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 when the last /readyz probe succeeded.",
	})

	PanicsRecoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "panics_recovered_total",
		Help:      "Total number of handler panics recovered by middleware.",
	})
)

// Engine metrics.
var (
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of finished engine operations by kind and outcome.",
	}, []string{"kind", "outcome"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Duration of finished engine operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	OperationsCancelledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_cancelled_total",
		Help:      "Total number of engine operations cancelled before delivery.",
	}, []string{"kind"})

	OperationsInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "operations_in_flight",
		Help:      "1 while an operation of the kind is registered as in flight.",
	}, []string{"kind"})

	AccumulatedEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "accumulated_entries",
		Help:      "Number of listing entries currently held by the accumulator.",
	})

	MediaIndexFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_index_failures_total",
		Help:      "Total number of media-added notifications that failed.",
	})
)

// Transport metrics.
var (
	TransportRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transport_requests_total",
		Help:      "Total outgoing HTTP requests by method and status code.",
	}, []string{"method", "status"})

	TransportRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transport_request_duration_seconds",
		Help:      "Duration of outgoing HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	DownloadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "downloaded_bytes_total",
		Help:      "Total bytes written to disk by asset downloads.",
	})

	QuotaExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quota_exhausted_total",
		Help:      "Total requests rejected because the server-reported rate limit window was used up.",
	})

	QuotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "quota_remaining",
		Help:      "Requests remaining in the current server-reported rate limit window.",
	})
)

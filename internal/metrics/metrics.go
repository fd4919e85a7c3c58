// Package metrics defines and registers all custom Prometheus metrics for
// the nttl client. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at import time; the watch
// command exposes them over HTTP when asked to.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nttl"

// APIRequestsTotal counts requests issued against the knowledge base API.
// Labels:
//   - method: HTTP method ("GET", "POST", ...)
//   - status: numeric HTTP status, or "error" when no response arrived
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of requests issued against the backend API.",
	},
	[]string{"method", "status"},
)

// APIRequestDuration measures the wall time of one API request.
// Label:
//   - method: HTTP method
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of backend API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// AIJobPollsTotal counts job status polls while waiting for an agent job.
// Label:
//   - status: the job status observed by the poll
var AIJobPollsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_job_polls_total",
		Help:      "Total number of status polls while following agent jobs.",
	},
	[]string{"status"},
)

package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	adminRequestsTotal     *prometheus.CounterVec
	adminLatencySeconds    *prometheus.HistogramVec
	adminErrorsTotal       *prometheus.CounterVec
	moderationActionsTotal *prometheus.CounterVec
	rateLimitDecisions     *prometheus.CounterVec
	auditWriteFailures     prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used for admin observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		moderationActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Moderation actions grouped by action and outcome.",
		}, []string{"action", "outcome"})

		rateLimitDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_decisions_total",
			Help: "Rate limiter decisions grouped by operation class and outcome.",
		}, []string{"class", "outcome"})

		auditWriteFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Audit trail writes that failed and were swallowed.",
		})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			moderationActionsTotal,
			rateLimitDecisions,
			auditWriteFailures,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// ModerationActions exposes the counter for moderation outcomes.
func ModerationActions() *prometheus.CounterVec {
	RegisterMetrics()
	return moderationActionsTotal
}

// RateLimitDecisions exposes the counter for limiter outcomes.
func RateLimitDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return rateLimitDecisions
}

// AuditFailures exposes the counter for swallowed audit write failures.
func AuditFailures() prometheus.Counter {
	RegisterMetrics()
	return auditWriteFailures
}

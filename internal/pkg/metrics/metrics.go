// Package metrics defines and registers the custom Prometheus metrics of the
// auth portal. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry on package init through
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authportal"

// ── HTTP metrics ─────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts requests served, labelled by route template so
// cardinality stays bounded.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served, by route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration observes request latency per route template.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests served, by route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Auth API metrics ─────────────────────────────────────────────────────────

// APIRequestsTotal counts calls made to the remote auth API.
// Labels:
//   - call: logical operation (e.g. "login", "me", "update_role")
//   - outcome: "ok", "http_4xx", "http_5xx" or "transport"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of calls to the remote auth API.",
	},
	[]string{"call", "outcome"},
)

// APIRequestDuration measures round-trip latency of auth API calls.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Latency of calls to the remote auth API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"call"},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionResolutionsTotal counts session lifecycle runs.
// Label:
//   - outcome: "anonymous", "valid" or "rejected"
var SessionResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resolutions_total",
		Help:      "Total number of session resolutions, by outcome.",
	},
	[]string{"outcome"},
)

// GuardRedirectsTotal counts navigations turned away by a route guard.
// Labels:
//   - guard: "auth" or the required role
//   - target: redirect destination path
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of guarded navigations that were redirected.",
	},
	[]string{"guard", "target"},
)

// ── Account metrics ──────────────────────────────────────────────────────────

// FormSubmissionsTotal counts public form submissions.
// Labels:
//   - form: "login", "register" or "first_admin"
//   - result: "success" or "failure"
var FormSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "form_submissions_total",
		Help:      "Total number of login and registration submissions, by result.",
	},
	[]string{"form", "result"},
)

// RoleChangesTotal counts role change attempts from the admin screen.
// Labels:
//   - role: requested role
//   - result: "success" or "failure"
var RoleChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_changes_total",
		Help:      "Total number of role change attempts, by requested role and result.",
	},
	[]string{"role", "result"},
)

// Result maps an error to the "success"/"failure" label value.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// Package metrics defines and registers all custom Prometheus metrics for the
// user access API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto, and exposed by the router on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_access"

// ── Authentication ────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts credential validations.
// Label:
//   - result: "accepted" or "rejected"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of credential validations, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration outcomes.
// Label:
//   - result: "created" or "conflict"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts that reached the service, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts signed access tokens.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued.",
	},
)

// PasswordHashDuration measures bcrypt work.
// Label:
//   - op: "hash" or "compare"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of bcrypt hash and compare operations.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1},
	},
	[]string{"op"},
)

// HashQueueDepth tracks jobs waiting for a hashing worker.
var HashQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_queue_depth",
		Help:      "Current number of password hashing jobs waiting for a worker.",
	},
)

// ── Authorization ─────────────────────────────────────────────────────────────

// GuardDenialsTotal counts requests rejected by a guard.
// Label:
//   - guard: the guard name (e.g. "authenticate", "admin_role_assignment", "roles")
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of requests denied by a guard, by guard.",
	},
	[]string{"guard"},
)

// RoleAssignmentsTotal counts role changes written to the directory.
// Label:
//   - role: the newly assigned role
var RoleAssignmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_assignments_total",
		Help:      "Total number of role changes, by assigned role.",
	},
	[]string{"role"},
)

// ── Directory cache ───────────────────────────────────────────────────────────

// DirectoryCacheTotal counts user cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var DirectoryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_cache_total",
		Help:      "Total number of user cache lookups, labelled by result.",
	},
	[]string{"result"},
)

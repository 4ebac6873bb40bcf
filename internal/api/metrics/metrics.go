// Package metrics defines and registers all custom Prometheus metrics for the
// accounts API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts users persisted through POST /users.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created.",
	},
)

// UserOperationsTotal counts lifecycle operations by outcome.
// Labels:
//   - operation: create, find, find_one, update, change_state, delete
//   - status: the HTTP status of the returned envelope (e.g. "200", "404")
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of user lifecycle operations, by operation and status.",
	},
	[]string{"operation", "status"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid", "rejected" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"outcome"},
)

// ObserveUserOperation records one lifecycle operation.
func ObserveUserOperation(operation string, status int) {
	UserOperationsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
}

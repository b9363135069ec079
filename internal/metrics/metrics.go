package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GlebRadaev/investadmin/internal/domain"
)

var (
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "investadmin",
			Name:      "transitions_total",
			Help:      "Lifecycle operations by record type, action and outcome.",
		},
		[]string{"record", "action", "outcome"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "investadmin",
			Name:      "notifications_total",
			Help:      "Notification deliveries by sender and outcome.",
		},
		[]string{"sender", "outcome"},
	)
)

func ObserveTransition(record domain.RecordType, action string, err error) {
	Transitions.WithLabelValues(string(record), action, Outcome(err)).Inc()
}

func ObserveNotification(sender string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Notifications.WithLabelValues(sender, outcome).Inc()
}

// Outcome collapses an operation error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrLedger):
		return "ledger"
	default:
		return "error"
	}
}

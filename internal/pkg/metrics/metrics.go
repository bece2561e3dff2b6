package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts counts login attempts by portal and outcome
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paysecure",
		Name:      "auth_attempts_total",
		Help:      "Login attempts by portal and outcome.",
	}, []string{"portal", "outcome"})

	// TokenRejections counts requests refused by the auth middleware
	TokenRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paysecure",
		Name:      "token_rejections_total",
		Help:      "Requests rejected by token checks, by portal and reason.",
	}, []string{"portal", "reason"})

	// PaymentTransitions counts applied status changes
	PaymentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paysecure",
		Name:      "payment_transitions_total",
		Help:      "Payment status transitions by actor and target status.",
	}, []string{"actor", "status"})

	// TransitionConflicts counts conditional updates that matched nothing
	TransitionConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paysecure",
		Name:      "payment_transition_conflicts_total",
		Help:      "Status updates refused because the payment was no longer in a source state.",
	}, []string{"actor"})

	// RateLimited counts 429 responses by route class
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "paysecure",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by rate limiters, by route class.",
	}, []string{"class"})

	// RevocationsPurged counts expired revocation entries removed by the janitor
	RevocationsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paysecure",
		Name:      "revocations_purged_total",
		Help:      "Expired revocation entries removed by the janitor.",
	})
)

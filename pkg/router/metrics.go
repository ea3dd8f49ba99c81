package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess   = "success"
	outcomeError     = "error"
	outcomeUnhandled = "unhandled"
	outcomeMalformed = "malformed"
)

var (
	// interactionsTotal counts routed interactions.
	interactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routed_interactions_total",
			Help: "Total number of routed component and modal interactions",
		},
		[]string{"system", "action", "outcome"},
	)

	// interactionDuration is how long handlers take.
	interactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "routed_interaction_duration_seconds",
			Help: "Duration of routed interaction handling",
		},
		[]string{"system", "action"},
	)
)

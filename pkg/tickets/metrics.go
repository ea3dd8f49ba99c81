package tickets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
	outcomePartial = "partial"
)

var (
	// ticketEvents counts committed lifecycle transitions.
	ticketEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_events_total",
			Help: "Total number of committed ticket lifecycle events",
		},
		[]string{"event"},
	)

	// sideEffectFailures counts best-effort operations that failed after a commit.
	sideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_side_effect_failures_total",
			Help: "Total number of failed side effects after a ticket change",
		},
		[]string{"effect"},
	)

	// transcriptsTotal counts rendered transcripts.
	transcriptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_transcripts_total",
			Help: "Total number of ticket transcripts",
		},
		[]string{"trigger", "outcome"},
	)
)

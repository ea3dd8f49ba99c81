package governor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess   = "success"
	outcomeError     = "error"
	outcomeTimeout   = "timeout"
	outcomeCancelled = "cancelled"
)

var (
	// opsTotal counts governed channel operations by outcome.
	opsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_operations_total",
			Help: "Total number of governed channel operations",
		},
		[]string{"operation", "outcome"},
	)

	// waitDuration is how long operations waited for their channel's limiter.
	waitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "channel_operation_wait_seconds",
			Help:    "Time spent waiting before a governed channel operation",
			Buckets: []float64{0, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)
)

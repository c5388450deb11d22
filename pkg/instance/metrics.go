package instance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodecycle_instance_action_total",
			Help: "Total number of instance start/stop invocations",
		},
		[]string{"action", "status"}, // status: success, timeout, error
	)

	pollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodecycle_instance_poll_attempts",
			Help:    "Poll attempts needed for an instance to reach its target state",
			Buckets: []float64{1, 2, 3, 5, 8, 10, 15, 20},
		},
	)
)

package cleanup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cleanupRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodecycle_cleanup_runs_total",
			Help: "Total number of cleanup runs",
		},
		[]string{"status"}, // completed, skipped
	)

	duplicatesFoundTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nodecycle_cleanup_duplicates_found_total",
			Help: "Total number of duplicate pods identified for deletion",
		},
	)

	podsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nodecycle_cleanup_pods_deleted_total",
			Help: "Total number of duplicate pods successfully deleted",
		},
	)

	namespaceErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nodecycle_cleanup_namespace_errors_total",
			Help: "Total number of per-namespace listing or deletion errors",
		},
	)
)

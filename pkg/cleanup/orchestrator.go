// Package cleanup removes duplicate workload pods left behind when a node
// is cycled. Pods are grouped by a derived base name; in every group with
// more than one member the oldest pod survives and the newer duplicates are
// deleted.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Orchestrator sequences grouping, resolution and deletion across
// namespaces. Namespaces are processed one at a time to keep failure
// attribution simple and logs ordered.
type Orchestrator struct {
	clientset   kubernetes.Interface
	gracePeriod int64
}

// NewOrchestrator builds an orchestrator over the given clientset.
// Duplicates are deleted with no grace period; the surviving pod already
// carries the workload.
func NewOrchestrator(clientset kubernetes.Interface) *Orchestrator {
	return &Orchestrator{clientset: clientset, gracePeriod: 0}
}

// Run cleans every configured namespace and returns the per-namespace
// results. Errors in one namespace never abort the others. When the
// cluster is unreachable the report comes back Skipped and the run is
// still considered successful.
func (o *Orchestrator) Run(ctx context.Context, namespaces []string) *Report {
	report := NewReport()
	defer func() { report.FinishedAt = time.Now().UTC() }()

	if err := o.probe(); err != nil {
		report.Skipped = true
		report.SkipReason = err.Error()
		cleanupRunsTotal.WithLabelValues("skipped").Inc()
		slog.Warn("cluster unreachable, skipping pod cleanup",
			slog.String("runId", report.RunID),
			slog.String("reason", err.Error()))
		return report
	}

	slog.Info("starting pod cleanup",
		slog.String("runId", report.RunID),
		slog.Int("namespaces", len(namespaces)))

	for _, ns := range namespaces {
		report.Results = append(report.Results, o.cleanupNamespace(ctx, ns))
	}

	cleanupRunsTotal.WithLabelValues("completed").Inc()
	slog.Info("pod cleanup finished",
		slog.String("runId", report.RunID),
		slog.Int("deleted", report.TotalDeleted()))
	return report
}

// probe validates cluster connectivity before the namespace loop starts so
// an unreachable cluster degrades to a single Skipped result instead of
// one error per namespace. It reads /version, which any authenticated
// principal may do: a service account limited to namespaced pod
// permissions must not be mistaken for an unreachable cluster.
func (o *Orchestrator) probe() error {
	_, err := o.clientset.Discovery().ServerVersion()
	if err != nil {
		return fmt.Errorf("cluster connectivity check failed: %w", err)
	}
	return nil
}

func (o *Orchestrator) cleanupNamespace(ctx context.Context, namespace string) Result {
	result := Result{Namespace: namespace}

	list, err := o.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("list pods: %v", err))
		namespaceErrorsTotal.Inc()
		slog.Warn("failed to list pods, skipping namespace",
			slog.String("namespace", namespace),
			slog.String("error", err.Error()))
		return result
	}

	pods := FromPodList(list)
	slog.Info("inspecting namespace",
		slog.String("namespace", namespace),
		slog.Int("pods", len(pods)))

	groups := GroupByBaseName(pods)

	// Map iteration order is random; sort keys so logs and deletions are
	// reproducible across runs.
	bases := make([]string, 0, len(groups))
	for base := range groups {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	for _, base := range bases {
		result.GroupsInspected++

		victims := Resolve(groups[base])
		if len(victims) == 0 {
			continue
		}
		result.DuplicatesFound += len(victims)
		duplicatesFoundTotal.Add(float64(len(victims)))

		slog.Info("found duplicate pods",
			slog.String("namespace", namespace),
			slog.String("baseName", base),
			slog.Int("duplicates", len(victims)))

		for _, pod := range victims {
			if err := o.deletePod(ctx, pod); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("delete pod %s: %v", pod.Name, err))
				namespaceErrorsTotal.Inc()
				slog.Warn("failed to delete duplicate pod",
					slog.String("namespace", namespace),
					slog.String("pod", pod.Name),
					slog.String("error", err.Error()))
				continue
			}
			result.Deleted++
			podsDeletedTotal.Inc()
			slog.Info("deleted duplicate pod",
				slog.String("namespace", namespace),
				slog.String("pod", pod.Name),
				slog.String("keptBaseName", base))
		}
	}

	return result
}

func (o *Orchestrator) deletePod(ctx context.Context, pod Pod) error {
	grace := o.gracePeriod
	return o.clientset.CoreV1().Pods(pod.Namespace).Delete(ctx, pod.Name, metav1.DeleteOptions{
		GracePeriodSeconds: &grace,
	})
}

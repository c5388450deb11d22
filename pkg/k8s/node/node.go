// Package node maps cloud instances onto cluster nodes and gates cleanup
// on node readiness. A freshly started instance registers its kubelet some
// time after the cloud API reports ACTIVE; cleaning up pods before the node
// is Ready would race the scheduler.
package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/retry"
)

// ErrNotReady is returned by WaitForReady when the node never reported
// Ready within the wait budget.
var ErrNotReady = errors.New("node did not become ready")

// FindByIP returns the name of the cluster node whose address list contains
// the given IP, or empty when no node matches.
func FindByIP(ctx context.Context, clientset kubernetes.Interface, ip string) (string, error) {
	nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to list nodes: %w", err)
	}

	for _, n := range nodes.Items {
		for _, addr := range n.Status.Addresses {
			if addr.Address == ip {
				return n.Name, nil
			}
		}
	}
	return "", nil
}

// IsReady reports whether the named node carries a Ready condition with
// status True.
func IsReady(ctx context.Context, clientset kubernetes.Interface, name string) (bool, error) {
	n, err := clientset.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to get node %s: %w", name, err)
	}

	for _, cond := range n.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue, nil
		}
	}
	return false, nil
}

// WaitForReady polls the node's Ready condition under the given policy.
// Transient get errors consume an attempt and are logged at warning.
func WaitForReady(ctx context.Context, clientset kubernetes.Interface, name string, policy retry.Policy) error {
	err := policy.Do(ctx, func(ctx context.Context) (bool, error) {
		ready, err := IsReady(ctx, clientset, name)
		if err != nil {
			slog.Warn("error checking node readiness",
				slog.String("node", name), slog.String("error", err.Error()))
			return false, nil
		}
		return ready, nil
	})
	if errors.Is(err, retry.ErrBudgetExhausted) {
		return fmt.Errorf("node %s: %w", name, ErrNotReady)
	}
	return err
}

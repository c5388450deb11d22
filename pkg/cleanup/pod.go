package cleanup

import (
	"time"

	corev1 "k8s.io/api/core/v1"
)

// Pod is the slice of pod state the cleanup logic operates on. Keeping the
// grouper and resolver off the full API object keeps them pure and trivial
// to test.
type Pod struct {
	Name      string    `json:"name"`
	Namespace string    `json:"namespace"`
	Node      string    `json:"node,omitempty"`
	Phase     string    `json:"phase,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromPodList converts an API pod list, dropping pods that have not been
// scheduled onto a node yet. An unscheduled pod is in flight and not a
// cleanup candidate.
func FromPodList(list *corev1.PodList) []Pod {
	pods := make([]Pod, 0, len(list.Items))
	for _, p := range list.Items {
		if p.Spec.NodeName == "" {
			continue
		}
		pods = append(pods, Pod{
			Name:      p.Name,
			Namespace: p.Namespace,
			Node:      p.Spec.NodeName,
			Phase:     string(p.Status.Phase),
			CreatedAt: p.CreationTimestamp.Time,
		})
	}
	return pods
}

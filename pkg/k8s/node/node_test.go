package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/retry"
)

func newNode(name, ip string, ready corev1.ConditionStatus) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Addresses: []corev1.NodeAddress{
				{Type: corev1.NodeInternalIP, Address: ip},
			},
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: ready},
			},
		},
	}
}

func TestFindByIP(t *testing.T) {
	clientset := fake.NewClientset(
		newNode("node-1", "10.0.0.1", corev1.ConditionTrue),
		newNode("node-2", "10.0.0.2", corev1.ConditionTrue),
	)

	name, err := FindByIP(context.Background(), clientset, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, "node-2", name)

	name, err = FindByIP(context.Background(), clientset, "10.0.0.99")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestIsReady(t *testing.T) {
	clientset := fake.NewClientset(
		newNode("ready", "10.0.0.1", corev1.ConditionTrue),
		newNode("not-ready", "10.0.0.2", corev1.ConditionFalse),
	)

	ready, err := IsReady(context.Background(), clientset, "ready")
	require.NoError(t, err)
	assert.True(t, ready)

	ready, err = IsReady(context.Background(), clientset, "not-ready")
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestWaitForReady(t *testing.T) {
	clientset := fake.NewClientset(newNode("node-1", "10.0.0.1", corev1.ConditionTrue))
	policy := retry.Policy{MaxAttempts: 3, Interval: time.Millisecond, Factor: 1}

	err := WaitForReady(context.Background(), clientset, "node-1", policy)
	assert.NoError(t, err)
}

func TestWaitForReadyTimesOut(t *testing.T) {
	clientset := fake.NewClientset(newNode("node-1", "10.0.0.1", corev1.ConditionFalse))
	policy := retry.Policy{MaxAttempts: 2, Interval: time.Millisecond, Factor: 1}

	err := WaitForReady(context.Background(), clientset, "node-1", policy)
	assert.ErrorIs(t, err, ErrNotReady)
}

package cli

import (
	"k8s.io/client-go/kubernetes"

	kubeclient "github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/k8s/client"
)

// clientsetFor returns the process-wide singleton client, unless the user
// supplied an explicit kubeconfig override, which bypasses the cache.
func clientsetFor(kubeconfig string) (*kubernetes.Clientset, error) {
	if kubeconfig == "" {
		return kubeclient.GetKubeClient()
	}
	return kubeclient.BuildKubeClient(kubeconfig)
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"
	"k8s.io/client-go/kubernetes"

	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/cleanup"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/cloud"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/cloud/ec2"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/config"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/instance"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/k8s/node"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/retry"
)

func startCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Start the instance, wait for ACTIVE, then clean up duplicate pods",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			inst, err := applyAction(ctx, cmd, cfg, cloud.ActionStart)
			if err != nil {
				return err
			}

			report := runCleanupPhase(ctx, cmd, cfg, inst)
			return writeReport(cmd, report)
		},
	}
}

func stopCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "stop",
		Usage: "Stop the instance and wait for SHUTOFF",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := applyAction(ctx, cmd, cfg, cloud.ActionStop)
			return err
		},
	}
}

// applyAction builds the provider and controller from flags and drives the
// instance to the action's target state. Errors here are fatal to the
// invocation.
func applyAction(ctx context.Context, cmd *cli.Command, cfg *config.Config, action cloud.Action) (*cloud.Instance, error) {
	provider, err := ec2.NewProvider(ctx, cmd.String("cloud-profile"), cmd.String("region"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloud provider: %w", err)
	}

	ctrl := instance.New(provider,
		retry.Policy{MaxAttempts: cfg.PollMaxAttempts, Interval: cfg.PollInterval, Factor: 1},
		retry.Policy{MaxAttempts: cfg.RetryMaxAttempts, Interval: cfg.RetryInterval, Factor: cfg.RetryFactor},
	)

	inst, err := ctrl.Apply(ctx, cmd.String("server-name"), action)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// runCleanupPhase runs the best-effort pod cleanup after a successful
// start. Cluster problems degrade to a skipped report, never to a failed
// run.
func runCleanupPhase(ctx context.Context, cmd *cli.Command, cfg *config.Config, inst *cloud.Instance) *cleanup.Report {
	clientset, err := clientsetFor(cmd.String("kubeconfig"))
	if err != nil {
		slog.Warn("kubernetes setup failed, proceeding without pod cleanup",
			slog.String("error", err.Error()))
		return cleanup.SkippedReport(err.Error())
	}

	waitForInstanceNode(ctx, cfg, clientset, inst)

	namespaces := splitNamespaces(cmd.String("namespaces"))
	return cleanup.NewOrchestrator(clientset).Run(ctx, namespaces)
}

// waitForInstanceNode gates cleanup on the started instance's node
// reporting Ready. Every failure path degrades to running cleanup anyway.
func waitForInstanceNode(ctx context.Context, cfg *config.Config, clientset kubernetes.Interface, inst *cloud.Instance) {
	if inst == nil || inst.PrivateIP == "" {
		return
	}

	name, err := node.FindByIP(ctx, clientset, inst.PrivateIP)
	if err != nil {
		slog.Warn("failed to look up node for instance",
			slog.String("ip", inst.PrivateIP), slog.String("error", err.Error()))
		return
	}
	if name == "" {
		slog.Warn("no cluster node matches instance IP, proceeding with cleanup",
			slog.String("ip", inst.PrivateIP))
		return
	}

	slog.Info("waiting for node to become ready", slog.String("node", name))
	policy := retry.Policy{MaxAttempts: cfg.NodeReadyMaxAttempts, Interval: cfg.NodeReadyInterval, Factor: 1}
	if err := node.WaitForReady(ctx, clientset, name, policy); err != nil {
		slog.Warn("node did not become ready in time, proceeding with cleanup",
			slog.String("node", name), slog.String("error", err.Error()))
		return
	}
	slog.Info("node is ready", slog.String("node", name))
}

func splitNamespaces(raw string) []string {
	parts := strings.Split(raw, ",")
	namespaces := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			namespaces = append(namespaces, trimmed)
		}
	}
	return namespaces
}

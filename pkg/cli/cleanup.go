package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/cleanup"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/config"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/serializer"
)

func cleanupCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Clean up duplicate pods without touching any instance",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clientset, err := clientsetFor(cmd.String("kubeconfig"))
			if err != nil {
				return fmt.Errorf("failed to build kubernetes client: %w", err)
			}

			namespaces := splitNamespaces(cmd.String("namespaces"))
			report := cleanup.NewOrchestrator(clientset).Run(ctx, namespaces)
			return writeReport(cmd, report)
		},
	}
}

// writeReport serializes the cleanup report to the configured destination.
func writeReport(cmd *cli.Command, report *cleanup.Report) error {
	format := serializer.Format(cmd.String("format"))
	if format.IsUnknown() {
		return fmt.Errorf("unknown output format: %q, valid formats are: yaml, json", format)
	}
	writer := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	if err := writer.Serialize(report); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

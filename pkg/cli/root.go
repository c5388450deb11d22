// Package cli wires the nodecycle commands: instance start/stop with state
// polling, and duplicate-pod cleanup.
package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/config"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/version"
)

// Run executes the root command against os.Args.
func Run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	root := &cli.Command{
		Name:    "nodecycle",
		Usage:   "Cycle a cloud compute node and clean up the duplicate pods it leaves behind",
		Version: version.String(),
		Description: `nodecycle starts or stops a single cloud instance resolved by a partial
display-name match, waits for it to reach the target power state, and then
removes duplicate workload pods that accumulate in the cluster when a node
is cycled.

Configuration comes from the environment (PARTIAL_SERVER_NAME, CLOUD_PROFILE,
CLOUD_REGION, NAMESPACES, poll/retry knobs); flags override the environment.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server-name",
				Usage: "Partial instance display name to match (must resolve to exactly one instance)",
				Value: cfg.PartialServerName,
			},
			&cli.StringFlag{
				Name:  "cloud-profile",
				Usage: "Cloud credentials profile name",
				Value: cfg.CloudProfile,
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "Cloud region",
				Value: cfg.Region,
			},
			&cli.StringFlag{
				Name:  "namespaces",
				Usage: "Comma-separated namespaces to sweep for duplicate pods",
				Value: strings.Join(cfg.Namespaces, ","),
			},
			&cli.StringFlag{
				Name:  "kubeconfig",
				Usage: "Path to kubeconfig (default: auto-discovery)",
				Value: cfg.Kubeconfig,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report output format: json or yaml",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report output path, or '-' for stdout",
				Value:   "-",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: cfg.LogLevel,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			startCmd(cfg),
			stopCmd(cfg),
			cleanupCmd(cfg),
		},
	}

	return root.Run(ctx, args)
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

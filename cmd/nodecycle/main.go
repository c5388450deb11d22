package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

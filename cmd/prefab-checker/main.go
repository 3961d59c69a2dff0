// Package main is the entry point for the prefab-checker CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/benjamin-asdf/prefab-checker/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

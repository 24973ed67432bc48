// Package main is the entry point for the refract CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"github.com/refractlabs/refract/cmd/refract/commands"
	"github.com/refractlabs/refract/internal/adapters/transform"
	"github.com/refractlabs/refract/internal/adapters/workerpool"
	"github.com/refractlabs/refract/internal/app"
	_ "github.com/refractlabs/refract/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The worker serves transform jobs over stdio and must come up without
	// touching the project configuration or spawning a pool of its own.
	if len(os.Args) > 1 && os.Args[1] == "worker" {
		if err := runWorker(ctx); err != nil {
			_, _ = os.Stderr.WriteString("worker: " + err.Error() + "\n")
			return 1
		}
		return 0
	}

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = components.Pool.Close() }()

	cli := commands.New(components.App)
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}

func runWorker(ctx context.Context) error {
	registry := transform.DefaultRegistry()
	return workerpool.Serve(ctx, os.Stdin, os.Stdout, transform.New(registry), transform.NewLoader(registry))
}

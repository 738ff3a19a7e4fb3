// Package main is the entry point for the pomo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pomo/internal/backend/local"
	"pomo/internal/cli"
	"pomo/internal/commands"
	"pomo/internal/config"
	"pomo/internal/service"
)

func main() {
	// Cancels a running timer on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return local.Open(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

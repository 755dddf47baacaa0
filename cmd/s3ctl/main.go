package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/zynqcloud/go-s3-client/cmd/s3ctl/commands"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Root context — cancelled when a shutdown signal arrives, so a
	// long-running command (bench, a large PutFD/GetFD) stops cleanly
	// instead of leaving a half-written file behind.
	ctx, cancel := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer cancel()

	root := commands.Root()
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

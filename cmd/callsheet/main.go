package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/callsheethq/callsheet/adapter/cli"
	cliPriority "github.com/callsheethq/callsheet/adapter/cli/priority"
	"github.com/callsheethq/callsheet/internal/app"
	"github.com/callsheethq/callsheet/pkg/config"
	"github.com/callsheethq/callsheet/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		cfg = &config.Config{AppEnv: "development", DatabaseURL: "callsheet.db"}
	}

	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("error during shutdown", "error", err)
		}
	}()

	cli.SetApp(&cli.App{
		AnalyzeHandler: container.AnalyzeHandler,
		CachedHandler:  container.CachedHandler,
		ApplyHandler:   container.ApplyHandler,
	})

	cli.AddCommand(cliPriority.Cmd)
	cli.Execute(ctx)
}

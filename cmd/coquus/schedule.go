package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/coquus/internal/services/indexer"
	"github.com/ternarybob/coquus/internal/services/llm"
)

// runSchedule runs the cron-driven re-indexer until interrupted.
func runSchedule(args []string) {
	flags := flag.NewFlagSet("schedule", flag.ExitOnError)
	flags.Parse(args)

	if !config.Processing.Enabled {
		logger.Fatal().Msg("Scheduled indexing is disabled, set [processing] enabled = true")
		os.Exit(1)
	}

	ctx := context.Background()

	embedder, err := llm.SelectEmbedder(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize embedding provider")
		os.Exit(1)
	}

	manager := openStorage()
	defer manager.Close()

	service := indexer.NewService(manager, embedder, logger)
	scheduler := indexer.NewScheduler(&config.Processing, service, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down scheduler")
	scheduler.Stop()
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/coquus/internal/services/indexer"
	"github.com/ternarybob/coquus/internal/services/llm"
)

// runIndex embeds the recipe corpus and builds the vector index.
func runIndex(args []string) {
	flags := flag.NewFlagSet("index", flag.ExitOnError)
	clear := flags.Bool("clear", false, "Wipe the existing index before indexing")
	flags.Parse(args)

	ctx := context.Background()

	embedder, err := llm.SelectEmbedder(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize embedding provider")
		os.Exit(1)
	}

	manager := openStorage()
	defer manager.Close()

	service := indexer.NewService(manager, embedder, logger)
	report, err := service.IndexAll(ctx, *clear)
	if err != nil {
		logger.Fatal().Err(err).Msg("Indexing failed")
		os.Exit(1)
	}

	fmt.Printf("Indexed %d recipe(s) using %s embeddings\n", report.Indexed, report.Provider)
}

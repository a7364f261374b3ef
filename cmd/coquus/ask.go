package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/coquus/internal/common"
	"github.com/ternarybob/coquus/internal/services/chat"
	"github.com/ternarybob/coquus/internal/services/llm"
)

// runAsk answers one question through the retrieval pipeline.
func runAsk(args []string) {
	flags := flag.NewFlagSet("ask", flag.ExitOnError)
	message := flags.String("m", "", "Question to ask (required)")
	session := flags.String("session", "", "Session ID for chat history (generated when empty)")
	user := flags.String("user", "", "User name recorded with the exchange")
	baseURL := flags.String("base-url", "", "Site base URL for recipe links (overrides config)")
	flags.Parse(args)

	if *message == "" {
		fmt.Fprintln(os.Stderr, "ask: -m is required")
		flags.Usage()
		os.Exit(2)
	}

	sessionID := *session
	if sessionID == "" {
		sessionID = common.NewSessionID()
	}

	ctx := context.Background()

	embedder, err := llm.SelectEmbedder(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize embedding provider")
		os.Exit(1)
	}
	generator, err := llm.SelectGenerator(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize generation provider")
		os.Exit(1)
	}

	manager := openStorage()
	defer manager.Close()

	service := chat.NewService(config, manager, embedder, generator, logger)
	result := service.Ask(ctx, &chat.AskRequest{
		Message:   *message,
		SessionID: sessionID,
		User:      *user,
		BaseURL:   *baseURL,
	})

	fmt.Println(result.Answer)
	if len(result.Retrieved) > 0 {
		fmt.Println("\nBased on:")
		for _, ref := range result.Retrieved {
			fmt.Printf("  - %s (ID: %d)\n", ref.Title, ref.RecipeID)
		}
	}
	fmt.Printf("\nConfidence: %.1f  Session: %s\n", result.Confidence, sessionID)
}

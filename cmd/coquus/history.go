package main

import (
	"flag"
	"fmt"
	"os"
)

// runHistory prints recent exchanges for a chat session, newest first.
func runHistory(args []string) {
	flags := flag.NewFlagSet("history", flag.ExitOnError)
	session := flags.String("session", "", "Session ID to show (required)")
	limit := flags.Int("limit", 20, "Maximum exchanges to show")
	flags.Parse(args)

	if *session == "" {
		fmt.Fprintln(os.Stderr, "history: -session is required")
		flags.Usage()
		os.Exit(2)
	}

	manager := openStorage()
	defer manager.Close()

	exchanges, err := manager.ChatStorage().ListBySession(*session, *limit)
	if err != nil {
		logger.Fatal().Err(err).Str("session_id", *session).Msg("Failed to list chat history")
		os.Exit(1)
	}

	if len(exchanges) == 0 {
		fmt.Printf("No history for session %s\n", *session)
		return
	}

	for _, exchange := range exchanges {
		fmt.Printf("[%s]\n", exchange.CreatedAt.Format("2006-01-02 15:04:05"))
		if exchange.User != "" {
			fmt.Printf("%s: %s\n", exchange.User, exchange.Message)
		} else {
			fmt.Printf("Q: %s\n", exchange.Message)
		}
		fmt.Printf("A: %s\n", exchange.Response)
		if exchange.Confidence != nil {
			fmt.Printf("   (confidence %.1f)\n", *exchange.Confidence)
		}
		fmt.Println()
	}
}

package main

import (
	"flag"
	"fmt"
	"os"
)

// runLoad imports recipes from a TOML file into the corpus store.
func runLoad(args []string) {
	flags := flag.NewFlagSet("load", flag.ExitOnError)
	file := flags.String("file", "", "Recipe TOML file to load (required)")
	flags.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "load: -file is required")
		flags.Usage()
		os.Exit(2)
	}

	manager := openStorage()
	defer manager.Close()

	loaded, err := manager.LoadRecipesFromFile(*file)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *file).Msg("Failed to load recipes")
		os.Exit(1)
	}

	count, err := manager.RecipeStorage().CountRecipes()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to count recipes")
		os.Exit(1)
	}

	logger.Info().
		Int("loaded", loaded).
		Int("total", count).
		Str("file", *file).
		Msg("Recipes loaded")
	fmt.Printf("Loaded %d recipe(s), corpus now holds %d\n", loaded, count)
}

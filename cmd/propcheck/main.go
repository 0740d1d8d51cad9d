// Package main provides the propcheck CLI for validating propensity model
// configurations against their project dependency graph.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Setup structured logging before anything else logs
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Warehouse credentials commonly live in a .env during development
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env")
	}

	Execute()
}

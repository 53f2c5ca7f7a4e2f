package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cleared-dev/stmtstats/internal/commands"
)

func main() {
	// Optional .env with STMTSTATS_* overrides.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

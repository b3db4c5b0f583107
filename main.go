package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/roccohia/labubu-watcher/cmd"
	"github.com/roccohia/labubu-watcher/logger"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	if err := cmd.Execute(); err != nil {
		logger.Default.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shopd-dev/shopd/internal/config"
	"github.com/shopd-dev/shopd/internal/logger"
	"github.com/shopd-dev/shopd/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	seedPath := flag.String("seed", "", "Path to a YAML seed file loaded at startup")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	// Create server
	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	if *seedPath != "" {
		if err := srv.Seed(*seedPath); err != nil {
			log.Fatal().Err(err).Str("path", *seedPath).Msg("Failed to seed database")
		}
	}

	log.Info().Str("version", version).Msg("Starting Shopd sandbox server...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/appetiteclub/apt"

	"github.com/thewinery/selforder/cmd/utils/internal/commands"
)

const (
	appName    = "selforder-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load config from UTILS namespace (or use default mongo connection)
	config, err := apt.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := apt.NewLogger(logLevel)

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "seed-menu":
		if err := commands.SeedMenu(ctx, config, logger); err != nil {
			log.Fatalf("Menu seeding failed: %v", err)
		}
		logger.Info("Menu seeding completed successfully")

	case "clear-menu":
		if err := commands.ClearMenu(ctx, config, logger); err != nil {
			log.Fatalf("Clear menu failed: %v", err)
		}
		logger.Info("Menu data cleared successfully")

	case "reset-db":
		if err := commands.ResetDB(ctx, config, logger); err != nil {
			log.Fatalf("Database reset failed: %v", err)
		}
		logger.Info("Database reset completed successfully")

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - operational utilities for the self-order service

Usage:
  utils <command> [flags]

Commands:
  seed-menu    Load the demo menu catalog (tapas night + a la carte)
  clear-menu   Remove seeded menu items and their seed markers
  reset-db     Drop the self-order database (cannot be undone)
  version      Print version

Config (env or flags, UTILS namespace):
  db.mongo.url    MongoDB connection string
  db.mongo.name   Database name (default winery_selforder)
  log.level       Log level (default info)
`, appName)
}

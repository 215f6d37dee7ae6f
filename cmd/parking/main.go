package main

import (
	"context"
	"flag"
	"os"

	"github.com/ironslayer/parking-management-system/config"
	"github.com/ironslayer/parking-management-system/internal/app"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	"github.com/joho/godotenv"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
)

func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	ctx := context.Background()
	log := logger.InitLogger(types.ServiceName, logger.LevelDebug)

	// A missing .env is fine, env vars may come from the environment itself.
	_ = godotenv.Load()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		return
	}

	// Printing configuration
	config.PrintConfig(cfg)

	if cfg.Log.Level != "" {
		log = logger.InitLogger(types.ServiceName, cfg.Log.Level)
	}

	// Creating application
	app, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	// Running the application
	if err = app.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/config"
	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/logging"
)

type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := newServeCommand()
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCommand(), newSeedCommand())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, installs the default logger and opens the database.
// The full server settings are checked only when validate is set.
func bootstrap(validate bool) (*app, error) {
	cfg := config.Load()
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, db: gdb}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.logger.Warn("db_close_failed", "error", err)
		}
	}
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/catalog/internal/config"
	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/search"
)

const groupID = "catalog-indexer"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.ESURL, "ES_URL")
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required")
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName+"-indexer")
	slog.SetDefault(logger)

	openCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(openCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	es, err := search.Connect(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	if err := es.EnsureIndex(ctx); err != nil {
		log.Fatalf("ensure index: %v", err)
	}

	reader := search.NewReader(cfg.KafkaBrokers, groupID)
	ix := &search.Indexer{Reader: reader, Store: es, Products: &repo.GormRepo{DB: gdb}}

	logger.Info("indexer_started", "topic", reader.Config().Topic, "group", groupID)
	runErr := ix.Run(ctx)

	if err := reader.Close(); err != nil {
		logger.Warn("reader_close_failed", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if runErr != nil {
		logger.Error("indexer_failed", "error", runErr)
		os.Exit(1)
	}
	logger.Info("indexer_stopped")
}

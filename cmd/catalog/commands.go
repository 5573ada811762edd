package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/httpserver"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/middleware/ratelimit"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/search"
	"github.com/Skotchmaster/catalog/internal/seed"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve()
		},
	}
}

func (a *app) serve() error {
	cfg := a.cfg
	r := &repo.GormRepo{DB: a.db}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers)
		defer func() {
			if err := producer.Close(); err != nil {
				a.logger.Warn("kafka_close_failed", "error", err)
			}
		}()
		pub = producer
	}

	var searchHTTP *httpserver.SearchHTTP
	if cfg.ESURL != "" {
		es, err := search.Connect(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			return err
		}
		searchHTTP = &httpserver.SearchHTTP{Index: es}
	}

	signer := &tokens.Signer{
		Secret:   cfg.JWTSecret,
		ClientID: cfg.OAuthClientID,
		Scopes:   []string{"read", "write"},
		Validity: cfg.JWTValidity,
	}

	limiter := ratelimit.New(cfg.TokenRateLimit, cfg.TokenRateBurst)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	limiter.StartCleanup(time.Minute, stopCleanup)

	e := httpserver.New(&httpserver.Deps{
		Products:   &httpserver.ProductHTTP{Svc: &service.ProductService{Repo: r, Events: pub}},
		Categories: &httpserver.CategoryHTTP{Svc: &service.CategoryService{Repo: r, Events: pub}},
		Users:      &httpserver.UserHTTP{Svc: &service.UserService{Repo: r, Events: pub}},
		OAuth: &httpserver.OAuthHTTP{
			Svc:          &service.AuthService{Repo: r, Signer: signer},
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
		},
		Search:       searchHTTP,
		DB:           a.db,
		Logger:       a.logger,
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOrigins,
		TokenLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("shutdown_failed", "error", err)
	}
	a.logger.Info("stopped")
	return nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema, Kafka topics and search index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			ctx = logging.IntoContext(ctx, a.logger)

			if err := db.Migrate(ctx, a.db); err != nil {
				return err
			}
			a.logger.Info("schema_migrated")

			if len(a.cfg.KafkaBrokers) > 0 {
				err := events.EnsureTopics(ctx, a.cfg.KafkaBrokers[0], events.TopicProducts, events.TopicCategories, events.TopicUsers)
				if err != nil {
					return err
				}
				a.logger.Info("topics_ready")
			}

			if a.cfg.ESURL != "" {
				es, err := search.Connect(a.cfg.ESURL, a.cfg.ESUser, a.cfg.ESPassword, a.cfg.ESIndex)
				if err != nil {
					return err
				}
				if err := es.EnsureIndex(ctx); err != nil {
					return err
				}
				a.logger.Info("index_ready", "index", a.cfg.ESIndex)
			}
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	var noDemo bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load roles, back-office accounts and the demo catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := logging.IntoContext(cmd.Context(), a.logger)
			if err := db.Migrate(ctx, a.db); err != nil {
				return err
			}

			opts := seed.DefaultOptions()
			opts.Demo = !noDemo
			return seed.Run(ctx, &repo.GormRepo{DB: a.db}, opts)
		},
	}
	cmd.Flags().BoolVar(&noDemo, "no-demo", false, "skip demo categories and products")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/infrastructure/api"
	"github.com/damon-houk/currency-converter/internal/infrastructure/cache"
	"github.com/damon-houk/currency-converter/internal/infrastructure/config"
	"github.com/damon-houk/currency-converter/internal/infrastructure/db"
	"github.com/damon-houk/currency-converter/internal/infrastructure/handler"
	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/damon-houk/currency-converter/internal/infrastructure/scheduler"
	"github.com/pkg/errors"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Env, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefaultLogger(log)

	// Wait for interrupt signal for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()

	if err != nil {
		log.Error("Server stopped with error", map[string]interface{}{"error": err.Error()})
	}
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run serves until ctx is canceled or the listener fails. Every resource it opens is
// released before it returns.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	log.Info("Starting currency converter", map[string]interface{}{
		"addr":     cfg.Server.Addr,
		"data_dir": cfg.DataDir,
	})

	// Setup BadgerDB
	badgerDB, err := db.OpenBadger(cfg.DataDir, log)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Initialize repositories
	sessionRepo := db.NewBadgerSessionRepository(badgerDB, cfg.Session.TTL)

	// Initialize the rate API client
	rateCache := cache.NewExchangeRateCache(cfg.Cache.TTL)
	fetcher := api.NewResilientFetcher(api.FetcherConfig{
		PrimaryURL:  cfg.API.PrimaryURL,
		FallbackURL: cfg.API.FallbackURL,
		Version:     cfg.API.Version,
		Minified:    cfg.API.Minified,
	}, &http.Client{Timeout: cfg.API.Timeout}, log)
	rateClient := api.NewExchangeRateClient(fetcher, rateCache, log)

	// Initialize services
	catalog := service.NewCurrencyCatalog(rateClient, log)
	seriesBuilder := service.NewHistoricalSeriesBuilder(rateClient, cfg.History.Concurrency, log)
	conversionService := service.NewConversionService(rateClient, log)
	sessionService := service.NewSessionService(sessionRepo, rateClient, catalog, seriesBuilder, log)

	// Scheduled maintenance
	jobs := scheduler.New(log)
	if err := jobs.Register("cache-prune", cfg.Cache.PruneSchedule, scheduler.PruneCache(rateCache, log)); err != nil {
		return errors.Wrap(err, "failed to schedule cache pruning")
	}
	jobs.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := jobs.Stop(stopCtx); err != nil {
			log.Error("Scheduler forced to stop", map[string]interface{}{"error": err.Error()})
		}
	}()

	defaultLanguage, ok := i18n.ParseLanguage(cfg.DefaultLanguage)
	if !ok {
		log.Warn("Unsupported default language, using English", map[string]interface{}{
			"language": cfg.DefaultLanguage,
		})
		defaultLanguage = i18n.English
	}

	router := handler.NewRouter(handler.Routes{
		Currencies:  handler.NewCurrencyHandler(catalog, log),
		Conversions: handler.NewConversionHandler(rateClient, conversionService, log),
		History:     handler.NewHistoryHandler(seriesBuilder, log),
		Sessions:    handler.NewSessionHandler(sessionService, log),
	}, defaultLanguage, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      middleware.NewCORS(cfg.CORS.AllowedOrigins).Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.API.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": cfg.Server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}

	log.Info("Server exited", nil)
	return nil
}

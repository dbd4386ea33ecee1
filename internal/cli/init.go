// Package cli provides common initialization shared by cmd/cashbook and
// cmd/cashbook-worker.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cashbook/internal/backend"
	"cashbook/internal/cache"
	"cashbook/internal/categorize"
	"cashbook/internal/config"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
	"cashbook/internal/services"
	"cashbook/internal/store"
)

// SetupLogger builds the logger from LOG_LEVEL and LOG_FORMAT and installs it as
// the slog default. An unknown level falls back to info.
func SetupLogger(cfg *config.Config, w io.Writer) *log.Logger {
	lc := log.DefaultConfig()
	if w != nil {
		lc.Output = w
	}
	if cfg != nil {
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			lc.Level = level
		}
		lc.Format = cfg.LogFormat
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment and validates the result.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// AppOptions carries the optional collaborators of an App.
type AppOptions struct {
	Publisher services.ExportPublisher
	Clock     func() time.Time
}

// App is the wired transaction service plus the resources it owns.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Service  *services.TransactionService
	Backend  *backend.Result
	Overview *cache.LRUCache[ledger.Overview]
}

// NewApp opens the configured store, loads the category vocabulary, builds the
// exporter and returns the service over them. Close releases the store.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger, opts AppOptions) (*App, error) {
	if logger == nil {
		logger = log.Discard()
	}

	factory := backend.NewFactory(logger)
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := factory.CreateStore(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	vocabulary, err := loadVocabulary(cfg.CategoriesFile)
	if err != nil {
		_ = res.Cleanup()
		return nil, err
	}

	exporter, err := factory.CreateExporter(ctx, backend.ExportConfigFromAppConfig(cfg))
	if err != nil {
		_ = res.Cleanup()
		return nil, err
	}

	overview := cache.NewLRUCache[ledger.Overview](cfg.CacheSize, cfg.CacheTTL)
	svc := services.NewTransactionService(store.New(res.Store, cfg.StoreKey, logger), services.Options{
		Clock:       opts.Clock,
		Categorizer: categorize.New(vocabulary),
		Exporter:    exporter,
		Publisher:   opts.Publisher,
		Cache:       overview,
		DateLayout:  cfg.DateDisplayLayout,
		Logger:      logger,
	})

	return &App{
		Config:   cfg,
		Logger:   logger,
		Service:  svc,
		Backend:  res,
		Overview: overview,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	if a.Backend == nil || a.Backend.Cleanup == nil {
		return nil
	}
	return a.Backend.Cleanup()
}

func loadVocabulary(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	labels, err := categorize.LoadVocabulary(path)
	if errors.Is(err, categorize.ErrEmptyVocabulary) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return labels, nil
}

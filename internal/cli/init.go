// Package cli provides common CLI initialization utilities shared by
// cmd/reportes and cmd/migrador.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"agencia/internal/config"
	"agencia/internal/log"
	"agencia/internal/postgres"
	"agencia/internal/storage"

	"github.com/joho/godotenv"
)

// SetupLogger initializes structured logging at the given level, writing to out.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level string, out io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	if out != nil {
		cfg.Output = out
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenSource opens the existing SQLite file the migrator reads from.
func OpenSource(logger *log.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.OpenSQLiteRepository(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open sqlite source %s: %w", dbPath, err)
	}
	return repo, nil
}

// OpenDestination connects to the Postgres destination.
func OpenDestination(ctx context.Context, logger *log.Logger, cfg *config.Config) (*postgres.Store, error) {
	if cfg.UsesDefaultDSN() {
		logger.Warn("DATABASE_DSN not set, using local development default")
	}
	store, err := postgres.Open(ctx, cfg.DatabaseDSN, postgres.Options{
		Timeout:   cfg.DBTimeout,
		BatchSize: cfg.InsertBatchSize,
		MaxConns:  cfg.MigrationWorkers + 1,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return store, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return log.WithContext(ctx, logger), cancel
}

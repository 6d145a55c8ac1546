// Package cli provides the interactive ledger session and the common CLI
// initialization shared by cmd/expense-tracker and cmd/ledger-events.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expense-tracker/internal/config"
	applog "expense-tracker/internal/log"
)

// SetupLogger initializes structured logging on stderr at the given level.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	if lvl, err := applog.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		// The configured logger depends on a valid LOG_LEVEL.
		applog.New(applog.DefaultConfig()).Error("Configuration validation failed",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// RunUntilSignal runs fn until it returns or SIGINT/SIGTERM arrives, then
// runs cleanup. A signal cancels the context passed to fn and is not
// reported as an error.
func RunUntilSignal(parent context.Context, logger *applog.Logger, fn func(ctx context.Context) error, cleanup func() error) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	finished := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer stop()
		defer close(finished)
		return fn(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		select {
		case <-finished:
		default:
			logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
		}
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	if cleanup != nil {
		if cerr := cleanup(); cerr != nil {
			logger.Error("Cleanup failed", applog.FieldError, cerr)
			err = errors.Join(err, cerr)
		}
	}
	return err
}

package main

import (
	"context"
	"os"

	"expense-tracker/internal/backend"
	"expense-tracker/internal/cli"
	applog "expense-tracker/internal/log"
)

func main() {
	// Load .env file for local development
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}

	ctx := context.Background()
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	logger.Info("Starting expense tracker",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldBackend, cfg.DataBackend,
		"events", cfg.EventsEnabled())

	session := cli.NewSession(res.Service, os.Stdin, os.Stdout, logger)
	if err := cli.RunUntilSignal(ctx, logger, session.Run, res.Cleanup); err != nil {
		logger.Error("Session ended with error", applog.FieldError, err)
		os.Exit(1)
	}
}

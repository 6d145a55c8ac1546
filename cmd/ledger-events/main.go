// Command ledger-events follows the transaction events published by
// expense-tracker sessions and logs them.
package main

import (
	"context"
	"os"

	"expense-tracker/internal/amqp"
	"expense-tracker/internal/cli"
	applog "expense-tracker/internal/log"
)

func main() {
	// Load .env file for local development
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(applog.ComponentEvents)

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required to follow transaction events")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.PublishTimeout)
	if err != nil {
		logger.Error("Failed to initialize AMQP client",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeNetwork)
		os.Exit(1)
	}

	logger.Info("Following transaction events",
		applog.FieldOperation, applog.OpConsume,
		applog.FieldExchange, cfg.AMQPExchange,
		applog.FieldQueue, cfg.AMQPQueue)

	consume := func(ctx context.Context) error {
		return client.ConsumeTransactionEvents(ctx, func(ev *amqp.TransactionEvent) error {
			logger.Info("Transaction event",
				applog.FieldEvent, string(ev.Kind),
				applog.FieldTransactionID, ev.ID,
				applog.FieldAmount, ev.Amount,
				applog.FieldCategory, ev.Category,
				applog.FieldType, ev.Type,
				applog.FieldDate, ev.Date,
				applog.FieldField, ev.Field)
			return nil
		})
	}

	if err := cli.RunUntilSignal(context.Background(), logger, consume, client.Close); err != nil {
		logger.Error("Event consumer stopped", applog.FieldError, err)
		os.Exit(1)
	}
}

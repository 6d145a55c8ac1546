package backend

import (
	"context"
	"fmt"

	"expense-tracker/internal/amqp"
	"expense-tracker/internal/ledger"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/services"
	"expense-tracker/internal/storage"
)

// BackendResult contains the ledger service wired to the selected store.
// Cleanup releases the store and the AMQP connection.
type BackendResult struct {
	Service *services.LedgerService
	Cleanup func() error
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
	// dial is swapped in tests to avoid a broker.
	dial func(url, exchange, queue string, cfg Config) (*amqp.Client, error)
}

var _ Factory = (*DefaultFactory)(nil)

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *DefaultFactory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
		dial: func(url, exchange, queue string, cfg Config) (*amqp.Client, error) {
			return amqp.NewClient(url, exchange, queue, cfg.PublishTimeout)
		},
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store   ledger.Store
		closers []func() error
	)

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteLedger()
		if err != nil {
			f.logger.ErrorContext(ctx, "SQLite backend unavailable",
				applog.FieldError, err,
				applog.FieldErrorType, applog.ErrorTypeDatabase)
			return nil, fmt.Errorf("failed to initialize SQLite ledger: %w", err)
		}
		store = repo
		closers = append(closers, repo.Close)
		f.logger.InfoContext(ctx, "Initialized SQLite backend", applog.FieldBackend, config.Type.String())
	case MemoryBackend:
		store = ledger.New()
		f.logger.InfoContext(ctx, "Initialized memory backend", applog.FieldBackend, config.Type.String())
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	opts := []services.Option{services.WithLogger(f.logger)}

	// Initialize AMQP client (optional)
	if config.AMQPURL != "" {
		client, err := f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, config)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events",
				applog.FieldError, err,
				applog.FieldErrorType, applog.ErrorTypeNetwork)
		} else {
			opts = append(opts, services.WithPublisher(client))
			closers = append(closers, client.Close)
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				applog.FieldExchange, config.AMQPExchange,
				applog.FieldQueue, config.AMQPQueue)
		}
	}

	for _, c := range closers {
		opts = append(opts, services.WithCloser(c))
	}
	svc := services.NewLedgerService(store, opts...)

	return &BackendResult{
		Service: svc,
		Cleanup: svc.Close,
	}, nil
}

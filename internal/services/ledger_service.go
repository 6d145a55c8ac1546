package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expense-tracker/internal/amqp"
	"expense-tracker/internal/core"
	"expense-tracker/internal/ledger"
	applog "expense-tracker/internal/log"
)

// maxIDAttempts bounds retries when a freshly generated id is already live.
const maxIDAttempts = 3

// EventPublisher sends ledger change notifications.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// LedgerService orchestrates ledger operations and change notifications.
type LedgerService struct {
	store     ledger.Store
	publisher EventPublisher
	logger    *applog.Logger
	now       func() time.Time
	closers   []func() error
}

type Option func(*LedgerService)

// WithPublisher enables event publication.
func WithPublisher(p EventPublisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

// WithLogger sets the service logger.
func WithLogger(l *applog.Logger) Option {
	return func(s *LedgerService) { s.logger = l.WithComponent(applog.ComponentLedger) }
}

// WithClock overrides the clock used to date new transactions.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// WithCloser registers a cleanup run by Close.
func WithCloser(fn func() error) Option {
	return func(s *LedgerService) { s.closers = append(s.closers, fn) }
}

func NewLedgerService(store ledger.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:  store,
		logger: applog.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record creates a transaction dated today and appends it to the ledger.
func (s *LedgerService) Record(ctx context.Context, description string, amount float64, category string, typ core.Type) (core.Transaction, error) {
	date := core.DateOf(s.now())

	var (
		t   core.Transaction
		err error
	)
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		t, err = core.NewTransactionOn(date, description, amount, category, typ)
		if err != nil {
			return core.Transaction{}, err
		}
		err = s.store.Add(t)
		if !errors.Is(err, core.ErrDuplicateID) {
			break
		}
		s.logger.WarnContext(ctx, "Generated id already in use, retrying",
			applog.FieldTransactionID, t.ID,
			applog.FieldErrorType, applog.ErrorTypeConflict,
			"attempt", attempt+1)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction added", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithTransaction(t.ID, t.Description, t.Amount, t.Category, string(t.Type)).
		ToSlice()...)

	s.publish(ctx, amqp.NewTransactionEvent(amqp.EventCreated, t))
	return t, nil
}

func (s *LedgerService) Find(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.FindByID(id)
}

// Edit applies c to the transaction with the given id.
func (s *LedgerService) Edit(ctx context.Context, id string, c core.Change) (core.Transaction, error) {
	t, err := s.store.EditField(id, c)
	if err != nil {
		s.logger.DebugContext(ctx, "Edit rejected",
			applog.FieldTransactionID, id,
			applog.FieldField, string(c.Field),
			applog.FieldError, err)
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction updated",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldTransactionID, id,
		applog.FieldField, string(c.Field))

	ev := amqp.NewTransactionEvent(amqp.EventUpdated, t)
	ev.Field = string(c.Field)
	s.publish(ctx, ev)
	return t, nil
}

func (s *LedgerService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Transaction deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldTransactionID, id)

	s.publish(ctx, amqp.NewDeletedEvent(id))
	return nil
}

func (s *LedgerService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.List()
}

func (s *LedgerService) Count(ctx context.Context) (int, error) {
	return s.store.Len()
}

func (s *LedgerService) ByCategory(ctx context.Context) ([]core.CategoryGroup, error) {
	return s.store.GroupByCategory()
}

func (s *LedgerService) CategoryNetTotal(ctx context.Context, category string) (float64, error) {
	return s.store.CategoryNetTotal(category)
}

func (s *LedgerService) Summary(ctx context.Context) (core.Summary, error) {
	return s.store.Summary()
}

func (s *LedgerService) MonthlyReport(ctx context.Context) ([]core.MonthReport, error) {
	return s.store.MonthlyReport()
}

// publish never fails the caller: the ledger change already happened.
func (s *LedgerService) publish(ctx context.Context, ev *amqp.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpPublish).
			WithErrorType(applog.ErrorTypeNetwork).
			WithError(err)
		fields[applog.FieldTransactionID] = ev.ID
		fields[applog.FieldEvent] = string(ev.Kind)
		s.logger.ErrorContext(ctx, "Failed to publish transaction event", fields.ToSlice()...)
	}
}

// Close runs the registered cleanups in reverse order.
func (s *LedgerService) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financebot/internal/amqp"
	"financebot/internal/core"
	"financebot/internal/ledger"
)

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// LedgerService wraps a store and announces every successful mutation so the
// spreadsheet mirror can catch up. Publishing is best effort: the local write
// has already succeeded and is never rolled back.
type LedgerService struct {
	ledger.Store
	publisher EventPublisher
}

var _ ledger.Store = (*LedgerService)(nil)

func NewLedgerService(store ledger.Store, publisher EventPublisher) *LedgerService {
	return &LedgerService{Store: store, publisher: publisher}
}

func (s *LedgerService) Insert(ctx context.Context, tx core.Transaction) (int64, error) {
	id, err := s.Store.Insert(ctx, tx)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, amqp.NewTransactionEvent(amqp.OpCreated, id, 1))
	return id, nil
}

func (s *LedgerService) DeleteByID(ctx context.Context, id int64) (bool, error) {
	ok, err := s.Store.DeleteByID(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	s.publish(ctx, amqp.NewTransactionEvent(amqp.OpDeleted, id, 1))
	return true, nil
}

func (s *LedgerService) DeleteByCriteria(ctx context.Context, c ledger.DeleteCriteria) (int64, error) {
	n, err := s.Store.DeleteByCriteria(ctx, c)
	if err != nil || n == 0 {
		return n, err
	}
	s.publish(ctx, amqp.NewTransactionEvent(amqp.OpBulkDeleted, 0, n))
	return n, nil
}

func (s *LedgerService) Update(ctx context.Context, id int64, p ledger.Patch) (bool, error) {
	ok, err := s.Store.Update(ctx, id, p)
	if err != nil || !ok {
		return ok, err
	}
	s.publish(ctx, amqp.NewTransactionEvent(amqp.OpUpdated, id, 1))
	return true, nil
}

func (s *LedgerService) publish(ctx context.Context, ev *amqp.TransactionEvent) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not available, skipping event", "op", ev.Op)
		return
	}
	if err := s.publisher.PublishEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"op", ev.Op,
			"transaction_id", ev.TransactionID,
			"error", err)
	}
}

// Close closes the underlying store and publisher when they support it.
func (s *LedgerService) Close() error {
	var errs []error

	if c, ok := s.Store.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close ledger service: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"finviz/internal/amqp"
	"finviz/internal/core"
	"finviz/internal/storage"
)

// LedgerService orchestrates ledger writes across SQLite and AMQP.
// Records are saved locally first, change events are published best-effort.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateTransaction saves a transaction locally and publishes a change event.
// A fresh id is assigned when the caller does not provide one.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	if err := s.storage.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.EntityTransaction, amqp.ActionCreated, t.ID, monthOfDate(t.Date))
	return t, nil
}

// UpdateTransaction replaces a stored transaction and publishes a change event
func (s *LedgerService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := s.storage.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.EntityTransaction, amqp.ActionUpdated, t.ID, monthOfDate(t.Date))
	return nil
}

// DeleteTransaction removes a transaction and publishes a change event
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishEvent(ctx, amqp.EntityTransaction, amqp.ActionDeleted, id, "")
	return nil
}

// CreateBudget saves a budget locally and publishes a change event.
// A fresh id is assigned when the caller does not provide one.
func (s *LedgerService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	if err := s.storage.CreateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}

	s.publishEvent(ctx, amqp.EntityBudget, amqp.ActionCreated, b.ID, b.Month)
	return b, nil
}

// UpdateBudget replaces a stored budget and publishes a change event
func (s *LedgerService) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := s.storage.UpdateBudget(ctx, b); err != nil {
		return fmt.Errorf("update budget: %w", err)
	}

	s.publishEvent(ctx, amqp.EntityBudget, amqp.ActionUpdated, b.ID, b.Month)
	return nil
}

// DeleteBudget removes a budget and publishes a change event
func (s *LedgerService) DeleteBudget(ctx context.Context, id string) error {
	if err := s.storage.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}

	s.publishEvent(ctx, amqp.EntityBudget, amqp.ActionDeleted, id, "")
	return nil
}

// DismissAlert records an alert dismissal. Dismissals are local state only,
// no event is published.
func (s *LedgerService) DismissAlert(ctx context.Context, alertID string) error {
	if err := s.storage.DismissAlert(ctx, alertID); err != nil {
		return fmt.Errorf("dismiss alert: %w", err)
	}
	return nil
}

// Read pass-throughs so callers depend on the service alone.

func (s *LedgerService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx)
}

func (s *LedgerService) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	return s.storage.ListBudgets(ctx)
}

func (s *LedgerService) ListBudgetMonths(ctx context.Context) ([]string, error) {
	return s.storage.ListBudgetMonths(ctx)
}

func (s *LedgerService) ListDismissedAlerts(ctx context.Context) ([]string, error) {
	return s.storage.ListDismissedAlerts(ctx)
}

func (s *LedgerService) publishEvent(ctx context.Context, entity, action, id, month string) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping ledger event",
			"entity", entity, "action", action, "id", id)
		return
	}

	if err := s.amqpClient.PublishLedgerEvent(ctx, entity, action, id, month); err != nil {
		// Don't fail the request, the record is saved locally
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"entity", entity, "action", action, "id", id, "error", err)
	}
}

func monthOfDate(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}

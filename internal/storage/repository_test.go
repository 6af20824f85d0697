package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finviz/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finviz.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx := core.Transaction{
		ID: "t1", Amount: 42.50, Date: "2024-06-15",
		Description: "groceries", Type: core.Expense, Category: "Food & Dining",
	}
	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(txs) != 1 || txs[0] != tx {
		t.Fatalf("ListTransactions() = %+v, want [%+v]", txs, tx)
	}

	tx.Amount = 50
	tx.Description = "groceries and more"
	if err := repo.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}
	txs, _ = repo.ListTransactions(ctx)
	if txs[0].Amount != 50 || txs[0].Description != "groceries and more" {
		t.Errorf("after update: %+v", txs[0])
	}

	if err := repo.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if txs, _ = repo.ListTransactions(ctx); len(txs) != 0 {
		t.Errorf("after delete: %+v, want empty", txs)
	}
}

func TestTransactionValidationAtBoundary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	bad := core.Transaction{
		ID: "t1", Amount: 10, Date: "15-06-2024",
		Description: "x", Type: core.Expense, Category: "Other",
	}
	err := repo.CreateTransaction(ctx, bad)
	var invalid *core.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("CreateTransaction() = %v, want *core.InvalidInputError", err)
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	repo := newTestRepo(t)
	tx := core.Transaction{
		ID: "ghost", Amount: 10, Date: "2024-06-15",
		Description: "x", Type: core.Expense, Category: "Other",
	}
	if err := repo.UpdateTransaction(context.Background(), tx); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTransaction() = %v, want ErrNotFound", err)
	}
}

func TestBudgetUniqueness(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := core.Budget{ID: "b1", Category: "Shopping", Amount: 100, Month: "2024-06"}
	if err := repo.CreateBudget(ctx, b); err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}

	dup := core.Budget{ID: "b2", Category: "Shopping", Amount: 200, Month: "2024-06"}
	err := repo.CreateBudget(ctx, dup)
	if !errors.Is(err, ErrDuplicateBudget) {
		t.Fatalf("CreateBudget(duplicate) = %v, want ErrDuplicateBudget", err)
	}
	var invalid *core.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("duplicate budget error is not structured InvalidInput: %v", err)
	}

	// Same category in a different month is fine.
	other := core.Budget{ID: "b3", Category: "Shopping", Amount: 200, Month: "2024-07"}
	if err := repo.CreateBudget(ctx, other); err != nil {
		t.Fatalf("CreateBudget(other month) error = %v", err)
	}

	// Updating a budget onto an occupied pair is rejected; updating it in
	// place (same pair, same id) is not.
	other.Month = "2024-06"
	if err := repo.UpdateBudget(ctx, other); !errors.Is(err, ErrDuplicateBudget) {
		t.Errorf("UpdateBudget(onto occupied pair) = %v, want ErrDuplicateBudget", err)
	}
	b.Amount = 150
	if err := repo.UpdateBudget(ctx, b); err != nil {
		t.Errorf("UpdateBudget(in place) error = %v", err)
	}
}

func TestListBudgetsInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	months := []string{"2024-08", "2024-06", "2024-07"}
	for i, m := range months {
		b := core.Budget{ID: string(rune('a' + i)), Category: "Travel", Amount: 100, Month: m}
		if err := repo.CreateBudget(ctx, b); err != nil {
			t.Fatalf("CreateBudget(%s) error = %v", m, err)
		}
	}

	budgets, err := repo.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("ListBudgets() error = %v", err)
	}
	for i, m := range months {
		if budgets[i].Month != m {
			t.Errorf("budgets[%d].Month = %s, want insertion order %s", i, budgets[i].Month, m)
		}
	}

	got, err := repo.ListBudgetMonths(ctx)
	if err != nil {
		t.Fatalf("ListBudgetMonths() error = %v", err)
	}
	want := []string{"2024-08", "2024-07", "2024-06"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListBudgetMonths()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDismissedAlerts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.DismissAlert(ctx, "Shopping-2024-06-warning"); err != nil {
		t.Fatalf("DismissAlert() error = %v", err)
	}
	// Idempotent.
	if err := repo.DismissAlert(ctx, "Shopping-2024-06-warning"); err != nil {
		t.Fatalf("DismissAlert(again) error = %v", err)
	}

	ids, err := repo.ListDismissedAlerts(ctx)
	if err != nil {
		t.Fatalf("ListDismissedAlerts() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != "Shopping-2024-06-warning" {
		t.Errorf("ListDismissedAlerts() = %v", ids)
	}
}

// Package storage owns the three persisted records of the application:
// transactions, budgets and dismissed alert ids. The engine never touches
// it; the host loads collections here and hands them to the engine as
// plain slices.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finviz/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateBudget = errors.New("budget already exists for category and month")
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListTransactions returns every transaction, newest date first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tx_type, amount, tx_date, description, category
		 FROM transactions
		 ORDER BY tx_date DESC, created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(&t.ID, &t.Type, &t.Amount, &t.Date, &t.Description, &t.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, tx_type, amount, tx_date, description, category)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Type, t.Amount, t.Date, t.Description, t.Category)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID, "type", t.Type, "amount", t.Amount, "category", t.Category)
	return nil
}

// UpdateTransaction replaces the transaction with the same id.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET tx_type = ?, amount = ?, tx_date = ?, description = ?, category = ?
		 WHERE id = ?`,
		t.Type, t.Amount, t.Date, t.Description, t.Category, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireAffected(res, t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res, id)
}

// ListBudgets returns every budget in insertion order. Downstream alert
// ordering relies on this order being stable across reads.
func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount, month FROM budgets ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]core.Budget, 0)
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount, &b.Month); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// CreateBudget inserts a budget, rejecting a second budget for the same
// (category, month) pair with a structured InvalidInput failure.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := r.checkBudgetUnique(ctx, b, ""); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, category, amount, month) VALUES (?, ?, ?, ?)`,
		b.ID, b.Category, b.Amount, b.Month)
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID, "category", b.Category, "amount", b.Amount, "month", b.Month)
	return nil
}

// UpdateBudget replaces the budget with the same id, keeping the
// one-per-(category, month) invariant against the other budgets.
func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := r.checkBudgetUnique(ctx, b, b.ID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, amount = ?, month = ? WHERE id = ?`,
		b.Category, b.Amount, b.Month, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireAffected(res, b.ID)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireAffected(res, id)
}

// ListBudgetMonths returns the distinct months with at least one budget,
// most recent first.
func (r *SQLiteRepository) ListBudgetMonths(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT month FROM budgets ORDER BY month DESC`)
	if err != nil {
		return nil, fmt.Errorf("list budget months: %w", err)
	}
	defer rows.Close()

	months := make([]string, 0)
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan month: %w", err)
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

// DismissAlert records an alert id as dismissed. Dismissing the same id
// twice is a no-op; the set only grows.
func (r *SQLiteRepository) DismissAlert(ctx context.Context, alertID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO dismissed_alerts (alert_id) VALUES (?)`, alertID)
	if err != nil {
		return fmt.Errorf("dismiss alert: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListDismissedAlerts(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT alert_id FROM dismissed_alerts ORDER BY dismissed_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list dismissed alerts: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan alert id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) checkBudgetUnique(ctx context.Context, b core.Budget, excludeID string) error {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM budgets WHERE category = ? AND month = ? AND id <> ?`,
		b.Category, b.Month, excludeID).Scan(&count)
	if err != nil {
		return fmt.Errorf("check budget uniqueness: %w", err)
	}
	if count > 0 {
		return core.NewInvalidInput("month", b.Category+"/"+b.Month, ErrDuplicateBudget)
	}
	return nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Package worker recomputes budget alerts whenever the ledger changes and
// forwards newly raised alerts to the configured export sink.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finviz/internal/amqp"
	"finviz/internal/engine"
	"finviz/internal/storage"
)

// AlertExporter receives newly raised alerts
type AlertExporter interface {
	AppendAlerts(ctx context.Context, alerts []engine.Alert) error
}

// AlertWorkerConfig holds configuration for the alert worker
type AlertWorkerConfig struct {
	// SweepInterval is how often to recompute alerts without an event (default: 15m)
	SweepInterval time.Duration
}

// DefaultAlertWorkerConfig returns sensible defaults
func DefaultAlertWorkerConfig() AlertWorkerConfig {
	return AlertWorkerConfig{
		SweepInterval: 15 * time.Minute,
	}
}

// AlertWorker recomputes the active alert set from stored transactions and
// budgets. Events trigger an immediate recompute, a periodic sweep covers
// missed events and month rollover.
type AlertWorker struct {
	storage  *storage.SQLiteRepository
	exporter AlertExporter
	config   AlertWorkerConfig

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// Alert ids already exported, so each alert is forwarded once
	exportedMu sync.Mutex
	exported   map[string]bool
}

// NewAlertWorker creates a new alert worker. The exporter may be nil, in
// which case alerts are only logged.
func NewAlertWorker(storage *storage.SQLiteRepository, exporter AlertExporter, config AlertWorkerConfig) *AlertWorker {
	return &AlertWorker{
		storage:  storage,
		exporter: exporter,
		config:   config,
		exported: make(map[string]bool),
	}
}

// Start begins the sweep loop. Returns an error if already running.
func (w *AlertWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("alert worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	slog.InfoContext(ctx, "Alert worker started",
		"sweep_interval", w.config.SweepInterval)

	return nil
}

// Stop gracefully stops the worker and waits for completion.
func (w *AlertWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)

	select {
	case <-w.doneCh:
		slog.InfoContext(ctx, "Alert worker stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Alert worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	return nil
}

// IsRunning returns whether the worker is currently running
func (w *AlertWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *AlertWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	// Recompute immediately on startup
	w.sweep(ctx)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// HandleLedgerEvent recomputes alerts in response to a ledger change event
func (w *AlertWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Recomputing alerts for ledger event",
		"entity", msg.Entity,
		"action", msg.Action,
		"id", msg.ID)

	return w.Recompute(ctx, time.Now())
}

func (w *AlertWorker) sweep(ctx context.Context) {
	if err := w.Recompute(ctx, time.Now()); err != nil {
		slog.ErrorContext(ctx, "Alert sweep failed", "error", err)
	}
}

// Recompute rebuilds the active alert set for the month containing now,
// logs it, and forwards alerts not seen before to the exporter.
func (w *AlertWorker) Recompute(ctx context.Context, now time.Time) error {
	txs, err := w.storage.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	budgets, err := w.storage.ListBudgets(ctx)
	if err != nil {
		return fmt.Errorf("list budgets: %w", err)
	}

	dismissedIDs, err := w.storage.ListDismissedAlerts(ctx)
	if err != nil {
		return fmt.Errorf("list dismissed alerts: %w", err)
	}
	dismissed := make(map[string]bool, len(dismissedIDs))
	for _, id := range dismissedIDs {
		dismissed[id] = true
	}

	alerts := engine.GenerateAlerts(txs, budgets, now, dismissed)

	for _, a := range alerts {
		slog.InfoContext(ctx, "Budget alert active",
			"alert_id", a.ID,
			"severity", string(a.Severity),
			"category", a.Category,
			"month", a.Month,
			"percentage", a.Percentage)
	}

	fresh := w.markFresh(alerts)
	if len(fresh) == 0 || w.exporter == nil {
		return nil
	}

	if err := w.exporter.AppendAlerts(ctx, fresh); err != nil {
		// Un-mark so the next recompute retries the export
		w.unmark(fresh)
		return fmt.Errorf("export alerts: %w", err)
	}

	slog.InfoContext(ctx, "Exported new alerts", "count", len(fresh))
	return nil
}

func (w *AlertWorker) markFresh(alerts []engine.Alert) []engine.Alert {
	w.exportedMu.Lock()
	defer w.exportedMu.Unlock()

	var fresh []engine.Alert
	for _, a := range alerts {
		if w.exported[a.ID] {
			continue
		}
		w.exported[a.ID] = true
		fresh = append(fresh, a)
	}
	return fresh
}

func (w *AlertWorker) unmark(alerts []engine.Alert) {
	w.exportedMu.Lock()
	defer w.exportedMu.Unlock()

	for _, a := range alerts {
		delete(w.exported, a.ID)
	}
}

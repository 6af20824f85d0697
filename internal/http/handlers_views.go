package http

import (
	"net/http"
	"strings"
	"time"

	"finviz/internal/core"
	"finviz/internal/engine"
)

// Derived-view cache keys carry the current month where the view depends on
// the clock, so a month rollover never serves the previous month's view.

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	alerts, err := cachedView(s, "alerts:"+core.MonthKey(now), func() ([]engine.Alert, error) {
		ctx := r.Context()
		txs, err := s.ledger.ListTransactions(ctx)
		if err != nil {
			return nil, err
		}
		budgets, err := s.ledger.ListBudgets(ctx)
		if err != nil {
			return nil, err
		}
		dismissedIDs, err := s.ledger.ListDismissedAlerts(ctx)
		if err != nil {
			return nil, err
		}
		dismissed := make(map[string]bool, len(dismissedIDs))
		for _, id := range dismissedIDs {
			dismissed[id] = true
		}
		return engine.GenerateAlerts(txs, budgets, now, dismissed), nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []engine.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if strings.TrimSpace(id) == "" {
		writeError(w, http.StatusBadRequest, "missing alert id")
		return
	}

	if err := s.ledger.DismissAlert(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.flushViews()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	insights, err := cachedView(s, "insights:"+core.MonthKey(now), func() ([]engine.Insight, error) {
		txs, budgets, err := s.loadLedger(r)
		if err != nil {
			return nil, err
		}
		return engine.GenerateInsights(txs, budgets, now), nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if insights == nil {
		insights = []engine.Insight{}
	}
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	summary, err := cachedView(s, "summary:"+core.MonthKey(now), func() (engine.Summary, error) {
		txs, err := s.ledger.ListTransactions(r.Context())
		if err != nil {
			return engine.Summary{}, err
		}
		return engine.Summarize(txs, now), nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleChartMonthly(w http.ResponseWriter, r *http.Request) {
	series, err := cachedView(s, "charts:monthly", func() ([]engine.MonthlyFlow, error) {
		txs, err := s.ledger.ListTransactions(r.Context())
		if err != nil {
			return nil, err
		}
		return engine.MonthlySeries(txs)
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if series == nil {
		series = []engine.MonthlyFlow{}
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleChartCategories(w http.ResponseWriter, r *http.Request) {
	typ := core.Expense
	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		switch core.TransactionType(v) {
		case core.Income, core.Expense:
			typ = core.TransactionType(v)
		default:
			writeError(w, http.StatusUnprocessableEntity, "type must be income or expense")
			return
		}
	}

	slices, err := cachedView(s, "charts:categories:"+string(typ), func() ([]engine.CategorySlice, error) {
		txs, err := s.ledger.ListTransactions(r.Context())
		if err != nil {
			return nil, err
		}
		return engine.CategoryBreakdown(txs, typ), nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if slices == nil {
		slices = []engine.CategorySlice{}
	}
	writeJSON(w, http.StatusOK, slices)
}

func (s *Server) handleChartComparison(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = core.MonthKey(time.Now())
	} else if _, err := core.ParseMonth(month); err != nil {
		writeDomainError(w, r, err)
		return
	}

	rows, err := cachedView(s, "charts:comparison:"+month, func() ([]engine.ComparisonRow, error) {
		txs, budgets, err := s.loadLedger(r)
		if err != nil {
			return nil, err
		}
		return engine.BudgetComparisonRows(txs, budgets, month), nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if rows == nil {
		rows = []engine.ComparisonRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) loadLedger(r *http.Request) ([]core.Transaction, []core.Budget, error) {
	ctx := r.Context()
	txs, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, nil, err
	}
	budgets, err := s.ledger.ListBudgets(ctx)
	if err != nil {
		return nil, nil, err
	}
	return txs, budgets, nil
}

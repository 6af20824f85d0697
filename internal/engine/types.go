// Package engine is the pure computation layer of finviz: it turns the two
// flat collections the host owns (transactions, budgets) into evaluations,
// alerts, insights and chart series. Every function is deterministic, reads
// no clock, and mutates none of its inputs; the reference instant is always
// passed in by the caller.
package engine

import "finviz/internal/core"

const (
	StatusUnder   BudgetStatus = "under"
	StatusOnTrack BudgetStatus = "on-track"
	StatusOver    BudgetStatus = "over"

	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"

	InsightWarning InsightKind = "warning"
	InsightSuccess InsightKind = "success"
	InsightInfo    InsightKind = "info"
)

type (
	BudgetStatus  string
	AlertSeverity string
	InsightKind   string

	// BudgetEvaluation is the computed relationship between one budget and
	// the expense transactions it governs for its month.
	BudgetEvaluation struct {
		Category     string       `json:"category"`
		Month        string       `json:"month"`
		BudgetAmount float64      `json:"budgetAmount"`
		ActualSpent  float64      `json:"actualSpent"`
		Remaining    float64      `json:"remaining"`
		Percentage   float64      `json:"percentage"`
		Status       BudgetStatus `json:"status"`
	}

	// Alert is a dismissible notification that a current-month budget has
	// crossed a spend threshold. Its id is a pure function of category,
	// month and threshold kind, so recomputation never changes identity.
	Alert struct {
		ID           string        `json:"id"`
		Severity     AlertSeverity `json:"severity"`
		Category     string        `json:"category"`
		Month        string        `json:"month"`
		BudgetAmount float64       `json:"budgetAmount"`
		ActualSpent  float64       `json:"actualSpent"`
		OverAmount   float64       `json:"overAmount"`
		Percentage   float64       `json:"percentage"`
	}

	// Insight is a freshly recomputed narrative observation. Insights carry
	// no identity and are never dismissed individually.
	Insight struct {
		Kind        InsightKind `json:"kind"`
		Title       string      `json:"title"`
		Description string      `json:"description"`
		Category    string      `json:"category,omitempty"`
		Amount      float64     `json:"amount,omitempty"`
	}

	// MonthlyFlow is one month's income and expense totals.
	MonthlyFlow struct {
		Month    string  `json:"month"`
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
	}

	// CategorySlice is one category's share of a breakdown chart.
	CategorySlice struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
		Color string  `json:"color"`
	}

	// ComparisonRow is one budget-vs-actual bar for a selected month.
	ComparisonRow struct {
		Category   string       `json:"category"`
		Budgeted   float64      `json:"budgeted"`
		Actual     float64      `json:"actual"`
		Remaining  float64      `json:"remaining"`
		Percentage float64      `json:"percentage"`
		Status     BudgetStatus `json:"status"`
	}

	// Summary is the dashboard headline view over the whole collection.
	Summary struct {
		TotalIncome        float64            `json:"totalIncome"`
		TotalExpenses      float64            `json:"totalExpenses"`
		Balance            float64            `json:"balance"`
		ThisMonthIncome    float64            `json:"thisMonthIncome"`
		ThisMonthExpenses  float64            `json:"thisMonthExpenses"`
		TopCategory        string             `json:"topCategory,omitempty"`
		TopCategoryAmount  float64            `json:"topCategoryAmount,omitempty"`
		RecentTransactions []core.Transaction `json:"recentTransactions"`
		TransactionCount   int                `json:"transactionCount"`
	}
)

package engine

import (
	"sort"
	"time"

	"finviz/internal/core"
)

const recentTransactionCount = 5

// Summarize computes the dashboard headline numbers: lifetime totals and
// balance, the current month's flows, the heaviest expense category and the
// most recent transactions.
func Summarize(txs []core.Transaction, now time.Time) Summary {
	currentMonth := core.MonthKey(now)

	s := Summary{
		RecentTransactions: make([]core.Transaction, 0, recentTransactionCount),
		TransactionCount:   len(txs),
	}

	for _, t := range txs {
		switch t.Type {
		case core.Income:
			s.TotalIncome += t.Amount
			if monthOf(t.Date) == currentMonth {
				s.ThisMonthIncome += t.Amount
			}
		case core.Expense:
			s.TotalExpenses += t.Amount
			if monthOf(t.Date) == currentMonth {
				s.ThisMonthExpenses += t.Amount
			}
		}
	}
	s.Balance = s.TotalIncome - s.TotalExpenses

	if top, amount, ok := topCategory(SumByCategory(txs, core.Expense, "")); ok {
		s.TopCategory = top
		s.TopCategoryAmount = amount
	}

	// ISO dates order lexically, so string comparison keeps this cheap.
	recent := make([]core.Transaction, len(txs))
	copy(recent, txs)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date > recent[j].Date
	})
	if len(recent) > recentTransactionCount {
		recent = recent[:recentTransactionCount]
	}
	s.RecentTransactions = append(s.RecentTransactions, recent...)

	return s
}

package engine

import (
	"sort"

	"finviz/internal/core"
)

const monthlySeriesWindow = 6

// MonthlySeries is the bar-chart projection: the monthly income/expense
// sequence restricted to the last six months present in the data.
func MonthlySeries(txs []core.Transaction) ([]MonthlyFlow, error) {
	series, err := SumByMonth(txs)
	if err != nil {
		return nil, err
	}
	if len(series) > monthlySeriesWindow {
		series = series[len(series)-monthlySeriesWindow:]
	}
	return series, nil
}

// CategoryBreakdown totals all transactions of one type per category, sorted
// descending by amount, with palette colors cycled by sort rank. Rank-based
// coloring means a category's color can shift when the ranking does; that
// mirrors the rendering this projection feeds.
func CategoryBreakdown(txs []core.Transaction, typ core.TransactionType) []CategorySlice {
	totals := SumByCategory(txs, typ, "")

	slices := make([]CategorySlice, 0, len(totals))
	for name, value := range totals {
		slices = append(slices, CategorySlice{Name: name, Value: value})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Name < slices[j].Name
	})
	for i := range slices {
		slices[i].Color = core.ColorForRank(i)
	}
	return slices
}

// BudgetComparisonRows evaluates every budget of the selected month, sorted
// descending by budgeted amount.
func BudgetComparisonRows(txs []core.Transaction, budgets []core.Budget, month string) []ComparisonRow {
	rows := make([]ComparisonRow, 0)
	for _, b := range budgets {
		if b.Month != month {
			continue
		}
		ev := Evaluate(b, txs)
		rows = append(rows, ComparisonRow{
			Category:   ev.Category,
			Budgeted:   ev.BudgetAmount,
			Actual:     ev.ActualSpent,
			Remaining:  ev.Remaining,
			Percentage: ev.Percentage,
			Status:     ev.Status,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Budgeted > rows[j].Budgeted
	})
	return rows
}

package engine

import (
	"sort"

	"finviz/internal/core"
)

// monthOf returns the YYYY-MM prefix of a transaction date, or "" when the
// date is too short to carry one. Malformed dates simply match no month
// filter; invariant enforcement lives at the store boundary.
func monthOf(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

// SumByCategory sums transaction amounts per category, restricted to the
// given type and, when monthFilter is non-empty, to that month key. An empty
// input yields an empty (non-nil) mapping.
func SumByCategory(txs []core.Transaction, typ core.TransactionType, monthFilter string) map[string]float64 {
	totals := make(map[string]float64)
	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		if monthFilter != "" && monthOf(t.Date) != monthFilter {
			continue
		}
		totals[t.Category] += t.Amount
	}
	return totals
}

// SumByMonth buckets all transactions by month key and returns one entry per
// month present, ordered chronologically ascending. A transaction whose date
// does not parse as a calendar date is an InvalidInput failure, never a
// silently mis-bucketed row.
func SumByMonth(txs []core.Transaction) ([]MonthlyFlow, error) {
	byMonth := make(map[string]*MonthlyFlow)
	for _, t := range txs {
		month, err := core.MonthOf(t.Date)
		if err != nil {
			return nil, err
		}
		flow, ok := byMonth[month]
		if !ok {
			flow = &MonthlyFlow{Month: month}
			byMonth[month] = flow
		}
		if t.Type == core.Income {
			flow.Income += t.Amount
		} else {
			flow.Expenses += t.Amount
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	// YYYY-MM keys sort lexically in chronological order.
	sort.Strings(months)

	series := make([]MonthlyFlow, 0, len(months))
	for _, m := range months {
		series = append(series, *byMonth[m])
	}
	return series, nil
}

// totalAmount sums all transactions of the given type within a month.
func totalAmount(txs []core.Transaction, typ core.TransactionType, month string) float64 {
	var total float64
	for _, t := range txs {
		if t.Type == typ && monthOf(t.Date) == month {
			total += t.Amount
		}
	}
	return total
}

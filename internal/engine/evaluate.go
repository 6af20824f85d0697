package engine

import "finviz/internal/core"

// Evaluate computes how one budget stands against the expense transactions
// of its month. It is total: every budget yields an evaluation, and a zero
// budget amount evaluates to 0%, never a division by zero.
func Evaluate(budget core.Budget, txs []core.Transaction) BudgetEvaluation {
	var actual float64
	for _, t := range txs {
		if t.Type == core.Expense && t.Category == budget.Category && monthOf(t.Date) == budget.Month {
			actual += t.Amount
		}
	}

	var percentage float64
	if budget.Amount > 0 {
		percentage = actual / budget.Amount * 100
	}

	status := StatusUnder
	switch {
	case percentage > 100:
		status = StatusOver
	case percentage >= 80:
		status = StatusOnTrack
	}

	remaining := budget.Amount - actual
	if remaining < 0 {
		remaining = 0
	}

	return BudgetEvaluation{
		Category:     budget.Category,
		Month:        budget.Month,
		BudgetAmount: budget.Amount,
		ActualSpent:  actual,
		Remaining:    remaining,
		Percentage:   percentage,
		Status:       status,
	}
}

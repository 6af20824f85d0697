package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"finviz/internal/core"
)

const maxInsights = 6

// Trend and structure thresholds for insight rules.
const (
	trendIncreasePct    = 20  // month-over-month growth worth warning about
	trendDecreasePct    = -10 // month-over-month drop worth celebrating
	concentrationPct    = 40  // single-category share worth pointing out
	coverageGapMaxItems = 3   // beyond this the missing-budget list is noise
)

// GenerateInsights produces up to six narrative observations about the
// current month, in fixed rule order: budget health, month-over-month trend,
// category concentration, budget coverage gaps. The cap truncates between
// rules; a rule that has started always finishes its pass.
func GenerateInsights(txs []core.Transaction, budgets []core.Budget, now time.Time) []Insight {
	currentMonth := core.MonthKey(now)

	insights := make([]Insight, 0, maxInsights)

	currentBudgets := make([]core.Budget, 0)
	for _, b := range budgets {
		if b.Month == currentMonth {
			currentBudgets = append(currentBudgets, b)
		}
	}

	// Rule 1: per-budget status. The 50-80% band is intentionally silent.
	for _, b := range currentBudgets {
		ev := Evaluate(b, txs)
		switch {
		case ev.Percentage > 100:
			over := ev.ActualSpent - ev.BudgetAmount
			insights = append(insights, Insight{
				Kind:  InsightWarning,
				Title: "Budget Exceeded",
				Description: fmt.Sprintf("You've spent $%.2f over your %s budget this month.",
					over, b.Category),
				Category: b.Category,
				Amount:   over,
			})
		case ev.Percentage >= 80:
			insights = append(insights, Insight{
				Kind:  InsightWarning,
				Title: "Approaching Budget Limit",
				Description: fmt.Sprintf("You've used %.1f%% of your %s budget. $%.2f remaining.",
					ev.Percentage, b.Category, ev.Remaining),
				Category: b.Category,
				Amount:   ev.Remaining,
			})
		case ev.Percentage < 50 && ev.ActualSpent > 0:
			insights = append(insights, Insight{
				Kind:  InsightSuccess,
				Title: "Great Spending Control",
				Description: fmt.Sprintf("You're doing well with your %s budget! Only %.1f%% used so far.",
					b.Category, ev.Percentage),
				Category: b.Category,
			})
		}
	}
	if len(insights) >= maxInsights {
		return insights[:maxInsights]
	}

	// Rule 2: month-over-month trend. Skipped when the prior month has no
	// spend; a ratio against zero says nothing useful.
	currentTotal := totalAmount(txs, core.Expense, currentMonth)
	previousTotal := totalAmount(txs, core.Expense, core.PreviousMonthKey(now))
	if previousTotal > 0 {
		change := (currentTotal - previousTotal) / previousTotal * 100
		if change > trendIncreasePct {
			insights = append(insights, Insight{
				Kind:  InsightWarning,
				Title: "Spending Increased Significantly",
				Description: fmt.Sprintf("Your spending is %.1f%% higher than last month. Consider reviewing your expenses.",
					change),
				Amount: currentTotal - previousTotal,
			})
		} else if change < trendDecreasePct {
			insights = append(insights, Insight{
				Kind:  InsightSuccess,
				Title: "Spending Decreased",
				Description: fmt.Sprintf("Great job! Your spending is %.1f%% lower than last month.",
					math.Abs(change)),
				Amount: math.Abs(currentTotal - previousTotal),
			})
		}
	}
	if len(insights) >= maxInsights {
		return insights[:maxInsights]
	}

	// Rule 3: concentration of spend in one category.
	spending := SumByCategory(txs, core.Expense, currentMonth)
	if top, amount, ok := topCategory(spending); ok && currentTotal > 0 {
		share := amount / currentTotal * 100
		if share > concentrationPct {
			insights = append(insights, Insight{
				Kind:  InsightInfo,
				Title: "High Category Concentration",
				Description: fmt.Sprintf("%.1f%% of your spending is in %s. Consider diversifying your expenses.",
					share, top),
				Category: top,
			})
		}
	}
	if len(insights) >= maxInsights {
		return insights[:maxInsights]
	}

	// Rule 4: categories spent in but not budgeted. Listed in first-seen
	// transaction order; more than three is too noisy to itemize.
	budgeted := make(map[string]bool, len(currentBudgets))
	for _, b := range currentBudgets {
		budgeted[b.Category] = true
	}
	var unbudgeted []string
	seen := make(map[string]bool)
	for _, t := range txs {
		if t.Type != core.Expense || monthOf(t.Date) != currentMonth {
			continue
		}
		if budgeted[t.Category] || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		unbudgeted = append(unbudgeted, t.Category)
	}
	if len(unbudgeted) > 0 && len(unbudgeted) <= coverageGapMaxItems {
		insights = append(insights, Insight{
			Kind:        InsightInfo,
			Title:       "Missing Budgets",
			Description: fmt.Sprintf("Consider setting budgets for: %s.", strings.Join(unbudgeted, ", ")),
		})
	}

	if len(insights) > maxInsights {
		return insights[:maxInsights]
	}
	return insights
}

// topCategory picks the category with the largest total; ties break toward
// the lexically smallest name so the result never depends on map order.
func topCategory(totals map[string]float64) (string, float64, bool) {
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	var best string
	var bestAmount float64
	for _, name := range names {
		if totals[name] > bestAmount {
			best = name
			bestAmount = totals[name]
		}
	}
	if best == "" {
		return "", 0, false
	}
	return best, bestAmount, true
}

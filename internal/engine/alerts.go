package engine

import (
	"fmt"
	"sort"
	"time"

	"finviz/internal/core"
)

// Alert threshold rules. The warning band starts at 90% even though the
// on-track evaluation band starts at 80: evaluations describe state, alerts
// interrupt the user, and the bar for interrupting is higher.
const alertWarningThreshold = 90

// AlertID derives the stable identity for an alert condition. Crossing from
// warning into critical changes the id, so a dismissed warning does not
// swallow the later escalation.
func AlertID(category, month string, severity AlertSeverity) string {
	kind := "warning"
	if severity == SeverityCritical {
		kind = "exceeded"
	}
	return fmt.Sprintf("%s-%s-%s", category, month, kind)
}

// GenerateAlerts scans the budgets of the month containing now, classifies
// each against its actual spend, drops dismissed ids and orders the rest
// critical-first, then by descending percentage. Ties keep budget insertion
// order. Dismissal state is owned by the caller; this only filters.
func GenerateAlerts(txs []core.Transaction, budgets []core.Budget, now time.Time, dismissed map[string]bool) []Alert {
	currentMonth := core.MonthKey(now)

	alerts := make([]Alert, 0)
	for _, b := range budgets {
		if b.Month != currentMonth {
			continue
		}
		ev := Evaluate(b, txs)

		var severity AlertSeverity
		var overAmount float64
		switch {
		case ev.Percentage > 100:
			severity = SeverityCritical
			overAmount = ev.ActualSpent - ev.BudgetAmount
		case ev.Percentage >= alertWarningThreshold:
			severity = SeverityWarning
		default:
			continue
		}

		id := AlertID(b.Category, b.Month, severity)
		if dismissed[id] {
			continue
		}

		alerts = append(alerts, Alert{
			ID:           id,
			Severity:     severity,
			Category:     b.Category,
			Month:        b.Month,
			BudgetAmount: ev.BudgetAmount,
			ActualSpent:  ev.ActualSpent,
			OverAmount:   overAmount,
			Percentage:   ev.Percentage,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return alerts[i].Severity == SeverityCritical
		}
		return alerts[i].Percentage > alerts[j].Percentage
	})

	return alerts
}

package engine

import (
	"testing"

	"finviz/internal/core"
)

func TestEvaluate(t *testing.T) {
	budget := core.Budget{ID: "b1", Category: "Food & Dining", Amount: 200, Month: "2024-06"}

	tests := []struct {
		name           string
		txs            []core.Transaction
		wantSpent      float64
		wantRemaining  float64
		wantPercentage float64
		wantStatus     BudgetStatus
	}{
		{
			name:           "no spend",
			txs:            nil,
			wantSpent:      0,
			wantRemaining:  200,
			wantPercentage: 0,
			wantStatus:     StatusUnder,
		},
		{
			name: "overspent",
			txs: []core.Transaction{
				expense("2024-06-05", "Food & Dining", 150),
				expense("2024-06-18", "Food & Dining", 100),
			},
			wantSpent:      250,
			wantRemaining:  0,
			wantPercentage: 125,
			wantStatus:     StatusOver,
		},
		{
			name: "on track at 95 percent",
			txs: []core.Transaction{
				expense("2024-06-05", "Food & Dining", 190),
			},
			wantSpent:      190,
			wantRemaining:  10,
			wantPercentage: 95,
			wantStatus:     StatusOnTrack,
		},
		{
			name: "exactly at limit stays on track",
			txs: []core.Transaction{
				expense("2024-06-05", "Food & Dining", 200),
			},
			wantSpent:      200,
			wantRemaining:  0,
			wantPercentage: 100,
			wantStatus:     StatusOnTrack,
		},
		{
			name: "other months and categories excluded",
			txs: []core.Transaction{
				expense("2024-05-05", "Food & Dining", 500),
				expense("2024-06-05", "Shopping", 500),
				income("2024-06-05", "Salary", 500),
				expense("2024-06-05", "Food & Dining", 40),
			},
			wantSpent:      40,
			wantRemaining:  160,
			wantPercentage: 20,
			wantStatus:     StatusUnder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Evaluate(budget, tt.txs)
			if ev.ActualSpent != tt.wantSpent {
				t.Errorf("ActualSpent = %v, want %v", ev.ActualSpent, tt.wantSpent)
			}
			if ev.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %v, want %v", ev.Remaining, tt.wantRemaining)
			}
			if ev.Percentage != tt.wantPercentage {
				t.Errorf("Percentage = %v, want %v", ev.Percentage, tt.wantPercentage)
			}
			if ev.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", ev.Status, tt.wantStatus)
			}
		})
	}
}

func TestEvaluate_ZeroBudgetSafety(t *testing.T) {
	budget := core.Budget{ID: "b1", Category: "Shopping", Amount: 0, Month: "2024-06"}
	txs := []core.Transaction{expense("2024-06-01", "Shopping", 75)}

	ev := Evaluate(budget, txs)
	if ev.Percentage != 0 {
		t.Errorf("Percentage = %v, want 0 for zero budget", ev.Percentage)
	}
	if ev.Status == StatusOver {
		t.Errorf("Status = %v, want not over for zero budget", ev.Status)
	}
	if ev.ActualSpent != 75 {
		t.Errorf("ActualSpent = %v, want 75", ev.ActualSpent)
	}
}

package engine

import (
	"fmt"
	"testing"

	"finviz/internal/core"
)

func TestMonthlySeries_LastSixMonths(t *testing.T) {
	var txs []core.Transaction
	for m := 1; m <= 9; m++ {
		txs = append(txs, expense(fmt.Sprintf("2024-%02d-10", m), "Shopping", float64(m)))
	}

	series, err := MonthlySeries(txs)
	if err != nil {
		t.Fatalf("MonthlySeries() error = %v", err)
	}
	if len(series) != 6 {
		t.Fatalf("got %d entries, want 6", len(series))
	}
	if series[0].Month != "2024-04" || series[5].Month != "2024-09" {
		t.Errorf("window = %s..%s, want 2024-04..2024-09", series[0].Month, series[5].Month)
	}
}

func TestMonthlySeries_FewerThanSix(t *testing.T) {
	txs := []core.Transaction{
		expense("2024-06-10", "Shopping", 40),
		income("2024-06-11", "Salary", 1000),
	}
	series, err := MonthlySeries(txs)
	if err != nil {
		t.Fatalf("MonthlySeries() error = %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("got %d entries, want 1", len(series))
	}
	if series[0].Income != 1000 || series[0].Expenses != 40 {
		t.Errorf("series[0] = %+v, want income 1000, expenses 40", series[0])
	}
}

func TestCategoryBreakdown(t *testing.T) {
	txs := []core.Transaction{
		expense("2024-06-01", "Shopping", 50),
		expense("2024-06-02", "Travel", 300),
		expense("2024-05-03", "Travel", 100),
		expense("2024-06-04", "Food & Dining", 75),
		income("2024-06-05", "Salary", 9999),
	}

	slices := CategoryBreakdown(txs, core.Expense)
	wantOrder := []string{"Travel", "Food & Dining", "Shopping"}
	if len(slices) != len(wantOrder) {
		t.Fatalf("got %d slices, want %d", len(slices), len(wantOrder))
	}
	for i, name := range wantOrder {
		if slices[i].Name != name {
			t.Errorf("slices[%d].Name = %q, want %q", i, slices[i].Name, name)
		}
		if slices[i].Color != core.ColorForRank(i) {
			t.Errorf("slices[%d].Color = %q, want rank color %q", i, slices[i].Color, core.ColorForRank(i))
		}
	}
	if slices[0].Value != 400 {
		t.Errorf("Travel total = %v, want 400 across months", slices[0].Value)
	}
}

func TestCategoryBreakdown_Empty(t *testing.T) {
	if got := CategoryBreakdown(nil, core.Expense); len(got) != 0 {
		t.Fatalf("CategoryBreakdown(nil) = %+v, want empty", got)
	}
}

func TestBudgetComparisonRows(t *testing.T) {
	budgets := []core.Budget{
		{ID: "b1", Category: "Shopping", Amount: 100, Month: "2024-06"},
		{ID: "b2", Category: "Travel", Amount: 500, Month: "2024-06"},
		{ID: "b3", Category: "Food & Dining", Amount: 300, Month: "2024-05"},
	}
	txs := []core.Transaction{
		expense("2024-06-01", "Shopping", 120),
		expense("2024-06-02", "Travel", 200),
	}

	rows := BudgetComparisonRows(txs, budgets, "2024-06")
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 for the selected month", len(rows))
	}
	// Descending by budgeted amount.
	if rows[0].Category != "Travel" || rows[1].Category != "Shopping" {
		t.Errorf("order = %s, %s; want Travel, Shopping", rows[0].Category, rows[1].Category)
	}
	if rows[1].Status != StatusOver {
		t.Errorf("Shopping status = %v, want over", rows[1].Status)
	}
	if rows[0].Remaining != 300 {
		t.Errorf("Travel remaining = %v, want 300", rows[0].Remaining)
	}
}

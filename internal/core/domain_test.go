package core

import (
	"errors"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		ID:          "t1",
		Amount:      12.50,
		Date:        "2024-06-15",
		Description: "groceries",
		Type:        Expense,
		Category:    "Food & Dining",
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "zero amount", mutate: func(tx *Transaction) { tx.Amount = 0 }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = -5 }, wantErr: ErrInvalidAmount},
		{name: "blank description", mutate: func(tx *Transaction) { tx.Description = "   " }, wantErr: ErrEmptyDescription},
		{name: "bad type", mutate: func(tx *Transaction) { tx.Type = "transfer" }, wantErr: ErrInvalidType},
		{name: "category from wrong set", mutate: func(tx *Transaction) { tx.Category = "Salary" }, wantErr: ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionValidate_BadDate(t *testing.T) {
	tx := Transaction{
		ID: "t1", Amount: 10, Date: "06/15/2024",
		Description: "x", Type: Expense, Category: "Other",
	}
	err := tx.Validate()
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("Validate() = %v, want *InvalidInputError", err)
	}
	if invalid.Field != "date" {
		t.Errorf("Field = %q, want date", invalid.Field)
	}
}

func TestBudgetValidate(t *testing.T) {
	valid := Budget{ID: "b1", Category: "Shopping", Amount: 100, Month: "2024-06"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	bad := valid
	bad.Month = "2024-6"
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted a malformed month key")
	}

	income := valid
	income.Category = "Salary"
	if err := income.Validate(); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("Validate() = %v, want unknown category for income-only name", err)
	}
}

func TestMonthHelpers(t *testing.T) {
	if got, err := MonthOf("2024-06-15"); err != nil || got != "2024-06" {
		t.Errorf("MonthOf() = %q, %v; want 2024-06, nil", got, err)
	}
	if _, err := MonthOf("2024-13-01"); err == nil {
		t.Error("MonthOf() accepted month 13")
	}

	jan31 := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	if got := PreviousMonthKey(jan31); got != "2023-12" {
		t.Errorf("PreviousMonthKey(jan 31) = %q, want 2023-12", got)
	}
	mar31 := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	if got := PreviousMonthKey(mar31); got != "2024-02" {
		t.Errorf("PreviousMonthKey(mar 31) = %q, want 2024-02", got)
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory(Expense, "Food & Dining") {
		t.Error("Food & Dining rejected as expense category")
	}
	if ValidCategory(Expense, "Salary") {
		t.Error("Salary accepted as expense category")
	}
	if !ValidCategory(Income, "Investments") {
		t.Error("Investments rejected as income category")
	}
}

func TestColorForRank_Cycles(t *testing.T) {
	if ColorForRank(0) != CategoryColors[0] {
		t.Error("rank 0 should use the first palette color")
	}
	if ColorForRank(len(CategoryColors)) != CategoryColors[0] {
		t.Error("palette should wrap around")
	}
}

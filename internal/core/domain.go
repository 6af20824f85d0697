package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is one recorded income or expense entry. The id is
	// host-assigned and opaque; the engine only ever reads transactions.
	Transaction struct {
		ID          string          `json:"id"`
		Amount      float64         `json:"amount"`
		Date        string          `json:"date"` // YYYY-MM-DD
		Description string          `json:"description"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
	}

	// Budget caps spending for one category in one month. At most one
	// budget may exist per (category, month) pair; the store enforces it.
	Budget struct {
		ID       string  `json:"id"`
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		Month    string  `json:"month"` // YYYY-MM
	}
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidType      = errors.New("invalid transaction type")
)

// InvalidInputError reports a field the engine or store could not interpret.
// A date that does not parse is surfaced through this type, never coerced.
type InvalidInputError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// NewInvalidInput builds an InvalidInputError for the given field and value.
func NewInvalidInput(field, value string, err error) *InvalidInputError {
	return &InvalidInputError{Field: field, Value: value, Err: err}
}

// ParseDate validates a calendar date in ISO YYYY-MM-DD form.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, NewInvalidInput("date", date, err)
	}
	return t, nil
}

// ParseMonth validates a month key in YYYY-MM form.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, NewInvalidInput("month", month, err)
	}
	return t, nil
}

// MonthOf returns the month key (YYYY-MM) of an ISO date string after
// validating it parses as a calendar date.
func MonthOf(date string) (string, error) {
	if _, err := ParseDate(date); err != nil {
		return "", err
	}
	return date[:7], nil
}

// MonthKey returns the month key of the given instant.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PreviousMonthKey returns the month key one calendar month before t,
// regardless of the day of month.
func PreviousMonthKey(t time.Time) string {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0).Format("2006-01")
}

func (t Transaction) Validate() error {
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	switch t.Type {
	case Income, Expense:
	default:
		return ErrInvalidType
	}
	if !ValidCategory(t.Type, t.Category) {
		return NewInvalidInput("category", t.Category, ErrUnknownCategory)
	}
	return nil
}

func (b Budget) Validate() error {
	if _, err := ParseMonth(b.Month); err != nil {
		return err
	}
	if b.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !ValidCategory(Expense, b.Category) {
		return NewInvalidInput("category", b.Category, ErrUnknownCategory)
	}
	return nil
}

package core

// Static category registry. Budgets always scope expense categories; income
// categories only classify incoming transactions.

var ExpenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Personal Care",
	"Home & Garden",
	"Insurance",
	"Investments",
	"Other",
}

var IncomeCategories = []string{
	"Salary",
	"Freelance",
	"Business",
	"Investments",
	"Rental Income",
	"Gifts",
	"Refunds",
	"Other",
}

// CategoryColors is the fixed chart palette. Colors are assigned by cycling
// this slice by rank, not by category identity.
var CategoryColors = []string{
	"#3b82f6", // blue
	"#10b981", // emerald
	"#f59e0b", // amber
	"#ef4444", // red
	"#8b5cf6", // violet
	"#06b6d4", // cyan
	"#f97316", // orange
	"#84cc16", // lime
	"#ec4899", // pink
	"#6366f1", // indigo
	"#14b8a6", // teal
	"#f43f5e", // rose
	"#64748b", // slate
}

// Categories returns the category set for the given transaction type.
func Categories(t TransactionType) []string {
	if t == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

// ValidCategory reports whether name belongs to the category set for t.
func ValidCategory(t TransactionType, name string) bool {
	for _, c := range Categories(t) {
		if c == name {
			return true
		}
	}
	return false
}

// ColorForRank returns the palette color for a sort-rank index.
func ColorForRank(rank int) string {
	return CategoryColors[rank%len(CategoryColors)]
}

package core

// CategoryGroup holds the transactions of one category in ledger order.
type CategoryGroup struct {
	Category     string
	Transactions []Transaction
}

// NetTotal is the signed sum of the group: income adds, expenses subtract.
func (g CategoryGroup) NetTotal() float64 {
	var total float64
	for _, t := range g.Transactions {
		total += t.Signed()
	}
	return total
}

// Summary holds the gross totals over the whole ledger.
type Summary struct {
	TotalIncome   float64
	TotalExpenses float64
	NetBalance    float64
}

// Positive reports whether income covers expenses.
func (s Summary) Positive() bool {
	return s.NetBalance >= 0
}

// MonthReport is the activity of one "YYYY-MM" bucket.
type MonthReport struct {
	Month    string
	Income   float64
	Expenses float64
	Balance  float64
}

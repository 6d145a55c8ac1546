package ledger

import (
	"slices"

	"expense-tracker/internal/core"
)

// GroupByCategory partitions txs by category. Groups come in order of the
// first appearance of their category and keep the relative order of txs.
func GroupByCategory(txs []core.Transaction) []core.CategoryGroup {
	var groups []core.CategoryGroup
	pos := make(map[string]int)
	for _, t := range txs {
		i, ok := pos[t.Category]
		if !ok {
			i = len(groups)
			pos[t.Category] = i
			groups = append(groups, core.CategoryGroup{Category: t.Category})
		}
		groups[i].Transactions = append(groups[i].Transactions, t)
	}
	return groups
}

// CategoryNet is the signed total of the transactions in category, summed in
// the order given.
func CategoryNet(txs []core.Transaction, category string) float64 {
	var total float64
	for _, t := range txs {
		if t.Category == category {
			total += t.Signed()
		}
	}
	return total
}

// Summarize computes gross income and expense totals over txs.
func Summarize(txs []core.Transaction) core.Summary {
	var s core.Summary
	for _, t := range txs {
		if t.Type == core.Income {
			s.TotalIncome += t.Amount
		} else {
			s.TotalExpenses += t.Amount
		}
	}
	s.NetBalance = s.TotalIncome - s.TotalExpenses
	return s
}

// Monthly buckets txs by month key and returns the buckets in ascending key
// order. Keys are zero padded and year first, so string order is date order.
func Monthly(txs []core.Transaction) []core.MonthReport {
	buckets := make(map[string]*core.MonthReport)
	for _, t := range txs {
		key := t.Date.MonthKey()
		r, ok := buckets[key]
		if !ok {
			r = &core.MonthReport{Month: key}
			buckets[key] = r
		}
		if t.Type == core.Income {
			r.Income += t.Amount
		} else {
			r.Expenses += t.Amount
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]core.MonthReport, 0, len(keys))
	for _, k := range keys {
		r := buckets[k]
		r.Balance = r.Income - r.Expenses
		out = append(out, *r)
	}
	return out
}

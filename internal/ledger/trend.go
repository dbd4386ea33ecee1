package ledger

import (
	"sort"

	"cashbook/internal/core"

	"github.com/shopspring/decimal"
)

// MonthTotals is one point of the monthly income/expense series.
type MonthTotals struct {
	Month   string // YYYY-MM
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// ComputeMonthlyTrend buckets transactions by calendar month and returns the
// buckets in ascending month order. Records whose date cannot be parsed are skipped.
func ComputeMonthlyTrend(txs []core.Transaction) []MonthTotals {
	buckets := map[string]*MonthTotals{}
	for _, tx := range txs {
		day, ok := dayOf(tx)
		if !ok {
			continue
		}
		key := day.Format("2006-01")
		b, exists := buckets[key]
		if !exists {
			b = &MonthTotals{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[key] = b
		}
		switch {
		case tx.IsIncome():
			b.Income = b.Income.Add(tx.Amount)
		case tx.IsExpense():
			b.Expense = b.Expense.Add(tx.Amount.Abs())
		}
	}

	trend := make([]MonthTotals, 0, len(buckets))
	for _, b := range buckets {
		trend = append(trend, *b)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })
	return trend
}

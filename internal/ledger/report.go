package ledger

import (
	"cashbook/internal/core"

	"github.com/shopspring/decimal"
)

// CategoryTotals is one bar group of the report chart.
type CategoryTotals struct {
	Category string
	Income   decimal.Decimal
	Expense  decimal.Decimal
}

// ComputeCategoryReport returns income and expense per vocabulary label, in
// vocabulary order. Matching is exact; transactions outside the vocabulary and
// uncategorised ones are not counted.
func ComputeCategoryReport(txs []core.Transaction, vocabulary []string) []CategoryTotals {
	index := make(map[string]int, len(vocabulary))
	rows := make([]CategoryTotals, len(vocabulary))
	for i, label := range vocabulary {
		rows[i] = CategoryTotals{Category: label, Income: decimal.Zero, Expense: decimal.Zero}
		if _, dup := index[label]; !dup {
			index[label] = i
		}
	}
	for _, tx := range txs {
		i, ok := index[tx.Category]
		if !ok {
			continue
		}
		switch {
		case tx.IsIncome():
			rows[i].Income = rows[i].Income.Add(tx.Amount)
		case tx.IsExpense():
			rows[i].Expense = rows[i].Expense.Add(tx.Amount.Abs())
		}
	}
	return rows
}

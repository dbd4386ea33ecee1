package ledger

import (
	"cashbook/internal/core"

	"github.com/shopspring/decimal"
)

// Stats backs the "data overview" and "largest movement" cards.
type Stats struct {
	Count          int
	IncomeCount    int
	ExpenseCount   int
	LargestIncome  decimal.Decimal
	LargestExpense decimal.Decimal // magnitude
}

func ComputeStats(txs []core.Transaction) Stats {
	s := Stats{
		Count:          len(txs),
		LargestIncome:  decimal.Zero,
		LargestExpense: decimal.Zero,
	}
	for _, tx := range txs {
		switch {
		case tx.IsIncome():
			s.IncomeCount++
			if tx.Amount.GreaterThan(s.LargestIncome) {
				s.LargestIncome = tx.Amount
			}
		case tx.IsExpense():
			s.ExpenseCount++
			if m := tx.Amount.Abs(); m.GreaterThan(s.LargestExpense) {
				s.LargestExpense = m
			}
		}
	}
	return s
}

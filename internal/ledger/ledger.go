// Package ledger turns a list of transactions into the figures the dashboard shows:
// balance, category breakdown, monthly trend, statistics and the per-category report.
//
// Every function here is pure. Callers window the input with the filter package first.
package ledger

import (
	"time"

	"cashbook/internal/core"

	"github.com/shopspring/decimal"
)

// Balance is the income/expense summary of a set of transactions.
// Income and Expense are non-negative; Balance = Income - Expense.
type Balance struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// ComputeBalance sums positive amounts as income and the magnitude of negative
// amounts as expense.
func ComputeBalance(txs []core.Transaction) Balance {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch {
		case tx.IsIncome():
			income = income.Add(tx.Amount)
		case tx.IsExpense():
			expense = expense.Add(tx.Amount.Abs())
		}
	}
	return Balance{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// dayOf parses the transaction date in UTC. Only the calendar fields are used, so
// the location does not matter for bucketing.
func dayOf(tx core.Transaction) (time.Time, bool) {
	return tx.Day(time.UTC)
}

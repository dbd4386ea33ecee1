// Package export writes a filtered report to an external destination.
package export

import (
	"context"
	"time"

	"cashbook/internal/core"
	"cashbook/internal/ledger"
)

// Report is everything an exporter writes for one filter window.
type Report struct {
	Label        string // human label of the window, e.g. "month 2024-03-01..2024-03-31"
	GeneratedAt  time.Time
	Balance      ledger.Balance
	Categories   []ledger.CategoryTotals
	Transactions []core.Transaction
}

// Exporter delivers a report and returns a reference to where it went
// (a file path, a sheet range).
type Exporter interface {
	Export(ctx context.Context, r Report) (ref string, err error)
}

// Rows flattens a report into the tabular layout shared by every exporter:
// a title row, the transactions, the per-category totals and the balance.
func Rows(r Report) [][]string {
	rows := [][]string{
		{"report", r.Label, r.GeneratedAt.Format(time.RFC3339)},
		{},
		{"date", "type", "category", "note", "amount"},
	}
	for _, tx := range r.Transactions {
		dir, _ := core.SplitAmount(tx.Amount)
		category := tx.Category
		if tx.IsExpense() {
			category = core.CategoryOrFallback(category)
		}
		rows = append(rows, []string{tx.Date, string(dir), category, tx.Note, tx.Amount.StringFixed(2)})
	}

	rows = append(rows, []string{}, []string{"category", "income", "expense"})
	for _, c := range r.Categories {
		rows = append(rows, []string{c.Category, c.Income.StringFixed(2), c.Expense.StringFixed(2)})
	}

	rows = append(rows, []string{},
		[]string{"income", "expense", "balance"},
		[]string{r.Balance.Income.StringFixed(2), r.Balance.Expense.StringFixed(2), r.Balance.Balance.StringFixed(2)},
	)
	return rows
}

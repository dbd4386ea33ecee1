package ledger

import (
	"sort"

	"cashbook/internal/core"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryShare is one slice of the "where did the money go" pie.
type CategoryShare struct {
	Category   string
	Amount     decimal.Decimal
	Percentage string // e.g. "42.5%"
}

// ComputeCategoryBreakdown groups expenses by category (blank folds to "other") and
// reports each group's share of total expense. Groups appear in order of first
// occurrence. With no expense at all every share is "0.0%".
func ComputeCategoryBreakdown(txs []core.Transaction) []CategoryShare {
	var (
		order []string
		sums  = map[string]decimal.Decimal{}
		total = decimal.Zero
	)
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		name := core.CategoryOrFallback(tx.Category)
		if _, seen := sums[name]; !seen {
			order = append(order, name)
			sums[name] = decimal.Zero
		}
		magnitude := tx.Amount.Abs()
		sums[name] = sums[name].Add(magnitude)
		total = total.Add(magnitude)
	}

	shares := make([]CategoryShare, 0, len(order))
	for _, name := range order {
		shares = append(shares, CategoryShare{
			Category:   name,
			Amount:     sums[name],
			Percentage: FormatPercentage(sums[name], total),
		})
	}
	return shares
}

// FormatPercentage renders part/total*100 with one decimal place and a trailing "%".
// A zero total yields "0.0%".
func FormatPercentage(part, total decimal.Decimal) string {
	if total.IsZero() {
		return "0.0%"
	}
	return part.Div(total).Mul(hundred).StringFixed(1) + "%"
}

// SortByAmount orders shares by amount, largest first. Ties keep their input order.
func SortByAmount(shares []CategoryShare) []CategoryShare {
	out := append([]CategoryShare(nil), shares...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

package ledger

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/core"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(amount, category, date string) core.Transaction {
	return core.Transaction{Amount: dec(amount), Category: category, Date: date}
}

func TestComputeBalance(t *testing.T) {
	b := ComputeBalance([]core.Transaction{
		tx("100", "", "2024-01-01"),
		tx("-30.5", "tax", "2024-01-02"),
		tx("20", "", "2024-01-03"),
		tx("-9.5", "", "bad-date"),
	})
	assert.True(t, b.Income.Equal(dec("120")), "income %s", b.Income)
	assert.True(t, b.Expense.Equal(dec("40")), "expense %s", b.Expense)
	assert.True(t, b.Balance.Equal(dec("80")), "balance %s", b.Balance)
	assert.True(t, b.Balance.Equal(b.Income.Sub(b.Expense)))
}

func TestComputeBalance_NeverNegativeTotals(t *testing.T) {
	inputs := [][]core.Transaction{
		{tx("-1", "", "2024-01-01")},
		{tx("1", "", "2024-01-01")},
		{tx("-5", "", "2024-01-01"), tx("3", "", "2024-01-01"), tx("-0.01", "", "2024-01-01")},
	}
	for _, in := range inputs {
		b := ComputeBalance(in)
		assert.False(t, b.Income.IsNegative())
		assert.False(t, b.Expense.IsNegative())
		assert.True(t, b.Balance.Equal(b.Income.Sub(b.Expense)))
	}
}

func TestEmptyInput(t *testing.T) {
	b := ComputeBalance(nil)
	assert.True(t, b.Income.IsZero())
	assert.True(t, b.Expense.IsZero())
	assert.True(t, b.Balance.IsZero())
	assert.Empty(t, ComputeCategoryBreakdown(nil))
	assert.Empty(t, ComputeMonthlyTrend(nil))
	assert.Equal(t, 0, ComputeStats(nil).Count)
}

func TestComputeCategoryBreakdown(t *testing.T) {
	shares := ComputeCategoryBreakdown([]core.Transaction{
		tx("-25", "network", "2024-01-01"),
		tx("500", "", "2024-01-02"),
		tx("-50", "", "2024-01-03"),
		tx("-25", "network", "2024-01-04"),
		tx("-100", "tax", "2024-01-05"),
	})
	require.Len(t, shares, 3)

	assert.Equal(t, "network", shares[0].Category)
	assert.True(t, shares[0].Amount.Equal(dec("50")))
	assert.Equal(t, "25.0%", shares[0].Percentage)

	assert.Equal(t, core.FallbackCategory, shares[1].Category, "blank category folds to other")
	assert.Equal(t, "25.0%", shares[1].Percentage)

	assert.Equal(t, "tax", shares[2].Category)
	assert.Equal(t, "50.0%", shares[2].Percentage)

	sorted := SortByAmount(shares)
	assert.Equal(t, []string{"tax", "network", core.FallbackCategory},
		[]string{sorted[0].Category, sorted[1].Category, sorted[2].Category})
	assert.Equal(t, "network", shares[0].Category, "SortByAmount must not reorder its input")
}

func TestComputeCategoryBreakdown_PercentagesSumTo100(t *testing.T) {
	shares := ComputeCategoryBreakdown([]core.Transaction{
		tx("-1", "a", "2024-01-01"),
		tx("-1", "b", "2024-01-01"),
		tx("-1", "c", "2024-01-01"),
	})
	sum := decimal.Zero
	for _, s := range shares {
		assert.Equal(t, "33.3%", s.Percentage)
		sum = sum.Add(dec(strings.TrimSuffix(s.Percentage, "%")))
	}
	assert.True(t, sum.Sub(dec("100")).Abs().LessThanOrEqual(dec("0.2")), "sum %s", sum)
}

func TestFormatPercentage_ZeroTotal(t *testing.T) {
	assert.Equal(t, "0.0%", FormatPercentage(decimal.Zero, decimal.Zero))
	assert.Equal(t, "0.0%", FormatPercentage(dec("5"), decimal.Zero))
	assert.Equal(t, "100.0%", FormatPercentage(dec("5"), dec("5")))
	assert.Equal(t, "66.7%", FormatPercentage(dec("2"), dec("3")))
}

func TestComputeMonthlyTrend(t *testing.T) {
	trend := ComputeMonthlyTrend([]core.Transaction{
		tx("100", "", "2024-02-01"),
		tx("-50", "tax", "2024-01-15"),
		tx("200", "", "2024-01-20"),
	})
	require.Len(t, trend, 2)
	assert.Equal(t, "2024-01", trend[0].Month)
	assert.True(t, trend[0].Income.Equal(dec("200")))
	assert.True(t, trend[0].Expense.Equal(dec("50")))
	assert.Equal(t, "2024-02", trend[1].Month)
	assert.True(t, trend[1].Income.Equal(dec("100")))
	assert.True(t, trend[1].Expense.IsZero())
}

func TestComputeMonthlyTrend_SkipsUnparsableDates(t *testing.T) {
	txs := []core.Transaction{
		tx("10", "", "2023-12-31"),
		tx("-5", "", "yesterday"),
		tx("7", "", ""),
		tx("3", "", "2023-11-02"),
	}
	trend := ComputeMonthlyTrend(txs)
	require.Len(t, trend, 2)
	assert.Equal(t, "2023-11", trend[0].Month)
	assert.Equal(t, "2023-12", trend[1].Month)

	b := ComputeBalance(txs)
	assert.True(t, b.Income.Equal(dec("20")), "bad dates still count toward the balance")
	assert.True(t, b.Expense.Equal(dec("5")))
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats([]core.Transaction{
		tx("100", "", "2024-01-01"),
		tx("250", "", "2024-01-02"),
		tx("-75", "tax", "2024-01-03"),
		tx("-10", "tax", "2024-01-04"),
		tx("-80", "tax", "2024-01-05"),
	})
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 2, s.IncomeCount)
	assert.Equal(t, 3, s.ExpenseCount)
	assert.True(t, s.LargestIncome.Equal(dec("250")))
	assert.True(t, s.LargestExpense.Equal(dec("80")))
}

func TestComputeCategoryReport(t *testing.T) {
	rows := ComputeCategoryReport([]core.Transaction{
		tx("-30", "tax", "2024-01-01"),
		tx("-20", "tax", "2024-01-02"),
		tx("15", "reimbursement", "2024-01-03"),
		tx("-5", "unknown", "2024-01-04"),
		tx("-5", "", "2024-01-05"),
	}, []string{"salary", "reimbursement", "tax"})
	require.Len(t, rows, 3)
	assert.Equal(t, "salary", rows[0].Category)
	assert.True(t, rows[0].Income.IsZero())
	assert.True(t, rows[0].Expense.IsZero())
	assert.True(t, rows[1].Income.Equal(dec("15")))
	assert.True(t, rows[2].Expense.Equal(dec("50")))
}

func TestBuildOverview(t *testing.T) {
	o := BuildOverview([]core.Transaction{
		tx("-10", "network", "2024-03-01"),
		tx("-40", "tax", "2024-03-02"),
		tx("100", "", "2024-04-01"),
	})
	assert.True(t, o.Balance.Balance.Equal(dec("50")))
	require.Len(t, o.Breakdown, 2)
	assert.Equal(t, "tax", o.Breakdown[0].Category, "breakdown is sorted largest first")
	assert.Equal(t, "80.0%", o.Breakdown[0].Percentage)
	require.Len(t, o.Trend, 2)
	assert.Equal(t, 3, o.Stats.Count)
}

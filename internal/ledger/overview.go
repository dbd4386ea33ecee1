package ledger

import "cashbook/internal/core"

// Overview is the dashboard view model built from one snapshot.
type Overview struct {
	Balance   Balance
	Breakdown []CategoryShare // largest first
	Trend     []MonthTotals
	Stats     Stats
}

// BuildOverview computes every dashboard figure from the same input.
func BuildOverview(txs []core.Transaction) Overview {
	return Overview{
		Balance:   ComputeBalance(txs),
		Breakdown: SortByAmount(ComputeCategoryBreakdown(txs)),
		Trend:     ComputeMonthlyTrend(txs),
		Stats:     ComputeStats(txs),
	}
}

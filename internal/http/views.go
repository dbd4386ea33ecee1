package http

import (
	"cashbook/internal/core"
	"cashbook/internal/filter"
	"cashbook/internal/ledger"
	"cashbook/internal/services"
)

type errorBody struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
	Form   *submittedForm    `json:"form,omitempty"`
}

type transactionView struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Display     string `json:"display_amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Note        string `json:"note"`
	Date        string `json:"date"`
	DisplayDate string `json:"display_date"`
}

type formView struct {
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Note     string `json:"note"`
	Date     string `json:"date"`
}

type balanceView struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

type listView struct {
	Range        string            `json:"range"`
	Balance      balanceView       `json:"balance"`
	Transactions []transactionView `json:"transactions"`
}

// Chart payloads.
type (
	pieSlice struct {
		Name       string  `json:"name"`
		Amount     float64 `json:"amount"`
		Percentage string  `json:"percentage"`
	}
	trendPoint struct {
		Month   string  `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}
	reportBar struct {
		Category string  `json:"category"`
		Income   float64 `json:"income"`
		Expense  float64 `json:"expense"`
	}
)

type statsView struct {
	Count          int    `json:"count"`
	IncomeCount    int    `json:"income_count"`
	ExpenseCount   int    `json:"expense_count"`
	LargestIncome  string `json:"largest_income"`
	LargestExpense string `json:"largest_expense"`
}

type overviewView struct {
	Balance   balanceView  `json:"balance"`
	Breakdown []pieSlice   `json:"breakdown"`
	Trend     []trendPoint `json:"trend"`
	Stats     statsView    `json:"stats"`
}

type reportView struct {
	Range      string      `json:"range"`
	Balance    balanceView `json:"balance"`
	Categories []reportBar `json:"categories"`
}

func newTransactionView(tx core.Transaction, dateLayout string) transactionView {
	dir, _ := core.SplitAmount(tx.Amount)
	return transactionView{
		ID:          tx.ID,
		Amount:      tx.Amount.StringFixed(2),
		Display:     core.FormatAmount(tx.Amount),
		Type:        string(dir),
		Category:    tx.Category,
		Note:        tx.Note,
		Date:        tx.Date,
		DisplayDate: filter.DisplayDate(tx, dateLayout),
	}
}

func newTransactionViews(txs []core.Transaction, dateLayout string) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, newTransactionView(tx, dateLayout))
	}
	return out
}

func newFormView(f core.EntryForm) formView {
	return formView{
		Amount:   f.Amount.StringFixed(2),
		Type:     string(f.Type),
		Category: f.Category,
		Note:     f.Note,
		Date:     f.Date,
	}
}

func newBalanceView(b ledger.Balance) balanceView {
	return balanceView{
		Income:  b.Income.StringFixed(2),
		Expense: b.Expense.StringFixed(2),
		Balance: b.Balance.StringFixed(2),
	}
}

func newListView(res services.ListResult, dateLayout string) listView {
	return listView{
		Range:        res.Window,
		Balance:      newBalanceView(res.Balance),
		Transactions: newTransactionViews(res.Transactions, dateLayout),
	}
}

func newOverviewView(ov ledger.Overview) overviewView {
	v := overviewView{
		Balance:   newBalanceView(ov.Balance),
		Breakdown: make([]pieSlice, 0, len(ov.Breakdown)),
		Trend:     make([]trendPoint, 0, len(ov.Trend)),
		Stats: statsView{
			Count:          ov.Stats.Count,
			IncomeCount:    ov.Stats.IncomeCount,
			ExpenseCount:   ov.Stats.ExpenseCount,
			LargestIncome:  ov.Stats.LargestIncome.StringFixed(2),
			LargestExpense: ov.Stats.LargestExpense.StringFixed(2),
		},
	}
	for _, s := range ov.Breakdown {
		v.Breakdown = append(v.Breakdown, pieSlice{Name: s.Category, Amount: s.Amount.InexactFloat64(), Percentage: s.Percentage})
	}
	for _, m := range ov.Trend {
		v.Trend = append(v.Trend, trendPoint{Month: m.Month, Income: m.Income.InexactFloat64(), Expense: m.Expense.InexactFloat64()})
	}
	return v
}

func newReportView(r services.ReportView) reportView {
	v := reportView{
		Range:      r.Window,
		Balance:    newBalanceView(r.Balance),
		Categories: make([]reportBar, 0, len(r.Categories)),
	}
	for _, c := range r.Categories {
		v.Categories = append(v.Categories, reportBar{Category: c.Category, Income: c.Income.InexactFloat64(), Expense: c.Expense.InexactFloat64()})
	}
	return v
}

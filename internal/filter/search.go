package filter

import (
	"strings"
	"time"

	"cashbook/internal/core"
)

// DefaultDateLayout is the short date shown next to each record (zh-CN style).
const DefaultDateLayout = "2006/1/2"

// Search keeps transactions where query is a case-insensitive substring of the
// category, the note, the amount's decimal string or the displayed date.
// A blank query matches everything; any other query is matched as typed,
// surrounding spaces included.
func Search(txs []core.Transaction, query, dateLayout string) []core.Transaction {
	if strings.TrimSpace(query) == "" {
		return append(make([]core.Transaction, 0, len(txs)), txs...)
	}
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	q := strings.ToLower(query)
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if matches(tx, q, dateLayout) {
			out = append(out, tx)
		}
	}
	return out
}

func matches(tx core.Transaction, q, dateLayout string) bool {
	fields := [...]string{
		tx.Category,
		tx.Note,
		tx.Amount.String(),
		DisplayDate(tx, dateLayout),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// DisplayDate formats the transaction date with layout, falling back to the raw
// stored value when it cannot be parsed.
func DisplayDate(tx core.Transaction, layout string) string {
	day, ok := tx.Day(time.UTC)
	if !ok {
		return tx.Date
	}
	return day.Format(layout)
}

// Query is a time window plus free text.
type Query struct {
	Window Window
	Text   string
}

// Run applies the window first and the text search on top of it.
func (q Query) Run(txs []core.Transaction, now time.Time, dateLayout string) []core.Transaction {
	return Search(q.Window.Apply(txs, now), q.Text, dateLayout)
}

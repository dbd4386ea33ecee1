// Package filter narrows a transaction list down to a time window and a search query.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cashbook/internal/core"
)

const (
	ModeMonth  Mode = "month"
	ModeYear   Mode = "year"
	ModeCustom Mode = "custom"
	ModeAll    Mode = "all"
)

// Mode selects how a Window resolves its bounds.
type Mode string

var ErrInvalidMode = errors.New("range must be one of month, year, custom, all")

// Window is an inclusive calendar date range.
// For ModeCustom, Start and End are caller-supplied; the other modes derive them
// from the current time.
type Window struct {
	Mode  Mode
	Start time.Time
	End   time.Time
}

// Month is the current calendar month.
func Month() Window { return Window{Mode: ModeMonth} }

// Year is the current calendar year.
func Year() Window { return Window{Mode: ModeYear} }

// All matches every transaction, including ones with unparsable dates.
func All() Window { return Window{Mode: ModeAll} }

// Custom is the inclusive range [start, end].
func Custom(start, end time.Time) Window {
	return Window{Mode: ModeCustom, Start: start, End: end}
}

// ParseWindow builds a Window from request-style values. start and end are
// YYYY-MM-DD and only consulted for the custom mode. An empty mode means month.
func ParseWindow(mode, start, end string, loc *time.Location) (Window, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(mode))) {
	case "", ModeMonth:
		return Month(), nil
	case ModeYear:
		return Year(), nil
	case ModeAll:
		return All(), nil
	case ModeCustom:
		s, err := core.ParseDate(start, loc)
		if err != nil {
			return Window{}, fmt.Errorf("start: %w", err)
		}
		e, err := core.ParseDate(end, loc)
		if err != nil {
			return Window{}, fmt.Errorf("end: %w", err)
		}
		return Custom(s, e), nil
	default:
		return Window{}, ErrInvalidMode
	}
}

// Bounds resolves the first and last calendar day of the window, as midnight in
// now's location. bounded is false for ModeAll.
func (w Window) Bounds(now time.Time) (start, end time.Time, bounded bool) {
	loc := now.Location()
	y, m, _ := now.Date()
	switch w.Mode {
	case ModeMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
	case ModeYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, time.December, 31, 0, 0, 0, 0, loc)
	case ModeCustom:
		start = midnight(w.Start, loc)
		end = midnight(w.End, loc)
	default:
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Contains reports whether the transaction date falls inside the window.
func (w Window) Contains(tx core.Transaction, now time.Time) bool {
	start, end, bounded := w.Bounds(now)
	if !bounded {
		return true
	}
	return within(tx, start, end, now.Location())
}

// Apply keeps the transactions inside the window. A custom window whose start is
// after its end matches nothing.
func (w Window) Apply(txs []core.Transaction, now time.Time) []core.Transaction {
	start, end, bounded := w.Bounds(now)
	out := make([]core.Transaction, 0, len(txs))
	if bounded && start.After(end) {
		return out
	}
	for _, tx := range txs {
		if !bounded || within(tx, start, end, now.Location()) {
			out = append(out, tx)
		}
	}
	return out
}

// Label is a short description used in logs and export titles.
func (w Window) Label(now time.Time) string {
	start, end, bounded := w.Bounds(now)
	if !bounded {
		return string(ModeAll)
	}
	return fmt.Sprintf("%s %s..%s", w.Mode, start.Format(core.DateLayout), end.Format(core.DateLayout))
}

func within(tx core.Transaction, start, end time.Time, loc *time.Location) bool {
	day, ok := tx.Day(loc)
	if !ok {
		return false
	}
	return !day.Before(start) && !day.After(end)
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

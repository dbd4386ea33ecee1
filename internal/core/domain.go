package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for persisted dates.
const DateLayout = "2006-01-02"

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

type (
	// Direction says whether money came in or went out.
	Direction string

	// Transaction is one signed financial movement.
	// Amount > 0 is income, Amount < 0 is expense.
	Transaction struct {
		ID       string
		Amount   decimal.Decimal
		Category string
		Note     string
		Date     string // YYYY-MM-DD, kept raw so malformed values survive a round-trip
	}

	// EntryForm is what the entry and edit forms submit.
	EntryForm struct {
		Amount   decimal.Decimal // unsigned magnitude
		Type     Direction
		Category string
		Note     string
		Date     string
	}
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than 0")
	ErrInvalidDirection = errors.New("type must be income or expense")
	ErrMissingDate      = errors.New("date is required")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
	ErrNoteTooLong      = errors.New("note too long (max 500 characters)")
)

// ValidationError collects per-field failures of an EntryForm.
type ValidationError struct {
	Fields map[string]error
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Fields[name]))
	}
	return "invalid entry: " + strings.Join(parts, "; ")
}

// Unwrap exposes the field errors to errors.Is.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, err := range e.Fields {
		errs = append(errs, err)
	}
	return errs
}

// Messages returns field -> message, suitable for inline display.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for name, err := range e.Fields {
		out[name] = err.Error()
	}
	return out
}

func (d Direction) Valid() bool {
	return d == Income || d == Expense
}

// ParseDirection accepts "income" or "expense" in any case.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", ErrInvalidDirection
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD calendar date in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Day returns the transaction date as midnight in loc; ok is false when the stored
// date cannot be parsed.
func (t Transaction) Day(loc *time.Location) (time.Time, bool) {
	d, err := ParseDate(t.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

func (f EntryForm) Validate() error {
	fields := map[string]error{}
	if !f.Amount.IsPositive() {
		fields["amount"] = ErrInvalidAmount
	}
	if !f.Type.Valid() {
		fields["type"] = ErrInvalidDirection
	}
	if strings.TrimSpace(f.Date) == "" {
		fields["date"] = ErrMissingDate
	} else if _, err := ParseDate(f.Date, time.UTC); err != nil {
		fields["date"] = err
	}
	if len([]rune(f.Note)) > 500 {
		fields["note"] = ErrNoteTooLong
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ToTransaction builds the stored record for the form. Income never carries a category.
func (f EntryForm) ToTransaction(id string) Transaction {
	category := strings.TrimSpace(f.Category)
	if f.Type == Income {
		category = ""
	}
	return Transaction{
		ID:       id,
		Amount:   SignedAmount(f.Type, f.Amount),
		Category: category,
		Note:     strings.TrimSpace(f.Note),
		Date:     strings.TrimSpace(f.Date),
	}
}

// FormFromTransaction pre-populates an edit form from a stored record.
func FormFromTransaction(t Transaction) EntryForm {
	dir, magnitude := SplitAmount(t.Amount)
	return EntryForm{
		Amount:   magnitude,
		Type:     dir,
		Category: t.Category,
		Note:     t.Note,
		Date:     t.Date,
	}
}

package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEntryFormValidate(t *testing.T) {
	good := EntryForm{
		Amount: decimal.RequireFromString("12.30"),
		Type:   Expense,
		Date:   "2024-01-15",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name  string
		form  EntryForm
		field string
		want  error
	}{
		{"zero amount", EntryForm{Amount: decimal.Zero, Type: Income, Date: "2024-01-01"}, "amount", ErrInvalidAmount},
		{"negative amount", EntryForm{Amount: decimal.NewFromInt(-1), Type: Income, Date: "2024-01-01"}, "amount", ErrInvalidAmount},
		{"bad type", EntryForm{Amount: decimal.NewFromInt(1), Type: "gift", Date: "2024-01-01"}, "type", ErrInvalidDirection},
		{"missing date", EntryForm{Amount: decimal.NewFromInt(1), Type: Income, Date: "  "}, "date", ErrMissingDate},
		{"bad date", EntryForm{Amount: decimal.NewFromInt(1), Type: Income, Date: "15/01/2024"}, "date", ErrInvalidDate},
		{"long note", EntryForm{Amount: decimal.NewFromInt(1), Type: Income, Date: "2024-01-01", Note: strings.Repeat("x", 501)}, "note", ErrNoteTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.form.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !errors.Is(verr.Fields[tc.field], tc.want) {
				t.Fatalf("field %s: got %v, want %v", tc.field, verr.Fields[tc.field], tc.want)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("errors.Is through ValidationError failed for %v", tc.want)
			}
			if verr.Messages()[tc.field] == "" {
				t.Fatalf("missing message for %s", tc.field)
			}
		})
	}
}

func TestEntryFormToTransaction(t *testing.T) {
	income := EntryForm{Amount: decimal.NewFromInt(100), Type: Income, Category: "salary", Note: " bonus ", Date: "2024-02-01"}
	tx := income.ToTransaction("id-1")
	if tx.Category != "" {
		t.Fatalf("income must not carry a category, got %q", tx.Category)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(100)) || tx.Note != "bonus" || tx.ID != "id-1" {
		t.Fatalf("unexpected transaction %+v", tx)
	}

	expense := EntryForm{Amount: decimal.NewFromInt(50), Type: Expense, Category: "tax", Date: "2024-01-15"}
	tx = expense.ToTransaction("id-2")
	if !tx.Amount.Equal(decimal.NewFromInt(-50)) || tx.Category != "tax" {
		t.Fatalf("unexpected transaction %+v", tx)
	}

	back := FormFromTransaction(tx)
	if back.Type != Expense || !back.Amount.Equal(decimal.NewFromInt(50)) || back.Category != "tax" || back.Date != "2024-01-15" {
		t.Fatalf("unexpected form %+v", back)
	}
}

func TestTransactionDay(t *testing.T) {
	tx := Transaction{Date: "2024-03-09"}
	d, ok := tx.Day(time.UTC)
	if !ok || d.Year() != 2024 || d.Month() != time.March || d.Day() != 9 {
		t.Fatalf("unexpected day %v ok=%v", d, ok)
	}
	if _, ok := (Transaction{Date: "not a date"}).Day(time.UTC); ok {
		t.Fatalf("expected unparsable date")
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection(" Expense "); err != nil || d != Expense {
		t.Fatalf("got %q %v", d, err)
	}
	if _, err := ParseDirection("refund"); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
}

func TestCategoryOrFallback(t *testing.T) {
	if CategoryOrFallback("") != FallbackCategory || CategoryOrFallback("  ") != FallbackCategory {
		t.Fatalf("blank category must fall back")
	}
	if CategoryOrFallback("tax") != "tax" {
		t.Fatalf("category must be kept")
	}
	if len(DefaultCategories) != 18 {
		t.Fatalf("expected 18 default categories, got %d", len(DefaultCategories))
	}
}

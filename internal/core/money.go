// Package core provides the transaction model and money handling.
//
// This file holds the sign convention: the stored amount is signed, the forms
// work with an unsigned magnitude plus a Direction. SignedAmount and SplitAmount
// are the only two places that mapping is written down.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SignedAmount returns the stored amount for a magnitude moving in dir.
// Expense amounts are negative, income amounts positive.
func SignedAmount(dir Direction, magnitude decimal.Decimal) decimal.Decimal {
	magnitude = magnitude.Abs()
	if dir == Expense {
		return magnitude.Neg()
	}
	return magnitude
}

// SplitAmount is the inverse of SignedAmount.
// Zero is reported as income, matching how the edit form treats it.
func SplitAmount(amount decimal.Decimal) (Direction, decimal.Decimal) {
	if amount.IsNegative() {
		return Expense, amount.Abs()
	}
	return Income, amount
}

// ParseAmount parses a user-supplied magnitude.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half away from zero to cents. Negative, zero and malformed values are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders a signed amount for display, e.g. "+¥12.50" or "-¥3.00".
func FormatAmount(amount decimal.Decimal) string {
	sign := "+"
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + "¥" + amount.Abs().StringFixed(2)
}

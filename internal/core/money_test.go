package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true}, // half away from zero
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.004", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestSignedAmountRoundTrip(t *testing.T) {
	cases := []struct {
		dir       Direction
		magnitude string
		signed    string
	}{
		{Income, "100", "100"},
		{Expense, "50", "-50"},
		{Expense, "-50", "-50"}, // magnitude sign is ignored
		{Income, "0.01", "0.01"},
	}
	for _, tc := range cases {
		got := SignedAmount(tc.dir, decimal.RequireFromString(tc.magnitude))
		if !got.Equal(decimal.RequireFromString(tc.signed)) {
			t.Fatalf("SignedAmount(%s, %s) = %s, want %s", tc.dir, tc.magnitude, got, tc.signed)
		}
		dir, mag := SplitAmount(got)
		if dir != tc.dir || !mag.Equal(decimal.RequireFromString(tc.magnitude).Abs()) {
			t.Fatalf("SplitAmount(%s) = %s %s", got, dir, mag)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.RequireFromString("-3")); got != "-¥3.00" {
		t.Fatalf("got %q", got)
	}
	if got := FormatAmount(decimal.RequireFromString("12.5")); got != "+¥12.50" {
		t.Fatalf("got %q", got)
	}
}

package core

import "strings"

// FallbackCategory labels expenses saved without a category.
const FallbackCategory = "other"

// DefaultCategories is the fixed expense vocabulary offered by the entry form.
var DefaultCategories = []string{
	"salary",
	"reimbursement",
	"hardware",
	"commission",
	"brokerage",
	"installation",
	"office-expense",
	"tax",
	"holiday-expense",
	"finance",
	"loan-interest",
	"social-insurance",
	"exhibition",
	"loan-agency-fee",
	"furnishing-fee",
	"bookkeeping",
	"network",
	FallbackCategory,
}

// CategoryOrFallback returns the category used when grouping expenses.
func CategoryOrFallback(category string) string {
	if strings.TrimSpace(category) == "" {
		return FallbackCategory
	}
	return category
}

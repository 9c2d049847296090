// Package core defines the dashboard's data model and amount parsing.
//
// Amounts are decimal values; the sign convention of the source data is
// inconsistent, so callers take magnitudes via Abs wherever a spend figure
// is needed and rely on the Income tag, never the raw sign, to tell inflow
// from outflow.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered amount string to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for anything that does not parse as a number.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-300")  -> -300, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseCeiling parses a budget ceiling, which must be a non-negative amount.
func ParseCeiling(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeBudget
	}
	return d, nil
}

// Round2 rounds to two decimal places, the precision every derived value is
// reported at.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Package core holds the domain model and the pure reconciliation engine:
// balance calculation, budget aggregation and period summaries. Nothing in this
// package performs I/O; all derived values are recomputed from the inputs on
// every call.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-supplied decimal string to a non-negative amount.
// It accepts both dot (12.34) and comma (12,34) separators. Signed values are
// rejected: stored amounts are magnitudes, the sign comes from the category.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// NormalizeAmount defends against a negative magnitude that slipped past the
// write boundary. It returns the absolute value and whether the sign had to be
// flipped so the caller can log the data-integrity warning.
func NormalizeAmount(d decimal.Decimal) (decimal.Decimal, bool) {
	if d.IsNegative() {
		return d.Abs(), true
	}
	return d, false
}

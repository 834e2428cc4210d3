// Package core provides the domain types, input normalization, currency
// rendering and goal arithmetic shared by every other package.
//
// This file contains amount parsing for user-entered strings.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string to a positive amount
// rounded half-up to two decimals.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs,
// grouping separators, zero and non-numeric input are rejected with
// ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	if strings.Count(s, ".") > 1 {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && (r < '0' || r > '9') {
			return 0, ErrInvalidAmount
		}
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() || d.GreaterThan(decimal.NewFromInt(DefaultAmountBound)) {
		return 0, ErrInvalidAmount
	}
	return d.InexactFloat64(), nil
}

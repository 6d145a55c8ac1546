// Package core provides amount parsing and formatting.
//
// This file contains the helpers the interactive session uses to turn typed
// text into amounts before anything reaches the ledger.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts user input into a non-negative amount.
//
// It accepts a dot decimal separator and an optional leading "$". Commas are
// rejected so that "1,000" is never read as 1. Zero is a valid amount and a
// negative zero comes back as 0. Returns ErrInvalidAmount for malformed text,
// negative values, NaN and infinities.
//
// Examples:
//   ParseAmount("12.34")  -> 12.34, nil
//   ParseAmount("$5")     -> 5, nil
//   ParseAmount("1,000")  -> 0, ErrInvalidAmount
//   ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if err := ValidateAmount(v); err != nil {
		return 0, err
	}
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return v, nil
}

// IsNegativeAmount reports whether s is well-formed but negative, so callers
// can tell "not a number" apart from "not allowed".
func IsNegativeAmount(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && v < 0
}

// FormatAmount renders an amount for display with a "$" prefix and two decimals.
// Anything that rounds to zero is shown as "$0.00".
func FormatAmount(v float64) string {
	if math.Round(v*100) == 0 {
		return "$0.00"
	}
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

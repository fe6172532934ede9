// Package core provides the domain model of the finance platform.
//
// This file contains money conversion helpers. Amounts are modelled as
// fixed-precision decimals end-to-end; the conversion to currency minor
// units happens exactly once, at the store boundary, never ad hoc per
// call site.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// maxCents bounds conversion so that Shift(2) cannot overflow int64.
var maxCents = decimal.New(1<<62, 0)

// Cents converts a decimal amount to currency minor units with half-up
// rounding on the third decimal place.
//
// Examples:
//
//	Cents(12.34)  -> 1234, nil
//	Cents(12.345) -> 1235, nil (rounds up)
//	Cents(12.344) -> 1234, nil (rounds down)
func Cents(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(2)
	if shifted.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: amount out of range", ErrValidation)
	}
	return shifted.Round(0).IntPart(), nil
}

// FromCents converts currency minor units back to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ParseBalance parses a non-negative decimal amount from user input.
// An empty string means zero. Opening balances may be zero; transaction
// amounts may not, use ParseAmount for those.
func ParseBalance(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseAmount parses a positive decimal amount from user input. It
// accepts both dot (12.34) and comma (12,34) decimal separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Package money converts between stored minor units (cents) and decimal
// amounts. Every amount that reaches the database goes through FromDecimal
// so rounding happens in exactly one place.
package money

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FromDecimal rounds d half away from zero to cents
func FromDecimal(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FromFloat converts a float amount to cents
func FromFloat(f float64) int64 {
	return FromDecimal(decimal.NewFromFloat(f))
}

// ToDecimal converts cents to a decimal amount
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToFloat converts cents to a float amount for JSON responses
func ToFloat(cents int64) float64 {
	f, _ := ToDecimal(cents).Float64()
	return f
}

// Format renders cents with two fraction digits, e.g. 1234 -> "12.34"
func Format(cents int64) string {
	return ToDecimal(cents).StringFixed(2)
}

// LineTotal returns quantity × unit price rounded to cents
func LineTotal(quantity decimal.Decimal, unitPrice int64) int64 {
	return quantity.Mul(decimal.NewFromInt(unitPrice)).Round(0).IntPart()
}

// TaxPortion returns the unrounded tax on cents at ratePercent.
// Callers sum portions and round once with RoundCents.
func TaxPortion(cents int64, ratePercent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(cents).Mul(ratePercent).Div(hundred)
}

// RoundCents rounds a fractional cent amount to whole cents
func RoundCents(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// Percentage returns part/whole as a percentage with two decimals.
// A zero whole yields 0.
func Percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole)).Round(2).Float64()
	return f
}

// Package money holds the rounding rules applied to goal amounts.
// Amounts are in minor currency units; "K" values are thousands of them.
package money

import "github.com/shopspring/decimal"

// Thousand is the size of one K.
const Thousand = 1000

var thousand = decimal.NewFromInt(Thousand)

// NearestThousand rounds v to the nearest multiple of 1000, halves up.
func NearestThousand(v float64) float64 {
	return decimal.NewFromFloat(v).Div(thousand).Round(0).Mul(thousand).InexactFloat64()
}

// ToK converts an amount to thousands rounded to the given decimal places.
func ToK(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Shift(-3).Round(places).InexactFloat64()
}

// FromK converts a thousands value back to minor units.
func FromK(k float64) float64 {
	return decimal.NewFromFloat(k).Mul(thousand).InexactFloat64()
}

// RoundWhole rounds v to the nearest integer, halves up.
func RoundWhole(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

// internal/salary/round.go
package salary

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundUSD rounds to the nearest whole dollar, halves away from zero.
// Non-finite input yields 0.
func RoundUSD(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func roundDecimal(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

func dec(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

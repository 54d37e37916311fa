// internal/salary/adjust.go
package salary

import (
	"fairpay/internal/models"

	"github.com/shopspring/decimal"
)

// ReferenceBigMac returns the reference country's USD Big Mac price, or the configured
// fallback when the price is unknown.
func (n *Normalizer) ReferenceBigMac(price models.BigMacPrice, ok bool) float64 {
	if !ok || price.USDPrice <= 0 {
		return n.cfg.ReferenceBigMacUSD
	}
	return price.USDPrice
}

// PPPAdjust returns round(estimate × reference / countryPrice). A missing country price
// leaves the estimate unadjusted.
func (n *Normalizer) PPPAdjust(estimate int64, countryBigMacUSD, referenceBigMacUSD float64) int64 {
	if !(countryBigMacUSD > 0) {
		return estimate
	}
	if !(referenceBigMacUSD > 0) {
		referenceBigMacUSD = n.cfg.ReferenceBigMacUSD
	}
	return roundDecimal(decimal.NewFromInt(estimate).Mul(dec(referenceBigMacUSD)).Div(dec(countryBigMacUSD)))
}

// COLAdjust returns round(estimate / colMultiplier). A non-positive multiplier leaves the
// estimate unadjusted.
func COLAdjust(estimate int64, colMultiplier float64) int64 {
	if !(colMultiplier > 0) {
		return estimate
	}
	return roundDecimal(decimal.NewFromInt(estimate).Div(dec(colMultiplier)))
}

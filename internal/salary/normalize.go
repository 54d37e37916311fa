// internal/salary/normalize.go
package salary

import (
	"fairpay/internal/models"

	"github.com/shopspring/decimal"
)

// Normalizer scales US baselines to countries and cities.
type Normalizer struct {
	cfg   Config
	bonus map[string]struct{}
}

func NewNormalizer(cfg Config) *Normalizer {
	cfg = cfg.withDefaults()
	bonus := make(map[string]struct{}, len(cfg.BonusCategories))
	for _, c := range cfg.BonusCategories {
		bonus[normalizeCategory(c)] = struct{}{}
	}
	return &Normalizer{cfg: cfg, bonus: bonus}
}

func (n *Normalizer) Config() Config {
	return n.cfg
}

// WageRatio is the country's average wage relative to the reference country.
// ok is false when either wage is missing.
func WageRatio(country, reference models.Country) (ratio float64, ok bool) {
	if country.OECDAvgWage <= 0 || reference.OECDAvgWage <= 0 {
		return 0, false
	}
	r, _ := dec(country.OECDAvgWage).Div(dec(reference.OECDAvgWage)).Float64()
	return r, true
}

// EstimateCountry returns round(baseUSA × wageRatio × sectorMultiplier).
func (n *Normalizer) EstimateCountry(occ models.Occupation, wageRatio float64) int64 {
	return roundDecimal(dec(occ.BaseUSA).Mul(dec(wageRatio)).Mul(dec(occ.SectorMultiplier)))
}

// Bonus returns the tech-hub multiplier applicable to occ in city.
func (n *Normalizer) Bonus(occ models.Occupation, city models.City) float64 {
	if !city.IsTechHub {
		return 1
	}
	if _, ok := n.bonus[normalizeCategory(occ.Category)]; !ok {
		return 1
	}
	return n.cfg.TechHubBonus
}

// EstimateCity returns round(countryEstimate × colMultiplier × bonus).
func (n *Normalizer) EstimateCity(countryEstimate int64, occ models.Occupation, city models.City) int64 {
	return roundDecimal(decimal.NewFromInt(countryEstimate).Mul(dec(city.COLMultiplier)).Mul(dec(n.Bonus(occ, city))))
}

// Estimate composes the country and optional city scaling.
func (n *Normalizer) Estimate(occ models.Occupation, wageRatio float64, city *models.City) int64 {
	est := n.EstimateCountry(occ, wageRatio)
	if city == nil {
		return est
	}
	return n.EstimateCity(est, occ, *city)
}

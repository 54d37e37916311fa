// internal/models/salary.go
package models

// CountrySalaryEntry is the precomputed estimate for an occupation in a country.
// Amounts are whole USD.
type CountrySalaryEntry struct {
	OccupationSlug string `json:"occupationSlug" db:"occupation_slug"`
	CountryCode    string `json:"countryCode" db:"country_code"`
	EstimateUSD    int64  `json:"estimateUSD" db:"estimate_usd"`
	PPPAdjustedUSD int64  `json:"pppAdjustedUSD" db:"ppp_adjusted_usd"`
}

// CitySalaryEntry is the precomputed estimate for an occupation in a city.
type CitySalaryEntry struct {
	OccupationSlug string `json:"occupationSlug" db:"occupation_slug"`
	CountryCode    string `json:"countryCode" db:"country_code"`
	CitySlug       string `json:"citySlug" db:"city_slug"`
	EstimateUSD    int64  `json:"estimateUSD" db:"estimate_usd"`
	PPPAdjustedUSD int64  `json:"pppAdjustedUSD" db:"ppp_adjusted_usd"`
	COLAdjustedUSD int64  `json:"colAdjustedUSD" db:"col_adjusted_usd"`
}

// internal/workers/salary/city-percentile/models.go
package citypercentile

import "fairpay/internal/service"

type Input struct {
	OccupationSlug string  `json:"occupationSlug"`
	CountryCode    string  `json:"countryCode"`
	CitySlug       string  `json:"citySlug"`
	Salary         float64 `json:"salary"`
	Period         string  `json:"period,omitempty"`
	Currency       string  `json:"currency,omitempty"`
}

type Output struct {
	service.PercentileResult
}

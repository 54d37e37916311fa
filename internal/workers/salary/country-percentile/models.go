// internal/workers/salary/country-percentile/models.go
package countrypercentile

import "fairpay/internal/service"

// Input is read from the process variables. Salary is annual USD unless period or
// currency say otherwise.
type Input struct {
	OccupationSlug string  `json:"occupationSlug"`
	CountryCode    string  `json:"countryCode"`
	Salary         float64 `json:"salary"`
	Period         string  `json:"period,omitempty"`
	Currency       string  `json:"currency,omitempty"`
}

type Output struct {
	service.PercentileResult
}

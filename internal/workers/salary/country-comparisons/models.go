// internal/workers/salary/country-comparisons/models.go
package countrycomparisons

import "fairpay/internal/service"

// Input names the user's own country when known. Currency "local" needs it.
type Input struct {
	OccupationSlug  string  `json:"occupationSlug"`
	UserCountryCode string  `json:"userCountryCode,omitempty"`
	Salary          float64 `json:"salary"`
	Period          string  `json:"period,omitempty"`
	Currency        string  `json:"currency,omitempty"`
}

// Output adds the best country (the first row) and the number of rows whose estimate
// is below the user's salary.
type Output struct {
	service.ComparisonResult
	BestCountryCode string `json:"bestCountryCode"`
	HigherCount     int    `json:"higherCount"`
}

// internal/workers/salary/relocation-verdict/models.go
package relocationverdict

import "fairpay/internal/service"

type Input struct {
	OccupationSlug string `json:"occupationSlug"`
	FromCitySlug   string `json:"fromCitySlug"`
	ToCitySlug     string `json:"toCitySlug"`
}

// Output carries the verdict plus Recommended for gateway conditions: true for yes and
// strong-yes.
type Output struct {
	service.RelocationResult
	Recommended bool `json:"recommended"`
}

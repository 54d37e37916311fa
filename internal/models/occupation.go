// internal/models/occupation.go
package models

// Occupation is a job title with its US baseline salary.
type Occupation struct {
	Slug             string  `json:"slug" db:"slug"`
	Title            string  `json:"title" db:"title"`
	Category         string  `json:"category" db:"category"`
	BaseUSA          float64 `json:"baseUSA" db:"base_usa"`
	SectorMultiplier float64 `json:"sectorMultiplier" db:"sector_multiplier"`
}

// internal/salary/comparison.go
package salary

import (
	"math"
	"sort"

	"fairpay/internal/models"
)

// Position is where the user's salary sits relative to a country estimate.
type Position string

const (
	PositionHigher  Position = "higher"
	PositionSimilar Position = "similar"
	PositionLower   Position = "lower"
)

// ClassifyPosition treats |user - estimate| <= tolerance × estimate as similar.
func ClassifyPosition(userSalary, estimate, tolerance float64) Position {
	if math.Abs(userSalary-estimate) <= tolerance*estimate {
		return PositionSimilar
	}
	if userSalary > estimate {
		return PositionHigher
	}
	return PositionLower
}

// Comparison is one row of the country comparison table.
type Comparison struct {
	Entry models.CountrySalaryEntry
	// Percentile of this country's estimate among the other countries' estimates.
	Percentile float64
	Position   Position
	// DifferencePercent is (user - estimate) / estimate × 100.
	DifferencePercent float64
}

// BuildComparisons ranks every country entry for one occupation and classifies the user
// against each. Rows are ordered by percentile descending; ties keep input order.
func BuildComparisons(userSalaryUSD float64, entries []models.CountrySalaryEntry, tolerance float64) ([]Comparison, error) {
	if len(entries) < 2 {
		return nil, ErrInsufficientData
	}

	estimates := make([]float64, len(entries))
	for i, e := range entries {
		estimates[i] = float64(e.EstimateUSD)
	}

	out := make([]Comparison, len(entries))
	others := make([]float64, 0, len(entries)-1)
	for i, e := range entries {
		others = others[:0]
		others = append(others, estimates[:i]...)
		others = append(others, estimates[i+1:]...)

		p, err := Percentile(estimates[i], others)
		if err != nil {
			return nil, err
		}

		var diff float64
		if e.EstimateUSD > 0 {
			diff = RoundTo((userSalaryUSD-estimates[i])/estimates[i]*100, 1)
		}

		out[i] = Comparison{
			Entry:             e,
			Percentile:        p,
			Position:          ClassifyPosition(userSalaryUSD, estimates[i], tolerance),
			DifferencePercent: diff,
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Percentile > out[b].Percentile
	})
	return out, nil
}

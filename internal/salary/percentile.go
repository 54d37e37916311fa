// internal/salary/percentile.go
package salary

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData is returned when there is nothing to compare against.
var ErrInsufficientData = errors.New("insufficient comparison data")

// Tier buckets a percentile for presentation.
type Tier string

const (
	TierFavorable   Tier = "favorable"
	TierMiddle      Tier = "middle"
	TierUnfavorable Tier = "unfavorable"
)

// Sample is a comparator value keyed by the entity it belongs to.
type Sample struct {
	Key   string
	Value float64
}

// Percentile returns the share of comparators strictly below value, in [0, 100].
// Equal values are not counted.
func Percentile(value float64, comparators []float64) (float64, error) {
	if len(comparators) == 0 {
		return 0, ErrInsufficientData
	}
	below := 0
	for _, c := range comparators {
		if c < value {
			below++
		}
	}
	return 100 * float64(below) / float64(len(comparators)), nil
}

// PercentileExcluding ranks value against samples, skipping the sample keyed self.
func PercentileExcluding(value float64, samples []Sample, self string) (float64, error) {
	comparators := make([]float64, 0, len(samples))
	for _, s := range samples {
		if self != "" && s.Key == self {
			continue
		}
		comparators = append(comparators, s.Value)
	}
	return Percentile(value, comparators)
}

func TierOf(p float64) Tier {
	switch {
	case p >= 70:
		return TierFavorable
	case p >= 40:
		return TierMiddle
	default:
		return TierUnfavorable
	}
}

// FormatPercentile renders "Top N%" at or above the median and "Bottom N%" below it.
func FormatPercentile(p float64) string {
	if p >= 50 {
		top := 100 - int(math.Round(p))
		if top < 1 {
			top = 1
		}
		return fmt.Sprintf("Top %d%%", top)
	}
	bottom := int(math.Round(p))
	if bottom < 1 {
		bottom = 1
	}
	return fmt.Sprintf("Bottom %d%%", bottom)
}

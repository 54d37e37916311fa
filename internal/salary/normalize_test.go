// internal/salary/normalize_test.go
package salary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fairpay/internal/models"
)

var (
	softwareEngineer = models.Occupation{Slug: "software-engineer", Title: "Software Engineer", Category: "Tech", BaseUSA: 120000, SectorMultiplier: 1.0}
	nurse            = models.Occupation{Slug: "registered-nurse", Title: "Registered Nurse", Category: "Healthcare", BaseUSA: 80000, SectorMultiplier: 0.95}
	schoolTeacher    = models.Occupation{Slug: "school-teacher", Title: "School Teacher", Category: "Education", BaseUSA: 65000, SectorMultiplier: 0.9}

	newYork   = models.City{Slug: "new-york", Name: "New York", CountryCode: "US", IsTechHub: true, COLMultiplier: 1.6}
	cleveland = models.City{Slug: "cleveland", Name: "Cleveland", CountryCode: "US", COLMultiplier: 0.85}
)

func TestWageRatio(t *testing.T) {
	us := models.Country{Code: "US", OECDAvgWage: 80000}
	de := models.Country{Code: "DE", OECDAvgWage: 60000}

	ratio, ok := WageRatio(de, us)
	assert.True(t, ok)
	assert.Equal(t, 0.75, ratio)

	ratio, ok = WageRatio(us, us)
	assert.True(t, ok)
	assert.Equal(t, 1.0, ratio)

	_, ok = WageRatio(models.Country{Code: "XX"}, us)
	assert.False(t, ok)

	_, ok = WageRatio(de, models.Country{Code: "US"})
	assert.False(t, ok)
}

func TestNormalizer_EstimateCountry(t *testing.T) {
	n := NewNormalizer(DefaultConfig())

	tests := []struct {
		name  string
		occ   models.Occupation
		ratio float64
		want  int64
	}{
		{"reference country", softwareEngineer, 1.0, 120000},
		{"scaled by wage ratio", softwareEngineer, 0.75, 90000},
		{"sector multiplier applied", nurse, 0.75, 57000},
		{"both factors", schoolTeacher, 0.75, 43875},
		{"half rounds up", models.Occupation{BaseUSA: 1001, SectorMultiplier: 0.5}, 1.0, 501},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.EstimateCountry(tt.occ, tt.ratio))
		})
	}
}

func TestNormalizer_EstimateCity(t *testing.T) {
	n := NewNormalizer(DefaultConfig())

	tests := []struct {
		name            string
		countryEstimate int64
		occ             models.Occupation
		city            models.City
		want            int64
	}{
		{"tech occupation in tech hub gets bonus", 120000, softwareEngineer, newYork, 207360},
		{"non-tech occupation in tech hub", 76000, nurse, newYork, 121600},
		{"tech occupation outside tech hub", 120000, softwareEngineer, cleveland, 102000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.EstimateCity(tt.countryEstimate, tt.occ, tt.city))
		})
	}
}

func TestNormalizer_Bonus(t *testing.T) {
	n := NewNormalizer(DefaultConfig())

	lower := softwareEngineer
	lower.Category = "tech"
	assert.Equal(t, 1.08, n.Bonus(lower, newYork))
	assert.Equal(t, 1.0, n.Bonus(nurse, newYork))
	assert.Equal(t, 1.0, n.Bonus(softwareEngineer, cleveland))

	none := NewNormalizer(Config{BonusCategories: []string{}})
	assert.Equal(t, 1.0, none.Bonus(softwareEngineer, newYork))

	custom := NewNormalizer(Config{BonusCategories: []string{"Healthcare"}, TechHubBonus: 1.2})
	assert.Equal(t, 1.2, custom.Bonus(nurse, newYork))
}

func TestNormalizer_Estimate(t *testing.T) {
	n := NewNormalizer(DefaultConfig())

	assert.Equal(t, int64(120000), n.Estimate(softwareEngineer, 1.0, nil))
	assert.Equal(t, int64(207360), n.Estimate(softwareEngineer, 1.0, &newYork))
}

func TestNormalizer_ConfigDefaults(t *testing.T) {
	cfg := NewNormalizer(Config{}).Config()
	assert.Equal(t, []string{"Tech"}, cfg.BonusCategories)
	assert.Equal(t, 1.08, cfg.TechHubBonus)
	assert.Equal(t, 5.58, cfg.ReferenceBigMacUSD)
}

// internal/salary/config.go

// Package salary holds the pure numeric model: estimate scaling, purchasing power and
// cost-of-living adjustment, percentile ranking, country comparisons and relocation verdicts.
package salary

import "strings"

// Config carries the tunables of the model.
type Config struct {
	// BonusCategories receive TechHubBonus in tech-hub cities.
	BonusCategories []string
	TechHubBonus    float64
	// ReferenceBigMacUSD is used when the reference country has no Big Mac price.
	ReferenceBigMacUSD float64
	// SimilarTolerance is the relative band around an estimate treated as "similar".
	SimilarTolerance float64
}

func DefaultConfig() Config {
	return Config{
		BonusCategories:    []string{"Tech"},
		TechHubBonus:       1.08,
		ReferenceBigMacUSD: 5.58,
		SimilarTolerance:   0.05,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BonusCategories == nil {
		c.BonusCategories = def.BonusCategories
	}
	if c.TechHubBonus <= 0 {
		c.TechHubBonus = def.TechHubBonus
	}
	if c.ReferenceBigMacUSD <= 0 {
		c.ReferenceBigMacUSD = def.ReferenceBigMacUSD
	}
	if c.SimilarTolerance < 0 {
		c.SimilarTolerance = def.SimilarTolerance
	}
	return c
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

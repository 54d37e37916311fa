// internal/service/types.go
package service

import (
	"fairpay/internal/models"
	"fairpay/internal/salary"
)

// PercentileResult ranks a salary against one occupation's country or city estimates.
type PercentileResult struct {
	OccupationSlug string  `json:"occupationSlug"`
	CountryCode    string  `json:"countryCode"`
	CitySlug       string  `json:"citySlug,omitempty"`
	SalaryUSD      float64 `json:"salaryUSD"`
	// Percentile is rounded to two decimals; Tier and Label use the unrounded value.
	Percentile      float64     `json:"percentile"`
	Tier            salary.Tier `json:"tier"`
	Label           string      `json:"label"`
	ComparatorCount int         `json:"comparatorCount"`
	// LocalEstimateUSD is the estimate for the ranked place itself, when it has one.
	LocalEstimateUSD *int64 `json:"localEstimateUSD,omitempty"`
}

type CountryComparison struct {
	CountryCode       string          `json:"countryCode"`
	CountryName       string          `json:"countryName"`
	Flag              string          `json:"flag"`
	EstimateUSD       int64           `json:"estimateUSD"`
	PPPAdjustedUSD    int64           `json:"pppAdjustedUSD"`
	Percentile        float64         `json:"percentile"`
	Position          salary.Position `json:"position"`
	DifferencePercent float64         `json:"differencePercent"`
	IsUserCountry     bool            `json:"isUserCountry"`
}

// ComparisonResult is the country table for one occupation, most favorable first.
type ComparisonResult struct {
	OccupationSlug  string              `json:"occupationSlug"`
	UserSalaryUSD   float64             `json:"userSalaryUSD"`
	UserCountryCode string              `json:"userCountryCode,omitempty"`
	UserPercentile  float64             `json:"userPercentile"`
	UserTier        salary.Tier         `json:"userTier"`
	UserLabel       string              `json:"userLabel"`
	Comparisons     []CountryComparison `json:"comparisons"`
}

type CityPlacement struct {
	CitySlug       string      `json:"citySlug"`
	CityName       string      `json:"cityName"`
	CountryCode    string      `json:"countryCode"`
	EstimateUSD    int64       `json:"estimateUSD"`
	PPPAdjustedUSD int64       `json:"pppAdjustedUSD"`
	COLAdjustedUSD int64       `json:"colAdjustedUSD"`
	Percentile     float64     `json:"percentile"`
	Tier           salary.Tier `json:"tier"`
	Label          string      `json:"label"`
}

type RelocationResult struct {
	OccupationSlug   string                   `json:"occupationSlug"`
	From             CityPlacement            `json:"from"`
	To               CityPlacement            `json:"to"`
	Verdict          salary.Verdict           `json:"verdict"`
	Reason           string                   `json:"reason"`
	SupportingMetric salary.Metric            `json:"supportingMetric"`
	Metrics          salary.RelocationMetrics `json:"metrics"`
}

// ConvertedSalary is a reported amount normalized to annual USD.
type ConvertedSalary struct {
	Amount      float64       `json:"amount"`
	Period      salary.Period `json:"period"`
	Currency    string        `json:"currency"`
	CountryCode string        `json:"countryCode,omitempty"`
	AnnualLocal float64       `json:"annualLocal"`
	AnnualUSD   float64       `json:"annualUSD"`
}

type CountryEstimate struct {
	CountryCode    string `json:"countryCode"`
	CountryName    string `json:"countryName"`
	Flag           string `json:"flag"`
	EstimateUSD    int64  `json:"estimateUSD"`
	PPPAdjustedUSD int64  `json:"pppAdjustedUSD"`
}

type OccupationDetail struct {
	models.Occupation
	Countries []CountryEstimate `json:"countries"`
}

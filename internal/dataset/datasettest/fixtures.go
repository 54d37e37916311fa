// internal/dataset/datasettest/fixtures.go

// Package datasettest provides a small, hand-checked dataset for tests.
package datasettest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fairpay/internal/dataset"
	"fairpay/internal/models"
	"fairpay/internal/salary"
)

// RawSet returns the fixture relations without city salaries.
func RawSet() dataset.Set {
	return dataset.Set{
		Occupations: []models.Occupation{
			{Slug: "software-engineer", Title: "Software Engineer", Category: "Tech", BaseUSA: 120000, SectorMultiplier: 1.0},
			{Slug: "registered-nurse", Title: "Registered Nurse", Category: "Healthcare", BaseUSA: 80000, SectorMultiplier: 0.95},
			{Slug: "school-teacher", Title: "School Teacher", Category: "Education", BaseUSA: 65000, SectorMultiplier: 0.9},
		},
		Countries: []models.Country{
			{Code: "US", Slug: "united-states", Name: "United States", Flag: "🇺🇸", Currency: "USD", CurrencySymbol: "$", USDExchangeRate: 1.0, OECDAvgWage: 80000, GDPPerCapita: 76000},
			{Code: "DE", Slug: "germany", Name: "Germany", Flag: "🇩🇪", Currency: "EUR", CurrencySymbol: "€", USDExchangeRate: 0.9, OECDAvgWage: 60000, GDPPerCapita: 52000},
			{Code: "GB", Slug: "united-kingdom", Name: "United Kingdom", Flag: "🇬🇧", Currency: "GBP", CurrencySymbol: "£", USDExchangeRate: 0.8, OECDAvgWage: 56000, GDPPerCapita: 48000},
			{Code: "IN", Slug: "india", Name: "India", Flag: "🇮🇳", Currency: "INR", CurrencySymbol: "₹", USDExchangeRate: 83.0, OECDAvgWage: 12000, GDPPerCapita: 2500},
		},
		Cities: []models.City{
			{Slug: "new-york", Name: "New York", CountryCode: "US", Population: 8300000, IsTechHub: true, COLMultiplier: 1.6},
			{Slug: "austin", Name: "Austin", CountryCode: "US", Population: 960000, IsTechHub: true, COLMultiplier: 1.1},
			{Slug: "cleveland", Name: "Cleveland", CountryCode: "US", Population: 370000, COLMultiplier: 0.85},
			{Slug: "berlin", Name: "Berlin", CountryCode: "DE", Population: 3700000, IsCapital: true, IsTechHub: true, COLMultiplier: 1.05},
			{Slug: "munich", Name: "Munich", CountryCode: "DE", Population: 1500000, IsTechHub: true, COLMultiplier: 1.2},
			{Slug: "london", Name: "London", CountryCode: "GB", Population: 8900000, IsCapital: true, IsTechHub: true, COLMultiplier: 1.5},
			{Slug: "bangalore", Name: "Bangalore", CountryCode: "IN", Population: 12000000, IsTechHub: true, COLMultiplier: 1.2},
		},
		BigMacPrices: []models.BigMacPrice{
			{CountryCode: "US", LocalPrice: 5.58, USDPrice: 5.58},
			{CountryCode: "DE", LocalPrice: 5.58, USDPrice: 6.20},
			{CountryCode: "GB", LocalPrice: 4.72, USDPrice: 5.90},
			{CountryCode: "IN", LocalPrice: 231.57, USDPrice: 2.79},
		},
		CountrySalaries: []models.CountrySalaryEntry{
			{OccupationSlug: "software-engineer", CountryCode: "US", EstimateUSD: 120000, PPPAdjustedUSD: 120000},
			{OccupationSlug: "software-engineer", CountryCode: "DE", EstimateUSD: 90000, PPPAdjustedUSD: 81000},
			{OccupationSlug: "software-engineer", CountryCode: "GB", EstimateUSD: 84000, PPPAdjustedUSD: 79444},
			{OccupationSlug: "software-engineer", CountryCode: "IN", EstimateUSD: 18000, PPPAdjustedUSD: 36000},
			{OccupationSlug: "registered-nurse", CountryCode: "US", EstimateUSD: 76000, PPPAdjustedUSD: 76000},
			{OccupationSlug: "registered-nurse", CountryCode: "DE", EstimateUSD: 57000, PPPAdjustedUSD: 51300},
			{OccupationSlug: "registered-nurse", CountryCode: "GB", EstimateUSD: 53200, PPPAdjustedUSD: 50315},
			{OccupationSlug: "registered-nurse", CountryCode: "IN", EstimateUSD: 11400, PPPAdjustedUSD: 22800},
			{OccupationSlug: "school-teacher", CountryCode: "US", EstimateUSD: 58500, PPPAdjustedUSD: 58500},
			{OccupationSlug: "school-teacher", CountryCode: "DE", EstimateUSD: 43875, PPPAdjustedUSD: 39488},
			{OccupationSlug: "school-teacher", CountryCode: "GB", EstimateUSD: 40950, PPPAdjustedUSD: 38729},
		},
	}
}

// Set returns the fixture with city salaries derived by the batch transform.
func Set() dataset.Set {
	set := RawSet()
	rows, _, err := dataset.BuildCitySalaries(set, salary.NewNormalizer(salary.DefaultConfig()), "US")
	if err != nil {
		panic(err)
	}
	set.CitySalaries = rows
	return set
}

// Tables builds the indexed fixture.
func Tables(t testing.TB) *dataset.Tables {
	t.Helper()
	tables, err := dataset.Build(Set())
	require.NoError(t, err)
	return tables
}

// WriteDir writes set as a dataset directory and returns its path. Nil salary tables
// are not written.
func WriteDir(t testing.TB, set dataset.Set) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]interface{}{
		dataset.OccupationsFile:  set.Occupations,
		dataset.CountriesFile:    set.Countries,
		dataset.CitiesFile:       set.Cities,
		dataset.BigMacPricesFile: set.BigMacPrices,
	}
	if set.CountrySalaries != nil {
		files[dataset.CountrySalariesFile] = set.CountrySalaries
	}
	if set.CitySalaries != nil {
		files[dataset.CitySalariesFile] = set.CitySalaries
	}

	for name, rows := range files {
		require.NoError(t, dataset.WriteJSON(filepath.Join(dir, name), rows))
	}
	return dir
}

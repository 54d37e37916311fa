// internal/service/percentile.go
package service

import (
	"context"
	"fmt"

	"fairpay/internal/common/errors"
	"fairpay/internal/models"
	"fairpay/internal/salary"

	"go.opentelemetry.io/otel/attribute"
)

// GetPercentileForCountry ranks salaryUSD among the occupation's country estimates. The
// named country's own estimate is left out of the comparators.
func (s *Service) GetPercentileForCountry(ctx context.Context, occupationSlug, countryCode string, salaryUSD float64) (res *PercentileResult, err error) {
	_, done := s.observe(ctx, "GetPercentileForCountry",
		attribute.String("occupation", occupationSlug),
		attribute.String("country", countryCode),
	)
	defer func() { done(err) }()

	occ, country, err := s.lookupOccupationCountry(occupationSlug, countryCode)
	if err != nil {
		return nil, err
	}
	if err := checkSalary(salaryUSD); err != nil {
		return nil, err
	}

	entries := s.tables.CountrySalaries(occ.Slug)
	samples := make([]salary.Sample, len(entries))
	for i, e := range entries {
		samples[i] = salary.Sample{Key: e.CountryCode, Value: float64(e.EstimateUSD)}
	}

	res, err = rank(salaryUSD, samples, country.Code)
	if err != nil {
		return nil, insufficient(err, fmt.Sprintf("no other countries have %s estimates", occ.Slug))
	}
	res.OccupationSlug = occ.Slug
	res.CountryCode = country.Code
	if own, ok := s.tables.CountrySalary(occ.Slug, country.Code); ok {
		res.LocalEstimateUSD = &own.EstimateUSD
	}
	return res, nil
}

// GetPercentileForCity ranks salaryUSD among the occupation's estimates for every city,
// leaving out the named city. The city must belong to countryCode.
func (s *Service) GetPercentileForCity(ctx context.Context, occupationSlug, countryCode, citySlug string, salaryUSD float64) (res *PercentileResult, err error) {
	_, done := s.observe(ctx, "GetPercentileForCity",
		attribute.String("occupation", occupationSlug),
		attribute.String("country", countryCode),
		attribute.String("city", citySlug),
	)
	defer func() { done(err) }()

	occ, country, err := s.lookupOccupationCountry(occupationSlug, countryCode)
	if err != nil {
		return nil, err
	}
	city, err := s.lookupCity(citySlug)
	if err != nil {
		return nil, err
	}
	if city.CountryCode != country.Code {
		return nil, errors.NewNotFoundError("city", fmt.Sprintf("%s in %s", city.Slug, country.Code))
	}
	if err := checkSalary(salaryUSD); err != nil {
		return nil, err
	}

	res, err = rank(salaryUSD, citySamples(s.tables.CitySalaries(occ.Slug)), city.Slug)
	if err != nil {
		return nil, insufficient(err, fmt.Sprintf("no other cities have %s estimates", occ.Slug))
	}
	res.OccupationSlug = occ.Slug
	res.CountryCode = country.Code
	res.CitySlug = city.Slug
	if own, ok := s.tables.CitySalary(occ.Slug, city.Slug); ok {
		res.LocalEstimateUSD = &own.EstimateUSD
	}
	return res, nil
}

func citySamples(entries []models.CitySalaryEntry) []salary.Sample {
	samples := make([]salary.Sample, len(entries))
	for i, e := range entries {
		samples[i] = salary.Sample{Key: e.CitySlug, Value: float64(e.EstimateUSD)}
	}
	return samples
}

func rank(value float64, samples []salary.Sample, self string) (*PercentileResult, error) {
	p, err := salary.PercentileExcluding(value, samples, self)
	if err != nil {
		return nil, err
	}
	comparators := len(samples)
	for _, smp := range samples {
		if smp.Key == self {
			comparators--
		}
	}
	return &PercentileResult{
		SalaryUSD:       value,
		Percentile:      roundPercentile(p),
		Tier:            salary.TierOf(p),
		Label:           salary.FormatPercentile(p),
		ComparatorCount: comparators,
	}, nil
}

func (s *Service) lookupOccupation(slug string) (models.Occupation, error) {
	if err := checkSlug("occupation", slug); err != nil {
		return models.Occupation{}, err
	}
	occ, ok := s.tables.Occupation(normalizeSlug(slug))
	if !ok {
		return models.Occupation{}, errors.NewNotFoundError("occupation", slug)
	}
	return occ, nil
}

func (s *Service) lookupCountry(code string) (models.Country, error) {
	if err := checkSlug("country", code); err != nil {
		return models.Country{}, err
	}
	country, ok := s.tables.Country(code)
	if !ok {
		return models.Country{}, errors.NewNotFoundError("country", normalizeCode(code))
	}
	return country, nil
}

func (s *Service) lookupCity(slug string) (models.City, error) {
	if err := checkSlug("city", slug); err != nil {
		return models.City{}, err
	}
	city, ok := s.tables.City(slug)
	if !ok {
		return models.City{}, errors.NewNotFoundError("city", slug)
	}
	return city, nil
}

func (s *Service) lookupOccupationCountry(occupationSlug, countryCode string) (models.Occupation, models.Country, error) {
	occ, err := s.lookupOccupation(occupationSlug)
	if err != nil {
		return models.Occupation{}, models.Country{}, err
	}
	country, err := s.lookupCountry(countryCode)
	if err != nil {
		return models.Occupation{}, models.Country{}, err
	}
	return occ, country, nil
}

// internal/service/relocation.go
package service

import (
	"context"
	"fmt"

	"fairpay/internal/common/errors"
	"fairpay/internal/models"
	"fairpay/internal/salary"

	"go.opentelemetry.io/otel/attribute"
)

// GetRelocationResult compares an occupation's pay between two cities. Each city is also
// ranked within the occupation's city distribution for display; the ranks do not affect
// the verdict.
func (s *Service) GetRelocationResult(ctx context.Context, occupationSlug, fromCitySlug, toCitySlug string) (res *RelocationResult, err error) {
	_, done := s.observe(ctx, "GetRelocationResult",
		attribute.String("occupation", occupationSlug),
		attribute.String("from", fromCitySlug),
		attribute.String("to", toCitySlug),
	)
	defer func() { done(err) }()

	occ, err := s.lookupOccupation(occupationSlug)
	if err != nil {
		return nil, err
	}
	fromCity, err := s.lookupCity(fromCitySlug)
	if err != nil {
		return nil, err
	}
	toCity, err := s.lookupCity(toCitySlug)
	if err != nil {
		return nil, err
	}

	fromEntry, err := s.citySalary(occ, fromCity)
	if err != nil {
		return nil, err
	}
	toEntry, err := s.citySalary(occ, toCity)
	if err != nil {
		return nil, err
	}

	in := salary.RelocationInput{
		From:         fromEntry,
		To:           toEntry,
		FromCityName: fromCity.Name,
		ToCityName:   toCity.Name,
	}
	if mac, ok := s.tables.BigMac(fromCity.CountryCode); ok {
		in.FromBigMacUSD = mac.USDPrice
	}
	if mac, ok := s.tables.BigMac(toCity.CountryCode); ok {
		in.ToBigMacUSD = mac.USDPrice
	}

	verdict, err := salary.EvaluateRelocation(in)
	if err != nil {
		return nil, insufficient(err, fmt.Sprintf("%s has no usable %s estimate", fromCity.Slug, occ.Slug))
	}

	samples := citySamples(s.tables.CitySalaries(occ.Slug))
	from, err := placement(fromCity, fromEntry, samples)
	if err != nil {
		return nil, insufficient(err, fmt.Sprintf("no other cities have %s estimates", occ.Slug))
	}
	to, err := placement(toCity, toEntry, samples)
	if err != nil {
		return nil, insufficient(err, fmt.Sprintf("no other cities have %s estimates", occ.Slug))
	}

	return &RelocationResult{
		OccupationSlug:   occ.Slug,
		From:             *from,
		To:               *to,
		Verdict:          verdict.Verdict,
		Reason:           verdict.Reason,
		SupportingMetric: verdict.SupportingMetric,
		Metrics:          verdict.Metrics,
	}, nil
}

func (s *Service) citySalary(occ models.Occupation, city models.City) (models.CitySalaryEntry, error) {
	e, ok := s.tables.CitySalary(occ.Slug, city.Slug)
	if !ok {
		return models.CitySalaryEntry{}, errors.NewNotFoundError("city salary", occ.Slug+"/"+city.Slug)
	}
	return e, nil
}

func placement(city models.City, e models.CitySalaryEntry, samples []salary.Sample) (*CityPlacement, error) {
	p, err := salary.PercentileExcluding(float64(e.EstimateUSD), samples, city.Slug)
	if err != nil {
		return nil, err
	}
	return &CityPlacement{
		CitySlug:       city.Slug,
		CityName:       city.Name,
		CountryCode:    city.CountryCode,
		EstimateUSD:    e.EstimateUSD,
		PPPAdjustedUSD: e.PPPAdjustedUSD,
		COLAdjustedUSD: e.COLAdjustedUSD,
		Percentile:     roundPercentile(p),
		Tier:           salary.TierOf(p),
		Label:          salary.FormatPercentile(p),
	}, nil
}

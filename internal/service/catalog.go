// internal/service/catalog.go
package service

import (
	"context"
	"strings"

	"fairpay/internal/common/errors"
	"fairpay/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

func (s *Service) ListOccupations(ctx context.Context) []models.Occupation {
	return s.tables.Occupations()
}

// GetOccupation returns the occupation with its country estimates in country table order.
func (s *Service) GetOccupation(ctx context.Context, slug string) (*OccupationDetail, error) {
	occ, err := s.lookupOccupation(slug)
	if err != nil {
		return nil, err
	}

	entries := s.tables.CountrySalaries(occ.Slug)
	detail := &OccupationDetail{Occupation: occ, Countries: make([]CountryEstimate, 0, len(entries))}
	for _, e := range entries {
		country, _ := s.tables.Country(e.CountryCode)
		detail.Countries = append(detail.Countries, CountryEstimate{
			CountryCode:    e.CountryCode,
			CountryName:    country.Name,
			Flag:           country.Flag,
			EstimateUSD:    e.EstimateUSD,
			PPPAdjustedUSD: e.PPPAdjustedUSD,
		})
	}
	return detail, nil
}

func (s *Service) ListCountries(ctx context.Context) []models.Country {
	return s.tables.Countries()
}

// ListCities returns the cities of a country in table order.
func (s *Service) ListCities(ctx context.Context, countryCode string) ([]models.City, error) {
	country, err := s.lookupCountry(countryCode)
	if err != nil {
		return nil, err
	}
	cities := s.tables.CitiesIn(country.Code)
	if cities == nil {
		cities = []models.City{}
	}
	return cities, nil
}

// SearchOccupations finds occupations for the occupation picker. limit ≤ 0 selects the
// configured default.
func (s *Service) SearchOccupations(ctx context.Context, query string, limit int) (occs []models.Occupation, err error) {
	ctx, done := s.observe(ctx, "SearchOccupations", attribute.String("searcher", s.searcher.Name()))
	defer func() { done(err) }()

	switch {
	case limit <= 0:
		limit = s.searchLimit
	case limit > maxSearchLimit:
		limit = maxSearchLimit
	}

	occs, err = s.searcher.Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		if _, ok := errors.AsStandardError(err); ok {
			return nil, err
		}
		return nil, errors.NewSearchQueryFailedError(err)
	}
	if occs == nil {
		occs = []models.Occupation{}
	}
	return occs, nil
}

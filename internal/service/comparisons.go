// internal/service/comparisons.go
package service

import (
	"context"
	"fmt"
	"strconv"

	"fairpay/internal/common/cache"
	"fairpay/internal/models"
	"fairpay/internal/salary"

	"go.opentelemetry.io/otel/attribute"
)

// GetCountryComparisons builds the country table for an occupation and ranks the user's
// salary among the other countries' estimates. userCountryCode may be empty.
func (s *Service) GetCountryComparisons(ctx context.Context, occupationSlug string, userSalaryUSD float64, userCountryCode string) (res *ComparisonResult, err error) {
	ctx, done := s.observe(ctx, "GetCountryComparisons",
		attribute.String("occupation", occupationSlug),
		attribute.String("country", userCountryCode),
	)
	defer func() { done(err) }()

	occ, err := s.lookupOccupation(occupationSlug)
	if err != nil {
		return nil, err
	}
	var userCountry models.Country
	if userCountryCode != "" {
		if userCountry, err = s.lookupCountry(userCountryCode); err != nil {
			return nil, err
		}
	}
	if err := checkSalary(userSalaryUSD); err != nil {
		return nil, err
	}

	key := cache.Key(s.tables.Fingerprint(), "comparisons", occ.Slug, userCountry.Code,
		strconv.FormatFloat(userSalaryUSD, 'f', -1, 64))
	out, err := cache.Fetch(ctx, s.cache, s.logger, key, func() (ComparisonResult, error) {
		r, err := s.buildComparisons(occ, userSalaryUSD, userCountry.Code)
		if err != nil {
			return ComparisonResult{}, err
		}
		return *r, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) buildComparisons(occ models.Occupation, userSalaryUSD float64, userCountry string) (*ComparisonResult, error) {
	entries := s.tables.CountrySalaries(occ.Slug)

	rows, err := salary.BuildComparisons(userSalaryUSD, entries, s.cfg.SimilarTolerance)
	if err != nil {
		return nil, insufficient(err, fmt.Sprintf("fewer than two countries have %s estimates", occ.Slug))
	}

	samples := make([]salary.Sample, len(entries))
	for i, e := range entries {
		samples[i] = salary.Sample{Key: e.CountryCode, Value: float64(e.EstimateUSD)}
	}
	user, err := salary.PercentileExcluding(userSalaryUSD, samples, userCountry)
	if err != nil {
		return nil, insufficient(err, fmt.Sprintf("no other countries have %s estimates", occ.Slug))
	}

	res := &ComparisonResult{
		OccupationSlug:  occ.Slug,
		UserSalaryUSD:   userSalaryUSD,
		UserCountryCode: userCountry,
		UserPercentile:  roundPercentile(user),
		UserTier:        salary.TierOf(user),
		UserLabel:       salary.FormatPercentile(user),
		Comparisons:     make([]CountryComparison, 0, len(rows)),
	}
	for _, r := range rows {
		country, _ := s.tables.Country(r.Entry.CountryCode)
		res.Comparisons = append(res.Comparisons, CountryComparison{
			CountryCode:       r.Entry.CountryCode,
			CountryName:       country.Name,
			Flag:              country.Flag,
			EstimateUSD:       r.Entry.EstimateUSD,
			PPPAdjustedUSD:    r.Entry.PPPAdjustedUSD,
			Percentile:        roundPercentile(r.Percentile),
			Position:          r.Position,
			DifferencePercent: r.DifferencePercent,
			IsUserCountry:     r.Entry.CountryCode == userCountry,
		})
	}
	return res, nil
}

// internal/service/convert.go
package service

import (
	"context"
	"strings"

	"fairpay/internal/common/errors"
	"fairpay/internal/salary"
)

const (
	CurrencyUSD   = "usd"
	CurrencyLocal = "local"
)

// ConvertSalary annualizes an amount reported per period and, for local currency,
// converts it to USD with the country's exchange rate.
func (s *Service) ConvertSalary(ctx context.Context, amount float64, period, countryCode, currency string) (*ConvertedSalary, error) {
	if err := checkSalary(amount); err != nil {
		return nil, err
	}
	p, err := salary.ParsePeriod(period)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	annual, err := salary.ToAnnual(amount, p)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}

	out := &ConvertedSalary{
		Amount:      amount,
		Period:      p,
		Currency:    CurrencyUSD,
		AnnualLocal: annual,
		AnnualUSD:   salary.RoundTo(annual, 2),
	}

	switch strings.ToLower(strings.TrimSpace(currency)) {
	case "", CurrencyUSD:
		if countryCode != "" {
			out.CountryCode = normalizeCode(countryCode)
		}
		return out, nil
	case CurrencyLocal:
		if countryCode == "" {
			return nil, errors.NewInvalidInputError("country is required for local currency")
		}
		country, err := s.lookupCountry(countryCode)
		if err != nil {
			return nil, err
		}
		usd, err := salary.ToUSD(annual, country.USDExchangeRate)
		if err != nil {
			return nil, errors.NewInvalidInputError(err.Error())
		}
		out.Currency = country.Currency
		out.CountryCode = country.Code
		out.AnnualUSD = salary.RoundTo(usd, 2)
		return out, nil
	default:
		return nil, errors.NewInvalidInputError("currency must be usd or local")
	}
}

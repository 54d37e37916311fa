// internal/salary/period.go
package salary

import (
	"fmt"
	"math"
	"strings"
)

// Period is the pay interval a salary was reported in.
type Period string

const (
	PeriodHourly  Period = "hourly"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAnnual  Period = "annual"
)

const (
	HoursPerYear  = 2080
	WeeksPerYear  = 52
	MonthsPerYear = 12
)

// ParsePeriod accepts the canonical names and common aliases. Empty means annual.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "annual", "annually", "year", "yearly":
		return PeriodAnnual, nil
	case "hourly", "hour":
		return PeriodHourly, nil
	case "weekly", "week":
		return PeriodWeekly, nil
	case "monthly", "month":
		return PeriodMonthly, nil
	default:
		return "", fmt.Errorf("unknown pay period %q", s)
	}
}

// ToAnnual converts an amount paid per period into a yearly amount.
func ToAnnual(amount float64, p Period) (float64, error) {
	if err := checkAmount(amount); err != nil {
		return 0, err
	}
	switch p {
	case PeriodAnnual, "":
		return amount, nil
	case PeriodHourly:
		return amount * HoursPerYear, nil
	case PeriodWeekly:
		return amount * WeeksPerYear, nil
	case PeriodMonthly:
		return amount * MonthsPerYear, nil
	default:
		return 0, fmt.Errorf("unknown pay period %q", p)
	}
}

// ToUSD converts a local-currency amount using a rate of local units per USD.
func ToUSD(localAmount, usdExchangeRate float64) (float64, error) {
	if err := checkAmount(localAmount); err != nil {
		return 0, err
	}
	if !(usdExchangeRate > 0) || math.IsInf(usdExchangeRate, 0) {
		return 0, fmt.Errorf("invalid exchange rate %v", usdExchangeRate)
	}
	return localAmount / usdExchangeRate, nil
}

func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("amount must be a positive number, got %v", amount)
	}
	return nil
}

// internal/salary/relocation.go
package salary

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"fairpay/internal/models"
)

// Verdict is the relocation recommendation.
type Verdict string

const (
	VerdictStrongYes Verdict = "strong-yes"
	VerdictYes       Verdict = "yes"
	VerdictNeutral   Verdict = "neutral"
	VerdictNo        Verdict = "no"
	VerdictStrongNo  Verdict = "strong-no"
)

// Metric names the change a verdict's reason is drawn from.
type Metric string

const (
	MetricNominal      Metric = "nominal"
	MetricCostOfLiving Metric = "cost-of-living"
	MetricBigMac       Metric = "big-mac"
)

// ClassifyVerdict maps the cost-of-living adjusted change (percent) onto a verdict.
func ClassifyVerdict(colChangePercent float64) Verdict {
	switch {
	case colChangePercent >= 15:
		return VerdictStrongYes
	case colChangePercent >= 5:
		return VerdictYes
	case colChangePercent >= -5:
		return VerdictNeutral
	case colChangePercent > -15:
		return VerdictNo
	default:
		return VerdictStrongNo
	}
}

func (v Verdict) favorable() bool   { return v == VerdictStrongYes || v == VerdictYes }
func (v Verdict) unfavorable() bool { return v == VerdictNo || v == VerdictStrongNo }

// RelocationInput describes a move between two cities for one occupation.
// A zero Big Mac price means the price is unknown.
type RelocationInput struct {
	From          models.CitySalaryEntry
	To            models.CitySalaryEntry
	FromCityName  string
	ToCityName    string
	FromBigMacUSD float64
	ToBigMacUSD   float64
}

// RelocationMetrics are percentage changes from the origin to the destination,
// rounded to one decimal.
type RelocationMetrics struct {
	NominalChangePercent     float64  `json:"nominalChangePercent"`
	COLAdjustedChangePercent float64  `json:"colAdjustedChangePercent"`
	BigMacChangePercent      *float64 `json:"bigMacChangePercent,omitempty"`
	FromBigMacs              *int64   `json:"fromBigMacs,omitempty"`
	ToBigMacs                *int64   `json:"toBigMacs,omitempty"`
}

type RelocationVerdict struct {
	Verdict          Verdict           `json:"verdict"`
	Reason           string            `json:"reason"`
	SupportingMetric Metric            `json:"supportingMetric"`
	Metrics          RelocationMetrics `json:"metrics"`
}

type metricChange struct {
	metric Metric
	change float64
}

// EvaluateRelocation computes the change metrics and the verdict for a move.
func EvaluateRelocation(in RelocationInput) (*RelocationVerdict, error) {
	if in.From.EstimateUSD <= 0 || in.From.COLAdjustedUSD <= 0 {
		return nil, ErrInsufficientData
	}

	nominal := percentChange(float64(in.From.EstimateUSD), float64(in.To.EstimateUSD))
	col := percentChange(float64(in.From.COLAdjustedUSD), float64(in.To.COLAdjustedUSD))

	changes := []metricChange{
		{metric: MetricNominal, change: nominal},
		{metric: MetricCostOfLiving, change: col},
	}

	metrics := RelocationMetrics{
		NominalChangePercent:     RoundTo(nominal, 1),
		COLAdjustedChangePercent: RoundTo(col, 1),
	}

	var fromMacs, toMacs float64
	if in.FromBigMacUSD > 0 && in.ToBigMacUSD > 0 {
		fromMacs = float64(in.From.EstimateUSD) / in.FromBigMacUSD
		toMacs = float64(in.To.EstimateUSD) / in.ToBigMacUSD
		bm := percentChange(fromMacs, toMacs)
		changes = append(changes, metricChange{metric: MetricBigMac, change: bm})

		rounded := RoundTo(bm, 1)
		fromCount, toCount := RoundUSD(fromMacs), RoundUSD(toMacs)
		metrics.BigMacChangePercent = &rounded
		metrics.FromBigMacs = &fromCount
		metrics.ToBigMacs = &toCount
	}

	verdict := ClassifyVerdict(col)
	support := supportingMetric(verdict, changes)

	return &RelocationVerdict{
		Verdict:          verdict,
		Reason:           reason(verdict, support, in, fromMacs, toMacs),
		SupportingMetric: support.metric,
		Metrics:          metrics,
	}, nil
}

func percentChange(from, to float64) float64 {
	return (to - from) / from * 100
}

// supportingMetric picks the largest change for favorable verdicts, the smallest for
// unfavorable ones and the one closest to zero otherwise. Earlier metrics win ties.
func supportingMetric(v Verdict, changes []metricChange) metricChange {
	best := changes[0]
	for _, c := range changes[1:] {
		switch {
		case v.favorable():
			if c.change > best.change {
				best = c
			}
		case v.unfavorable():
			if c.change < best.change {
				best = c
			}
		default:
			if math.Abs(c.change) < math.Abs(best.change) {
				best = c
			}
		}
	}
	return best
}

var verdictLead = map[Verdict]string{
	VerdictStrongYes: "Strong financial case for moving.",
	VerdictYes:       "Moving looks worthwhile.",
	VerdictNeutral:   "Financially it is roughly a wash.",
	VerdictNo:        "Moving would likely leave you worse off.",
	VerdictStrongNo:  "Moving would leave you much worse off.",
}

func reason(v Verdict, support metricChange, in RelocationInput, fromMacs, toMacs float64) string {
	from, to := placeName(in.FromCityName, in.From.CitySlug), placeName(in.ToCityName, in.To.CitySlug)
	pct := fmt.Sprintf("%+.1f%%", RoundTo(support.change, 1))

	var detail string
	switch support.metric {
	case MetricCostOfLiving:
		detail = fmt.Sprintf("After cost of living your pay is worth $%s in %s versus $%s in %s (%s).",
			humanize.Comma(in.To.COLAdjustedUSD), to, humanize.Comma(in.From.COLAdjustedUSD), from, pct)
	case MetricBigMac:
		detail = fmt.Sprintf("Your pay buys %s Big Macs a year in %s versus %s in %s (%s).",
			humanize.Comma(RoundUSD(toMacs)), to, humanize.Comma(RoundUSD(fromMacs)), from, pct)
	default:
		detail = fmt.Sprintf("Typical pay goes from $%s in %s to $%s in %s (%s).",
			humanize.Comma(in.From.EstimateUSD), from, humanize.Comma(in.To.EstimateUSD), to, pct)
	}
	return verdictLead[v] + " " + detail
}

func placeName(name, slug string) string {
	if name != "" {
		return name
	}
	return slug
}

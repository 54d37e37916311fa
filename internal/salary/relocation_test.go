// internal/salary/relocation_test.go
package salary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairpay/internal/models"
)

var (
	seNewYork   = models.CitySalaryEntry{OccupationSlug: "software-engineer", CountryCode: "US", CitySlug: "new-york", EstimateUSD: 207360, PPPAdjustedUSD: 207360, COLAdjustedUSD: 129600}
	seAustin    = models.CitySalaryEntry{OccupationSlug: "software-engineer", CountryCode: "US", CitySlug: "austin", EstimateUSD: 142560, PPPAdjustedUSD: 142560, COLAdjustedUSD: 129600}
	seCleveland = models.CitySalaryEntry{OccupationSlug: "software-engineer", CountryCode: "US", CitySlug: "cleveland", EstimateUSD: 102000, PPPAdjustedUSD: 102000, COLAdjustedUSD: 120000}
	seBangalore = models.CitySalaryEntry{OccupationSlug: "software-engineer", CountryCode: "IN", CitySlug: "bangalore", EstimateUSD: 23328, PPPAdjustedUSD: 46656, COLAdjustedUSD: 19440}
)

func TestClassifyVerdict(t *testing.T) {
	tests := []struct {
		change float64
		want   Verdict
	}{
		{40, VerdictStrongYes},
		{15, VerdictStrongYes},
		{14.99, VerdictYes},
		{8, VerdictYes},
		{5, VerdictYes},
		{4.99, VerdictNeutral},
		{0, VerdictNeutral},
		{-5, VerdictNeutral},
		{-5.01, VerdictNo},
		{-14.99, VerdictNo},
		{-15, VerdictStrongNo},
		{-85, VerdictStrongNo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyVerdict(tt.change), "change %v", tt.change)
	}
}

func TestClassifyVerdict_Monotonic(t *testing.T) {
	rank := map[Verdict]int{VerdictStrongNo: 0, VerdictNo: 1, VerdictNeutral: 2, VerdictYes: 3, VerdictStrongYes: 4}
	prev := -1
	for c := -50.0; c <= 50; c += 0.5 {
		r := rank[ClassifyVerdict(c)]
		assert.GreaterOrEqual(t, r, prev)
		prev = r
	}
}

func TestEvaluateRelocation_Yes(t *testing.T) {
	res, err := EvaluateRelocation(RelocationInput{
		From:         seCleveland,
		To:           seNewYork,
		FromCityName: "Cleveland",
		ToCityName:   "New York",
	})
	require.NoError(t, err)

	assert.Equal(t, VerdictYes, res.Verdict)
	assert.Equal(t, 8.0, res.Metrics.COLAdjustedChangePercent)
	assert.Equal(t, 103.3, res.Metrics.NominalChangePercent)
	assert.Nil(t, res.Metrics.BigMacChangePercent)
	assert.Nil(t, res.Metrics.FromBigMacs)

	assert.Equal(t, MetricNominal, res.SupportingMetric)
	assert.Contains(t, res.Reason, "Moving looks worthwhile.")
	assert.Contains(t, res.Reason, "$102,000 in Cleveland to $207,360 in New York")
}

func TestEvaluateRelocation_NeutralUsesSmallestChange(t *testing.T) {
	res, err := EvaluateRelocation(RelocationInput{
		From:          seNewYork,
		To:            seAustin,
		FromBigMacUSD: 5.58,
		ToBigMacUSD:   5.58,
	})
	require.NoError(t, err)

	assert.Equal(t, VerdictNeutral, res.Verdict)
	assert.Equal(t, MetricCostOfLiving, res.SupportingMetric)
	assert.Equal(t, 0.0, res.Metrics.COLAdjustedChangePercent)
	assert.Contains(t, res.Reason, "After cost of living")
	assert.Contains(t, res.Reason, "austin")

	require.NotNil(t, res.Metrics.BigMacChangePercent)
	assert.InDelta(t, -31.25, *res.Metrics.BigMacChangePercent, 0.051)
	assert.Equal(t, int64(37161), *res.Metrics.FromBigMacs)
	assert.Equal(t, int64(25548), *res.Metrics.ToBigMacs)
}

func TestEvaluateRelocation_StrongNoUsesSmallest(t *testing.T) {
	res, err := EvaluateRelocation(RelocationInput{
		From:          seNewYork,
		To:            seBangalore,
		FromCityName:  "New York",
		ToCityName:    "Bangalore",
		FromBigMacUSD: 5.58,
		ToBigMacUSD:   2.79,
	})
	require.NoError(t, err)

	assert.Equal(t, VerdictStrongNo, res.Verdict)
	assert.Equal(t, -85.0, res.Metrics.COLAdjustedChangePercent)
	assert.Equal(t, MetricNominal, res.SupportingMetric)
	assert.Contains(t, res.Reason, "$207,360")
	assert.Contains(t, res.Reason, "$23,328")
	assert.Contains(t, res.Reason, "(-88.")
}

func TestEvaluateRelocation_StrongYesUsesLargest(t *testing.T) {
	res, err := EvaluateRelocation(RelocationInput{
		From:          seBangalore,
		To:            seNewYork,
		FromBigMacUSD: 2.79,
		ToBigMacUSD:   5.58,
	})
	require.NoError(t, err)

	assert.Equal(t, VerdictStrongYes, res.Verdict)
	assert.Equal(t, MetricNominal, res.SupportingMetric)
	require.NotNil(t, res.Metrics.BigMacChangePercent)
	assert.Less(t, *res.Metrics.BigMacChangePercent, res.Metrics.NominalChangePercent)
}

func TestEvaluateRelocation_BigMacSupportsWhenLargest(t *testing.T) {
	from := models.CitySalaryEntry{CitySlug: "a", EstimateUSD: 100000, COLAdjustedUSD: 100000}
	to := models.CitySalaryEntry{CitySlug: "b", EstimateUSD: 110000, COLAdjustedUSD: 120000}

	res, err := EvaluateRelocation(RelocationInput{From: from, To: to, FromBigMacUSD: 5, ToBigMacUSD: 2.5})
	require.NoError(t, err)

	assert.Equal(t, VerdictStrongYes, res.Verdict)
	assert.Equal(t, MetricBigMac, res.SupportingMetric)
	assert.Contains(t, res.Reason, "44,000 Big Macs")
	assert.Contains(t, res.Reason, "20,000")
}

func TestEvaluateRelocation_InsufficientData(t *testing.T) {
	_, err := EvaluateRelocation(RelocationInput{From: models.CitySalaryEntry{}, To: seNewYork})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

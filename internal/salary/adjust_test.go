// internal/salary/adjust_test.go
package salary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fairpay/internal/models"
)

func TestNormalizer_PPPAdjust(t *testing.T) {
	n := NewNormalizer(DefaultConfig())

	tests := []struct {
		name      string
		estimate  int64
		country   float64
		reference float64
		want      int64
	}{
		{"cheaper country raises purchasing power", 50000, 3.00, 5.58, 93000},
		{"exact half rounds up", 43875, 6.20, 5.58, 39488},
		{"reference country unchanged", 120000, 5.58, 5.58, 120000},
		{"missing country price", 120000, 0, 5.58, 120000},
		{"negative country price", 120000, -1, 5.58, 120000},
		{"missing reference uses fallback", 50000, 3.00, 0, 93000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.PPPAdjust(tt.estimate, tt.country, tt.reference))
		})
	}
}

func TestNormalizer_ReferenceBigMac(t *testing.T) {
	n := NewNormalizer(DefaultConfig())

	assert.Equal(t, 5.69, n.ReferenceBigMac(models.BigMacPrice{CountryCode: "US", USDPrice: 5.69}, true))
	assert.Equal(t, 5.58, n.ReferenceBigMac(models.BigMacPrice{}, false))
	assert.Equal(t, 5.58, n.ReferenceBigMac(models.BigMacPrice{CountryCode: "US"}, true))
}

func TestCOLAdjust(t *testing.T) {
	tests := []struct {
		name       string
		estimate   int64
		multiplier float64
		want       int64
	}{
		{"expensive city", 207360, 1.6, 129600},
		{"cheap city", 102000, 0.85, 120000},
		{"rounds down", 1000, 3, 333},
		{"half rounds up", 1001, 2, 501},
		{"zero multiplier falls back", 100, 0, 100},
		{"negative multiplier falls back", 100, -2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, COLAdjust(tt.estimate, tt.multiplier))
		})
	}
}

func TestRoundUSD(t *testing.T) {
	assert.Equal(t, int64(3), RoundUSD(2.5))
	assert.Equal(t, int64(2), RoundUSD(2.49))
	assert.Equal(t, int64(0), RoundUSD(0))
	assert.Equal(t, 7.1, RoundTo(7.142857, 1))
}

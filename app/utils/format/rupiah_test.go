package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRupiah(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1000, "Rp 1.000"},
		{75000, "Rp 75.000"},
		{1234567, "Rp 1.234.567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Rupiah(decimal.NewFromInt(tt.amount)))
	}
}

func TestRupiahNegative(t *testing.T) {
	assert.Equal(t, "-Rp 25.000", Rupiah(decimal.NewFromInt(-25000)))
}

func TestRupiahRoundsFraction(t *testing.T) {
	assert.Equal(t, "Rp 80.000", Rupiah(decimal.NewFromFloat(79999.50)))
}

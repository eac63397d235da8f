package money_test

import (
	"testing"

	"github.com/sangkips/billing-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1000", 100000},
		{"400.00", 40000},
		{"0.01", 1},
		{"0.005", 1},
		{"0.004", 0},
		{"12.345", 1235},
		{"-12.345", -1235},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, money.FromDecimal(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestToFloatAndFormat(t *testing.T) {
	assert.Equal(t, 275.0, money.ToFloat(27500))
	assert.Equal(t, 0.01, money.ToFloat(1))
	assert.Equal(t, "600.00", money.Format(60000))
	assert.Equal(t, "0.05", money.Format(5))
	assert.Equal(t, int64(1999), money.FromFloat(19.99))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, int64(25000), money.LineTotal(decimal.NewFromInt(1), 25000))
	assert.Equal(t, int64(3750), money.LineTotal(decimal.RequireFromString("1.5"), 2500))
	// 0.333 × 1.00 = 0.333 -> 33 cents
	assert.Equal(t, int64(33), money.LineTotal(decimal.RequireFromString("0.333"), 100))
}

func TestTaxIsRoundedOnce(t *testing.T) {
	rate := decimal.NewFromInt(10)
	assert.Equal(t, int64(2500), money.RoundCents(money.TaxPortion(25000, rate)))

	// Three lines of 0.05 at 10% give 0.5 cents each; rounding the sum
	// yields 2 cents where rounding each line would give 3.
	sum := decimal.Zero
	for i := 0; i < 3; i++ {
		sum = sum.Add(money.TaxPortion(5, rate))
	}
	assert.Equal(t, int64(2), money.RoundCents(sum))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 40.0, money.Percentage(40000, 100000))
	assert.Equal(t, 33.33, money.Percentage(1, 3))
	assert.Equal(t, 0.0, money.Percentage(10, 0))
}

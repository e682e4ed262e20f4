package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRound2_MitadAlejandoseDeCero(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"-1.005", "-1.01"},
		{"2.675", "2.68"},
		{"333.3333", "333.33"},
	}
	for _, c := range cases {
		assert.True(t, d(c.want).Equal(Round2(d(c.in))), "Round2(%s)", c.in)
	}
}

func TestApplyPercentage(t *testing.T) {
	assert.Equal(t, "500", ApplyPercentage(d("10000"), d("5")).String())
	assert.Equal(t, "0.33", ApplyPercentage(d("6.67"), d("5")).String())
	assert.True(t, ApplyPercentage(d("0"), d("5")).IsZero())
}

func TestPercentageOf(t *testing.T) {
	assert.Equal(t, "5", PercentageOf(d("500"), d("10000")).String())
	assert.True(t, PercentageOf(d("10"), decimal.Zero).IsZero())
}

func TestMax0MinSum(t *testing.T) {
	assert.True(t, Max0(d("-3")).IsZero())
	assert.Equal(t, "3", Max0(d("3")).String())
	assert.Equal(t, "1", Min(d("1"), d("2")).String())
	assert.Equal(t, "0.3", Sum(d("0.1"), d("0.2")).String())
}

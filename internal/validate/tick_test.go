package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundToTick(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"150.00", "150"},
		{"150.004", "150"},
		{"150.005", "150.01"},
		{"2.456", "2.46"},
		{"0.009", "0.01"},
		{"0.004", "0"},
	}
	for _, tc := range cases {
		got := RoundToTick(decimal.RequireFromString(tc.in))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"RoundToTick(%s) = %s, want %s", tc.in, got, tc.want)
	}
}

func TestRoundToTickIdempotent(t *testing.T) {
	for _, in := range []string{"150.004", "2.456", "0.009", "17.23"} {
		once := RoundToTick(decimal.RequireFromString(in))
		twice := RoundToTick(once)
		assert.True(t, once.Equal(twice), "rounding %s twice moved the price", in)
	}
}

func TestOnTick(t *testing.T) {
	assert.True(t, OnTick(decimal.RequireFromString("150.01")))
	assert.True(t, OnTick(decimal.RequireFromString("150")))
	assert.False(t, OnTick(decimal.RequireFromString("150.004")))
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippingPriceRegular(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		want  int64
	}{
		{"below threshold", 100000, 15000},
		{"just below threshold", 199999, 29999}, // floor(199999 * 0.15)
		{"at threshold", 200000, 40000},
		{"above threshold", 1000000, 200000},
		{"zero", 0, 0},
		{"truncates not rounds", 199, 29}, // 199 * 0.15 = 29.85
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShippingPrice(tt.total, ShippingRegular))
		})
	}
}

func TestShippingPriceNextDay(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		want  int64
	}{
		{"below threshold", 100000, 20000},
		{"just below threshold", 299999, 59999}, // floor(299999 * 0.2)
		{"at threshold", 300000, 75000},
		{"above threshold", 1000000, 250000},
		{"truncates not rounds", 99, 19}, // 99 * 0.2 = 19.8
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShippingPrice(tt.total, ShippingNextDay))
		})
	}
}

func TestShippingQuotes(t *testing.T) {
	quotes := ShippingQuotes(100000)

	require.Len(t, quotes, 2)
	assert.Equal(t, "Regular", quotes[0].Name)
	assert.Equal(t, int64(15000), quotes[0].Price)
	assert.Equal(t, "Next Day", quotes[1].Name)
	assert.Equal(t, int64(20000), quotes[1].Price)
}

func TestParseShippingMethod(t *testing.T) {
	method, err := ParseShippingMethod("Regular")
	require.NoError(t, err)
	assert.Equal(t, ShippingRegular, method)

	method, err = ParseShippingMethod("Next Day")
	require.NoError(t, err)
	assert.Equal(t, ShippingNextDay, method)

	method, err = ParseShippingMethod("NextDay")
	require.NoError(t, err)
	assert.Equal(t, ShippingNextDay, method)

	_, err = ParseShippingMethod("Drone")
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "shipping_method", invalid.Field)
}

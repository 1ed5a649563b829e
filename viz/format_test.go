package viz

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{1234567, "1.23e+6"},
		{-1234567, "-1.23e+6"},
		{1e6, "1.00e+6"},
		{12345, "12,345"},
		{-42, "-42"},
		{999999, "999,999"},
		{3.14159, "3.142"},
		{1.5, "1.500"},
		{0.5, "0.5000"},
		{123.456, "123.5"},
		{9999.5, "1.000e+4"},
		{0.001, "1.00e-3"},
		{0.00999, "9.99e-3"},
		{0.01, "0.01000"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, FormatNumber(tt.input), tt.expected)
		})
	}
}

func TestTrimExponent(t *testing.T) {
	assert.Equal(t, trimExponent("1.00e+06"), "1.00e+6")
	assert.Equal(t, trimExponent("1.00e-10"), "1.00e-10")
	assert.Equal(t, trimExponent("5.00e+00"), "5.00e+0")
	assert.Equal(t, trimExponent("123"), "123")
}

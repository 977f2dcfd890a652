package format

import (
	"testing"

	"github.com/amanahdev/zakat-engine/pkg/constants"
)

func TestCurrencyUSD(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{name: "fitrah total", amount: 11.65, expected: "$11.65"},
		{name: "whole amount", amount: 240, expected: "$240.00"},
		{name: "grouped", amount: 9600, expected: "$9,600.00"},
		{name: "rounded to two decimals", amount: 227.9195, expected: "$227.92"},
		{name: "zero", amount: 0, expected: "$0.00"},
		{name: "negative", amount: -1234.5, expected: "-$1,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount, constants.CurrencyUSD); got != tt.expected {
				t.Errorf("Currency(%v, USD) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestCurrencyIDR(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{name: "fallback rate", amount: 15800, expected: "Rp15.800"},
		{name: "fractions dropped", amount: 15800.75, expected: "Rp15.801"},
		{name: "large amount", amount: 36814000, expected: "Rp36.814.000"},
		{name: "small amount ungrouped", amount: 500, expected: "Rp500"},
		{name: "zero", amount: 0, expected: "Rp0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount, constants.CurrencyIDR); got != tt.expected {
				t.Errorf("Currency(%v, IDR) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumeric(t *testing.T) {
	if got := Numeric(1234.5, constants.CurrencyUSD); got != "1234.50" {
		t.Errorf("Numeric USD = %q, expected 1234.50", got)
	}
	if got := Numeric(15800.4, constants.CurrencyIDR); got != "15800" {
		t.Errorf("Numeric IDR = %q, expected 15800", got)
	}
}

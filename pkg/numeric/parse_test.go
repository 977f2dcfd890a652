package numeric

import "testing"

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "plain number", input: "1234.56", expected: 1234.56},
		{name: "surrounding whitespace", input: "  42 ", expected: 42},
		{name: "empty", input: "", expected: 0},
		{name: "whitespace only", input: "   ", expected: 0},
		{name: "not a number", input: "abc", expected: 0},
		{name: "negative coerced to zero", input: "-5", expected: 0},
		{name: "zero", input: "0", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Amount(tt.input); got != tt.expected {
				t.Errorf("Amount(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHeadcount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "valid count", input: "5", expected: 5},
		{name: "one", input: "1", expected: 1},
		{name: "zero coerced", input: "0", expected: 1},
		{name: "negative coerced", input: "-2", expected: 1},
		{name: "empty coerced", input: "", expected: 1},
		{name: "not a number coerced", input: "family", expected: 1},
		{name: "fractional coerced", input: "2.5", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Headcount(tt.input); got != tt.expected {
				t.Errorf("Headcount(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-10); got != 0 {
		t.Errorf("Clamp(-10) = %v, expected 0", got)
	}
	if got := Clamp(10); got != 10 {
		t.Errorf("Clamp(10) = %v, expected 10", got)
	}
}

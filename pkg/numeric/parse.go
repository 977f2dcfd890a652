// Package numeric provides lenient parsing for user-entered figures.
// Form fields arrive as free text; anything that does not parse as a
// non-negative number is treated as zero rather than rejected.
package numeric

import (
	"strconv"
	"strings"
)

// Amount parses a user-entered monetary or weight figure. Empty, malformed,
// or negative input yields 0.
func Amount(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || val < 0 {
		return 0
	}
	return val
}

// Headcount parses a person count for Fitrah. Anything that is not a
// positive integer is coerced to the minimum of 1.
func Headcount(s string) int {
	trimmed := strings.TrimSpace(s)
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Clamp returns the value itself when non-negative, otherwise 0. Used for
// figures that arrive already numeric (API requests).
func Clamp(val float64) float64 {
	if val < 0 {
		return 0
	}
	return val
}

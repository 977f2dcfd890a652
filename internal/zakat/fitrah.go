package zakat

import (
	"github.com/amanahdev/zakat-engine/pkg/constants"
)

// FitrahResult is the outcome of a Fitrah calculation.
type FitrahResult struct {
	Headcount int
	PerHead   float64 // display currency
	Total     float64 // display currency
	Coerced   bool    // headcount was invalid and raised to 1
}

// Fitrah scales the fixed per-head obligation by headcount in the display
// currency. A headcount below 1 is coerced to 1 and flagged for the caller's
// advisory messaging rather than rejected.
func Fitrah(headcount int, r Rates) FitrahResult {
	coerced := false
	if headcount < 1 {
		headcount = 1
		coerced = true
	}

	perHead := r.FX.Convert(constants.FitrahPerHeadUSD)
	return FitrahResult{
		Headcount: headcount,
		PerHead:   perHead,
		Total:     float64(headcount) * perHead,
		Coerced:   coerced,
	}
}

// Package calc runs the calculations requested in the configuration and
// carries the advisory messaging shared by the CLI and the HTTP API.
package calc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/amanahdev/zakat-engine/internal/config"
	"github.com/amanahdev/zakat-engine/internal/metrics"
	"github.com/amanahdev/zakat-engine/internal/nisab"
	"github.com/amanahdev/zakat-engine/internal/rates"
	"github.com/amanahdev/zakat-engine/internal/zakat"
	"github.com/amanahdev/zakat-engine/pkg/numeric"
)

// Summary holds one evaluated request together with the effective threshold
// and advisory messages for display.
type Summary struct {
	Name      string
	Category  zakat.CategoryID
	Currency  string
	Threshold float64
	Rate      float64
	Result    zakat.Result
	Fitrah    *zakat.FitrahResult
	Messages  []string
}

// Run evaluates every request in the configuration against the given feed
// snapshots. Requests never fail; malformed figures are coerced to zero and
// surfaced through the advisory messages.
func Run(logger *zap.Logger, conf config.Configuration, nisabState nisab.State, fx rates.Snapshot) []Summary {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := zakat.Rates{
		GoldPriceUSD: nisabState.GoldPriceUSD,
		NisabUSD:     nisabState.ThresholdUSD,
		FX:           fx,
	}

	summaries := make([]Summary, 0, len(conf.Requests))
	for _, req := range conf.Requests {
		school := zakat.SchoolID(req.School)
		if req.School == "" {
			school = zakat.SchoolID(conf.School)
		}

		if req.Category == "fitrah" {
			summaries = append(summaries, runFitrah(req, r, fx))
			continue
		}

		categoryID := zakat.CategoryID(req.Category)
		eff := zakat.Resolve(categoryID, school, r)
		result := zakat.Evaluate(categoryID, requestInputs(req), eff, r)
		metrics.CalculationsTotal.WithLabelValues(string(result.Category), fmt.Sprintf("%t", result.IsObligated)).Inc()

		logger.Debug("request evaluated",
			zap.String("op", "calc.Run"),
			zap.String("name", req.Name),
			zap.String("category", string(result.Category)),
			zap.Bool("obligated", result.IsObligated),
		)

		summaries = append(summaries, Summary{
			Name:      req.Name,
			Category:  result.Category,
			Currency:  fx.Currency,
			Threshold: eff.NisabThreshold,
			Rate:      eff.Rate,
			Result:    result,
			Messages:  Advisories(result, nisabState),
		})
	}

	return summaries
}

func runFitrah(req config.CalculationRequest, r zakat.Rates, fx rates.Snapshot) Summary {
	result := zakat.Fitrah(numeric.Headcount(req.Headcount), r)
	metrics.CalculationsTotal.WithLabelValues("fitrah", "true").Inc()

	summary := Summary{
		Name:     req.Name,
		Category: "fitrah",
		Currency: fx.Currency,
		Fitrah:   &result,
	}
	if result.Coerced {
		summary.Messages = append(summary.Messages, "headcount was invalid and has been set to 1")
	}
	return summary
}

// requestInputs parses the user-entered figures of a request, coercing
// anything malformed to zero.
func requestInputs(req config.CalculationRequest) zakat.Inputs {
	period := zakat.PeriodMonthly
	if req.Period == string(zakat.PeriodYearly) {
		period = zakat.PeriodYearly
	}

	return zakat.Inputs{
		Income: zakat.IncomeInputs{
			Primary:        numeric.Amount(req.Primary),
			Additional:     numeric.Amount(req.Additional),
			Period:         period,
			DeductExpenses: req.DeductExpenses,
			Expenses:       numeric.Amount(req.Expenses),
		},
		Trade: zakat.TradeInputs{
			Capital:     numeric.Amount(req.Capital),
			Profit:      numeric.Amount(req.Profit),
			Receivables: numeric.Amount(req.Receivables),
			Payables:    numeric.Amount(req.Payables),
			Losses:      numeric.Amount(req.Losses),
		},
		Savings: zakat.SavingsInputs{
			Balance:          numeric.Amount(req.Balance),
			Interest:         numeric.Amount(req.Interest),
			ConventionalBank: req.ConventionalBank,
		},
		Gold: zakat.GoldInputs{
			WeightGrams: numeric.Amount(req.WeightGrams),
		},
		Wealth: zakat.WealthInputs{
			Amount: numeric.Amount(req.Amount),
		},
	}
}

// Advisories builds the user-facing notes for a result: below-threshold
// outcomes and degraded gold pricing are advisory, never errors.
func Advisories(result zakat.Result, nisabState nisab.State) []string {
	var messages []string
	if !result.IsObligated {
		messages = append(messages, "below nisab threshold")
	}
	if nisabState.Source == nisab.SourceFallback {
		messages = append(messages, "using fallback gold price")
	}
	return messages
}

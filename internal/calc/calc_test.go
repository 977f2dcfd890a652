package calc

import (
	"testing"

	"go.uber.org/zap"

	"github.com/amanahdev/zakat-engine/internal/config"
	"github.com/amanahdev/zakat-engine/internal/nisab"
	"github.com/amanahdev/zakat-engine/internal/rates"
	"github.com/amanahdev/zakat-engine/pkg/constants"
	"github.com/amanahdev/zakat-engine/pkg/mathutil"
)

func usdSnapshot() rates.Snapshot {
	return rates.Snapshot{Currency: constants.CurrencyUSD, ExchangeRate: 1}
}

func liveState(goldPriceUSD float64) nisab.State {
	return nisab.State{
		GoldPriceUSD: goldPriceUSD,
		ThresholdUSD: nisab.ThresholdFromPrice(goldPriceUSD),
		Source:       nisab.SourceLive,
	}
}

func TestRunEvaluatesRequests(t *testing.T) {
	conf := config.Configuration{
		School: "sunni",
		Requests: []config.CalculationRequest{
			{
				Name:     "salary",
				Category: "income",
				Period:   "monthly",
				Primary:  "1000",
			},
			{
				Name:      "family fitrah",
				Category:  "fitrah",
				Headcount: "5",
			},
		},
	}

	// Threshold derived from the fallback gold price is ~9116.78; a 1000/mo
	// salary nets a taxable base of 9600 and is obligated.
	summaries := Run(zap.NewNop(), conf, liveState(constants.FallbackGoldPriceUSD), usdSnapshot())
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, expected 2", len(summaries))
	}

	income := summaries[0]
	if !mathutil.WithinTolerance(income.Result.TaxableBase, 9600, constants.CurrencyTolerance) {
		t.Errorf("income taxable base = %.2f, expected 9600", income.Result.TaxableBase)
	}
	if !income.Result.IsObligated {
		t.Error("expected the salary request to be obligated")
	}
	if !mathutil.WithinTolerance(income.Result.ObligatedAmount, 240, constants.CurrencyTolerance) {
		t.Errorf("income due = %.2f, expected 240", income.Result.ObligatedAmount)
	}
	if len(income.Messages) != 0 {
		t.Errorf("expected no advisories for a live, obligated result, got %v", income.Messages)
	}

	fitrah := summaries[1]
	if fitrah.Fitrah == nil {
		t.Fatal("expected a fitrah result")
	}
	if !mathutil.WithinTolerance(fitrah.Fitrah.Total, 11.65, constants.CurrencyTolerance) {
		t.Errorf("fitrah total = %.2f, expected 11.65", fitrah.Fitrah.Total)
	}
}

func TestRunCoercesMalformedFigures(t *testing.T) {
	conf := config.Configuration{
		School: "sunni",
		Requests: []config.CalculationRequest{
			{
				Name:     "garbage in",
				Category: "income",
				Period:   "monthly",
				Primary:  "lots",
				Expenses: "-12",
			},
		},
	}

	summaries := Run(zap.NewNop(), conf, liveState(constants.FallbackGoldPriceUSD), usdSnapshot())
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, expected 1", len(summaries))
	}

	result := summaries[0].Result
	if result.TaxableBase != 0 {
		t.Errorf("taxable base = %.2f, expected malformed figures to coerce to zero", result.TaxableBase)
	}
	if result.IsObligated {
		t.Error("zero wealth must not be obligated")
	}
}

func TestRunFallbackAdvisory(t *testing.T) {
	state := nisab.State{
		GoldPriceUSD: constants.FallbackGoldPriceUSD,
		ThresholdUSD: nisab.ThresholdFromPrice(constants.FallbackGoldPriceUSD),
		Source:       nisab.SourceFallback,
	}
	conf := config.Configuration{
		School: "sunni",
		Requests: []config.CalculationRequest{
			{Name: "below", Category: "savings", Balance: "100"},
		},
	}

	summaries := Run(zap.NewNop(), conf, state, usdSnapshot())
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, expected 1", len(summaries))
	}

	messages := summaries[0].Messages
	if len(messages) != 2 {
		t.Fatalf("got messages %v, expected below-threshold and fallback advisories", messages)
	}
	if messages[0] != "below nisab threshold" {
		t.Errorf("first advisory = %q", messages[0])
	}
	if messages[1] != "using fallback gold price" {
		t.Errorf("second advisory = %q", messages[1])
	}
}

func TestRunFitrahHeadcountCoercion(t *testing.T) {
	conf := config.Configuration{
		Requests: []config.CalculationRequest{
			{Name: "bad headcount", Category: "fitrah", Headcount: "0"},
		},
	}

	summaries := Run(zap.NewNop(), conf, liveState(constants.FallbackGoldPriceUSD), usdSnapshot())
	fitrah := summaries[0].Fitrah
	if fitrah == nil {
		t.Fatal("expected a fitrah result")
	}
	if fitrah.Headcount != 1 {
		t.Errorf("Headcount = %d, expected coercion to 1", fitrah.Headcount)
	}
	if len(summaries[0].Messages) == 0 {
		t.Error("expected an advisory about the coerced headcount")
	}
}

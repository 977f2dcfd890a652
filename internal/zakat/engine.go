package zakat

import (
	"github.com/amanahdev/zakat-engine/pkg/constants"
	"github.com/amanahdev/zakat-engine/pkg/mathutil"
)

// Period selects how income figures are entered.
type Period string

// Income entry periods
const (
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// IncomeInputs holds the income-category figures. All amounts are in the
// display currency and already coerced to be non-negative.
type IncomeInputs struct {
	Primary        float64
	Additional     float64
	Period         Period
	DeductExpenses bool
	Expenses       float64
}

// TradeInputs holds the trade-category figures.
type TradeInputs struct {
	Capital     float64
	Profit      float64
	Receivables float64
	Payables    float64
	Losses      float64
}

// SavingsInputs holds the savings-category figures. Interest is subtracted
// only when the account is at a conventional bank.
type SavingsInputs struct {
	Balance          float64
	Interest         float64
	ConventionalBank bool
}

// GoldInputs holds the gold-category figures.
type GoldInputs struct {
	WeightGrams float64
}

// WealthInputs holds the generic (maal) figure, already in the display
// currency.
type WealthInputs struct {
	Amount float64
}

// Inputs carries the figures for whichever category is being evaluated.
type Inputs struct {
	Income  IncomeInputs
	Trade   TradeInputs
	Savings SavingsInputs
	Gold    GoldInputs
	Wealth  WealthInputs
}

// Result is the outcome of one evaluation. Below-threshold wealth is a
// normal negative outcome, not an error.
type Result struct {
	Category        CategoryID
	TaxableBase     float64
	IsObligated     bool
	ObligatedAmount float64
}

// Evaluate derives the taxable base for the category, compares it against
// the effective nisab threshold, and computes the obligated amount. It never
// fails: obligation is decided on the taxable base alone, and the amount is
// zero whenever the base is below threshold.
func Evaluate(categoryID CategoryID, in Inputs, eff Effective, r Rates) Result {
	var taxable float64
	switch LookupCategory(categoryID).ID {
	case CategoryTrade:
		taxable = tradeTaxable(in.Trade)
	case CategorySavings:
		taxable = savingsTaxable(in.Savings)
	case CategoryGold:
		taxable = goldTaxable(in.Gold, r)
	case CategoryGeneric:
		taxable = in.Wealth.Amount
	default:
		taxable = incomeTaxable(in.Income)
	}

	return settle(eff.Category.ID, taxable, eff)
}

// settle applies the obligation rule shared by every category.
func settle(categoryID CategoryID, taxable float64, eff Effective) Result {
	result := Result{
		Category:    categoryID,
		TaxableBase: taxable,
	}
	if taxable >= eff.NisabThreshold {
		result.IsObligated = true
		result.ObligatedAmount = mathutil.ApplyPercentage(taxable, eff.Rate)
	}
	return result
}

// incomeTaxable annualizes income and applies either the manual expense
// deduction or the automatic living-cost deduction (20%, capped).
func incomeTaxable(in IncomeInputs) float64 {
	annual := in.Primary + in.Additional
	if in.Period != PeriodYearly {
		annual = in.Primary*constants.MonthsPerYear + in.Additional
	}

	if in.DeductExpenses {
		return mathutil.FloorZero(annual - in.Expenses)
	}

	deduction := mathutil.Min(
		mathutil.ApplyPercentage(annual, constants.IncomeDeductionRate),
		constants.IncomeDeductionCapUSD,
	)
	return annual - deduction
}

// tradeTaxable nets business assets against dues and losses.
func tradeTaxable(in TradeInputs) float64 {
	totalAssets := in.Capital + in.Profit + in.Receivables
	return mathutil.FloorZero(totalAssets - in.Payables - in.Losses)
}

// savingsTaxable subtracts interest only for conventional-bank accounts.
func savingsTaxable(in SavingsInputs) float64 {
	if in.ConventionalBank {
		return mathutil.FloorZero(in.Balance - in.Interest)
	}
	return in.Balance
}

// goldTaxable values the gold weight at the current per-gram price in USD
// and converts into the display currency.
func goldTaxable(in GoldInputs, r Rates) float64 {
	goldPriceUSD := r.GoldPriceUSD
	if goldPriceUSD <= 0 {
		goldPriceUSD = constants.FallbackGoldPriceUSD
	}
	valueUSD := in.WeightGrams * (goldPriceUSD / constants.GramsPerTroyOunce)
	return r.FX.Convert(valueUSD)
}

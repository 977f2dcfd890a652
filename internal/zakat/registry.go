// Package zakat implements the calculation core: the category catalog, the
// per-category taxable-base derivations, and the Fitrah calculator. All
// functions are pure; everything external (gold price, exchange rate) enters
// through an explicitly passed Rates value.
package zakat

import (
	"github.com/amanahdev/zakat-engine/internal/rates"
	"github.com/amanahdev/zakat-engine/pkg/constants"
)

// CategoryID identifies a wealth category.
type CategoryID string

// Wealth categories
const (
	CategoryIncome  CategoryID = "income"
	CategoryTrade   CategoryID = "trade"
	CategorySavings CategoryID = "savings"
	CategoryGold    CategoryID = "gold"
	CategoryGeneric CategoryID = "generic"
)

// SchoolID identifies a jurisprudence school.
type SchoolID string

// Jurisprudence schools
const (
	SchoolSunni SchoolID = "sunni"
	SchoolShia  SchoolID = "shia"
	SchoolIbadi SchoolID = "ibadi"
)

// Category holds the static metadata of a wealth category.
type Category struct {
	ID           CategoryID
	BaseNisabUSD float64 // reference threshold, used when LiveNisab is false
	BaseRate     float64 // percent
	LiveNisab    bool    // threshold derives from the live gold price
}

// School holds the jurisprudence-school multipliers. All schools currently
// carry unity multipliers; the table is the extension point for when a
// school-specific ruling is adopted.
type School struct {
	ID              SchoolID
	NisabMultiplier float64
	RateMultiplier  float64
}

var categories = map[CategoryID]Category{
	CategoryIncome:  {ID: CategoryIncome, BaseRate: constants.DefaultZakatRate, LiveNisab: true},
	CategoryTrade:   {ID: CategoryTrade, BaseRate: constants.DefaultZakatRate, LiveNisab: true},
	CategorySavings: {ID: CategorySavings, BaseRate: constants.DefaultZakatRate, LiveNisab: true},
	CategoryGold:    {ID: CategoryGold, BaseRate: constants.DefaultZakatRate, LiveNisab: true},
	CategoryGeneric: {ID: CategoryGeneric, BaseNisabUSD: constants.GenericNisabUSD, BaseRate: constants.DefaultZakatRate},
}

var schools = map[SchoolID]School{
	SchoolSunni: {ID: SchoolSunni, NisabMultiplier: 1.0, RateMultiplier: 1.0},
	SchoolShia:  {ID: SchoolShia, NisabMultiplier: 1.0, RateMultiplier: 1.0},
	SchoolIbadi: {ID: SchoolIbadi, NisabMultiplier: 1.0, RateMultiplier: 1.0},
}

// Rates bundles the external readings one calculation runs against. It is
// assembled by the caller from the latest feed snapshots so the core stays
// free of ambient state.
type Rates struct {
	GoldPriceUSD float64 // USD per troy ounce
	NisabUSD     float64 // gold-derived threshold in USD
	FX           rates.Snapshot
}

// Effective is the category metadata resolved for a specific school,
// currency, and gold price. Recomputed per calculation, never stored.
type Effective struct {
	Category       Category
	School         School
	NisabThreshold float64 // display currency
	Rate           float64 // percent
}

// LookupCategory returns the category for the id, defaulting to income when
// the id is unrecognized.
func LookupCategory(id CategoryID) Category {
	if cat, ok := categories[id]; ok {
		return cat
	}
	return categories[CategoryIncome]
}

// LookupSchool returns the school for the id, defaulting to unity
// multipliers when the id is unrecognized.
func LookupSchool(id SchoolID) School {
	if school, ok := schools[id]; ok {
		return school
	}
	return School{ID: id, NisabMultiplier: 1.0, RateMultiplier: 1.0}
}

// Resolve combines a category, a school, and the current rates into the
// effective threshold and rate for one calculation. It has no failure modes:
// unknown ids fall back to defaults.
func Resolve(categoryID CategoryID, schoolID SchoolID, r Rates) Effective {
	cat := LookupCategory(categoryID)
	school := LookupSchool(schoolID)

	baselineUSD := cat.BaseNisabUSD
	if cat.LiveNisab {
		baselineUSD = r.NisabUSD
	}

	return Effective{
		Category:       cat,
		School:         school,
		NisabThreshold: r.FX.Convert(baselineUSD * school.NisabMultiplier),
		Rate:           cat.BaseRate * school.RateMultiplier,
	}
}

// Package format renders amounts for display in the supported currencies.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/amanahdev/zakat-engine/pkg/constants"
)

// Currency returns a display string for the amount in the given currency.
// USD-style currencies render with a dollar sign and two decimals (e.g.,
// "$1,234.56"); rupiah renders with the Rp prefix, Indonesian grouping, and
// no decimal places (e.g., "Rp15.800").
func Currency(amount float64, currency string) string {
	if currency == constants.CurrencyIDR {
		rounded := decimal.NewFromFloat(amount).Round(0)
		p := message.NewPrinter(language.Indonesian)
		if rounded.IsNegative() {
			return "-Rp" + p.Sprintf("%d", rounded.Neg().IntPart())
		}
		return "Rp" + p.Sprintf("%d", rounded.IntPart())
	}

	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	p := message.NewPrinter(language.English)
	if rounded < 0 {
		return "-$" + p.Sprintf("%.2f", -rounded)
	}
	return "$" + p.Sprintf("%.2f", rounded)
}

// Numeric returns the amount without a currency symbol, rounded the way the
// currency displays (two decimals for USD, whole units for rupiah). Used for
// CSV output.
func Numeric(amount float64, currency string) string {
	if currency == constants.CurrencyIDR {
		return decimal.NewFromFloat(amount).Round(0).String()
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}

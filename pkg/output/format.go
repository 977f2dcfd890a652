// Package output provides utilities for formatting and displaying
// calculation results.
package output

import (
	"fmt"
	"strings"

	"github.com/amanahdev/zakat-engine/internal/calc"
	"github.com/amanahdev/zakat-engine/pkg/format"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(summaries []calc.Summary) {
	fmt.Printf("Name | Category | Taxable Base | Nisab Threshold | Obligated | Due | Notes\n")
	fmt.Printf("____ | ________ | ____________ | _______________ | _________ | ___ | _____\n")
	for _, summary := range summaries {
		base, threshold, due, obligated := summaryColumns(summary)
		fmt.Printf("%s | %s | %s | %s | %v | %s | %s\n",
			summary.Name,
			summary.Category,
			base,
			threshold,
			obligated,
			due,
			strings.Join(summary.Messages, ","),
		)
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(summaries []calc.Summary) {
	fmt.Printf("\"name\",\"category\",\"taxable base\",\"nisab threshold\",\"obligated\",\"due\",\"notes\"\n")
	for _, summary := range summaries {
		if summary.Fitrah != nil {
			fmt.Printf("\"%s\",\"%s\",\"\",\"\",\"%t\",\"%s\",\"%s\"\n",
				summary.Name,
				summary.Category,
				true,
				format.Numeric(summary.Fitrah.Total, summary.Currency),
				strings.Join(summary.Messages, ","),
			)
			continue
		}
		fmt.Printf("\"%s\",\"%s\",\"%s\",\"%s\",\"%t\",\"%s\",\"%s\"\n",
			summary.Name,
			summary.Category,
			format.Numeric(summary.Result.TaxableBase, summary.Currency),
			format.Numeric(summary.Threshold, summary.Currency),
			summary.Result.IsObligated,
			format.Numeric(summary.Result.ObligatedAmount, summary.Currency),
			strings.Join(summary.Messages, ","),
		)
	}
}

func summaryColumns(summary calc.Summary) (base, threshold, due string, obligated bool) {
	if summary.Fitrah != nil {
		perHead := fmt.Sprintf("%s x %d", format.Currency(summary.Fitrah.PerHead, summary.Currency), summary.Fitrah.Headcount)
		return perHead, "-", format.Currency(summary.Fitrah.Total, summary.Currency), true
	}
	return format.Currency(summary.Result.TaxableBase, summary.Currency),
		format.Currency(summary.Threshold, summary.Currency),
		format.Currency(summary.Result.ObligatedAmount, summary.Currency),
		summary.Result.IsObligated
}

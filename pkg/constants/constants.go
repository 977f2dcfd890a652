// Package constants provides shared constants for the zakat-engine application.
package constants

// Metal conversion constants
const (
	// GramsPerTroyOunce converts a troy-ounce gold quote into a per-gram price
	GramsPerTroyOunce = 31.1035

	// NisabGoldGrams is the gold weight that defines the nisab threshold
	NisabGoldGrams = 85.0
)

// Fallback feed values, used whenever a live feed is unconfigured or failing
const (
	// FallbackGoldPriceUSD is the gold price in USD per troy ounce
	FallbackGoldPriceUSD = 3336.045

	// FallbackExchangeRate is the USD to IDR conversion rate
	FallbackExchangeRate = 15800.0
)

// Calculation constants
const (
	// DefaultZakatRate is the rate applied to most wealth categories, percent
	DefaultZakatRate = 2.5

	// GenericNisabUSD is the fixed reference threshold for generic wealth,
	// the one category whose nisab is not derived from the live gold price
	GenericNisabUSD = 5667.0

	// IncomeDeductionRate is the automatic living-cost deduction, percent
	IncomeDeductionRate = 20.0

	// IncomeDeductionCapUSD caps the automatic living-cost deduction
	IncomeDeductionCapUSD = 50000.0

	// FitrahPerHeadUSD is the fixed per-person Fitrah obligation
	FitrahPerHeadUSD = 2.33

	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Feed refresh defaults
const (
	// DefaultGoldRefreshMinutes is how often the gold quote is refreshed
	DefaultGoldRefreshMinutes = 5

	// DefaultRateRefreshMinutes is how often the exchange rate is refreshed
	DefaultRateRefreshMinutes = 30

	// FeedRequestTimeoutSeconds bounds each outbound feed request
	FeedRequestTimeoutSeconds = 15
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultEnvFile is the dotenv file probed for feed credentials
	DefaultEnvFile = ".env"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)

// Currency codes with first-class display handling
const (
	// CurrencyUSD is the canonical calculation currency
	CurrencyUSD = "USD"

	// CurrencyIDR is the grouped zero-decimal display currency
	CurrencyIDR = "IDR"
)

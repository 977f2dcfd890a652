// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/amanahdev/zakat-engine/pkg/constants"
)

// Configuration holds all configuration for zakat-engine.
type Configuration struct {
	Currency       string
	School         string
	GoldFeed       FeedConfig           `yaml:"goldFeed,omitempty"`
	RateFeed       FeedConfig           `yaml:"rateFeed,omitempty"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker,omitempty"`
	Logging        LoggingConfig        `yaml:"logging,omitempty"`
	Output         OutputConfig         `yaml:"output,omitempty"`
	Requests       []CalculationRequest `yaml:"requests,omitempty"`
}

// FeedConfig describes one external price feed.
type FeedConfig struct {
	URL            string `yaml:"url,omitempty"`
	APIKeyEnv      string `yaml:"apiKeyEnv,omitempty"`      // env var holding the credential
	RefreshMinutes int    `yaml:"refreshMinutes,omitempty"` // refresh interval
}

// CircuitBreakerConfig holds the breaker settings shared by both feeds.
type CircuitBreakerConfig struct {
	RequestThreshold int     `yaml:"requestThreshold,omitempty"`
	FailureRatio     float64 `yaml:"failureRatio,omitempty"`
	TimeoutSeconds   int     `yaml:"timeoutSeconds,omitempty"`
	MaxHalfOpenReqs  int     `yaml:"maxHalfOpenReqs,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// CalculationRequest is one calculation to run in one-shot mode. Figures are
// kept as entered; parsing coerces anything malformed to zero.
type CalculationRequest struct {
	Name     string
	Category string
	School   string `yaml:"school,omitempty"`

	// income
	Period         string `yaml:"period,omitempty"` // monthly, yearly
	Primary        string `yaml:"primary,omitempty"`
	Additional     string `yaml:"additional,omitempty"`
	DeductExpenses bool   `yaml:"deductExpenses,omitempty"`
	Expenses       string `yaml:"expenses,omitempty"`

	// trade
	Capital     string `yaml:"capital,omitempty"`
	Profit      string `yaml:"profit,omitempty"`
	Receivables string `yaml:"receivables,omitempty"`
	Payables    string `yaml:"payables,omitempty"`
	Losses      string `yaml:"losses,omitempty"`

	// savings
	Balance          string `yaml:"balance,omitempty"`
	Interest         string `yaml:"interest,omitempty"`
	ConventionalBank bool   `yaml:"conventionalBank,omitempty"`

	// gold
	WeightGrams string `yaml:"weightGrams,omitempty"`

	// generic wealth
	Amount string `yaml:"amount,omitempty"`

	// fitrah
	Headcount string `yaml:"headcount,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file next to the working directory is loaded
// first so feed credentials can live outside the config file.
func LoadConfiguration(configPath string) (*Configuration, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load(constants.DefaultEnvFile)

	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	viper.SetDefault("currency", constants.CurrencyUSD)
	viper.SetDefault("school", "sunni")
	viper.SetDefault("goldFeed.apiKeyEnv", "GOLDAPI_KEY")
	viper.SetDefault("goldFeed.refreshMinutes", constants.DefaultGoldRefreshMinutes)
	viper.SetDefault("rateFeed.refreshMinutes", constants.DefaultRateRefreshMinutes)
	viper.SetDefault("circuitBreaker.requestThreshold", 5)
	viper.SetDefault("circuitBreaker.failureRatio", 0.5)
	viper.SetDefault("circuitBreaker.timeoutSeconds", 60)
	viper.SetDefault("circuitBreaker.maxHalfOpenReqs", 100)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// GoldAPIKey resolves the gold feed credential from the environment. An
// empty string means the feed runs in fallback-only mode.
func (conf *Configuration) GoldAPIKey() string {
	if conf.GoldFeed.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(conf.GoldFeed.APIKeyEnv)
}

// GoldRefreshInterval returns the gold feed refresh period.
func (conf *Configuration) GoldRefreshInterval() time.Duration {
	minutes := conf.GoldFeed.RefreshMinutes
	if minutes <= 0 {
		minutes = constants.DefaultGoldRefreshMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// RateRefreshInterval returns the exchange-rate feed refresh period.
func (conf *Configuration) RateRefreshInterval() time.Duration {
	minutes := conf.RateFeed.RefreshMinutes
	if minutes <= 0 {
		minutes = constants.DefaultRateRefreshMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// ValidateConfiguration checks the configuration for suspicious settings and
// returns warnings. Degraded settings are never fatal; the engine falls back
// instead of refusing to run.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if conf.Currency != constants.CurrencyUSD && conf.Currency != constants.CurrencyIDR {
		warnings = append(warnings,
			fmt.Sprintf("currency %q has no dedicated display handling; USD formatting will be used", conf.Currency))
	}

	switch conf.School {
	case "sunni", "shia", "ibadi", "":
	default:
		warnings = append(warnings,
			fmt.Sprintf("unknown jurisprudence school %q; unity multipliers will be used", conf.School))
	}

	if conf.GoldFeed.RefreshMinutes < 0 {
		warnings = append(warnings,
			fmt.Sprintf("goldFeed.refreshMinutes %d is negative; default of %d will be used",
				conf.GoldFeed.RefreshMinutes, constants.DefaultGoldRefreshMinutes))
	}
	if conf.RateFeed.RefreshMinutes < 0 {
		warnings = append(warnings,
			fmt.Sprintf("rateFeed.refreshMinutes %d is negative; default of %d will be used",
				conf.RateFeed.RefreshMinutes, constants.DefaultRateRefreshMinutes))
	}

	if conf.GoldFeed.URL != "" && conf.GoldAPIKey() == "" {
		warnings = append(warnings,
			"goldFeed.url is set but no API credential is present; fallback gold pricing will be used")
	}

	for i, req := range conf.Requests {
		switch req.Category {
		case "income", "trade", "savings", "gold", "generic", "fitrah":
		default:
			warnings = append(warnings,
				fmt.Sprintf("request %d (%s): unknown category %q; income rules will be applied", i, req.Name, req.Category))
		}
	}

	return warnings
}

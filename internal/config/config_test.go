package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amanahdev/zakat-engine/pkg/constants"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfigurationDefaults(t *testing.T) {
	path := writeConfig(t, "currency: USD\n")

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}

	if conf.Currency != constants.CurrencyUSD {
		t.Errorf("Currency = %s, expected USD", conf.Currency)
	}
	if conf.School != "sunni" {
		t.Errorf("School = %s, expected default sunni", conf.School)
	}
	if conf.GoldFeed.APIKeyEnv != "GOLDAPI_KEY" {
		t.Errorf("GoldFeed.APIKeyEnv = %s, expected GOLDAPI_KEY", conf.GoldFeed.APIKeyEnv)
	}
	if conf.GoldRefreshInterval() != constants.DefaultGoldRefreshMinutes*time.Minute {
		t.Errorf("GoldRefreshInterval = %v, expected %d minutes", conf.GoldRefreshInterval(), constants.DefaultGoldRefreshMinutes)
	}
	if conf.RateRefreshInterval() != constants.DefaultRateRefreshMinutes*time.Minute {
		t.Errorf("RateRefreshInterval = %v, expected %d minutes", conf.RateRefreshInterval(), constants.DefaultRateRefreshMinutes)
	}
	if conf.CircuitBreaker.RequestThreshold != 5 {
		t.Errorf("CircuitBreaker.RequestThreshold = %d, expected default 5", conf.CircuitBreaker.RequestThreshold)
	}
}

func TestLoadConfigurationFull(t *testing.T) {
	path := writeConfig(t, `
currency: IDR
school: shia
goldFeed:
  url: https://example.com/XAU/USD
  apiKeyEnv: MY_GOLD_KEY
  refreshMinutes: 10
rateFeed:
  url: https://example.com/latest/USD
  refreshMinutes: 45
logging:
  level: debug
  format: console
output:
  format: csv
requests:
  - name: salary
    category: income
    period: monthly
    primary: "1000"
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}

	if conf.Currency != constants.CurrencyIDR {
		t.Errorf("Currency = %s, expected IDR", conf.Currency)
	}
	if conf.GoldFeed.APIKeyEnv != "MY_GOLD_KEY" {
		t.Errorf("GoldFeed.APIKeyEnv = %s, expected MY_GOLD_KEY", conf.GoldFeed.APIKeyEnv)
	}
	if conf.GoldRefreshInterval() != 10*time.Minute {
		t.Errorf("GoldRefreshInterval = %v, expected 10 minutes", conf.GoldRefreshInterval())
	}
	if conf.RateRefreshInterval() != 45*time.Minute {
		t.Errorf("RateRefreshInterval = %v, expected 45 minutes", conf.RateRefreshInterval())
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %s, expected csv", conf.Output.Format)
	}
	if len(conf.Requests) != 1 || conf.Requests[0].Category != "income" {
		t.Fatalf("Requests not decoded: %+v", conf.Requests)
	}
	if conf.Requests[0].Primary != "1000" {
		t.Errorf("Requests[0].Primary = %q, expected figures kept as entered", conf.Requests[0].Primary)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestGoldAPIKey(t *testing.T) {
	t.Setenv("ZAKAT_TEST_CONFIG_KEY", "secret")

	conf := &Configuration{GoldFeed: FeedConfig{APIKeyEnv: "ZAKAT_TEST_CONFIG_KEY"}}
	if got := conf.GoldAPIKey(); got != "secret" {
		t.Errorf("GoldAPIKey() = %q, expected the env value", got)
	}

	conf.GoldFeed.APIKeyEnv = ""
	if got := conf.GoldAPIKey(); got != "" {
		t.Errorf("GoldAPIKey() = %q, expected empty without an env var name", got)
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name         string
		conf         Configuration
		wantWarnings int
		contains     string
	}{
		{
			name:         "clean configuration",
			conf:         Configuration{Currency: "USD", School: "sunni"},
			wantWarnings: 0,
		},
		{
			name:         "unknown currency",
			conf:         Configuration{Currency: "EUR", School: "sunni"},
			wantWarnings: 1,
			contains:     "no dedicated display handling",
		},
		{
			name:         "unknown school",
			conf:         Configuration{Currency: "USD", School: "zahiri"},
			wantWarnings: 1,
			contains:     "unknown jurisprudence school",
		},
		{
			name: "feed url without credential",
			conf: Configuration{
				Currency: "USD",
				School:   "sunni",
				GoldFeed: FeedConfig{URL: "https://example.com", APIKeyEnv: "ZAKAT_TEST_UNSET_KEY"},
			},
			wantWarnings: 1,
			contains:     "fallback gold pricing",
		},
		{
			name: "unknown request category",
			conf: Configuration{
				Currency: "USD",
				School:   "sunni",
				Requests: []CalculationRequest{{Name: "weird", Category: "livestock"}},
			},
			wantWarnings: 1,
			contains:     "unknown category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.conf.ValidateConfiguration()
			if len(warnings) != tt.wantWarnings {
				t.Fatalf("got %d warnings %v, expected %d", len(warnings), warnings, tt.wantWarnings)
			}
			if tt.contains != "" && !strings.Contains(warnings[0], tt.contains) {
				t.Errorf("warning %q does not mention %q", warnings[0], tt.contains)
			}
		})
	}
}

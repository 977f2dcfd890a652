package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/amanahdev/zakat-engine/internal/config"
	"github.com/amanahdev/zakat-engine/pkg/constants"
	"github.com/amanahdev/zakat-engine/pkg/mathutil"
)

func testConfig(currency, url string) *config.Configuration {
	return &config.Configuration{
		Currency: currency,
		RateFeed: config.FeedConfig{URL: url},
		CircuitBreaker: config.CircuitBreakerConfig{
			RequestThreshold: 5,
			FailureRatio:     0.5,
			TimeoutSeconds:   60,
			MaxHalfOpenReqs:  100,
		},
	}
}

func TestSnapshotConvert(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		usd      float64
		expected float64
	}{
		{
			name:     "USD is identity",
			snapshot: Snapshot{Currency: constants.CurrencyUSD, ExchangeRate: 1},
			usd:      123.45,
			expected: 123.45,
		},
		{
			name:     "IDR multiplies by rate",
			snapshot: Snapshot{Currency: constants.CurrencyIDR, ExchangeRate: 15800},
			usd:      2,
			expected: 31600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.snapshot.Convert(tt.usd)
			if !mathutil.WithinTolerance(got, tt.expected, constants.CurrencyTolerance) {
				t.Errorf("Convert(%.2f) = %.2f, expected %.2f", tt.usd, got, tt.expected)
			}
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	snapshot := Snapshot{Currency: constants.CurrencyIDR, ExchangeRate: 15800}

	for _, usd := range []float64{0, 0.01, 2.33, 1000, 98765.43} {
		roundTripped := snapshot.ToUSD(snapshot.Convert(usd))
		if !mathutil.WithinTolerance(roundTripped, usd, 1e-9*mathutil.Max(usd, 1)) {
			t.Errorf("round trip of %.2f produced %.10f", usd, roundTripped)
		}
	}
}

func TestRefreshUpdatesRate(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates": {"IDR": 16400.0}}`))
	}))
	defer feed.Close()

	converter := NewConverter(zap.NewNop(), testConfig(constants.CurrencyIDR, feed.URL))
	converter.Refresh(context.Background())

	snapshot := converter.Snapshot()
	if !snapshot.Live {
		t.Error("expected a live snapshot after a successful refresh")
	}
	if snapshot.ExchangeRate != 16400.0 {
		t.Errorf("ExchangeRate = %.2f, expected 16400", snapshot.ExchangeRate)
	}
}

func TestRefreshFailureKeepsFallbackRate(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	converter := NewConverter(zap.NewNop(), testConfig(constants.CurrencyIDR, failing.URL))
	converter.Refresh(context.Background())

	snapshot := converter.Snapshot()
	if snapshot.Live {
		t.Error("expected a fallback snapshot after a feed failure")
	}
	if snapshot.ExchangeRate != constants.FallbackExchangeRate {
		t.Errorf("ExchangeRate = %.2f, expected fallback %.2f", snapshot.ExchangeRate, constants.FallbackExchangeRate)
	}
}

func TestRefreshMissingCurrencyKeepsPreviousRate(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates": {"EUR": 0.92}}`))
	}))
	defer feed.Close()

	converter := NewConverter(zap.NewNop(), testConfig(constants.CurrencyIDR, feed.URL))
	converter.Refresh(context.Background())

	snapshot := converter.Snapshot()
	if snapshot.ExchangeRate != constants.FallbackExchangeRate {
		t.Errorf("ExchangeRate = %.2f, expected fallback when the feed lacks the currency", snapshot.ExchangeRate)
	}
}

func TestSetCurrencySwitchesToUSDWithoutFeed(t *testing.T) {
	converter := NewConverter(zap.NewNop(), testConfig(constants.CurrencyIDR, ""))

	converter.SetCurrency(context.Background(), constants.CurrencyUSD)

	snapshot := converter.Snapshot()
	if snapshot.Currency != constants.CurrencyUSD {
		t.Errorf("Currency = %s, expected USD", snapshot.Currency)
	}
	if snapshot.ExchangeRate != 1 {
		t.Errorf("ExchangeRate = %.2f, expected identity", snapshot.ExchangeRate)
	}
}

func TestUnconfiguredFeedStaysOnFallback(t *testing.T) {
	converter := NewConverter(zap.NewNop(), testConfig(constants.CurrencyIDR, ""))
	converter.Refresh(context.Background())

	snapshot := converter.Snapshot()
	if snapshot.Live {
		t.Error("expected fallback snapshot when no feed is configured")
	}
	if snapshot.ExchangeRate != constants.FallbackExchangeRate {
		t.Errorf("ExchangeRate = %.2f, expected fallback", snapshot.ExchangeRate)
	}
}

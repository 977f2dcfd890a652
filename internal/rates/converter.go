// Package rates converts canonical USD amounts into the display currency.
// Rates come from an external exchange-rate feed; when the feed is absent or
// failing a fixed fallback rate is used silently.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/amanahdev/zakat-engine/internal/config"
	"github.com/amanahdev/zakat-engine/internal/feed"
	"github.com/amanahdev/zakat-engine/internal/metrics"
	"github.com/amanahdev/zakat-engine/internal/tracing"
	"github.com/amanahdev/zakat-engine/pkg/constants"
)

const breakerName = "rate-feed"

// Snapshot is the conversion state the engine reads for one calculation.
type Snapshot struct {
	Currency     string
	ExchangeRate float64 // USD to display currency; 1 for USD
	Live         bool
	UpdatedAt    time.Time
}

// Convert turns a USD amount into the display currency.
func (s Snapshot) Convert(usdAmount float64) float64 {
	if s.Currency == constants.CurrencyUSD {
		return usdAmount
	}
	return usdAmount * s.ExchangeRate
}

// ToUSD inverts Convert using the same cached rate.
func (s Snapshot) ToUSD(amount float64) float64 {
	if s.Currency == constants.CurrencyUSD || s.ExchangeRate == 0 {
		return amount
	}
	return amount / s.ExchangeRate
}

// rateResponse is the exchange-rate feed payload keyed by base currency.
type rateResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Converter caches the exchange rate for the configured display currency.
type Converter struct {
	logger   *zap.Logger
	url      string
	interval time.Duration
	client   *http.Client
	cb       *gobreaker.CircuitBreaker

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewConverter builds a Converter for the configured display currency. The
// initial snapshot uses the fallback rate so conversion works before the
// first refresh.
func NewConverter(logger *zap.Logger, conf *config.Configuration) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}

	currency := conf.Currency
	if currency == "" {
		currency = constants.CurrencyUSD
	}

	c := &Converter{
		logger:   logger,
		url:      conf.RateFeed.URL,
		interval: conf.RateRefreshInterval(),
		client:   &http.Client{Timeout: constants.FeedRequestTimeoutSeconds * time.Second},
		cb:       feed.NewBreaker(logger, breakerName, conf.CircuitBreaker),
		snapshot: Snapshot{
			Currency:     currency,
			ExchangeRate: fallbackRate(currency),
			Live:         false,
			UpdatedAt:    time.Now(),
		},
	}
	c.publish()
	return c
}

func fallbackRate(currency string) float64 {
	if currency == constants.CurrencyUSD {
		return 1
	}
	return constants.FallbackExchangeRate
}

// Snapshot returns a copy of the current conversion state.
func (c *Converter) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// SetCurrency switches the display currency and refreshes the rate for it.
// Switching to USD needs no feed call.
func (c *Converter) SetCurrency(ctx context.Context, currency string) {
	if currency == "" {
		currency = constants.CurrencyUSD
	}

	c.mu.Lock()
	if c.snapshot.Currency != currency {
		c.snapshot = Snapshot{
			Currency:     currency,
			ExchangeRate: fallbackRate(currency),
			Live:         false,
			UpdatedAt:    time.Now(),
		}
	}
	c.mu.Unlock()
	c.publish()

	if currency != constants.CurrencyUSD {
		c.Refresh(ctx)
	}
}

// Refresh updates the cached exchange rate from the feed. Failures keep the
// previous rate and never propagate.
func (c *Converter) Refresh(ctx context.Context) {
	ctx, span := tracing.Tracer.Start(ctx, "rates.Refresh")
	defer span.End()

	currency := c.Snapshot().Currency
	if currency == constants.CurrencyUSD {
		return
	}
	if c.url == "" {
		metrics.FeedFallbacksTotal.WithLabelValues(breakerName, "unconfigured").Inc()
		return
	}

	rate, err := c.fetchRate(ctx, currency)
	if err != nil {
		c.logger.Warn("exchange-rate feed unavailable, keeping previous rate",
			zap.String("op", "rates.Converter.Refresh"),
			zap.String("currency", currency),
			zap.Error(err),
		)
		reason := "fetch_error"
		if feed.IsRejection(err) {
			reason = "circuit_open"
			metrics.CircuitBreakerRejected.WithLabelValues(breakerName).Inc()
		}
		metrics.FeedFallbacksTotal.WithLabelValues(breakerName, reason).Inc()
		return
	}

	c.mu.Lock()
	// A currency switch may have happened while the request was in flight;
	// the stale rate must not overwrite the new currency's snapshot.
	if c.snapshot.Currency == currency {
		c.snapshot = Snapshot{
			Currency:     currency,
			ExchangeRate: rate,
			Live:         true,
			UpdatedAt:    time.Now(),
		}
	}
	c.mu.Unlock()
	c.publish()

	c.logger.Debug("exchange rate refreshed",
		zap.String("op", "rates.Converter.Refresh"),
		zap.String("currency", currency),
		zap.Float64("rate", rate),
	)
}

// Run refreshes once immediately, then on the configured interval until the
// context is cancelled.
func (c *Converter) Run(ctx context.Context) {
	c.Refresh(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}

func (c *Converter) publish() {
	snapshot := c.Snapshot()
	metrics.ExchangeRate.WithLabelValues(snapshot.Currency).Set(snapshot.ExchangeRate)
}

func (c *Converter) fetchRate(ctx context.Context, currency string) (float64, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.doFetchRate(ctx, currency)
	})
	if err != nil {
		metrics.FeedRequestsTotal.WithLabelValues(breakerName, "error").Inc()
		return 0, err
	}
	metrics.FeedRequestsTotal.WithLabelValues(breakerName, "success").Inc()
	return result.(float64), nil
}

func (c *Converter) doFetchRate(ctx context.Context, currency string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var rates rateResponse
	if err := json.Unmarshal(body, &rates); err != nil {
		return 0, fmt.Errorf("failed to parse rate feed response: %w", err)
	}

	rate, ok := rates.Rates[currency]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("rate feed has no usable rate for %s", currency)
	}
	return rate, nil
}

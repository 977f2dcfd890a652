// Package nisab maintains the gold-price-derived minimum wealth threshold.
// The threshold is always available: a live gold feed is preferred, and any
// misconfiguration or fetch failure degrades to the last known price.
package nisab

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

// Source identifies where the current gold price came from.
type Source string

// Gold price sources
const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

const breakerName = "gold-feed"

// State is a snapshot of the current nisab derivation.
type State struct {
	GoldPriceUSD float64 // USD per troy ounce
	ThresholdUSD float64
	Source       Source
	UpdatedAt    time.Time
}

// ThresholdFromPrice derives the nisab threshold in USD from a gold price
// quoted in USD per troy ounce.
func ThresholdFromPrice(goldPriceUSD float64) float64 {
	if goldPriceUSD <= 0 {
		goldPriceUSD = constants.FallbackGoldPriceUSD
	}
	return (goldPriceUSD / constants.GramsPerTroyOunce) * constants.NisabGoldGrams
}

// quoteResponse is the shape of the gold quote API payload. Only the spot
// price is consumed.
type quoteResponse struct {
	Price float64 `json:"price"`
}

// Provider holds the nisab state and refreshes it from the gold feed.
type Provider struct {
	logger   *zap.Logger
	url      string
	apiKey   string
	interval time.Duration
	client   *http.Client
	cb       *gobreaker.CircuitBreaker

	mu    sync.RWMutex
	state State
}

// NewProvider builds a Provider from configuration. The initial state uses
// the fallback gold price so a threshold exists before the first refresh.
func NewProvider(logger *zap.Logger, conf *config.Configuration) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Provider{
		logger:   logger,
		url:      conf.GoldFeed.URL,
		apiKey:   conf.GoldAPIKey(),
		interval: conf.GoldRefreshInterval(),
		client:   &http.Client{Timeout: constants.FeedRequestTimeoutSeconds * time.Second},
		state: State{
			GoldPriceUSD: constants.FallbackGoldPriceUSD,
			ThresholdUSD: ThresholdFromPrice(constants.FallbackGoldPriceUSD),
			Source:       SourceFallback,
			UpdatedAt:    time.Now(),
		},
	}

	p.cb = feed.NewBreaker(logger, breakerName, conf.CircuitBreaker)
	p.publish()
	return p
}

// Snapshot returns a copy of the current state. Always safe to call; the
// threshold is defined from construction onward.
func (p *Provider) Snapshot() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Refresh updates the nisab state, preferring the live gold feed. Failures
// never propagate: the previous price is kept and the source is marked as
// fallback.
func (p *Provider) Refresh(ctx context.Context) {
	ctx, span := tracing.Tracer.Start(ctx, "nisab.Refresh")
	defer span.End()

	if p.apiKey == "" || p.url == "" {
		p.degrade("unconfigured")
		return
	}

	price, err := p.fetchPrice(ctx)
	if err != nil {
		p.logger.Warn("gold feed unavailable, keeping previous price",
			zap.String("op", "nisab.Provider.Refresh"),
			zap.Error(err),
		)
		reason := "fetch_error"
		if feed.IsRejection(err) {
			reason = "circuit_open"
			metrics.CircuitBreakerRejected.WithLabelValues(breakerName).Inc()
		}
		p.degrade(reason)
		return
	}

	p.mu.Lock()
	p.state = State{
		GoldPriceUSD: price,
		ThresholdUSD: ThresholdFromPrice(price),
		Source:       SourceLive,
		UpdatedAt:    time.Now(),
	}
	p.mu.Unlock()
	p.publish()

	p.logger.Debug("gold price refreshed",
		zap.String("op", "nisab.Provider.Refresh"),
		zap.Float64("priceUSD", price),
	)
}

// Run refreshes once immediately, then on the configured interval until the
// context is cancelled.
func (p *Provider) Run(ctx context.Context) {
	p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// degrade recomputes the threshold from the last known price and marks the
// source as fallback.
func (p *Provider) degrade(reason string) {
	metrics.FeedFallbacksTotal.WithLabelValues(breakerName, reason).Inc()

	p.mu.Lock()
	p.state = State{
		GoldPriceUSD: p.state.GoldPriceUSD,
		ThresholdUSD: ThresholdFromPrice(p.state.GoldPriceUSD),
		Source:       SourceFallback,
		UpdatedAt:    time.Now(),
	}
	p.mu.Unlock()
	p.publish()
}

// publish exports the current state to the metrics gauges.
func (p *Provider) publish() {
	state := p.Snapshot()
	metrics.GoldPriceUSD.Set(state.GoldPriceUSD)
	metrics.NisabThresholdUSD.Set(state.ThresholdUSD)
}

// fetchPrice performs the feed request through the circuit breaker.
func (p *Provider) fetchPrice(ctx context.Context) (float64, error) {
	result, err := p.cb.Execute(func() (interface{}, error) {
		return p.doFetchPrice(ctx)
	})
	if err != nil {
		metrics.FeedRequestsTotal.WithLabelValues(breakerName, "error").Inc()
		return 0, err
	}
	metrics.FeedRequestsTotal.WithLabelValues(breakerName, "success").Inc()
	return result.(float64), nil
}

func (p *Provider) doFetchPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("x-access-token", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("gold feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var quote quoteResponse
	if err := json.Unmarshal(body, &quote); err != nil {
		return 0, fmt.Errorf("failed to parse gold feed response: %w", err)
	}
	if quote.Price <= 0 {
		return 0, fmt.Errorf("gold feed returned non-positive price %f", quote.Price)
	}

	return quote.Price, nil
}

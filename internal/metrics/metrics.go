// Package metrics defines the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts the number of HTTP requests processed
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zakat_http_requests_total",
			Help: "The total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	// HTTPRequestDuration tracks the duration of HTTP requests
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zakat_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// CalculationsTotal counts evaluations performed, by category and outcome
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zakat_calculations_total",
			Help: "The total number of zakat calculations performed",
		},
		[]string{"category", "obligated"},
	)

	// FeedRequestsTotal counts outbound price-feed requests
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zakat_feed_requests_total",
			Help: "Outbound requests to external price feeds",
		},
		[]string{"feed", "status"},
	)

	// FeedFallbacksTotal counts refreshes that degraded to fallback values
	FeedFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zakat_feed_fallbacks_total",
			Help: "Feed refreshes that fell back to the last known value",
		},
		[]string{"feed", "reason"},
	)

	// NisabThresholdUSD exports the current nisab threshold
	NisabThresholdUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zakat_nisab_threshold_usd",
			Help: "Current nisab threshold in USD",
		},
	)

	// GoldPriceUSD exports the gold price in use
	GoldPriceUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zakat_gold_price_usd_per_ounce",
			Help: "Gold price, USD per troy ounce, currently used for nisab",
		},
	)

	// ExchangeRate exports the exchange rate in use, by currency
	ExchangeRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zakat_exchange_rate",
			Help: "USD exchange rate currently used for display conversion",
		},
		[]string{"currency"},
	)

	// CircuitBreakerState tracks the current state of a feed circuit breaker
	// (1=closed, 2=half-open, 3=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zakat_circuit_breaker_state",
			Help: "Current state of the circuit breaker: 1=closed, 2=half-open, 3=open",
		},
		[]string{"name"},
	)

	// CircuitBreakerRejected counts requests rejected due to open circuit
	CircuitBreakerRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zakat_circuit_breaker_rejected_total",
			Help: "Number of requests rejected due to open circuit",
		},
		[]string{"name"},
	)
)

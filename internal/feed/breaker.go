// Package feed provides shared plumbing for the external price feeds.
package feed

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/amanahdev/zakat-engine/internal/config"
	"github.com/amanahdev/zakat-engine/internal/metrics"
)

// NewBreaker builds the circuit breaker used around a feed's HTTP calls and
// registers its state gauge.
func NewBreaker(logger *zap.Logger, name string, cbConf config.CircuitBreakerConfig) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: uint32(cbConf.MaxHalfOpenReqs),
		Interval:    0,
		Timeout:     time.Duration(cbConf.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= uint32(cbConf.RequestThreshold) && failureRatio >= cbConf.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				zap.String("op", "feed.NewBreaker"),
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			var stateValue float64
			switch to {
			case gobreaker.StateClosed:
				stateValue = 1
			case gobreaker.StateHalfOpen:
				stateValue = 2
			case gobreaker.StateOpen:
				stateValue = 3
			}
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue)
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(1)
	return gobreaker.NewCircuitBreaker(settings)
}

// IsRejection reports whether the error is a breaker rejection rather than a
// feed failure.
func IsRejection(err error) bool {
	return err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests
}

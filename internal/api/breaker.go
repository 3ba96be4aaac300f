package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	apierrors "github.com/diogo/docwrangler/internal/errors"
)

// BreakerSettings controls when the client stops calling a failing service.
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before a probe is allowed.
	OpenTimeout time.Duration
	// HalfOpenMaxCalls is the number of probes allowed while half-open.
	HalfOpenMaxCalls uint32
}

// DefaultBreakerSettings returns the settings used when the breaker is enabled in config.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxCalls:    1,
	}
}

func (s BreakerSettings) normalize() BreakerSettings {
	def := DefaultBreakerSettings()
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = def.ConsecutiveFailures
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = def.OpenTimeout
	}
	if s.HalfOpenMaxCalls == 0 {
		s.HalfOpenMaxCalls = def.HalfOpenMaxCalls
	}
	return s
}

// breakerSet keeps one breaker per operation so a failing upload path does not
// block queries.
type breakerSet struct {
	settings BreakerSettings
	logger   *zap.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func newBreakerSet(settings BreakerSettings, logger *zap.Logger) *breakerSet {
	return &breakerSet{
		settings: settings.normalize(),
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

func (b *breakerSet) run(operation string, fn func() error) error {
	_, err := b.get(operation).Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apierrors.ErrCircuitOpen
	}
	return err
}

func (b *breakerSet) get(operation string) *gobreaker.CircuitBreaker[any] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := b.breakers[operation]; ok {
		return cb
	}

	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: b.settings.HalfOpenMaxCalls,
		Timeout:     b.settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= b.settings.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return !recordsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("circuit breaker state change",
				zap.String("operation", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	cb := gobreaker.NewCircuitBreaker[any](settings)
	b.breakers[operation] = cb
	return cb
}

// recordsFailure reports whether err says something about the service's health.
// Client-side problems, 4xx statuses and logical errors do not count.
func recordsFailure(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case apierrors.IsLogicalError(err):
		return false
	case apierrors.IsRequestError(err):
		return apierrors.IsServerError(err)
	case apierrors.IsNetworkError(err):
		return true
	case errors.Is(err, apierrors.ErrInvalidResponse):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}

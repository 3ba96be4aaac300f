package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/diogo/docwrangler/internal/config"
	apierrors "github.com/diogo/docwrangler/internal/errors"
)

// maxErrorBody caps how much of a non-2xx body is kept for logging.
const maxErrorBody = 4 << 10

// Client talks to the decision service. It is safe for concurrent use; the
// connection settings are fixed at construction, so a config change means a new Client.
type Client struct {
	httpClient *http.Client
	cfg        config.APIConfig
	logger     *zap.Logger
	breakers   *breakerSet
	limiter    *rate.Limiter
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds every request. Zero disables the timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithCircuitBreaker makes the client fail fast with ErrCircuitOpen after repeated
// transport or 5xx failures.
func WithCircuitBreaker(settings BreakerSettings) ClientOption {
	return func(c *Client) {
		c.breakers = newBreakerSet(settings, c.logger)
	}
}

// WithRateLimit paces outgoing requests to at most perMinute calls per minute.
func WithRateLimit(perMinute int) ClientOption {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// NewClient creates a client bound to cfg. An unconfigured cfg is accepted; every
// call then fails with ErrNotConfigured.
func NewClient(cfg config.APIConfig, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.breakers != nil {
		c.breakers.logger = c.logger
	}

	return c
}

// NewClientFromConfig builds a client from the full configuration, translating the
// resilience settings into options.
func NewClientFromConfig(cfg config.Config, logger *zap.Logger) *Client {
	opts := []ClientOption{WithLogger(logger)}
	if cfg.RequestTimeoutSeconds > 0 {
		opts = append(opts, WithTimeout(time.Duration(cfg.RequestTimeoutSeconds)*time.Second))
	}
	if cfg.CircuitBreaker {
		opts = append(opts, WithCircuitBreaker(DefaultBreakerSettings()))
	}
	if cfg.MaxRequestsPerMinute > 0 {
		opts = append(opts, WithRateLimit(cfg.MaxRequestsPerMinute))
	}
	return NewClient(cfg.API(), opts...)
}

// Config returns the connection settings the client was built with.
func (c *Client) Config() config.APIConfig {
	return c.cfg
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// IsConfigured reports whether the client has a base URL.
func (c *Client) IsConfigured() bool {
	return c.cfg.Configured()
}

func (c *Client) endpoint(path string) (string, error) {
	if !c.cfg.Configured() {
		return "", apierrors.ErrNotConfigured
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + path, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.APIKey != "" {
		req.Header.Set(HeaderAPIKey, c.cfg.APIKey)
	}
}

// execute runs fn behind the rate limiter and, when enabled, the circuit breaker
// for operation.
func (c *Client) execute(ctx context.Context, operation string, fn func() error) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if c.breakers == nil {
		return fn()
	}
	return c.breakers.run(operation, fn)
}

// roundTrip sends req and returns the body of a 2xx response. Non-2xx statuses become
// a RequestError carrying prefix; connection failures become a NetworkError.
func (c *Client) roundTrip(req *http.Request, operation, prefix string) ([]byte, error) {
	endpoint := req.URL.String()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warn("request failed",
			zap.String("operation", operation),
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, apierrors.NewNetworkError(operation, endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("response received",
		zap.String("operation", operation),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := apierrors.NewRequestError(prefix, endpoint, resp.StatusCode, resp.Status)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		reqErr.Body = string(body)
		c.logger.Warn("non-success status",
			zap.String("operation", operation),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, reqErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apierrors.NewNetworkError(operation, endpoint, fmt.Errorf("failed to read response: %w", err))
	}
	return body, nil
}

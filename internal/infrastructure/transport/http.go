// Package transport sends assembled connector requests over HTTP. Each
// processor host gets its own circuit breaker; network errors may be retried
// when configured, processor replies never are.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cassiomorais/connectors/internal/connector"
	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/infrastructure/observability"
	"github.com/cassiomorais/connectors/pkg/retry"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// errServerError marks a 5xx reply as a breaker failure. It never leaves Send.
var errServerError = errors.New("server error")

type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

type Config struct {
	Timeout          time.Duration
	MaxAttempts      uint
	RetryDelay       time.Duration
	MaxRetryDelay    time.Duration
	MaxResponseBytes int64
	Breaker          BreakerConfig
}

func DefaultConfig() Config {
	return Config{
		Timeout:          30 * time.Second,
		MaxAttempts:      1,
		RetryDelay:       200 * time.Millisecond,
		MaxRetryDelay:    2 * time.Second,
		MaxResponseBytes: 1 << 20,
		Breaker: BreakerConfig{
			MaxRequests:  10,
			Interval:     60 * time.Second,
			Timeout:      30 * time.Second,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
	}
}

type HTTPTransport struct {
	client  *http.Client
	cfg     Config
	metrics *observability.Metrics
	logger  zerolog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[*connector.Response]
}

var _ connector.Transport = (*HTTPTransport)(nil)

func New(cfg Config, metrics *observability.Metrics, logger zerolog.Logger) *HTTPTransport {
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultConfig().MaxResponseBytes
	}
	return &HTTPTransport{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker[*connector.Response]),
	}
}

// Send executes req. Any reply the processor produced, including 4xx and
// 5xx, is returned as a Response with a nil error.
func (t *HTTPTransport) Send(ctx context.Context, req *connector.Request) (*connector.Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", domainErrors.ErrTransportFailed, req.URL)
	}
	host := u.Host
	breaker := t.breaker(host)

	res, err := breaker.Execute(func() (*connector.Response, error) {
		res, err := retry.DoWithResult(ctx, t.retryConfig(host), func() (*connector.Response, error) {
			return t.do(ctx, req)
		})
		if err != nil {
			return nil, err
		}
		if res.StatusCode >= http.StatusInternalServerError {
			return res, errServerError
		}
		return res, nil
	})

	switch {
	case err == nil:
		t.metrics.CircuitBreakerRequests.WithLabelValues(host, "success").Inc()
		return res, nil
	case errors.Is(err, errServerError):
		t.metrics.CircuitBreakerRequests.WithLabelValues(host, "failure").Inc()
		return res, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		t.metrics.CircuitBreakerRequests.WithLabelValues(host, "rejected").Inc()
		return nil, fmt.Errorf("%w: %s: %w", domainErrors.ErrConnectorUnavailable, host, err)
	default:
		t.metrics.CircuitBreakerRequests.WithLabelValues(host, "failure").Inc()
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrTransportFailed, err)
	}
}

func (t *HTTPTransport) do(ctx context.Context, req *connector.Request) (*connector.Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body.Payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, body)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	for _, h := range req.Headers {
		httpReq.Header.Add(h.Name, h.Value.Expose())
	}
	if req.Body != nil && httpReq.Header.Get(connector.HeaderContentType) == "" {
		httpReq.Header.Set(connector.HeaderContentType, req.Body.ContentType)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, t.cfg.MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &connector.Response{
		StatusCode: resp.StatusCode,
		Body:       payload,
		Headers:    resp.Header.Clone(),
	}, nil
}

func (t *HTTPTransport) retryConfig(host string) retry.Config {
	return retry.Config{
		MaxAttempts:  t.cfg.MaxAttempts,
		InitialDelay: t.cfg.RetryDelay,
		MaxDelay:     t.cfg.MaxRetryDelay,
		RetryIf: func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		},
		OnRetry: func(attempt uint, err error) {
			t.metrics.TransportRetries.WithLabelValues(host).Inc()
			t.logger.Warn().Err(err).Str("host", host).Uint("attempt", attempt+1).Msg("Retrying connector request")
		},
	}
}

func (t *HTTPTransport) breaker(host string) *gobreaker.CircuitBreaker[*connector.Response] {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cb, ok := t.breakers[host]; ok {
		return cb
	}

	bc := t.cfg.Breaker
	cb := gobreaker.NewCircuitBreaker[*connector.Response](gobreaker.Settings{
		Name:        host,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= bc.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			t.metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			t.logger.Warn().Str("host", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})
	t.breakers[host] = cb
	t.metrics.CircuitBreakerState.WithLabelValues(host).Set(stateValue(gobreaker.StateClosed))
	return cb
}

// BreakerState reports the breaker state for host, closed if none exists yet.
func (t *HTTPTransport) BreakerState(host string) gobreaker.State {
	t.mu.Lock()
	cb, ok := t.breakers[host]
	t.mu.Unlock()
	if !ok {
		return gobreaker.StateClosed
	}
	return cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

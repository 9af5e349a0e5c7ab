package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weathermap/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour. MaxRetries of zero
// means a failed call is reported straight away.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *resty.Client
	Backoff BackoffConfig
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequestWithResilience sends a request through the circuit breaker, retrying
// with exponential backoff when configured. Every failure is wrapped in
// weather.ErrNetworkFailure.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	send func(req *resty.Request) (*resty.Response, error),
) (*resty.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || (cfg.Backoff.MaxRetries > 0 && cfg.Backoff.InitialInterval <= 0) {
		return nil, errInvalidConfig
	}

	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", weather.ErrNetworkFailure, ctx.Err())
		}

		result, err := cb.Execute(func() (interface{}, error) {
			req := cfg.Client.R().
				SetContext(ctx).
				SetHeader("Accept", "application/json")

			resp, execErr := send(req)
			if execErr != nil {
				return nil, execErr
			}

			// Handle rate limiting and server errors explicitly.
			if resp.StatusCode() == http.StatusTooManyRequests {
				return nil, errRateLimited
			}
			if resp.StatusCode() >= 500 {
				return nil, errServerError
			}
			if !resp.IsSuccess() {
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode())
			}

			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*resty.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %v", weather.ErrNetworkFailure, errCircuitOpen, err)
		}

		if attempt >= cfg.Backoff.MaxRetries {
			return nil, fmt.Errorf("%w: %w", weather.ErrNetworkFailure, err)
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %w", weather.ErrNetworkFailure, ctx.Err())
		case <-timer.C:
		}

		attempt++
	}
}

package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/weathermap/internal/weather"
)

// Upstream is a source that serves both forecasts and geocoding, as
// OpenWeatherMap does under a single API key.
type Upstream interface {
	weather.ForecastProvider
	weather.Geocoder
}

// RateLimitedProvider shares one limiter across every call made with the same key.
type RateLimitedProvider struct {
	upstream Upstream
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedProvider wraps upstream. rps may be fractional; burst is the
// maximum burst size allowed.
func NewRateLimitedProvider(upstream Upstream, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		upstream: upstream,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", upstream.Name()),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.name
}

func (r *RateLimitedProvider) FetchForecast(ctx context.Context, lat, lon float64) ([]weather.RawSample, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.upstream.FetchForecast(ctx, lat, lon)
}

func (r *RateLimitedProvider) Direct(ctx context.Context, query string, limit int) ([]weather.Place, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.upstream.Direct(ctx, query, limit)
}

func (r *RateLimitedProvider) Reverse(ctx context.Context, lat, lon float64, limit int) ([]weather.Place, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.upstream.Reverse(ctx, lat, lon, limit)
}

func (r *RateLimitedProvider) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit wait canceled: %w", weather.ErrNetworkFailure, err)
	}
	return nil
}

var (
	_ Upstream = (*OpenWeatherProvider)(nil)
	_ Upstream = (*RateLimitedProvider)(nil)
)

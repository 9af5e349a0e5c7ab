package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// SuggestionLimit is the number of autocomplete entries requested.
const SuggestionLimit = 5

// Service wraps the forecast and geocoding collaborators.
type Service struct {
	forecasts ForecastProvider
	geocoder  Geocoder
	logger    *slog.Logger
}

// NewService creates a new Service.
func NewService(forecasts ForecastProvider, geocoder Geocoder, logger *slog.Logger) *Service {
	return &Service{
		forecasts: forecasts,
		geocoder:  geocoder,
		logger:    logger.With("component", "weather-service"),
	}
}

// Locate returns the first geocoding match for a city query.
func (s *Service) Locate(ctx context.Context, city string) (Place, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Place{}, fmt.Errorf("%w: empty query", ErrNotFound)
	}

	places, err := s.geocoder.Direct(ctx, city, 1)
	if err != nil {
		s.logger.Error("geocode failed", "query", city, "error", err)
		return Place{}, fmt.Errorf("geocode %q: %w", city, err)
	}
	if len(places) == 0 {
		s.logger.Info("geocode returned no results", "query", city)
		return Place{}, fmt.Errorf("%w: %q", ErrNotFound, city)
	}
	return places[0], nil
}

// ReverseLookup returns the first place found at a coordinate.
func (s *Service) ReverseLookup(ctx context.Context, lat, lon float64) (Place, error) {
	places, err := s.geocoder.Reverse(ctx, lat, lon, 1)
	if err != nil {
		s.logger.Error("reverse geocode failed", "lat", lat, "lon", lon, "error", err)
		return Place{}, fmt.Errorf("reverse geocode: %w", err)
	}
	if len(places) == 0 {
		return Place{}, fmt.Errorf("%w: lat=%f lon=%f", ErrNotFound, lat, lon)
	}
	return places[0], nil
}

// Suggest returns autocomplete entries for a partial city name.
func (s *Service) Suggest(ctx context.Context, term string) ([]Suggestion, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []Suggestion{}, nil
	}

	places, err := s.geocoder.Direct(ctx, term, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", term, err)
	}

	out := make([]Suggestion, 0, len(places))
	for _, p := range places {
		out = append(out, Suggestion{Label: p.Label(), Value: p.Query()})
	}
	return out, nil
}

// Forecast fetches and validates the forecast list for a coordinate.
// Malformed entries are dropped; the rest keep upstream order.
func (s *Service) Forecast(ctx context.Context, lat, lon float64) ([]ForecastSample, error) {
	s.logger.Debug("fetching forecast", "provider", s.forecasts.Name(), "lat", lat, "lon", lon)

	raws, err := s.forecasts.FetchForecast(ctx, lat, lon)
	if err != nil {
		s.logger.Error("forecast fetch failed", "provider", s.forecasts.Name(), "lat", lat, "lon", lon, "error", err)
		return nil, fmt.Errorf("forecast: %w", err)
	}

	samples := ParseSamples(s.logger, raws)
	if len(raws) > 0 && len(samples) == 0 {
		return nil, fmt.Errorf("forecast: every sample was malformed: %w", ErrMalformedSample)
	}
	return samples, nil
}

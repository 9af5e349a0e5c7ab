package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weathermap/internal/weather"
)

// DefaultOpenWeatherURL is the public OpenWeatherMap API root.
const DefaultOpenWeatherURL = "https://api.openweathermap.org"

// OpenWeatherProvider implements weather.ForecastProvider and weather.Geocoder
// on OpenWeatherMap's 5 day / 3 hour forecast and geocoding APIs.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *resty.Client, apiKey, baseURL string, backoff BackoffConfig) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
		},
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, lat, lon float64) ([]weather.RawSample, error) {
	var payload struct {
		List []weather.RawSample `json:"list"`
	}

	err := p.get(ctx, "/data/2.5/forecast", map[string]string{
		"lat":   formatCoord(lat),
		"lon":   formatCoord(lon),
		"units": "metric",
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.List, nil
}

func (p *OpenWeatherProvider) Direct(ctx context.Context, query string, limit int) ([]weather.Place, error) {
	var results []geoResult
	err := p.get(ctx, "/geo/1.0/direct", map[string]string{
		"q":     query,
		"limit": strconv.Itoa(limit),
	}, &results)
	if err != nil {
		return nil, err
	}
	return toPlaces(results), nil
}

func (p *OpenWeatherProvider) Reverse(ctx context.Context, lat, lon float64, limit int) ([]weather.Place, error) {
	var results []geoResult
	err := p.get(ctx, "/geo/1.0/reverse", map[string]string{
		"lat":   formatCoord(lat),
		"lon":   formatCoord(lon),
		"limit": strconv.Itoa(limit),
	}, &results)
	if err != nil {
		return nil, err
	}
	return toPlaces(results), nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, path string, params map[string]string, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather api key is not configured")
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetQueryParams(params).
			SetQueryParam("appid", p.apiKey).
			Get(p.baseURL + path)
	})
	if err != nil {
		return fmt.Errorf("openweather %s: %w", path, err)
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("openweather %s: %w: decode response: %v", path, weather.ErrNetworkFailure, err)
	}
	return nil
}

type geoResult struct {
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	BoundingBox []string `json:"boundingbox,omitempty"`
}

func toPlaces(results []geoResult) []weather.Place {
	places := make([]weather.Place, 0, len(results))
	for _, r := range results {
		places = append(places, weather.Place{
			Name:        r.Name,
			Country:     r.Country,
			Lat:         r.Lat,
			Lon:         r.Lon,
			BoundingBox: parseBoundingBox(r.BoundingBox),
		})
	}
	return places
}

// parseBoundingBox reads the Nominatim-style [south, north, west, east] strings.
func parseBoundingBox(raw []string) *weather.BoundingBox {
	if len(raw) != 4 {
		return nil
	}
	var v [4]float64
	for i, s := range raw {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	return &weather.BoundingBox{South: v[0], North: v[1], West: v[2], East: v[3]}
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

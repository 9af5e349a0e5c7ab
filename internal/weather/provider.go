package weather

import "context"

// ForecastProvider abstracts the 3-hour forecast source (e.g. OpenWeatherMap).
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, lat, lon float64) ([]RawSample, error)
}

// Geocoder resolves place names to coordinates and back.
type Geocoder interface {
	Direct(ctx context.Context, query string, limit int) ([]Place, error)
	Reverse(ctx context.Context, lat, lon float64, limit int) ([]Place, error)
}

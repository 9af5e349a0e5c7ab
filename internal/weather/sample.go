package weather

import (
	"fmt"
	"log/slog"
	"time"
)

// RawSample mirrors one entry of the upstream forecast list. Pointer fields
// distinguish a missing value from a zero one.
type RawSample struct {
	DtTxt string `json:"dt_txt"`
	Main  *struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
		Pressure *float64 `json:"pressure"`
	} `json:"main"`
	Clouds *struct {
		All *int `json:"all"`
	} `json:"clouds"`
	Wind *struct {
		Speed *float64 `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Rain    map[string]float64 `json:"rain,omitempty"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// NewSample validates a raw entry. Missing precipitation defaults to zero and
// wind direction is optional; every other field is required.
func NewSample(raw RawSample) (ForecastSample, error) {
	ts, err := time.Parse(SampleLayout, raw.DtTxt)
	if err != nil {
		return ForecastSample{}, fmt.Errorf("%w: dt_txt %q", ErrMalformedSample, raw.DtTxt)
	}

	switch {
	case raw.Main == nil || raw.Main.Temp == nil:
		return ForecastSample{}, fmt.Errorf("%w: main.temp missing at %s", ErrMalformedSample, raw.DtTxt)
	case raw.Main.Humidity == nil:
		return ForecastSample{}, fmt.Errorf("%w: main.humidity missing at %s", ErrMalformedSample, raw.DtTxt)
	case raw.Main.Pressure == nil:
		return ForecastSample{}, fmt.Errorf("%w: main.pressure missing at %s", ErrMalformedSample, raw.DtTxt)
	case raw.Clouds == nil || raw.Clouds.All == nil:
		return ForecastSample{}, fmt.Errorf("%w: clouds.all missing at %s", ErrMalformedSample, raw.DtTxt)
	case raw.Wind == nil || raw.Wind.Speed == nil:
		return ForecastSample{}, fmt.Errorf("%w: wind.speed missing at %s", ErrMalformedSample, raw.DtTxt)
	case len(raw.Weather) == 0:
		return ForecastSample{}, fmt.Errorf("%w: weather[0] missing at %s", ErrMalformedSample, raw.DtTxt)
	}

	s := ForecastSample{
		Timestamp:    raw.DtTxt,
		Time:         ts,
		TemperatureC: *raw.Main.Temp,
		PrecipMM:     raw.Rain["3h"],
		CloudsPct:    *raw.Clouds.All,
		HumidityPct:  *raw.Main.Humidity,
		PressureHpa:  *raw.Main.Pressure,
		WindSpeedMS:  *raw.Wind.Speed,
		Description:  raw.Weather[0].Description,
		Icon:         raw.Weather[0].Icon,
	}
	if raw.Wind.Deg != nil {
		deg := *raw.Wind.Deg
		s.WindDeg = &deg
	}
	return s, nil
}

// ParseSamples converts a raw forecast list, skipping malformed entries with a warning.
func ParseSamples(logger *slog.Logger, raws []RawSample) []ForecastSample {
	samples := make([]ForecastSample, 0, len(raws))
	for i, raw := range raws {
		s, err := NewSample(raw)
		if err != nil {
			logger.Warn("skipping forecast sample", "index", i, "error", err)
			continue
		}
		samples = append(samples, s)
	}
	return samples
}

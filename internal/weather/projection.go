package weather

import "fmt"

// MetricKey names one of the chartable series.
type MetricKey string

const (
	MetricTemp       MetricKey = "temp"
	MetricRain       MetricKey = "rain"
	MetricRainChance MetricKey = "rainChance"
	MetricClouds     MetricKey = "clouds"
	MetricHumidity   MetricKey = "humidity"
	MetricPressure   MetricKey = "pressure"
	MetricWind       MetricKey = "wind"
)

// MetricKeys lists every series a projection carries, in display order.
var MetricKeys = []MetricKey{
	MetricTemp, MetricRain, MetricRainChance, MetricClouds,
	MetricHumidity, MetricPressure, MetricWind,
}

type metricDisplay struct {
	label string
	color string
}

var metricDisplays = map[MetricKey]metricDisplay{
	MetricTemp:       {label: "Temp (°C)", color: "orange"},
	MetricRain:       {label: "Rain (mm)", color: "blue"},
	MetricRainChance: {label: "Chance of Rain (%)", color: "black"},
	MetricClouds:     {label: "Clouds (%)", color: "gray"},
	MetricHumidity:   {label: "Humidity (%)", color: "green"},
	MetricPressure:   {label: "Pressure (hPa)", color: "purple"},
	MetricWind:       {label: "Wind (m/s)", color: "brown"},
}

// ParseMetricKey validates a key received from a caller.
func ParseMetricKey(s string) (MetricKey, error) {
	k := MetricKey(s)
	if _, ok := metricDisplays[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidMetricKey, s)
	}
	return k, nil
}

// MetricSeries is one named series aligned by index with the source samples.
type MetricSeries struct {
	Key    MetricKey `json:"key"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ChartBinding is what a chart needs to display one series.
type ChartBinding struct {
	Key    MetricKey `json:"key"`
	Label  string    `json:"label"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Color  string    `json:"color"`
}

// Projection holds every series derived from one sample set.
type Projection struct {
	labels  []string
	series  map[MetricKey][]float64
	compass []string
}

// Project derives all seven series in a single pass.
func Project(samples []ForecastSample) *Projection {
	n := len(samples)
	p := &Projection{
		labels:  make([]string, 0, n),
		series:  make(map[MetricKey][]float64, len(MetricKeys)),
		compass: make([]string, 0, n),
	}
	for _, k := range MetricKeys {
		p.series[k] = make([]float64, 0, n)
	}

	for _, s := range samples {
		p.labels = append(p.labels, s.TimeLabel())
		p.series[MetricTemp] = append(p.series[MetricTemp], s.TemperatureC)
		p.series[MetricRain] = append(p.series[MetricRain], s.PrecipMM)
		p.series[MetricRainChance] = append(p.series[MetricRainChance], float64(RainProbability(s.PrecipMM)))
		p.series[MetricClouds] = append(p.series[MetricClouds], float64(s.CloudsPct))
		p.series[MetricHumidity] = append(p.series[MetricHumidity], float64(s.HumidityPct))
		p.series[MetricPressure] = append(p.series[MetricPressure], s.PressureHpa)
		p.series[MetricWind] = append(p.series[MetricWind], s.WindSpeedMS)

		dir := ""
		if s.WindDeg != nil {
			dir = Compass(*s.WindDeg)
		}
		p.compass = append(p.compass, dir)
	}
	return p
}

// Len returns the number of samples projected.
func (p *Projection) Len() int {
	return len(p.labels)
}

// Labels returns a copy of the time labels.
func (p *Projection) Labels() []string {
	return append([]string(nil), p.labels...)
}

// Compass returns a copy of the per-sample compass points; empty where the
// sample had no wind direction.
func (p *Projection) Compass() []string {
	return append([]string(nil), p.compass...)
}

// Series returns a copy of one series.
func (p *Projection) Series(key MetricKey) (MetricSeries, error) {
	values, ok := p.series[key]
	if !ok {
		return MetricSeries{}, fmt.Errorf("%w: %q", ErrInvalidMetricKey, key)
	}
	return MetricSeries{
		Key:    key,
		Labels: p.Labels(),
		Values: append([]float64(nil), values...),
	}, nil
}

// All returns a copy of every series keyed by metric.
func (p *Projection) All() map[MetricKey]MetricSeries {
	out := make(map[MetricKey]MetricSeries, len(MetricKeys))
	for _, k := range MetricKeys {
		s, _ := p.Series(k)
		out[k] = s
	}
	return out
}

// SelectMetric binds one series for display. It does not touch the
// projection, so repeated calls with the same key return equal bindings.
func SelectMetric(p *Projection, key MetricKey) (ChartBinding, error) {
	d, ok := metricDisplays[key]
	if !ok {
		return ChartBinding{}, fmt.Errorf("%w: %q", ErrInvalidMetricKey, key)
	}
	s, err := p.Series(key)
	if err != nil {
		return ChartBinding{}, err
	}
	return ChartBinding{
		Key:    key,
		Label:  d.label,
		Labels: s.Labels,
		Values: s.Values,
		Color:  d.color,
	}, nil
}

package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/weathermap/internal/weather"
)

// Format selects the output encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ErrUnsupportedFormat is returned for anything other than PNG or SVG.
var ErrUnsupportedFormat = errors.New("unsupported chart format")

var palette = map[string]drawing.Color{
	"orange": {R: 255, G: 165, B: 0, A: 255},
	"blue":   {R: 0, G: 0, B: 255, A: 255},
	"black":  {R: 0, G: 0, B: 0, A: 255},
	"gray":   {R: 128, G: 128, B: 128, A: 255},
	"green":  {R: 0, G: 128, B: 0, A: 255},
	"purple": {R: 128, G: 0, B: 128, A: 255},
	"brown":  {R: 165, G: 42, B: 42, A: 255},
}

// ParseFormat maps a query value to a Format; empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Render draws a binding as a line chart with one tick per time label.
func Render(b weather.ChartBinding, format Format) ([]byte, error) {
	if len(b.Values) == 0 {
		return nil, weather.ErrNoSamples
	}

	xs := make([]float64, len(b.Values))
	ticks := make([]gochart.Tick, len(b.Values))
	for i := range b.Values {
		xs[i] = float64(i)
		label := ""
		if i < len(b.Labels) {
			label = b.Labels[i]
		}
		ticks[i] = gochart.Tick{Value: float64(i), Label: label}
	}

	color, ok := palette[b.Color]
	if !ok {
		color = drawing.ColorBlack
	}

	yMin, yMax := valueRange(b.Values)

	// A line needs two points; a single sample is drawn flat across the axis.
	ys := append([]float64(nil), b.Values...)
	if len(ys) == 1 {
		xs = []float64{0, 1}
		ys = []float64{ys[0], ys[0]}
	}

	graph := gochart.Chart{
		Title:  b.Label,
		Width:  640,
		Height: 320,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: 0, Max: math.Max(float64(len(b.Values)-1), 1)},
		},
		YAxis: gochart.YAxis{
			Name:  b.Label,
			Range: &gochart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    b.Label,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: color,
					StrokeWidth: 2,
					FillColor:   color.WithAlpha(40),
				},
			},
		},
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case PNG:
		err = graph.Render(gochart.PNG, &buf)
	case SVG:
		err = graph.Render(gochart.SVG, &buf)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", b.Key, err)
	}
	return buf.Bytes(), nil
}

// valueRange pads a flat series so the axis never collapses to zero height.
func valueRange(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.1
	return lo - pad, hi + pad
}

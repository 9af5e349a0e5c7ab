package chart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/i474232898/weathermap/internal/weather"
)

func binding() weather.ChartBinding {
	return weather.ChartBinding{
		Key:    weather.MetricTemp,
		Label:  "Temp (°C)",
		Labels: []string{"09:00", "12:00", "15:00", "18:00"},
		Values: []float64{12.5, 15, 16.2, 13},
		Color:  "orange",
	}
}

func TestRenderPNG(t *testing.T) {
	out, err := Render(binding(), PNG)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG: % x", out[:8])
	}
}

func TestRenderSVG(t *testing.T) {
	out, err := Render(binding(), SVG)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "<svg") {
		t.Fatal("output is not an SVG document")
	}
}

func TestRenderFlatSingleSample(t *testing.T) {
	b := weather.ChartBinding{Key: weather.MetricRain, Label: "Rain (mm)", Labels: []string{"00:00"}, Values: []float64{0}, Color: "blue"}
	for _, f := range []Format{PNG, SVG} {
		out, err := Render(b, f)
		if err != nil {
			t.Fatalf("single %s sample should render: %v", f, err)
		}
		if len(out) == 0 {
			t.Fatalf("single %s sample rendered nothing", f)
		}
	}

	b.Values = []float64{7.5}
	b.Labels = []string{"21:00"}
	if _, err := Render(b, SVG); err != nil {
		t.Fatalf("single non-zero sample should render: %v", err)
	}

	lo, hi := valueRange([]float64{0, 0, 0})
	if lo != -1 || hi != 1 {
		t.Errorf("flat range = [%v, %v], want [-1, 1]", lo, hi)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(weather.ChartBinding{}, PNG); !errors.Is(err, weather.ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
	if _, err := Render(binding(), Format("gif")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: PNG},
		{in: "png", want: PNG},
		{in: "svg", want: SVG},
		{in: "jpeg", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("ParseFormat(%q): expected ErrUnsupportedFormat, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}

	if PNG.ContentType() != "image/png" || SVG.ContentType() != "image/svg+xml" {
		t.Error("unexpected content types")
	}
}

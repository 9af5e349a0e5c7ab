package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/weathermap/internal/weather"
)

const forecastBody = `{"cod":"200","cnt":2,"list":[
  {"dt_txt":"2024-05-01 12:00:00","main":{"temp":18.4,"humidity":62,"pressure":1014},
   "clouds":{"all":20},"wind":{"speed":4.1,"deg":200},"rain":{"3h":1.2},
   "weather":[{"description":"light rain","icon":"10d"}]},
  {"dt_txt":"2024-05-01 15:00:00","main":{"temp":19.1,"humidity":58,"pressure":1013},
   "clouds":{"all":0},"wind":{"speed":3.0},
   "weather":[{"description":"clear sky","icon":"01d"}]}
]}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*OpenWeatherProvider, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := resty.New().SetTimeout(5 * time.Second)
	return NewOpenWeatherProvider(client, "test-key", srv.URL, BackoffConfig{}), &hits
}

func TestOpenWeatherFetchForecast(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/forecast" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("appid") != "test-key" || q.Get("units") != "metric" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("lat") != "48.85" || q.Get("lon") != "2.35" {
			t.Errorf("unexpected coordinates %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	})

	raws, err := p.FetchForecast(context.Background(), 48.85, 2.35)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 raw samples, got %d", len(raws))
	}

	s, err := weather.NewSample(raws[0])
	if err != nil {
		t.Fatalf("sample did not validate: %v", err)
	}
	if s.PrecipMM != 1.2 || s.Icon != "10d" {
		t.Errorf("unexpected sample %+v", s)
	}
}

func TestOpenWeatherDirect(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geo/1.0/direct" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "Paris" || r.URL.Query().Get("limit") != "1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"name":"Paris","country":"FR","lat":48.8589,"lon":2.32,
			"boundingbox":["48.8155","48.9021","2.2241","2.4697"]}]`))
	})

	places, err := p.Direct(context.Background(), "Paris", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(places))
	}
	got := places[0]
	if got.Label() != "Paris, FR" {
		t.Errorf("label = %q", got.Label())
	}
	want := weather.BoundingBox{South: 48.8155, North: 48.9021, West: 2.2241, East: 2.4697}
	if got.BoundingBox == nil || *got.BoundingBox != want {
		t.Errorf("bounding box = %+v, want %+v", got.BoundingBox, want)
	}
}

func TestOpenWeatherReverseEmpty(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geo/1.0/reverse" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	places, err := p.Reverse(context.Background(), 0, -150, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 0 {
		t.Fatalf("expected no places, got %d", len(places))
	}
}

func TestOpenWeatherFailuresAreNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "rate limited", status: http.StatusTooManyRequests},
		{name: "unauthorized", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, hits := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := p.FetchForecast(context.Background(), 1, 2)
			if !errors.Is(err, weather.ErrNetworkFailure) {
				t.Fatalf("expected ErrNetworkFailure, got %v", err)
			}
			if n := atomic.LoadInt32(hits); n != 1 {
				t.Errorf("expected a single attempt, got %d", n)
			}
		})
	}
}

func TestOpenWeatherRetriesWhenConfigured(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(resty.New(), "test-key", srv.URL, BackoffConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	})

	if _, err := p.Direct(context.Background(), "x", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}

func TestOpenWeatherBadBody(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	if _, err := p.FetchForecast(context.Background(), 1, 2); !errors.Is(err, weather.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestOpenWeatherMissingKey(t *testing.T) {
	p := NewOpenWeatherProvider(resty.New(), "", "http://127.0.0.1:0", BackoffConfig{})
	if _, err := p.FetchForecast(context.Background(), 1, 2); err == nil {
		t.Fatal("expected an error without an api key")
	}
}

func TestParseBoundingBox(t *testing.T) {
	if bb := parseBoundingBox(nil); bb != nil {
		t.Errorf("nil input should give nil, got %+v", bb)
	}
	if bb := parseBoundingBox([]string{"1", "2", "x", "4"}); bb != nil {
		t.Errorf("bad number should give nil, got %+v", bb)
	}
	if bb := parseBoundingBox([]string{"1", "2", "3"}); bb != nil {
		t.Errorf("short input should give nil, got %+v", bb)
	}
}

func TestRateLimitedProviderHonoursContext(t *testing.T) {
	p, hits := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	limited := NewRateLimitedProvider(p, 1, 1)

	if _, err := limited.Direct(context.Background(), "x", 1); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := limited.Reverse(ctx, 1, 2, 1); !errors.Is(err, weather.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure on canceled wait, got %v", err)
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Errorf("canceled call reached upstream: %d hits", n)
	}
	if limited.Name() != "openweathermap [Rate Limited]" {
		t.Errorf("unexpected name %q", limited.Name())
	}
}

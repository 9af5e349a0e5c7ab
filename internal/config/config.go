package config

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type AppConfig struct {
	OpenWeatherAPIKey  string `env:"OPENWEATHER_API_KEY"`
	OpenWeatherBaseURL string `env:"OPENWEATHER_BASE_URL,default=https://api.openweathermap.org"`

	// Outbound calls.
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT,default=10s"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	FetchMaxRetries  int           `env:"FETCH_MAX_RETRIES,default=0"` // failed lookups are surfaced, not retried
	OpenWeatherRPS   float64       `env:"OPENWEATHER_RPS,default=1"`
	OpenWeatherBurst int           `env:"OPENWEATHER_BURST,default=5"`
	BackoffInitial   time.Duration `env:"FETCH_BACKOFF_INITIAL,default=500ms"`
	BackoffMax       time.Duration `env:"FETCH_BACKOFF_MAX,default=5s"`

	// Display window choices in hours, and the one selected for new sessions.
	RangeOptions      []int `env:"RANGE_OPTIONS,default=3,6,12,24"`
	DefaultRangeHours int   `env:"DEFAULT_RANGE_HOURS,default=12"`
	ForecastDays      int   `env:"FORECAST_DAYS,default=5"`

	// Session retention.
	SessionMaxCount      int           `env:"SESSION_MAX_COUNT,default=1000"`
	SessionMaxAge        time.Duration `env:"SESSION_MAX_AGE,default=2h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL,default=15m"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	Port string `env:"PORT,default=8080"`
}

// Load reads configuration from a .env file (if any) and the environment.
func Load(ctx context.Context) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if strings.TrimSpace(c.OpenWeatherAPIKey) == "" {
		return fmt.Errorf("OPENWEATHER_API_KEY must be set")
	}
	if len(c.RangeOptions) == 0 {
		return fmt.Errorf("RANGE_OPTIONS must list at least one value")
	}
	for _, h := range c.RangeOptions {
		if h < 3 || h%3 != 0 {
			return fmt.Errorf("invalid RANGE_OPTIONS value %d: must be a positive multiple of 3", h)
		}
	}
	if !slices.Contains(c.RangeOptions, c.DefaultRangeHours) {
		return fmt.Errorf("DEFAULT_RANGE_HOURS %d is not one of RANGE_OPTIONS %v", c.DefaultRangeHours, c.RangeOptions)
	}
	if c.ForecastDays <= 0 {
		return fmt.Errorf("FORECAST_DAYS must be greater than zero")
	}
	if c.FetchMaxRetries < 0 {
		return fmt.Errorf("FETCH_MAX_RETRIES must not be negative")
	}
	if c.OpenWeatherRPS <= 0 || c.OpenWeatherBurst <= 0 {
		return fmt.Errorf("OPENWEATHER_RPS and OPENWEATHER_BURST must be greater than zero")
	}
	return nil
}

// Addr returns the listen address in the format ":port".
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}

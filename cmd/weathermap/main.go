package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weathermap/internal/api/http"
	"github.com/i474232898/weathermap/internal/config"
	"github.com/i474232898/weathermap/internal/scheduler"
	"github.com/i474232898/weathermap/internal/session"
	"github.com/i474232898/weathermap/internal/store"
	"github.com/i474232898/weathermap/internal/weather"
	"github.com/i474232898/weathermap/internal/weather/providers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration.
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger := cfg.NewLogger()
	slog.SetDefault(appLogger)

	// Shared HTTP client for outbound calls.
	httpClient := resty.New().SetTimeout(cfg.HTTPTimeout)

	// OpenWeatherMap serves both the forecast and geocoding under one key.
	openWeather := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, providers.BackoffConfig{
		MaxRetries:      cfg.FetchMaxRetries,
		InitialInterval: cfg.BackoffInitial,
		MaxInterval:     cfg.BackoffMax,
	})
	upstream := providers.NewRateLimitedProvider(openWeather, cfg.OpenWeatherRPS, cfg.OpenWeatherBurst)

	service := weather.NewService(upstream, upstream, appLogger)

	// Page sessions with configured retention.
	sessions := store.NewMemoryStore(cfg.SessionMaxCount, cfg.SessionMaxAge)

	sched := scheduler.New(sessions, cfg.SessionSweepInterval, appLogger)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weathermap",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weathermap",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:  service,
		Sessions: sessions,
		Options: session.Options{
			RangeOptions: cfg.RangeOptions,
			DefaultRange: cfg.DefaultRangeHours,
			ForecastDays: cfg.ForecastDays,
		},
		Logger:         appLogger,
		RequestTimeout: cfg.RequestTimeout,
	})

	go func() {
		appLogger.Info("starting server", "addr", cfg.Addr())
		if err := app.Listen(cfg.Addr()); err != nil {
			appLogger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("error during shutdown", "error", err)
	}
}

package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weathermap/internal/chart"
	"github.com/i474232898/weathermap/internal/session"
	"github.com/i474232898/weathermap/internal/store"
	"github.com/i474232898/weathermap/internal/weather"
)

var validate = validator.New()

// Deps are the collaborators the routes need.
type Deps struct {
	Service  *weather.Service
	Sessions *store.MemoryStore
	Options  session.Options
	Logger   *slog.Logger

	// RequestTimeout bounds the upstream lookups of one request. Zero means no deadline.
	RequestTimeout time.Duration
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	logger := d.Logger.With("component", "http")
	fail := func(err error) error {
		mapped := toHTTPError(err)
		var fe *fiber.Error
		if errors.As(mapped, &fe) && fe.Code == fiber.StatusInternalServerError {
			logger.Error("request failed", "error", err)
		}
		return mapped
	}

	v1 := app.Group("/api/v1", requestContext(d.RequestTimeout))

	v1.Get("/suggest", func(c *fiber.Ctx) error {
		q := suggestQuery{Term: strings.TrimSpace(c.Query("term"))}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		suggestions, err := d.Service.Suggest(c.UserContext(), q.Term)
		if err != nil {
			return fail(err)
		}
		return c.JSON(suggestions)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		pt, err := parsePointQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		hours, err := parseHours(c, d.Options)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		samples, err := d.Service.Forecast(c.UserContext(), *pt.Lat, *pt.Lon)
		if err != nil {
			return fail(err)
		}
		popup, err := weather.OpenPopup("Hourly Forecast", *pt.Lat, *pt.Lon, weather.Window(samples, hours))
		if err != nil {
			return fail(err)
		}

		days := d.Options.ForecastDays
		if days <= 0 {
			days = weather.DefaultForecastDays
		}
		return c.JSON(fiber.Map{
			"popup": popup.Payload(),
			"days":  weather.Cards(weather.FirstNDays(weather.Bucketize(samples), days)),
		})
	})

	sessions := v1.Group("/sessions")

	sessions.Post("/", func(c *fiber.Ctx) error {
		ctrl := session.NewController(d.Service, d.Logger, d.Options)
		d.Sessions.Save(ctrl)
		return c.Status(fiber.StatusCreated).JSON(ctrl.State())
	})

	sessions.Get("/:id", func(c *fiber.Ctx) error {
		ctrl, err := lookupSession(c, d.Sessions)
		if err != nil {
			return err
		}
		return c.JSON(ctrl.State())
	})

	sessions.Delete("/:id", func(c *fiber.Ctx) error {
		if _, err := lookupSession(c, d.Sessions); err != nil {
			return err
		}
		if err := d.Sessions.Delete(c.Params("id")); err != nil {
			return fail(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	sessions.Post("/:id/search", func(c *fiber.Ctx) error {
		ctrl, err := lookupSession(c, d.Sessions)
		if err != nil {
			return err
		}
		q := searchQuery{City: strings.Clone(strings.TrimSpace(c.Query("city")))}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		state, err := ctrl.ShowCity(c.UserContext(), q.City)
		if err != nil {
			return fail(err)
		}
		return c.JSON(state)
	})

	sessions.Post("/:id/click", func(c *fiber.Ctx) error {
		ctrl, err := lookupSession(c, d.Sessions)
		if err != nil {
			return err
		}
		pt, err := parsePointQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		state, err := ctrl.ClickMap(c.UserContext(), *pt.Lat, *pt.Lon)
		if err != nil {
			return fail(err)
		}
		return c.JSON(state)
	})

	sessions.Put("/:id/range", func(c *fiber.Ctx) error {
		ctrl, err := lookupSession(c, d.Sessions)
		if err != nil {
			return err
		}
		hours, err := strconv.Atoi(c.Query("hours"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "hours must be an integer")
		}

		state, err := ctrl.SetRange(hours)
		if err != nil {
			return fail(err)
		}
		return c.JSON(state)
	})

	sessions.Post("/:id/days/:date", func(c *fiber.Ctx) error {
		ctrl, err := lookupSession(c, d.Sessions)
		if err != nil {
			return err
		}

		state, err := ctrl.SelectDay(strings.Clone(c.Params("date")))
		if err != nil {
			return fail(err)
		}
		return c.JSON(state)
	})

	sessions.Put("/:id/popup/metric/:key", func(c *fiber.Ctx) error {
		ctrl, err := lookupSession(c, d.Sessions)
		if err != nil {
			return err
		}

		binding, err := ctrl.SelectMetric(strings.Clone(c.Params("key")))
		if err != nil {
			return fail(err)
		}
		return c.JSON(binding)
	})

	sessions.Delete("/:id/popup", func(c *fiber.Ctx) error {
		ctrl, err := lookupSession(c, d.Sessions)
		if err != nil {
			return err
		}
		return c.JSON(ctrl.ClosePopup())
	})

	sessions.Get("/:id/popup/chart", func(c *fiber.Ctx) error {
		ctrl, err := lookupSession(c, d.Sessions)
		if err != nil {
			return err
		}
		format, err := chart.ParseFormat(c.Query("format"))
		if err != nil {
			return fail(err)
		}

		binding, err := ctrl.ActiveChart()
		if err != nil {
			return fail(err)
		}
		img, err := chart.Render(binding, format)
		if err != nil {
			return fail(err)
		}

		c.Set(fiber.HeaderContentType, format.ContentType())
		return c.Send(img)
	})
}

// suggestQuery holds the autocomplete term.
type suggestQuery struct {
	Term string `validate:"required"`
}

// searchQuery holds the city to look up.
type searchQuery struct {
	City string `validate:"required"`
}

// pointQuery holds a map coordinate.
type pointQuery struct {
	Lat *float64 `validate:"required,gte=-90,lte=90"`
	Lon *float64 `validate:"required,gte=-180,lte=180"`
}

func parsePointQuery(c *fiber.Ctx) (pointQuery, error) {
	var q pointQuery

	lat, err := parseOptionalFloat(c.Query("lat"))
	if err != nil {
		return q, fmt.Errorf("invalid lat: %w", err)
	}
	lon, err := parseOptionalFloat(c.Query("lon"))
	if err != nil {
		return q, fmt.Errorf("invalid lon: %w", err)
	}
	q.Lat, q.Lon = lat, lon

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// parseHours reads the optional display range, defaulting to the configured one.
func parseHours(c *fiber.Ctx, opts session.Options) (int, error) {
	s := c.Query("hours")
	if s == "" {
		return opts.DefaultRange, nil
	}
	hours, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("hours must be an integer")
	}
	if !slices.Contains(opts.RangeOptions, hours) {
		return 0, fmt.Errorf("hours must be one of %v", opts.RangeOptions)
	}
	return hours, nil
}

func lookupSession(c *fiber.Ctx, sessions *store.MemoryStore) (*session.Controller, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	ctrl, err := sessions.Get(id)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return ctrl, nil
}

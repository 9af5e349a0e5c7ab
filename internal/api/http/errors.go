package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weathermap/internal/chart"
	"github.com/i474232898/weathermap/internal/session"
	"github.com/i474232898/weathermap/internal/store"
	"github.com/i474232898/weathermap/internal/weather"
)

// apiError is a fiber error that can also tell the client to offer a retry.
type apiError struct {
	Code      int
	Message   string
	Retryable bool
}

func (e *apiError) Error() string {
	return e.Message
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{
		"error":   true,
		"message": err.Error(),
	}

	var fe *fiber.Error
	var ae *apiError
	switch {
	case errors.As(err, &ae):
		code = ae.Code
		if ae.Retryable {
			body["retryable"] = true
		}
	case errors.As(err, &fe):
		code = fe.Code
	}
	return c.Status(code).JSON(body)
}

// toHTTPError maps domain errors onto status codes.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return &apiError{Code: fiber.StatusNotFound, Message: err.Error()}
	case errors.Is(err, weather.ErrNetworkFailure):
		return &apiError{Code: fiber.StatusBadGateway, Message: "weather service unavailable, please retry", Retryable: true}
	case errors.Is(err, weather.ErrMalformedSample):
		return &apiError{Code: fiber.StatusBadGateway, Message: err.Error(), Retryable: true}
	case errors.Is(err, weather.ErrNoSamples):
		return &apiError{Code: fiber.StatusNotFound, Message: err.Error()}
	case errors.Is(err, session.ErrStaleResponse):
		return &apiError{Code: fiber.StatusConflict, Message: err.Error()}
	case errors.Is(err, weather.ErrInvalidMetricKey),
		errors.Is(err, session.ErrInvalidRange),
		errors.Is(err, chart.ErrUnsupportedFormat):
		return &apiError{Code: fiber.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, session.ErrPopupClosed),
		errors.Is(err, session.ErrNoForecast),
		errors.Is(err, session.ErrDayNotFound),
		errors.Is(err, store.ErrNotFound):
		return &apiError{Code: fiber.StatusNotFound, Message: err.Error()}
	}
	return fiber.NewError(fiber.StatusInternalServerError, "internal error")
}

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/i474232898/weathermap/internal/weather"
)

var (
	// ErrStaleResponse is returned when a newer lookup was issued while this one was in flight.
	ErrStaleResponse = errors.New("superseded by a newer lookup")
	// ErrPopupClosed is returned for popup operations while no popup is open.
	ErrPopupClosed = errors.New("no popup is open")
	// ErrInvalidRange is returned for a display range outside the configured options.
	ErrInvalidRange = errors.New("invalid display range")
	// ErrNoForecast is returned when a day is selected before any forecast was loaded.
	ErrNoForecast = errors.New("no forecast loaded")
	// ErrDayNotFound is returned when the selected date has no card.
	ErrDayNotFound = errors.New("no forecast for that day")
)

const (
	initialZoom = 2
	pointZoom   = 12
)

// Backend is what the controller needs from the weather service.
type Backend interface {
	Locate(ctx context.Context, city string) (weather.Place, error)
	ReverseLookup(ctx context.Context, lat, lon float64) (weather.Place, error)
	Forecast(ctx context.Context, lat, lon float64) ([]weather.ForecastSample, error)
}

// Options configures a controller.
type Options struct {
	RangeOptions []int
	DefaultRange int
	ForecastDays int
}

// LatLng is a coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapView is where the client map should be positioned.
type MapView struct {
	Center    LatLng               `json:"center"`
	Zoom      int                  `json:"zoom,omitempty"`
	FitBounds *weather.BoundingBox `json:"fitBounds,omitempty"`
}

// Overlay is the city boundary rectangle.
type Overlay struct {
	ID          uuid.UUID           `json:"id"`
	Bounds      weather.BoundingBox `json:"bounds"`
	Color       string              `json:"color"`
	Weight      int                 `json:"weight"`
	DashArray   string              `json:"dashArray"`
	FillOpacity float64             `json:"fillOpacity"`
}

// Marker is the label pinned where the user clicked.
type Marker struct {
	ID      uuid.UUID `json:"id"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	Tooltip string    `json:"tooltip"`
}

type forecastState struct {
	at      LatLng
	buckets []weather.DayBucket
	cards   []weather.DayCard
}

// Controller owns the state of one page session. Lookups may run
// concurrently; each takes a token before any I/O and only the holder of the
// latest token may apply its result.
type Controller struct {
	id      uuid.UUID
	backend Backend
	logger  *slog.Logger
	opts    Options
	tokens  *atomic.Uint64
	now     func() time.Time

	mu         sync.Mutex
	rangeHours int
	view       MapView
	boundary   *Overlay
	marker     *Marker
	popup      *weather.Popup
	forecast   *forecastState
	notice     string
	updatedAt  time.Time
}

// NewController creates the controller for a new page session.
func NewController(backend Backend, logger *slog.Logger, opts Options) *Controller {
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = weather.DefaultForecastDays
	}
	id := uuid.New()
	c := &Controller{
		id:         id,
		backend:    backend,
		logger:     logger.With("component", "session", "session", id.String()),
		opts:       opts,
		tokens:     atomic.NewUint64(0),
		now:        time.Now,
		rangeHours: opts.DefaultRange,
		view:       MapView{Center: LatLng{Lat: 20, Lon: 0}, Zoom: initialZoom},
	}
	c.updatedAt = c.now()
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() uuid.UUID {
	return c.id
}

// ShowCity geocodes a city, fetches its forecast and installs the boundary,
// popup and day cards. A city with no geocoding result changes nothing.
func (c *Controller) ShowCity(ctx context.Context, city string) (State, error) {
	token := c.tokens.Inc()

	place, err := c.backend.Locate(ctx, city)
	if err != nil {
		return State{}, err
	}
	samples, err := c.backend.Forecast(ctx, place.Lat, place.Lon)
	if err != nil {
		return State{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkLatest(token); err != nil {
		return State{}, err
	}

	popup, err := weather.OpenPopup("Hourly for "+city, place.Lat, place.Lon, weather.Window(samples, c.rangeHours))
	if err != nil {
		return State{}, err
	}

	c.disposeBoundary()
	if bb := place.BoundingBox; bb != nil {
		c.boundary = &Overlay{
			ID:          uuid.New(),
			Bounds:      *bb,
			Color:       "red",
			Weight:      3,
			DashArray:   "5,5",
			FillOpacity: 0.05,
		}
		c.view = MapView{
			Center:    LatLng{Lat: (bb.South + bb.North) / 2, Lon: (bb.West + bb.East) / 2},
			FitBounds: bb,
		}
	} else {
		c.view = MapView{Center: LatLng{Lat: place.Lat, Lon: place.Lon}, Zoom: pointZoom}
	}

	c.installPopup(popup)
	c.setForecast(LatLng{Lat: place.Lat, Lon: place.Lon}, samples)
	c.notice = ""
	c.touch()

	c.logger.Info("city shown", "city", city, "samples", len(samples))
	return c.stateLocked(), nil
}

// ClickMap labels the clicked point, fetches its forecast and installs the
// marker, popup and day cards. A point with no place name is labelled with
// its coordinates and a notice is set.
func (c *Controller) ClickMap(ctx context.Context, lat, lon float64) (State, error) {
	token := c.tokens.Inc()

	var label, notice string
	place, err := c.backend.ReverseLookup(ctx, lat, lon)
	switch {
	case err == nil:
		label = place.Label()
	case errors.Is(err, weather.ErrNotFound):
		label = fmt.Sprintf("Lat: %.2f, Lon: %.2f", lat, lon)
		notice = "No place name found for this point"
	default:
		return State{}, err
	}

	samples, err := c.backend.Forecast(ctx, lat, lon)
	if err != nil {
		return State{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkLatest(token); err != nil {
		return State{}, err
	}

	popup, err := weather.OpenPopup("Hourly for "+label, lat, lon, weather.Window(samples, c.rangeHours))
	if err != nil {
		return State{}, err
	}

	c.disposeMarker()
	c.marker = &Marker{ID: uuid.New(), Lat: lat, Lon: lon, Tooltip: label}

	c.installPopup(popup)
	c.setForecast(LatLng{Lat: lat, Lon: lon}, samples)
	c.notice = notice
	c.touch()

	c.logger.Info("map point shown", "label", label, "samples", len(samples))
	return c.stateLocked(), nil
}

// SelectDay opens the popup for one of the displayed day cards.
func (c *Controller) SelectDay(date string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.forecast == nil {
		return State{}, ErrNoForecast
	}
	bucket, ok := weather.FindDay(weather.FirstNDays(c.forecast.buckets, c.opts.ForecastDays), date)
	if !ok {
		return State{}, fmt.Errorf("%w: %s", ErrDayNotFound, date)
	}

	popup, err := weather.OpenPopup("Hourly for "+date, c.forecast.at.Lat, c.forecast.at.Lon, weather.Window(bucket.Samples, c.rangeHours))
	if err != nil {
		return State{}, err
	}
	c.installPopup(popup)
	c.touch()
	return c.stateLocked(), nil
}

// SetRange selects the display window used by the next popup.
func (c *Controller) SetRange(hours int) (State, error) {
	if !slices.Contains(c.opts.RangeOptions, hours) {
		return State{}, fmt.Errorf("%w: %d (allowed %v)", ErrInvalidRange, hours, c.opts.RangeOptions)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.rangeHours = hours
	c.touch()
	return c.stateLocked(), nil
}

// SelectMetric switches the popup chart to another series.
func (c *Controller) SelectMetric(key string) (weather.ChartBinding, error) {
	k, err := weather.ParseMetricKey(key)
	if err != nil {
		return weather.ChartBinding{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.popup == nil {
		return weather.ChartBinding{}, ErrPopupClosed
	}
	b, err := c.popup.SelectMetric(k)
	if err != nil {
		return weather.ChartBinding{}, err
	}
	c.touch()
	return b, nil
}

// ActiveChart returns the binding the open popup displays.
func (c *Controller) ActiveChart() (weather.ChartBinding, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.popup == nil {
		return weather.ChartBinding{}, ErrPopupClosed
	}
	return c.popup.Active(), nil
}

// ClosePopup discards the popup and its projection. Closing twice is a no-op.
func (c *Controller) ClosePopup() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disposePopup()
	c.touch()
	return c.stateLocked()
}

// State returns a snapshot of the session for rendering.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) checkLatest(token uint64) error {
	if latest := c.tokens.Load(); token != latest {
		c.logger.Debug("dropping stale lookup", "token", token, "latest", latest)
		return ErrStaleResponse
	}
	return nil
}

func (c *Controller) installPopup(p *weather.Popup) {
	c.disposePopup()
	c.popup = p
}

func (c *Controller) disposePopup() {
	if c.popup != nil {
		c.logger.Debug("disposing popup", "title", c.popup.Title())
		c.popup = nil
	}
}

func (c *Controller) disposeBoundary() {
	if c.boundary != nil {
		c.logger.Debug("disposing boundary overlay", "overlay", c.boundary.ID)
		c.boundary = nil
	}
}

func (c *Controller) disposeMarker() {
	if c.marker != nil {
		c.logger.Debug("disposing label marker", "marker", c.marker.ID)
		c.marker = nil
	}
}

func (c *Controller) setForecast(at LatLng, samples []weather.ForecastSample) {
	buckets := weather.Bucketize(samples)
	c.forecast = &forecastState{
		at:      at,
		buckets: buckets,
		cards:   weather.Cards(weather.FirstNDays(buckets, c.opts.ForecastDays)),
	}
}

func (c *Controller) touch() {
	c.updatedAt = c.now()
}

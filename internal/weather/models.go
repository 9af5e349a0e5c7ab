package weather

import (
	"fmt"
	"time"
)

// SampleLayout is the layout of the upstream dt_txt field.
const SampleLayout = "2006-01-02 15:04:05"

// ForecastSample is one validated 3-hour forecast point.
// Values are immutable once built by NewSample.
type ForecastSample struct {
	Timestamp    string    `json:"timestamp"`
	Time         time.Time `json:"-"`
	TemperatureC float64   `json:"temperatureC"`
	PrecipMM     float64   `json:"precipMm"`
	CloudsPct    int       `json:"cloudsPercent"`
	HumidityPct  int       `json:"humidityPercent"`
	PressureHpa  float64   `json:"pressureHpa"`
	WindSpeedMS  float64   `json:"windSpeed"`
	WindDeg      *float64  `json:"windDeg,omitempty"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
}

// Date returns the calendar date portion of the timestamp.
func (s ForecastSample) Date() string {
	return s.Time.Format("2006-01-02")
}

// TimeLabel returns the hour:minute portion of the timestamp.
func (s ForecastSample) TimeLabel() string {
	return s.Time.Format("15:04")
}

// DayBucket groups the samples of a single calendar date in arrival order.
type DayBucket struct {
	Date    string           `json:"date"`
	Samples []ForecastSample `json:"samples"`
}

// DayCard is the render payload for one forecast card.
type DayCard struct {
	Date         string  `json:"date"`
	IconID       string  `json:"iconId"`
	IconURL      string  `json:"iconUrl"`
	HeadlineTemp float64 `json:"headlineTemp"`
}

// BoundingBox is a south/north/west/east rectangle in decimal degrees.
type BoundingBox struct {
	South float64 `json:"south"`
	North float64 `json:"north"`
	West  float64 `json:"west"`
	East  float64 `json:"east"`
}

// Place is a geocoding result.
type Place struct {
	Name        string       `json:"name"`
	Country     string       `json:"country"`
	Lat         float64      `json:"lat"`
	Lon         float64      `json:"lon"`
	BoundingBox *BoundingBox `json:"boundingBox,omitempty"`
}

// Label returns the human readable "Name, CC" form.
func (p Place) Label() string {
	return fmt.Sprintf("%s, %s", p.Name, p.Country)
}

// Query returns the "Name,CC" form accepted by the geocoder.
func (p Place) Query() string {
	return fmt.Sprintf("%s,%s", p.Name, p.Country)
}

// Suggestion is one autocomplete entry.
type Suggestion struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

package weather

import "errors"

var (
	// ErrNotFound is returned when a geocode or reverse-geocode lookup has no results.
	ErrNotFound = errors.New("location not found")

	// ErrNetworkFailure is returned when an upstream call fails or answers with a non-success status.
	ErrNetworkFailure = errors.New("upstream request failed")

	// ErrMalformedSample marks a forecast entry missing a required field.
	ErrMalformedSample = errors.New("malformed forecast sample")

	// ErrInvalidMetricKey is returned for a chart metric outside MetricKeys.
	ErrInvalidMetricKey = errors.New("invalid metric key")

	// ErrNoSamples is returned when a popup is opened over an empty window.
	ErrNoSamples = errors.New("no forecast samples to display")
)

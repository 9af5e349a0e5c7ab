package weather

import "fmt"

// Popup is the state of one open forecast popup. The projection is built once
// when the popup opens; switching metrics only changes the active key.
type Popup struct {
	title       string
	lat, lon    float64
	summaryHTML string
	projection  *Projection
	active      MetricKey
}

// PopupPayload is the render payload of an open popup.
type PopupPayload struct {
	Title       string                     `json:"title"`
	Lat         float64                    `json:"lat"`
	Lon         float64                    `json:"lon"`
	SummaryHTML string                     `json:"summaryHtml"`
	Active      MetricKey                  `json:"active"`
	Chart       ChartBinding               `json:"chart"`
	Series      map[MetricKey]MetricSeries `json:"series"`
	Compass     []string                   `json:"compass"`
}

// OpenPopup projects samples and shows the temperature series.
func OpenPopup(title string, lat, lon float64, samples []ForecastSample) (*Popup, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	p := Project(samples)
	summary, err := renderSummary(samples, p)
	if err != nil {
		return nil, fmt.Errorf("render popup summary: %w", err)
	}

	return &Popup{
		title:       title,
		lat:         lat,
		lon:         lon,
		summaryHTML: summary,
		projection:  p,
		active:      MetricTemp,
	}, nil
}

// SelectMetric switches the displayed series. An unknown key leaves the popup unchanged.
func (p *Popup) SelectMetric(key MetricKey) (ChartBinding, error) {
	b, err := SelectMetric(p.projection, key)
	if err != nil {
		return ChartBinding{}, err
	}
	p.active = key
	return b, nil
}

// Active returns the binding currently displayed.
func (p *Popup) Active() ChartBinding {
	b, _ := SelectMetric(p.projection, p.active)
	return b
}

// ActiveKey returns the metric currently displayed.
func (p *Popup) ActiveKey() MetricKey {
	return p.active
}

// Title returns the popup heading.
func (p *Popup) Title() string {
	return p.title
}

// Payload returns everything a client needs to draw the popup.
func (p *Popup) Payload() PopupPayload {
	return PopupPayload{
		Title:       p.title,
		Lat:         p.lat,
		Lon:         p.lon,
		SummaryHTML: p.summaryHTML,
		Active:      p.active,
		Chart:       p.Active(),
		Series:      p.projection.All(),
		Compass:     p.projection.Compass(),
	}
}

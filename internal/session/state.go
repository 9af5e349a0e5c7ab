package session

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/i474232898/weathermap/internal/weather"
)

// State is the render snapshot of a session.
type State struct {
	SessionID    string                `json:"sessionId"`
	RangeHours   int                   `json:"rangeHours"`
	RangeOptions []int                 `json:"rangeOptions"`
	View         MapView               `json:"view"`
	Boundary     *Overlay              `json:"boundary,omitempty"`
	Marker       *Marker               `json:"marker,omitempty"`
	Popup        *weather.PopupPayload `json:"popup,omitempty"`
	Days         []weather.DayCard     `json:"days"`
	Notice       string                `json:"notice,omitempty"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	Updated      string                `json:"updated"`
}

func (c *Controller) stateLocked() State {
	s := State{
		SessionID:    c.id.String(),
		RangeHours:   c.rangeHours,
		RangeOptions: append([]int(nil), c.opts.RangeOptions...),
		View:         c.view,
		Days:         []weather.DayCard{},
		Notice:       c.notice,
		UpdatedAt:    c.updatedAt,
		Updated:      humanize.RelTime(c.updatedAt, c.now(), "ago", "from now"),
	}
	if c.boundary != nil {
		b := *c.boundary
		s.Boundary = &b
	}
	if c.marker != nil {
		m := *c.marker
		s.Marker = &m
	}
	if c.popup != nil {
		p := c.popup.Payload()
		s.Popup = &p
	}
	if c.forecast != nil {
		s.Days = append(s.Days, c.forecast.cards...)
	}
	return s
}

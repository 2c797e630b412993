package api

import (
	"errors"
	"time"
)

var (
	// ErrFetchFailure marks a remote read that was incomplete, malformed or
	// failed in transport.
	ErrFetchFailure = errors.New("forecast fetch failed")
	// ErrUnavailable means no forecast or location can be produced for this
	// run, fresh or cached.
	ErrUnavailable = errors.New("forecast unavailable")
)

// Coordinates is a position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location identifies the forecast area.
type Location struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Geohash  string `json:"geohash"`
	Timezone string `json:"timezone,omitempty"`
}

// Observation holds the latest station readings for the location.
type Observation struct {
	Temp          float64 `json:"temp"`
	TempFeelsLike float64 `json:"temp_feels_like"`
	Humidity      int     `json:"humidity"`
	Pressure      float64 `json:"pressure,omitempty"`
	WindSpeed     float64 `json:"wind_speed_kilometre"`
	WindDirection string  `json:"wind_direction,omitempty"`
}

// Rain is the precipitation outlook of a forecast period.
type Rain struct {
	Chance int `json:"chance"` // percent, 0..100
}

// HourPoint is one hourly forecast period.
type HourPoint struct {
	Time           time.Time `json:"time"`
	Temp           float64   `json:"temp"`
	IsNight        bool      `json:"is_night"`
	IconDescriptor string    `json:"icon_descriptor"`
	Rain           Rain      `json:"rain"`
}

// DayPoint is one daily forecast period.
type DayPoint struct {
	Date           time.Time `json:"date"`
	TempMax        float64   `json:"temp_max"`
	TempMin        float64   `json:"temp_min"`
	IconDescriptor string    `json:"icon_descriptor"`
	ShortText      string    `json:"short_text"`
	Rain           Rain      `json:"rain"`
}

// ForecastSnapshot is the normalized forecast for one location. Hourly is
// ordered by ascending time; index 0 is the current hour.
type ForecastSnapshot struct {
	Location  Location    `json:"location"`
	Current   Observation `json:"current"`
	Hourly    []HourPoint `json:"hourly"`
	Daily     []DayPoint  `json:"daily"`
	FetchedAt time.Time   `json:"fetched_at"`

	// FromCache is set by ForecastService, never persisted.
	FromCache bool `json:"-"`
}

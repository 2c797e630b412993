package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ScreenSize overrides the screen used for the widget size lookup.
type ScreenSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Params is the widget parameter object. Every key is optional and only
// present keys override the loaded configuration.
type Params struct {
	Layout          *string     `json:"layout"`
	WidgetFamily    *string     `json:"widgetFamily"`
	LocationGeohash *string     `json:"locationGeohash"`
	TwelveHours     *bool       `json:"twelveHours"`
	RoundedGraph    *bool       `json:"roundedGraph"`
	RoundedTemp     *bool       `json:"roundedTemp"`
	PointsToShow    *int        `json:"pointsToShow"`
	NowString       *string     `json:"nowString"`
	ColorScheme     *string     `json:"colorScheme"`
	ScreenSize      *ScreenSize `json:"screenSize"`
}

// ParseParams decodes a parameter object. Blank input yields empty Params.
func ParseParams(raw string) (Params, error) {
	var p Params
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return p, nil
	}

	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Params{}, fmt.Errorf("invalid widget parameters: %w", err)
	}
	return p, nil
}

// ApplyParams merges raw widget parameters into the configuration.
// pointsToShow and nowString apply to the layout in effect after the
// layout key itself has been merged.
func (c *Config) ApplyParams(raw string) error {
	p, err := ParseParams(raw)
	if err != nil {
		return err
	}

	if p.Layout != nil {
		c.Widget.Layout = strings.TrimSpace(*p.Layout)
	}
	if p.WidgetFamily != nil {
		c.Widget.Family = strings.TrimSpace(*p.WidgetFamily)
	}
	if p.LocationGeohash != nil {
		c.Location.Geohash = strings.TrimSpace(*p.LocationGeohash)
	}
	if p.TwelveHours != nil {
		c.Widget.TwelveHours = boolPtr(*p.TwelveHours)
	}
	if p.RoundedGraph != nil {
		c.Widget.RoundedGraph = boolPtr(*p.RoundedGraph)
	}
	if p.RoundedTemp != nil {
		c.Widget.RoundedTemp = boolPtr(*p.RoundedTemp)
	}
	if p.ColorScheme != nil {
		c.Widget.ColorScheme = strings.TrimSpace(*p.ColorScheme)
	}
	if p.ScreenSize != nil {
		c.Widget.ScreenWidth = p.ScreenSize.Width
		c.Widget.ScreenHeight = p.ScreenSize.Height
	}

	target := &c.Widget.Daily
	if c.Widget.Layout == "hourly" {
		target = &c.Widget.Hourly
	}
	if p.PointsToShow != nil {
		target.PointsToShow = *p.PointsToShow
	}
	if p.NowString != nil {
		target.NowString = *p.NowString
	}
	return nil
}

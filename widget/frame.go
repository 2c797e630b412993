// Package widget assembles a forecast into a renderable frame: the widget
// size for the device, the color scheme, header text and chart draw ops.
package widget

import (
	"context"
	"errors"
	"time"

	"weatherline/api"
	"weatherline/chart"
	"weatherline/geohash"
	"weatherline/internal/errorutil"
	"weatherline/internal/logger"
)

// Settings is the per-run widget configuration.
type Settings struct {
	Family       Family
	Screen       chart.Size
	Mode         chart.Mode
	Padding      float64
	HeaderFont   float64
	Fonts        chart.Fonts
	ColorScheme  string
	PointsToShow int
	NowString    string
	TwelveHours  bool
	RoundedGraph bool
	RoundedTemp  bool
}

// Frame is everything a renderer needs to draw the widget.
type Frame struct {
	Family     Family        `json:"family"`
	Size       chart.Size    `json:"size"`
	Padding    float64       `json:"padding"`
	HeaderFont float64       `json:"header_font_size"`
	Palette    chart.Palette `json:"palette"`
	Title      string        `json:"title"`
	Subtitle   string        `json:"subtitle"`
	Chart      ChartFrame    `json:"chart"`

	// FromCache marks a forecast served from the content cache.
	FromCache   bool      `json:"from_cache"`
	FetchedAt   time.Time `json:"fetched_at,omitzero"`
	Unavailable bool      `json:"unavailable"`
	Reason      string    `json:"reason,omitempty"`
}

// ChartFrame is the chart image area and its draw ops.
type ChartFrame struct {
	Mode chart.Mode     `json:"mode"`
	Size chart.Size     `json:"size"`
	Ops  []chart.DrawOp `json:"ops"`
}

// Forecaster is satisfied by api.ForecastService.
type Forecaster interface {
	Forecast(ctx context.Context, geohash string) (*api.ForecastSnapshot, error)
}

// GeohashFunc resolves the forecast location for this run.
type GeohashFunc func(ctx context.Context) (string, error)

// Build fetches the forecast and composes the frame. A missing location or
// forecast yields a degraded frame, not an error; only configuration
// problems are returned as errors.
func Build(ctx context.Context, forecasts Forecaster, location GeohashFunc, s Settings) (*Frame, error) {
	size, err := SizeFor(s.Family, s.Screen)
	if err != nil {
		return nil, err
	}

	hash, err := location(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) || errors.Is(err, geohash.ErrInvalidInput) {
			return Degraded(s, size, err), nil
		}
		return nil, err
	}

	snap, err := forecasts.Forecast(ctx, hash)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			return Degraded(s, size, err), nil
		}
		return nil, err
	}
	return Compose(snap, s, size)
}

// Compose lays out snap for a widget of the given size.
func Compose(snap *api.ForecastSnapshot, s Settings, size chart.Size) (*Frame, error) {
	series, err := chart.SeriesFor(s.Mode, snap)
	if err != nil {
		return nil, err
	}

	firstIsNight := len(snap.Hourly) > 0 && snap.Hourly[0].IsNight
	palette, err := chart.PaletteFor(s.ColorScheme, firstIsNight)
	if err != nil {
		return nil, err
	}

	chartSize := ChartSize(size, s.Padding, s.HeaderFont)
	opts := chart.Options{
		PointsToShow: s.PointsToShow,
		RoundedGraph: s.RoundedGraph,
		RoundedTemp:  s.RoundedTemp,
		TwelveHours:  s.TwelveHours,
		NowString:    s.NowString,
		Fonts:        s.Fonts,
		Palette:      palette,
		Location:     timezone(snap.Location.Timezone),
	}

	var ops []chart.DrawOp
	err = errorutil.ExecuteWithLogging(logger.Get().Logger, "chart layout", func() error {
		ops = chart.Layout(series, opts, chartSize)
		return nil
	}, errorutil.ChartContext(string(s.Mode), series.Len(), chartSize.Width, chartSize.Height)...)
	if err != nil {
		return nil, err
	}

	f := &Frame{
		Family:     s.Family,
		Size:       size,
		Padding:    s.Padding,
		HeaderFont: s.HeaderFont,
		Palette:    palette,
		Title:      snap.Location.Name,
		Chart:      ChartFrame{Mode: s.Mode, Size: chartSize, Ops: ops},
		FromCache:  snap.FromCache,
		FetchedAt:  snap.FetchedAt,
	}
	if len(snap.Daily) > 0 {
		f.Subtitle = snap.Daily[0].ShortText
	}
	return f, nil
}

// Degraded is the frame shown when no forecast can be produced.
func Degraded(s Settings, size chart.Size, cause error) *Frame {
	palette, err := chart.PaletteFor(s.ColorScheme, false)
	if err != nil {
		palette = chart.DayPalette
	}
	logger.Warn("Rendering unavailable frame: %v", cause)

	return &Frame{
		Family:      s.Family,
		Size:        size,
		Padding:     s.Padding,
		HeaderFont:  s.HeaderFont,
		Palette:     palette,
		Title:       "Forecast unavailable",
		Chart:       ChartFrame{Mode: s.Mode, Size: ChartSize(size, s.Padding, s.HeaderFont), Ops: []chart.DrawOp{}},
		Unavailable: true,
		Reason:      cause.Error(),
	}
}

// ChartSize is the widget area left for the chart after padding and the
// two header lines.
func ChartSize(widget chart.Size, padding, headerFont float64) chart.Size {
	return chart.Size{
		Width:  widget.Width - padding*2,
		Height: widget.Height - padding*2 - headerFont*2,
	}
}

func timezone(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Debug("Unknown timezone %q, using local time", name)
		return time.Local
	}
	return loc
}

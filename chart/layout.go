// Package chart lays out a forecast series as abstract draw operations:
// a polyline of temperatures with a condition symbol, a temperature label
// and an axis label per point.
package chart

import (
	"math"
	"strconv"
	"time"
)

// Geometry fixed by the widget design.
const (
	LineWidth = 3.0

	// NowFontScale enlarges the temperature label of the first point.
	NowFontScale = 1.5
	// axisBandScale is the height of the axis band in axis font sizes.
	axisBandScale = 1.5
	// upperBandScale is the headroom above the plot in temp font sizes.
	upperBandScale = 2.5
	// labelGapScale separates a temperature label from its point, in
	// symbol font sizes.
	labelGapScale = 1.2
	// flatDelta places every point of a level series mid-band.
	flatDelta = 0.5
)

// Fonts are point sizes used by the chart.
type Fonts struct {
	Temp   float64 `json:"temp"`
	Symbol float64 `json:"symbol"`
	Axis   float64 `json:"axis"`
}

// DefaultFonts are the widget's chart font sizes.
var DefaultFonts = Fonts{Temp: 16, Symbol: 18, Axis: 12}

// Options control one layout pass.
type Options struct {
	PointsToShow int
	RoundedGraph bool
	RoundedTemp  bool
	TwelveHours  bool
	NowString    string
	Fonts        Fonts
	Palette      Palette
	// Location is the zone axis labels are computed in; nil means UTC.
	Location *time.Location
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// OpKind discriminates DrawOp.
type OpKind string

const (
	OpLine   OpKind = "line"
	OpSymbol OpKind = "symbol"
	OpText   OpKind = "text"
)

// DrawOp is one renderer instruction. Which fields are set depends on Kind:
// lines use From, To and LineWidth; symbols use Center, Symbol and FontSize;
// text uses Rect, Text and FontSize and is centered in Rect.
type DrawOp struct {
	Kind      OpKind  `json:"kind"`
	Color     string  `json:"color"`
	From      *Point  `json:"from,omitempty"`
	To        *Point  `json:"to,omitempty"`
	LineWidth float64 `json:"line_width,omitempty"`
	Center    *Point  `json:"center,omitempty"`
	Symbol    string  `json:"symbol,omitempty"`
	Rect      *Rect   `json:"rect,omitempty"`
	Text      string  `json:"text,omitempty"`
	FontSize  float64 `json:"font_size,omitempty"`
}

// Layout computes the draw operations for the first PointsToShow points of
// series in a canvas of the given size. It is a pure function of its
// arguments. An empty series or a non-positive point count yields no ops.
func Layout(series Series, opts Options, size Size) []DrawOp {
	n := series.Len()
	if opts.PointsToShow < n {
		n = opts.PointsToShow
	}
	if n < 1 {
		return []DrawOp{}
	}

	fonts := opts.Fonts
	if fonts == (Fonts{}) {
		fonts = DefaultFonts
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	samples := make([]Sample, n)
	plotted := make([]float64, n)
	for i := range samples {
		samples[i] = series.Sample(i)
		plotted[i] = roundIf(opts.RoundedGraph, samples[i].Temp)
	}

	lo, hi := plotted[0], plotted[0]
	for _, v := range plotted[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	diff := hi - lo

	axisBand := fonts.Axis * axisBandScale
	axisOffset := size.Height - axisBand
	lower := size.Height - axisBand - fonts.Symbol
	upper := fonts.Temp * upperBandScale
	plotHeight := lower - upper
	unitWidth := size.Width / float64(n)

	position := func(i int) Point {
		delta := flatDelta
		if diff > 0 {
			delta = (plotted[i] - lo) / diff
		}
		return Point{
			X: unitWidth*float64(i) + unitWidth/2,
			Y: lower - plotHeight*delta,
		}
	}

	ops := make([]DrawOp, 0, 4*n-1)
	for i := 0; i < n; i++ {
		s := samples[i]
		color := opts.Palette.ColorFor(s)
		p := position(i)

		if i < n-1 {
			next := position(i + 1)
			ops = append(ops, DrawOp{
				Kind:      OpLine,
				Color:     color,
				From:      &Point{X: p.X, Y: p.Y},
				To:        &next,
				LineWidth: LineWidth,
			})
		}

		ops = append(ops, DrawOp{
			Kind:     OpSymbol,
			Color:    color,
			Center:   &Point{X: p.X, Y: p.Y},
			Symbol:   s.Condition.Symbol(s.IsNight),
			FontSize: fonts.Symbol,
		})

		labelFont := fonts.Temp
		if i == 0 {
			labelFont *= NowFontScale
		}
		ops = append(ops, DrawOp{
			Kind:  OpText,
			Color: color,
			Rect: &Rect{
				X:      unitWidth * float64(i),
				Y:      p.Y - fonts.Symbol*labelGapScale - labelFont,
				Width:  unitWidth,
				Height: labelFont,
			},
			Text:     formatTemp(roundIf(opts.RoundedTemp, s.Temp)),
			FontSize: labelFont,
		})

		label := opts.NowString
		if i > 0 {
			label = series.AxisLabel(i, opts.TwelveHours, loc)
		}
		ops = append(ops, DrawOp{
			Kind:  OpText,
			Color: opts.Palette.Foreground,
			Rect: &Rect{
				X:      unitWidth * float64(i),
				Y:      axisOffset,
				Width:  unitWidth,
				Height: axisBand,
			},
			Text:     label,
			FontSize: fonts.Axis,
		})
	}
	return ops
}

// roundIf rounds halves toward positive infinity, so -2.5 becomes -2.
func roundIf(round bool, v float64) float64 {
	if !round {
		return v
	}
	return math.Floor(v + 0.5)
}

func formatTemp(v float64) string {
	if v == 0 {
		v = 0 // -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package chart

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"weatherline/api"
)

const epsilon = 1e-9

func hours(temps ...float64) HourlySeries {
	start := time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC)
	s := make(HourlySeries, len(temps))
	for i, temp := range temps {
		s[i] = api.HourPoint{
			Time:           start.Add(time.Duration(i) * time.Hour),
			Temp:           temp,
			IconDescriptor: "sunny",
		}
	}
	return s
}

func testOptions(points int) Options {
	return Options{
		PointsToShow: points,
		RoundedTemp:  true,
		TwelveHours:  true,
		NowString:    "Now",
		Palette:      DayPalette,
	}
}

func opsOfKind(ops []DrawOp, kind OpKind) []DrawOp {
	var out []DrawOp
	for _, op := range ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func TestLayoutFlatLine(t *testing.T) {
	size := Size{Width: 300, Height: 120}
	ops := Layout(hours(20, 20, 20, 20, 20), testOptions(5), size)

	lower := size.Height - DefaultFonts.Axis*1.5 - DefaultFonts.Symbol
	upper := DefaultFonts.Temp * 2.5
	mid := (lower + upper) / 2

	symbols := opsOfKind(ops, OpSymbol)
	if len(symbols) != 5 {
		t.Fatalf("expected 5 symbols, got %d", len(symbols))
	}
	for i, op := range symbols {
		if math.Abs(op.Center.Y-mid) > epsilon {
			t.Errorf("point %d y = %v, want band midpoint %v", i, op.Center.Y, mid)
		}
	}
}

func TestLayoutGeometry(t *testing.T) {
	ops := Layout(hours(10, 20), testOptions(2), Size{Width: 200, Height: 100})

	// line, symbol, temp, axis for the first point; no line for the last
	if len(ops) != 7 {
		t.Fatalf("expected 7 ops, got %d", len(ops))
	}
	kinds := []OpKind{OpLine, OpSymbol, OpText, OpText, OpSymbol, OpText, OpText}
	for i, k := range kinds {
		if ops[i].Kind != k {
			t.Errorf("op %d kind = %s, want %s", i, ops[i].Kind, k)
		}
	}

	// lower = 100 - 18 - 18 = 64, upper = 40
	line := ops[0]
	if *line.From != (Point{X: 50, Y: 64}) || *line.To != (Point{X: 150, Y: 40}) {
		t.Errorf("line = %+v -> %+v, want (50,64) -> (150,40)", *line.From, *line.To)
	}
	if line.LineWidth != LineWidth {
		t.Errorf("line width = %v, want %v", line.LineWidth, LineWidth)
	}

	nowTemp := ops[2]
	if nowTemp.FontSize != 24 {
		t.Errorf("now label font = %v, want 24", nowTemp.FontSize)
	}
	if want := 64 - 18*1.2 - 24; math.Abs(nowTemp.Rect.Y-want) > epsilon {
		t.Errorf("now label y = %v, want %v", nowTemp.Rect.Y, want)
	}
	if nowTemp.Rect.Width != 100 || nowTemp.Rect.X != 0 {
		t.Errorf("now label rect = %+v", *nowTemp.Rect)
	}
	if ops[5].FontSize != 16 {
		t.Errorf("second label font = %v, want 16", ops[5].FontSize)
	}

	axis := ops[3]
	if axis.Text != "Now" {
		t.Errorf("first axis label = %q, want Now", axis.Text)
	}
	if axis.Rect.Y != 82 || axis.Rect.Height != 18 {
		t.Errorf("axis rect = %+v, want y=82 h=18", *axis.Rect)
	}
	if axis.Color != DayPalette.Foreground {
		t.Errorf("axis color = %s, want foreground", axis.Color)
	}
	if ops[6].Text != "3" {
		t.Errorf("second axis label = %q, want 3 (03:00 UTC)", ops[6].Text)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	series := hours(18.2, 19.7, 23.1, 25.4, 24.9, 22.0)
	opts := testOptions(6)
	size := Size{Width: 332, Height: 114}

	a, err := json.Marshal(Layout(series, opts, size))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(Layout(series, opts, size))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical inputs produced different draw ops")
	}
}

func TestLayoutClampsPointCount(t *testing.T) {
	tests := []struct {
		name    string
		series  HourlySeries
		points  int
		wantOps int
	}{
		{name: "more requested than available", series: hours(10, 12, 14), points: 10, wantOps: 11},
		{name: "fewer requested", series: hours(10, 12, 14, 16), points: 2, wantOps: 7},
		{name: "single point", series: hours(10), points: 4, wantOps: 3},
		{name: "empty series", series: hours(), points: 4, wantOps: 0},
		{name: "zero points", series: hours(10, 12), points: 0, wantOps: 0},
		{name: "negative points", series: hours(10, 12), points: -3, wantOps: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := Layout(tt.series, testOptions(tt.points), Size{Width: 300, Height: 120})
			if len(ops) != tt.wantOps {
				t.Errorf("got %d ops, want %d", len(ops), tt.wantOps)
			}
			if ops == nil {
				t.Error("Layout should return an empty slice, not nil")
			}
		})
	}
}

func TestLayoutClampedPositions(t *testing.T) {
	ops := Layout(hours(10, 12, 14), testOptions(10), Size{Width: 300, Height: 120})
	symbols := opsOfKind(ops, OpSymbol)
	for i, want := range []float64{50, 150, 250} {
		if symbols[i].Center.X != want {
			t.Errorf("point %d x = %v, want %v", i, symbols[i].Center.X, want)
		}
	}
}

func TestLayoutRounding(t *testing.T) {
	size := Size{Width: 200, Height: 100}

	opts := testOptions(2)
	opts.RoundedGraph = true
	symbols := opsOfKind(Layout(hours(20.4, 20.2), opts, size), OpSymbol)
	if symbols[0].Center.Y != symbols[1].Center.Y {
		t.Error("rounded graph should flatten 20.4 and 20.2")
	}

	opts.RoundedGraph = false
	symbols = opsOfKind(Layout(hours(20.4, 20.2), opts, size), OpSymbol)
	if symbols[0].Center.Y == symbols[1].Center.Y {
		t.Error("raw graph should separate 20.4 and 20.2")
	}

	tests := []struct {
		temp    float64
		rounded bool
		want    string
	}{
		{temp: 21.6, rounded: true, want: "22"},
		{temp: 21.5, rounded: true, want: "22"},
		{temp: 21.4, rounded: true, want: "21"},
		{temp: -0.4, rounded: true, want: "0"},
		{temp: -2.5, rounded: true, want: "-2"},
		{temp: 21.6, rounded: false, want: "21.6"},
	}
	for _, tt := range tests {
		opts := testOptions(1)
		opts.RoundedTemp = tt.rounded
		ops := Layout(hours(tt.temp), opts, size)
		if got := ops[1].Text; got != tt.want {
			t.Errorf("label for %v (rounded=%v) = %q, want %q", tt.temp, tt.rounded, got, tt.want)
		}
	}
}

func TestLayoutSymbolsAndColors(t *testing.T) {
	series := HourlySeries{
		{Temp: 18, IsNight: true, IconDescriptor: "clear", Rain: api.Rain{Chance: 80}},
		{Temp: 18, IconDescriptor: "showers", Rain: api.Rain{Chance: 60}},
		{Temp: 38, IconDescriptor: "not_a_descriptor"},
	}
	opts := testOptions(3)
	opts.Palette = NightPalette

	ops := Layout(series, opts, Size{Width: 300, Height: 120})
	symbols := opsOfKind(ops, OpSymbol)

	wantSymbols := []string{"moon.stars.fill", "cloud.sun.rain.fill", DefaultSymbol}
	wantColors := []string{NightPalette.Night, NightPalette.Rain, NightPalette.Heat}
	for i := range symbols {
		if symbols[i].Symbol != wantSymbols[i] {
			t.Errorf("symbol %d = %s, want %s", i, symbols[i].Symbol, wantSymbols[i])
		}
		if symbols[i].Color != wantColors[i] {
			t.Errorf("color %d = %s, want %s", i, symbols[i].Color, wantColors[i])
		}
	}
}

func TestLayoutDailyLabels(t *testing.T) {
	aedt := time.FixedZone("AEDT", 11*60*60)
	series := DailySeries{
		{Date: time.Date(2024, 1, 14, 13, 0, 0, 0, time.UTC), TempMax: 26, IconDescriptor: "sunny"},
		{Date: time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC), TempMax: 31, IconDescriptor: "sunny"},
	}
	opts := testOptions(2)
	opts.NowString = "Today"
	opts.Location = aedt

	texts := opsOfKind(Layout(series, opts, Size{Width: 200, Height: 100}), OpText)
	if texts[0].Text != "26" || texts[2].Text != "31" {
		t.Errorf("daily labels should use temp_max: %q %q", texts[0].Text, texts[2].Text)
	}
	if texts[1].Text != "Today" {
		t.Errorf("first axis label = %q, want Today", texts[1].Text)
	}
	if texts[3].Text != "16" {
		t.Errorf("second axis label = %q, want day of month 16 in AEDT", texts[3].Text)
	}
}

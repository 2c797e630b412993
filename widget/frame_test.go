package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"weatherline/api"
	"weatherline/chart"
	"weatherline/geohash"
)

type stubForecaster struct {
	snap *api.ForecastSnapshot
	err  error
	got  string
}

func (s *stubForecaster) Forecast(_ context.Context, hash string) (*api.ForecastSnapshot, error) {
	s.got = hash
	return s.snap, s.err
}

func fixedGeohash(hash string) GeohashFunc {
	return func(context.Context) (string, error) { return hash, nil }
}

func testSettings() Settings {
	return Settings{
		Family:       Medium,
		Screen:       chart.Size{Width: 414, Height: 896},
		Mode:         chart.Hourly,
		Padding:      16,
		HeaderFont:   12,
		Fonts:        chart.DefaultFonts,
		ColorScheme:  "auto",
		PointsToShow: 10,
		NowString:    "Now",
		TwelveHours:  true,
		RoundedTemp:  true,
	}
}

func testSnapshot(night bool) *api.ForecastSnapshot {
	start := time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC)
	snap := &api.ForecastSnapshot{
		Location: api.Location{Name: "Carlton North", Timezone: "UTC"},
		Daily:    []api.DayPoint{{Date: start, TempMax: 26, ShortText: "Mostly sunny."}},
	}
	for i := 0; i < 12; i++ {
		snap.Hourly = append(snap.Hourly, api.HourPoint{
			Time:           start.Add(time.Duration(i) * time.Hour),
			Temp:           20 + float64(i%4),
			IsNight:        night,
			IconDescriptor: "sunny",
		})
	}
	return snap
}

func TestBuild(t *testing.T) {
	fc := &stubForecaster{snap: testSnapshot(false)}

	f, err := Build(context.Background(), fc, fixedGeohash("r1r14c"), testSettings())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if fc.got != "r1r14c" {
		t.Errorf("forecast requested for %q, want r1r14c", fc.got)
	}

	if f.Unavailable {
		t.Error("frame should not be degraded")
	}
	if f.Title != "Carlton North" || f.Subtitle != "Mostly sunny." {
		t.Errorf("header = %q / %q", f.Title, f.Subtitle)
	}
	if f.Size != (chart.Size{Width: 360, Height: 169}) {
		t.Errorf("Size = %+v", f.Size)
	}
	// 360 - 32 = 328 wide, 169 - 32 - 24 = 113 high
	if f.Chart.Size != (chart.Size{Width: 328, Height: 113}) {
		t.Errorf("chart size = %+v, want 328x113", f.Chart.Size)
	}
	if f.Palette.Name != "day" {
		t.Errorf("palette = %s, want day", f.Palette.Name)
	}
	// 10 points: 9 lines + 10 symbols + 20 labels
	if len(f.Chart.Ops) != 39 {
		t.Errorf("expected 39 ops, got %d", len(f.Chart.Ops))
	}
}

func TestBuildAutoNightScheme(t *testing.T) {
	f, err := Build(context.Background(), &stubForecaster{snap: testSnapshot(true)}, fixedGeohash("r1r14c"), testSettings())
	if err != nil {
		t.Fatal(err)
	}
	if f.Palette.Name != "night" {
		t.Errorf("palette = %s, want night when the first hour is at night", f.Palette.Name)
	}
}

func TestBuildFromCacheFlag(t *testing.T) {
	snap := testSnapshot(false)
	snap.FromCache = true

	f, err := Build(context.Background(), &stubForecaster{snap: snap}, fixedGeohash("r1r14c"), testSettings())
	if err != nil {
		t.Fatal(err)
	}
	if !f.FromCache {
		t.Error("FromCache should be carried into the frame")
	}
}

func TestBuildDegraded(t *testing.T) {
	tests := []struct {
		name     string
		fc       *stubForecaster
		location GeohashFunc
	}{
		{
			name:     "forecast unavailable",
			fc:       &stubForecaster{err: fmt.Errorf("%w: %w", api.ErrUnavailable, api.ErrFetchFailure)},
			location: fixedGeohash("r1r14c"),
		},
		{
			name: "location unavailable",
			fc:   &stubForecaster{},
			location: func(context.Context) (string, error) {
				return "", fmt.Errorf("%w: no fix", api.ErrUnavailable)
			},
		},
		{
			name: "invalid coordinates",
			fc:   &stubForecaster{},
			location: func(context.Context) (string, error) {
				return "", geohash.ErrInvalidInput
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Build(context.Background(), tt.fc, tt.location, testSettings())
			if err != nil {
				t.Fatalf("Build() should degrade, got error %v", err)
			}
			if !f.Unavailable || f.Reason == "" {
				t.Errorf("expected an unavailable frame with a reason, got %+v", f)
			}
			if len(f.Chart.Ops) != 0 {
				t.Error("degraded frame should have no draw ops")
			}
		})
	}
}

func TestBuildConfigurationErrors(t *testing.T) {
	s := testSettings()
	s.Screen = chart.Size{Width: 1, Height: 1}
	if _, err := Build(context.Background(), &stubForecaster{}, fixedGeohash("x"), s); !errors.Is(err, ErrUnknownScreen) {
		t.Errorf("expected ErrUnknownScreen, got %v", err)
	}

	s = testSettings()
	s.ColorScheme = "sepia"
	if _, err := Build(context.Background(), &stubForecaster{snap: testSnapshot(false)}, fixedGeohash("x"), s); err == nil {
		t.Error("expected an error for an unknown color scheme")
	}
}

func TestJSONRenderer(t *testing.T) {
	f, err := Compose(testSnapshot(false), testSettings(), chart.Size{Width: 360, Height: 169})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewJSONRenderer(&buf, false).Render(context.Background(), f); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["title"] != "Carlton North" {
		t.Errorf("title = %v", decoded["title"])
	}
	if !strings.Contains(buf.String(), `"kind":"line"`) {
		t.Error("output should contain line ops")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewJSONRenderer(&buf, true).Render(ctx, f); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

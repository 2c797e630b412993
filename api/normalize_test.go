package api

import (
	"errors"
	"testing"
	"time"
)

func testRaw() *RawForecast {
	return &RawForecast{
		Location:     []byte(locationJSON),
		Observations: []byte(observationsJSON),
		Hourly:       []byte(hourlyJSON),
		Daily:        []byte(dailyJSON),
	}
}

func TestNormalize(t *testing.T) {
	snap, err := Normalize(testRaw())
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	if snap.Location.Name != "Carlton North" {
		t.Errorf("Location.Name mismatch: got %q", snap.Location.Name)
	}
	if snap.Location.Timezone != "Australia/Melbourne" {
		t.Errorf("Location.Timezone mismatch: got %q", snap.Location.Timezone)
	}
	if snap.Current.Temp != 21.4 || snap.Current.Humidity != 55 || snap.Current.WindDirection != "SSW" {
		t.Errorf("Current mismatch: %+v", snap.Current)
	}
	if snap.Current.WindSpeed != 17 {
		t.Errorf("WindSpeed mismatch: got %v", snap.Current.WindSpeed)
	}

	if len(snap.Hourly) != 3 {
		t.Fatalf("expected 3 hourly points, got %d", len(snap.Hourly))
	}
	for i := 1; i < len(snap.Hourly); i++ {
		if !snap.Hourly[i-1].Time.Before(snap.Hourly[i].Time) {
			t.Errorf("hourly not sorted at %d: %v then %v", i, snap.Hourly[i-1].Time, snap.Hourly[i].Time)
		}
	}
	first := snap.Hourly[0]
	if first.Temp != 22 || first.IconDescriptor != "sunny" {
		t.Errorf("first hour mismatch: %+v", first)
	}
	if last := snap.Hourly[2]; last.Rain.Chance != 40 {
		t.Errorf("rain chance mismatch: got %d", last.Rain.Chance)
	}

	if len(snap.Daily) != 2 {
		t.Fatalf("expected 2 daily points, got %d", len(snap.Daily))
	}
	if snap.Daily[0].ShortText != "Mostly sunny." || snap.Daily[0].TempMax != 26 {
		t.Errorf("daily[0] mismatch: %+v", snap.Daily[0])
	}
	if snap.Daily[0].TempMin != 0 {
		t.Errorf("null temp_min should normalize to 0, got %v", snap.Daily[0].TempMin)
	}

	want := time.Date(2024, 1, 15, 1, 50, 0, 0, time.UTC)
	if !snap.FetchedAt.Equal(want) {
		t.Errorf("FetchedAt mismatch: got %v, want %v", snap.FetchedAt, want)
	}
	if snap.FromCache {
		t.Error("Normalize must not set FromCache")
	}
}

func TestNormalizeRejectsIncompleteData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *RawForecast)
	}{
		{name: "nil raw", mutate: nil},
		{name: "missing location", mutate: func(r *RawForecast) { r.Location = []byte(`{}`) }},
		{name: "missing observations", mutate: func(r *RawForecast) { r.Observations = []byte(`{}`) }},
		{name: "null observations", mutate: func(r *RawForecast) { r.Observations = []byte(`{"data":null}`) }},
		{name: "missing hourly", mutate: func(r *RawForecast) { r.Hourly = []byte(`{"data":null}`) }},
		{name: "empty daily", mutate: func(r *RawForecast) { r.Daily = []byte(`{"data":[]}`) }},
		{name: "bad hourly time", mutate: func(r *RawForecast) {
			r.Hourly = []byte(`{"data":[{"time":"yesterday","temp":1}]}`)
		}},
		{name: "missing daily date", mutate: func(r *RawForecast) {
			r.Daily = []byte(`{"data":[{"temp_max":20}]}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw *RawForecast
			if tt.mutate != nil {
				raw = testRaw()
				tt.mutate(raw)
			}
			snap, err := Normalize(raw)
			if !errors.Is(err, ErrFetchFailure) {
				t.Errorf("expected ErrFetchFailure, got %v", err)
			}
			if snap != nil {
				t.Error("no snapshot should be returned on failure")
			}
		})
	}
}

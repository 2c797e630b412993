package api

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"weatherline/geohash"
)

type countingLocator struct {
	calls  int
	coords Coordinates
	err    error
}

func (l *countingLocator) CurrentLocation(context.Context) (Coordinates, error) {
	l.calls++
	return l.coords, l.err
}

func TestStaticLocator(t *testing.T) {
	tests := []struct {
		name    string
		coords  Coordinates
		wantErr bool
	}{
		{name: "melbourne", coords: Coordinates{Latitude: -37.78, Longitude: 144.97}},
		{name: "latitude out of range", coords: Coordinates{Latitude: 91, Longitude: 0}, wantErr: true},
		{name: "NaN longitude", coords: Coordinates{Latitude: 0, Longitude: math.NaN()}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StaticLocator{Coordinates: tt.coords}.CurrentLocation(context.Background())
			if tt.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Errorf("expected ErrUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.coords {
				t.Errorf("CurrentLocation() = %+v, want %+v", got, tt.coords)
			}
		})
	}
}

func TestCachedLocator(t *testing.T) {
	inner := &countingLocator{coords: Coordinates{Latitude: -37.78, Longitude: 144.97}}
	loc := NewCachedLocator(inner, newTestContentCache(t), time.Hour)

	for i := 0; i < 3; i++ {
		got, err := loc.CurrentLocation(context.Background())
		if err != nil {
			t.Fatalf("CurrentLocation() error: %v", err)
		}
		if got != inner.coords {
			t.Errorf("CurrentLocation() = %+v, want %+v", got, inner.coords)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected the device to be asked once, got %d", inner.calls)
	}
}

func TestCachedLocatorFailure(t *testing.T) {
	inner := &countingLocator{err: context.DeadlineExceeded}
	loc := NewCachedLocator(inner, newTestContentCache(t), 0)

	_, err := loc.CurrentLocation(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("cause should be preserved")
	}
}

func TestLocationGeohash(t *testing.T) {
	loc := StaticLocator{Coordinates: Coordinates{Latitude: 52.205, Longitude: 0.119}}

	got, err := LocationGeohash(context.Background(), loc, 7)
	if err != nil {
		t.Fatalf("LocationGeohash() error: %v", err)
	}
	if got != "u120fxw" {
		t.Errorf("LocationGeohash() = %s, want u120fxw", got)
	}

	if _, err := LocationGeohash(context.Background(), loc, -1); !errors.Is(err, geohash.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative precision, got %v", err)
	}
}

package api

import (
	"context"
	"encoding/json"
)

// RawForecast carries the provider responses for one location, unparsed.
// Each payload is a complete JSON document.
type RawForecast struct {
	Location     json.RawMessage
	Observations json.RawMessage
	Hourly       json.RawMessage
	Daily        json.RawMessage
}

// Forecaster fetches raw forecast data keyed by geohash. A fetch either
// returns every resource or fails; partial results are never returned.
type Forecaster interface {
	FetchRaw(ctx context.Context, geohash string) (*RawForecast, error)
}

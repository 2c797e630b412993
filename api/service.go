package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weatherline/internal/errorutil"
	"weatherline/internal/logger"
)

// DefaultForecastTTL is how long a fetched forecast is served from cache.
const DefaultForecastTTL = 60 * time.Second

// ForecastCacheKey is the cache key of the snapshot for geohash.
func ForecastCacheKey(geohash string) string {
	return "forecast." + geohash + ".json"
}

// ForecastService serves forecasts from the content cache, fetching and
// normalizing on a miss.
type ForecastService struct {
	forecaster Forecaster
	cache      JSONCache
	ttl        time.Duration
	now        func() time.Time
}

// NewForecastService builds a service. A non-positive ttl uses DefaultForecastTTL.
func NewForecastService(forecaster Forecaster, cache JSONCache, ttl time.Duration) *ForecastService {
	if ttl <= 0 {
		ttl = DefaultForecastTTL
	}
	return &ForecastService{forecaster: forecaster, cache: cache, ttl: ttl, now: time.Now}
}

// Forecast returns the snapshot for geohash. Any failure to produce one
// is reported as ErrUnavailable wrapping the cause.
func (s *ForecastService) Forecast(ctx context.Context, geohash string) (*ForecastSnapshot, error) {
	key := ForecastCacheKey(geohash)

	var snap ForecastSnapshot
	if s.cache.GetJSON(key, &snap) {
		snap.FromCache = true
		logger.Debug("Serving cached forecast for %s", geohash)
		return &snap, nil
	}

	raw, err := s.forecaster.FetchRaw(ctx, geohash)
	if err != nil {
		return nil, unavailable(err)
	}
	fresh, err := Normalize(raw)
	if err != nil {
		return nil, unavailable(errorutil.LogAndReturn(logger.Get().Logger, "forecast normalization", err, errorutil.CacheContext(key, "")...))
	}
	if fresh.FetchedAt.IsZero() {
		fresh.FetchedAt = s.now().UTC()
	}

	// A cancelled run must not leave a cache entry behind.
	if ctx.Err() != nil {
		return nil, unavailable(ctx.Err())
	}
	if _, err := s.cache.SetJSON(key, fresh, s.ttl); err != nil {
		errorutil.LogWarning(logger.Get().Logger, "forecast cache write", err, errorutil.CacheContext(key, "")...)
	}
	return fresh, nil
}

func unavailable(err error) error {
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

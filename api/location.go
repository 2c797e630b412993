package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"weatherline/geohash"
	"weatherline/internal/errorutil"
	"weatherline/internal/logger"
)

// LocationCacheKey is the cache key of the last known device position.
const LocationCacheKey = "current_location.json"

// DefaultLocationTTL is how long a resolved position is reused.
const DefaultLocationTTL = time.Hour

// Locator provides the device position.
type Locator interface {
	CurrentLocation(ctx context.Context) (Coordinates, error)
}

// JSONCache is the subset of cache.ContentCache used by this package.
type JSONCache interface {
	GetJSON(key string, v any) bool
	SetJSON(key string, v any, ttl time.Duration) (string, error)
}

// StaticLocator returns fixed coordinates, typically from configuration.
type StaticLocator struct {
	Coordinates Coordinates
}

func (s StaticLocator) CurrentLocation(context.Context) (Coordinates, error) {
	c := s.Coordinates
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.Abs(c.Latitude) > 90 || math.Abs(c.Longitude) > 180 {
		return Coordinates{}, fmt.Errorf("%w: invalid coordinates %.4f,%.4f", ErrUnavailable, c.Latitude, c.Longitude)
	}
	return c, nil
}

// CachedLocator reuses the last position from the content cache for TTL
// before asking the wrapped locator again.
type CachedLocator struct {
	next  Locator
	cache JSONCache
	ttl   time.Duration
}

// NewCachedLocator wraps next. A non-positive ttl uses DefaultLocationTTL.
func NewCachedLocator(next Locator, cache JSONCache, ttl time.Duration) *CachedLocator {
	if ttl <= 0 {
		ttl = DefaultLocationTTL
	}
	return &CachedLocator{next: next, cache: cache, ttl: ttl}
}

func (l *CachedLocator) CurrentLocation(ctx context.Context) (Coordinates, error) {
	var c Coordinates
	if l.cache.GetJSON(LocationCacheKey, &c) {
		return c, nil
	}

	c, err := l.next.CurrentLocation(ctx)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			err = fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return Coordinates{}, err
	}

	if _, err := l.cache.SetJSON(LocationCacheKey, c, l.ttl); err != nil {
		errorutil.LogWarning(logger.Get().Logger, "location cache write", err)
	}
	return c, nil
}

// LocationGeohash resolves the current position and encodes it.
func LocationGeohash(ctx context.Context, loc Locator, precision int) (string, error) {
	c, err := loc.CurrentLocation(ctx)
	if err != nil {
		return "", err
	}

	hash, err := geohash.Encode(c.Latitude, c.Longitude, precision)
	if err != nil {
		return "", err
	}
	logger.Get().LogAttrs(ctx, slog.LevelDebug, "Location resolved", errorutil.LocationContext(hash, c.Latitude, c.Longitude)...)
	return hash, nil
}

// Package cache implements the widget's on-disk caches: a TTL content cache
// addressed by a hash of the logical key, and a version cache addressed by
// day bucket that keeps the newest downloaded copy as a fallback.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"weatherline/internal/errorutil"
	"weatherline/internal/logger"
)

// DefaultTTL applies when Set is called with a non-positive TTL.
const DefaultTTL = 60 * time.Second

// ErrStorage marks a failed directory or file operation during a write.
var ErrStorage = errors.New("cache storage failure")

const hashMask = 1<<53 - 1

// HashKey maps a logical key to its 53-bit address, base-36 encoded.
func HashKey(key string) string {
	return strconv.FormatUint(xxhash.Sum64String(key)&hashMask, 36)
}

// Entry describes one content-cache file. Its name alone encodes the
// expiry and key hash, so validity never requires reading the payload.
type Entry struct {
	Address   string // file name: "<expiresAt>.<hash>"
	Hash      string
	ExpiresAt int64 // epoch seconds
}

// Valid reports whether the entry is still usable at now.
func (e Entry) Valid(now time.Time) bool {
	return now.Unix() <= e.ExpiresAt
}

func parseEntry(name string) (Entry, bool) {
	exp, hash, ok := strings.Cut(name, ".")
	if !ok || exp == "" || hash == "" {
		return Entry{}, false
	}
	expiresAt, err := strconv.ParseInt(exp, 10, 64)
	if err != nil || expiresAt < 0 {
		return Entry{}, false
	}
	return Entry{Address: name, Hash: hash, ExpiresAt: expiresAt}, true
}

// ContentCache is a TTL cache of opaque payloads in one store directory.
//
// At most one valid entry exists per logical key: Set writes the new entry
// first and only then removes the entries that existed before it, so a
// reader never sees zero valid entries for a key that has one. Expired
// entries are skipped on read and left for the next Set to evict.
type ContentCache struct {
	store Store
	dir   string
	now   func() time.Time
}

// NewContentCache returns a cache over dir inside store.
func NewContentCache(store Store, dir string, opts ...Option) *ContentCache {
	o := applyOptions(opts)
	return &ContentCache{store: store, dir: dir, now: o.now}
}

// Get returns the payload of the newest valid entry for key. Absence,
// including an entry vanishing between listing and reading, is a miss.
func (c *ContentCache) Get(key string) ([]byte, bool) {
	entries, err := c.Entries(key)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			errorutil.LogWarning(logger.Get().Logger, "cache listing", err, errorutil.CacheContext(key, "")...)
		}
		return nil, false
	}

	now := c.now()
	for _, e := range entries {
		if !e.Valid(now) {
			continue
		}
		data, err := c.store.Read(join(c.dir, e.Address))
		if err != nil {
			logger.Debug("Cache entry vanished before read: %s", e.Address)
			continue
		}
		logger.Debug("Cache hit: %s (%s)", key, e.Address)
		return data, true
	}

	logger.Debug("Cache miss: %s", key)
	return nil, false
}

// Set stores payload under key for ttl and evicts every entry for key that
// existed before the write. It returns the new entry's address.
func (c *ContentCache) Set(key string, payload []byte, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	complete := logger.LogOperationStart("cache_write", map[string]any{
		"key": key,
		"ttl": ttl.String(),
	})

	if err := c.store.MkdirAll(c.dir); err != nil {
		err = fmt.Errorf("%w: %w", ErrStorage, err)
		complete(err)
		return "", err
	}

	stale, err := c.Entries(key)
	if err != nil {
		errorutil.LogWarning(logger.Get().Logger, "cache listing", err, errorutil.CacheContext(key, "")...)
	}

	hash := HashKey(key)
	address := fmt.Sprintf("%d.%s", c.now().Unix()+int64(ttl/time.Second), hash)
	if err := c.store.Write(join(c.dir, address), payload); err != nil {
		err = fmt.Errorf("%w: %w", ErrStorage, err)
		complete(err)
		return "", err
	}

	for _, e := range stale {
		if e.Address == address {
			continue
		}
		if err := c.store.Remove(join(c.dir, e.Address)); err != nil {
			errorutil.LogWarning(logger.Get().Logger, "stale eviction", err, errorutil.CacheContext(key, e.Address)...)
		}
	}

	complete(nil)
	logger.Get().Debug("Cache entry written",
		slog.String("cache_key", key),
		slog.String("cache_address", address),
		slog.Int("evicted", len(stale)))
	return address, nil
}

// Entries lists every entry for key, valid or not, newest expiry first.
func (c *ContentCache) Entries(key string) ([]Entry, error) {
	names, err := c.store.List(c.dir)
	if err != nil {
		return nil, err
	}

	hash := HashKey(key)
	var out []Entry
	for _, name := range names {
		e, ok := parseEntry(name)
		if ok && e.Hash == hash {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiresAt > out[j].ExpiresAt })
	return out, nil
}

// GetJSON decodes the cached value for key into v. A payload that fails to
// decode counts as a miss.
func (c *ContentCache) GetJSON(key string, v any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		errorutil.LogWarning(logger.Get().Logger, "cache decode", err, errorutil.CacheContext(key, "")...)
		return false
	}
	return true
}

// SetJSON encodes v and stores it under key.
func (c *ContentCache) SetJSON(key string, v any, ttl time.Duration) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode cache value for %s: %w", key, err)
	}
	return c.Set(key, data, ttl)
}

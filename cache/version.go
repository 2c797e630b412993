package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"weatherline/internal/errorutil"
	"weatherline/internal/logger"
)

// BucketSeconds is the width of one version bucket.
const BucketSeconds = 86400

var (
	// ErrNoVersion means the download failed and no earlier copy exists.
	ErrNoVersion = errors.New("no cached version available")
	// ErrInvalidPayload is returned by validators for unusable downloads.
	ErrInvalidPayload = errors.New("invalid version payload")
)

// Source downloads the current content of a named artifact.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, name string) ([]byte, error)

func (f SourceFunc) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

// Validator inspects a download before it replaces the cached copy.
type Validator func(data []byte) error

// NonEmpty rejects payloads that are empty or only whitespace.
func NonEmpty(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}
	return nil
}

// Bucket returns the day bucket containing t.
func Bucket(t time.Time) int64 {
	sec := t.Unix()
	b := sec / BucketSeconds
	if sec < 0 && sec%BucketSeconds != 0 {
		b--
	}
	return b
}

// VersionCache keeps at most one downloaded copy of each named artifact,
// refreshed at most once per bucket. When a refresh fails the newest
// earlier copy is served instead.
type VersionCache struct {
	store    Store
	source   Source
	ext      string
	validate Validator
	now      func() time.Time
}

// NewVersionCache returns a version cache that stores files under
// "<name>/<bucket><ext>" in store.
func NewVersionCache(store Store, source Source, opts ...Option) *VersionCache {
	o := applyOptions(opts)
	return &VersionCache{
		store:    store,
		source:   source,
		ext:      o.extension,
		validate: o.validate,
		now:      o.now,
	}
}

// Resolve returns the host path of the version of name to use now. The
// source is contacted only when the current bucket has no file yet.
func (v *VersionCache) Resolve(ctx context.Context, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}

	current := v.fileName(Bucket(v.now()))
	if v.store.Exists(join(name, current)) {
		logger.Debug("Version cache hit: %s/%s", name, current)
		return v.store.Path(join(name, current)), nil
	}

	complete := logger.LogOperationStart("version_refresh", map[string]any{
		"name":   name,
		"bucket": current,
	})

	previous, err := v.Versions(name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		errorutil.LogWarning(logger.Get().Logger, "version listing", err)
	}

	fetchErr := v.download(ctx, name, current)
	complete(fetchErr)
	if fetchErr == nil {
		for _, b := range previous {
			old := v.fileName(b)
			if err := v.store.Remove(join(name, old)); err != nil {
				errorutil.LogWarning(logger.Get().Logger, "old version removal", err, errorutil.FileContext(old)...)
			}
		}
		return v.store.Path(join(name, current)), nil
	}

	// Only a failed or rejected download falls back; storage failures end the run.
	if errors.Is(fetchErr, ErrStorage) {
		return "", fetchErr
	}
	if len(previous) == 0 {
		return "", fmt.Errorf("%w for %s: %w", ErrNoVersion, name, fetchErr)
	}
	fallback := v.fileName(previous[0])
	logger.Warn("Using previous version %s/%s: %v", name, fallback, fetchErr)
	return v.store.Path(join(name, fallback)), nil
}

func (v *VersionCache) download(ctx context.Context, name, file string) error {
	data, err := v.source.Fetch(ctx, name)
	if err != nil {
		return err
	}
	if err := v.validate(data); err != nil {
		return err
	}
	if err := v.store.MkdirAll(name); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := v.store.Write(join(name, file), data); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// Versions lists the buckets stored for name, newest first. Files that do
// not follow the "<bucket><ext>" naming are ignored.
func (v *VersionCache) Versions(name string) ([]int64, error) {
	names, err := v.store.List(name)
	if err != nil {
		return nil, err
	}

	var buckets []int64
	for _, n := range names {
		stem, ok := strings.CutSuffix(n, v.ext)
		if !ok || stem == "" {
			continue
		}
		b, err := strconv.ParseInt(stem, 10, 64)
		if err != nil {
			continue
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] > buckets[j] })
	return buckets, nil
}

func (v *VersionCache) fileName(bucket int64) string {
	return strconv.FormatInt(bucket, 10) + v.ext
}

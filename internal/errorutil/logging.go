package errorutil

import (
	"fmt"
	"log/slog"
	"time"
)

// LogAndWrap logs err at error level with attrs and returns it wrapped with
// the operation name. A nil logger or nil error returns err untouched.
func LogAndWrap(logger *slog.Logger, operation string, err error, attrs ...slog.Attr) error {
	if logger == nil || err == nil {
		return err
	}

	logger.Error(operation+" failed", toArgs(withError(err, attrs))...)
	return fmt.Errorf("%s: %w", operation, err)
}

// LogWarning records a recoverable error without changing control flow.
func LogWarning(logger *slog.Logger, operation string, err error, attrs ...slog.Attr) {
	if logger == nil || err == nil {
		return
	}

	logger.Warn("Non-fatal error in "+operation, toArgs(withError(err, attrs))...)
}

// LogAndReturn logs err and hands it back unchanged.
func LogAndReturn(logger *slog.Logger, operation string, err error, attrs ...slog.Attr) error {
	if logger == nil || err == nil {
		return err
	}

	logger.Error(operation+" failed", toArgs(withError(err, attrs))...)
	return err
}

// ExecuteWithLogging runs fn between debug start/completion records and
// wraps any returned error with the operation name.
func ExecuteWithLogging(logger *slog.Logger, operation string, fn func() error, attrs ...slog.Attr) error {
	if logger == nil {
		return fn()
	}

	start := time.Now()
	logger.Debug("Starting "+operation, toArgs(attrs)...)

	err := fn()

	done := make([]slog.Attr, 0, len(attrs)+2)
	done = append(done, attrs...)
	done = append(done, slog.Duration("duration", time.Since(start)))

	if err != nil {
		logger.Error("Failed "+operation, toArgs(append(done, slog.String("error", err.Error())))...)
		return fmt.Errorf("%s: %w", operation, err)
	}

	logger.Debug("Completed "+operation, toArgs(done)...)
	return nil
}

// LocationContext describes a forecast location.
func LocationContext(geohash string, latitude, longitude float64) []slog.Attr {
	attrs := []slog.Attr{
		slog.Float64("latitude", latitude),
		slog.Float64("longitude", longitude),
	}
	if geohash != "" {
		attrs = append(attrs, slog.String("geohash", geohash))
	}
	return attrs
}

// CacheContext describes a cache entry by logical key and on-disk address.
func CacheContext(key, address string) []slog.Attr {
	attrs := make([]slog.Attr, 0, 2)
	if key != "" {
		attrs = append(attrs, slog.String("cache_key", key))
	}
	if address != "" {
		attrs = append(attrs, slog.String("cache_address", address))
	}
	return attrs
}

// ConfigContext names the configuration file in use.
func ConfigContext(configFile string) []slog.Attr {
	if configFile == "" {
		return nil
	}
	return []slog.Attr{slog.String("config_file", configFile)}
}

func FileContext(filePath string) []slog.Attr {
	if filePath == "" {
		return nil
	}
	return []slog.Attr{slog.String("file_path", filePath)}
}

func URLContext(url string) []slog.Attr {
	if url == "" {
		return nil
	}
	return []slog.Attr{slog.String("url", url)}
}

// ChartContext describes a layout pass.
func ChartContext(mode string, points int, width, height float64) []slog.Attr {
	return []slog.Attr{
		slog.String("layout", mode),
		slog.Int("points", points),
		slog.Float64("width", width),
		slog.Float64("height", height),
	}
}

func withError(err error, attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs)+1)
	out = append(out, slog.String("error", err.Error()))
	return append(out, attrs...)
}

func toArgs(attrs []slog.Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

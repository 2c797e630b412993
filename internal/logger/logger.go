package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level mirrors slog levels with an extra fatal level.
type Level slog.Level

const (
	DebugLevel Level = Level(slog.LevelDebug)
	InfoLevel  Level = Level(slog.LevelInfo)
	WarnLevel  Level = Level(slog.LevelWarn)
	ErrorLevel Level = Level(slog.LevelError)
	FatalLevel Level = Level(slog.LevelError + 4)
)

// Config matches the [logging] table of the widget configuration.
type Config struct {
	Enabled         bool   `toml:"enabled"`
	Directory       string `toml:"directory"`
	FilenamePattern string `toml:"filename_pattern"`
	Level           string `toml:"level"`
	MaxFiles        int    `toml:"max_files"`
	ConsoleOutput   bool   `toml:"console_output"`
}

const defaultPattern = "weatherline-YYYYMMDD.log"

// EnhancedLogger is a slog.Logger that can also write to a dated log file.
// Each widget run is short, so the file is chosen once when the logger is
// created; old files beyond MaxFiles are pruned at that point.
type EnhancedLogger struct {
	*slog.Logger
	config   Config
	level    *slog.LevelVar
	file     *os.File
	fileName string
	mu       sync.Mutex
	out      io.Writer
}

var (
	globalLogger *EnhancedLogger
	globalMu     sync.Mutex
)

// Initialize replaces the process logger.
func Initialize(config Config) error {
	l, err := NewEnhancedLogger(config)
	if err != nil {
		return err
	}

	globalMu.Lock()
	old := globalLogger
	globalLogger = l
	globalMu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// Get returns the process logger, falling back to an info-level console
// logger when Initialize has not been called.
func Get() *EnhancedLogger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger == nil {
		level := new(slog.LevelVar)
		globalLogger = &EnhancedLogger{
			Logger: slog.New(newHandler(os.Stderr, level)),
			level:  level,
			out:    os.Stderr,
		}
	}
	return globalLogger
}

// NewEnhancedLogger builds a logger from config. Console output goes to
// stderr so stdout stays free for rendered frames.
func NewEnhancedLogger(config Config) (*EnhancedLogger, error) {
	if config.Enabled && config.FilenamePattern != "" {
		if err := ValidateFilenamePattern(config.FilenamePattern); err != nil {
			return nil, fmt.Errorf("invalid filename pattern: %w", err)
		}
	}

	l := &EnhancedLogger{
		config: config,
		level:  new(slog.LevelVar),
	}
	l.level.Set(parseLogLevel(config.Level))

	var writers []io.Writer
	if config.ConsoleOutput {
		writers = append(writers, os.Stderr)
	}

	if config.Enabled {
		dir := expandLogDirectory(config.Directory)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		path := filepath.Join(dir, generateLogFilename(config.FilenamePattern, time.Now()))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		l.fileName = path
		writers = append(writers, f)

		if config.MaxFiles > 0 {
			pruneOldFiles(dir, config.FilenamePattern, config.MaxFiles)
		}
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}
	l.out = io.MultiWriter(writers...)
	l.Logger = slog.New(newHandler(l, l.level))

	l.Debug("Logger initialized",
		slog.String("log_file", l.fileName),
		slog.String("level", config.Level),
		slog.Bool("console", config.ConsoleOutput))

	return l, nil
}

func newHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format("2006-01-02T15:04:05.000-07:00"))
			}
			return a
		},
	})
}

// Write serializes handler output across the configured writers.
func (l *EnhancedLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Write(p)
}

// FileName is the path of the active log file, empty when file logging is off.
func (l *EnhancedLogger) FileName() string {
	return l.fileName
}

// Close releases the log file.
func (l *EnhancedLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func expandLogDirectory(dir string) string {
	if strings.TrimSpace(dir) == "" {
		return "logs"
	}
	if strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[2:])
		}
	}
	return filepath.Clean(dir)
}

// generateLogFilename substitutes YYYY, YY, MM, DD and HH in pattern.
func generateLogFilename(pattern string, now time.Time) string {
	if pattern == "" {
		pattern = defaultPattern
	}
	r := strings.NewReplacer(
		"YYYY", fmt.Sprintf("%04d", now.Year()),
		"YY", fmt.Sprintf("%02d", now.Year()%100),
		"MM", fmt.Sprintf("%02d", int(now.Month())),
		"DD", fmt.Sprintf("%02d", now.Day()),
		"HH", fmt.Sprintf("%02d", now.Hour()),
	)
	return r.Replace(pattern)
}

// pruneOldFiles keeps the newest keep files matching pattern. Dated names
// sort chronologically, so lexical order is enough.
func pruneOldFiles(dir, pattern string, keep int) {
	if pattern == "" {
		pattern = defaultPattern
	}
	glob := strings.NewReplacer("YYYY", "*", "YY", "*", "MM", "*", "DD", "*", "HH", "*").Replace(pattern)

	matches, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil || len(matches) <= keep {
		return
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	for _, path := range matches[keep:] {
		os.Remove(path)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the minimum level of the process logger.
func SetLevel(level Level) {
	l := Get()
	if level == FatalLevel {
		level = ErrorLevel
	}
	l.level.Set(slog.Level(level))
}

// ParseLevel converts a level name to a Level.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

func Debug(format string, args ...interface{}) {
	Get().Debug(fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{}) {
	Get().Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	Get().Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	Get().Error(fmt.Sprintf(format, args...))
}

// Fatal logs at error level and exits with status 1.
func Fatal(format string, args ...interface{}) {
	Get().Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

// LogOperationStart logs the start of operation and returns a function that
// logs its completion (or failure) with the elapsed time.
func LogOperationStart(operation string, details map[string]any) func(error) {
	start := time.Now()

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("type", "operation_start"),
	}
	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		group := make([]any, 0, len(details)*2)
		for _, k := range keys {
			group = append(group, k, details[k])
		}
		attrs = append(attrs, slog.Group("details", group...))
	}
	Get().LogAttrs(context.Background(), slog.LevelDebug, "Operation started", attrs...)

	return func(err error) {
		level := slog.LevelDebug
		message := "Operation completed"
		done := []slog.Attr{
			slog.String("operation", operation),
			slog.String("type", "operation_complete"),
			slog.Duration("duration", time.Since(start)),
			slog.Bool("success", err == nil),
		}
		if err != nil {
			level = slog.LevelWarn
			message = "Operation failed"
			done = append(done, slog.String("error", err.Error()))
		}
		Get().LogAttrs(context.Background(), level, message, done...)
	}
}

// LogWithFields logs message with arbitrary structured fields.
func LogWithFields(level Level, message string, fields map[string]any) {
	slogLevel := slog.Level(level)
	if level == FatalLevel {
		slogLevel = slog.LevelError
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(fields))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	Get().LogAttrs(context.Background(), slogLevel, message, attrs...)

	if level == FatalLevel {
		os.Exit(1)
	}
}

// LogAPIRequest logs an outgoing HTTP request at debug level.
func LogAPIRequest(method, url string, headers map[string]string) {
	fields := []any{
		"method", method,
		"url", url,
		"type", "api_request",
	}
	if userAgent := headers["User-Agent"]; userAgent != "" {
		fields = append(fields, "user_agent", userAgent)
	}
	Get().LogAttrs(context.Background(), slog.LevelDebug, "API request started", slog.Group("request", fields...))
}

// LogAPIResponse logs a completed HTTP request; 4xx is a warning, 5xx an error.
func LogAPIResponse(method, url string, statusCode int, duration time.Duration, bodySize int) {
	level := slog.LevelDebug
	if statusCode >= 400 {
		level = slog.LevelWarn
	}
	if statusCode >= 500 {
		level = slog.LevelError
	}

	Get().LogAttrs(context.Background(), level, "API request completed",
		slog.Group("request",
			"method", method,
			"url", url,
			"status_code", statusCode,
			"duration", duration,
			"body_size", bodySize,
			"type", "api_response",
		),
	)
}

// LogFileOperation records a completed file write or read.
func LogFileOperation(operation, path string, size int64) {
	Get().LogAttrs(context.Background(), slog.LevelDebug, "File operation completed",
		slog.Group("file",
			"operation", operation,
			"path", path,
			"size_bytes", size,
			"type", "file_operation",
		),
	)
}

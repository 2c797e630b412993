package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"weatherline/geohash"
)

// Location selects the forecast area. A fixed geohash wins over coordinates.
type Location struct {
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
	Geohash   string  `toml:"geohash"`   // fixed BOM geohash, skips location lookup
	Precision int     `toml:"precision"` // geohash length derived from coordinates
}

// LayoutOptions holds per-layout chart settings. Zero values fall back to
// the defaults of the widget family.
type LayoutOptions struct {
	NowString    string `toml:"now_string"`
	PointsToShow int    `toml:"points_to_show"`
}

// Widget contains presentation settings
type Widget struct {
	Family         string        `toml:"family"` // small, medium, large, extraLarge
	Layout         string        `toml:"layout"` // hourly or daily
	ScreenWidth    float64       `toml:"screen_width"`
	ScreenHeight   float64       `toml:"screen_height"`
	Padding        float64       `toml:"padding"`
	HeaderFontSize float64       `toml:"header_font_size"`
	SymbolFontSize float64       `toml:"symbol_font_size"`
	TempFontSize   float64       `toml:"temp_font_size"`
	TwelveHours    *bool         `toml:"twelve_hours"`
	RoundedGraph   *bool         `toml:"rounded_graph"`
	RoundedTemp    *bool         `toml:"rounded_temp"`
	ColorScheme    string        `toml:"color_scheme"` // auto, day or night
	Hourly         LayoutOptions `toml:"hourly"`
	Daily          LayoutOptions `toml:"daily"`
}

// API contains forecast provider settings
type API struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryCount     *int   `toml:"retry_count"` // 0 disables retries
	RetryWaitMs    int    `toml:"retry_wait_ms"`
}

// Cache contains on-disk cache settings
type Cache struct {
	Directory          string `toml:"directory"`
	ForecastTTLSeconds int    `toml:"forecast_ttl_seconds"`
	LocationTTLSeconds int    `toml:"location_ttl_seconds"`
}

// Update configures the daily-versioned module download.
type Update struct {
	Enabled   bool   `toml:"enabled"`
	Name      string `toml:"name"`
	URL       string `toml:"url"` // "{name}" is replaced by Name
	Directory string `toml:"directory"`
	Extension string `toml:"extension"`
}

// Run bounds a single widget refresh.
type Run struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Logging contains logging configuration
type Logging struct {
	Enabled         bool   `toml:"enabled"`          // Enable file logging
	Directory       string `toml:"directory"`        // Log directory (relative or absolute)
	FilenamePattern string `toml:"filename_pattern"` // Log filename with date patterns
	Level           string `toml:"level"`            // Log level: debug, info, warn, error
	MaxFiles        int    `toml:"max_files"`        // Number of log files to keep
	ConsoleOutput   bool   `toml:"console_output"`   // Also output to stderr
}

// Config represents the complete application configuration
type Config struct {
	Location Location `toml:"location"`
	Widget   Widget   `toml:"widget"`
	API      API      `toml:"api"`
	Cache    Cache    `toml:"cache"`
	Update   Update   `toml:"update"`
	Run      Run      `toml:"run"`
	Logging  Logging  `toml:"logging"`
}

// familyDefaults are the per-family layout defaults. large and extraLarge
// share the medium values.
var familyDefaults = map[string]struct{ hourly, daily int }{
	"small":      {hourly: 4, daily: 4},
	"medium":     {hourly: 10, daily: 7},
	"large":      {hourly: 10, daily: 7},
	"extraLarge": {hourly: 10, daily: 7},
}

const (
	defaultHourlyNow = "Now"
	defaultDailyNow  = "Today"
)

// LoadConfig reads and parses a TOML configuration file
func LoadConfig(configPath string) (*Config, error) {
	cleanPath := filepath.Clean(configPath)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{
				Path: cleanPath,
			}
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse TOML configuration: %w", err)
	}

	config.ApplyDefaults()

	return &config, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults sets default values for optional configuration fields
func (c *Config) ApplyDefaults() {
	if c.Location.Precision <= 0 {
		c.Location.Precision = geohash.DefaultPrecision
	}

	// Widget defaults follow an iPhone 11 medium widget
	if strings.TrimSpace(c.Widget.Family) == "" {
		c.Widget.Family = "medium"
	}
	if strings.TrimSpace(c.Widget.Layout) == "" {
		c.Widget.Layout = "daily"
	}
	if c.Widget.ScreenWidth == 0 && c.Widget.ScreenHeight == 0 {
		c.Widget.ScreenWidth = 414
		c.Widget.ScreenHeight = 896
	}
	if c.Widget.Padding == 0 {
		c.Widget.Padding = 16
	}
	if c.Widget.HeaderFontSize == 0 {
		c.Widget.HeaderFontSize = 12
	}
	if c.Widget.SymbolFontSize == 0 {
		c.Widget.SymbolFontSize = 18
	}
	if c.Widget.TempFontSize == 0 {
		c.Widget.TempFontSize = 16
	}
	if c.Widget.TwelveHours == nil {
		c.Widget.TwelveHours = boolPtr(true)
	}
	if c.Widget.RoundedGraph == nil {
		c.Widget.RoundedGraph = boolPtr(false)
	}
	if c.Widget.RoundedTemp == nil {
		c.Widget.RoundedTemp = boolPtr(true)
	}
	if strings.TrimSpace(c.Widget.ColorScheme) == "" {
		c.Widget.ColorScheme = "auto"
	}
	if c.Widget.Hourly.NowString == "" {
		c.Widget.Hourly.NowString = defaultHourlyNow
	}
	if c.Widget.Daily.NowString == "" {
		c.Widget.Daily.NowString = defaultDailyNow
	}
	// points_to_show stays 0 here; PointsToShow resolves it per family

	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = "https://api.weather.bom.gov.au/v1"
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 10
	}
	if c.API.RetryCount == nil {
		retries := 3
		c.API.RetryCount = &retries
	}
	if c.API.RetryWaitMs <= 0 {
		c.API.RetryWaitMs = 1000
	}

	if strings.TrimSpace(c.Cache.Directory) == "" {
		c.Cache.Directory = defaultCacheDirectory()
	}
	c.Cache.Directory = expandHome(c.Cache.Directory)
	if c.Cache.ForecastTTLSeconds <= 0 {
		c.Cache.ForecastTTLSeconds = 60
	}
	if c.Cache.LocationTTLSeconds <= 0 {
		c.Cache.LocationTTLSeconds = 3600
	}

	if strings.TrimSpace(c.Update.Name) == "" {
		c.Update.Name = "WeatherLine"
	}
	if strings.TrimSpace(c.Update.Directory) == "" {
		c.Update.Directory = filepath.Join(c.Cache.Directory, "modules")
	}
	c.Update.Directory = expandHome(c.Update.Directory)
	if c.Update.Extension == "" {
		c.Update.Extension = ".js"
	}

	if c.Run.TimeoutSeconds <= 0 {
		c.Run.TimeoutSeconds = 30
	}

	if strings.TrimSpace(c.Logging.Directory) == "" {
		c.Logging.Directory = "logs"
	}
	if strings.TrimSpace(c.Logging.FilenamePattern) == "" {
		c.Logging.FilenamePattern = "weatherline-YYYYMMDD.log"
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxFiles <= 0 {
		c.Logging.MaxFiles = 7
	}
}

func defaultCacheDirectory() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "weatherline")
	}
	return filepath.Join(os.TempDir(), "weatherline")
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func boolPtr(b bool) *bool {
	return &b
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

// TwelveHoursEnabled reports whether hour labels use the 12-hour clock.
func (w Widget) TwelveHoursEnabled() bool { return boolValue(w.TwelveHours) }

// RoundedGraphEnabled reports whether the line is drawn from rounded values.
func (w Widget) RoundedGraphEnabled() bool { return boolValue(w.RoundedGraph) }

// RoundedTempEnabled reports whether temperature labels are rounded.
func (w Widget) RoundedTempEnabled() bool { return boolValue(w.RoundedTemp) }

// LayoutOptionsFor returns the options of the named layout.
func (w Widget) LayoutOptionsFor(layout string) LayoutOptions {
	if layout == "hourly" {
		return w.Hourly
	}
	return w.Daily
}

// PointsToShow is the configured point count for layout, or the family
// default when unset.
func (w Widget) PointsToShow(layout string) int {
	if n := w.LayoutOptionsFor(layout).PointsToShow; n > 0 {
		return n
	}
	d, ok := familyDefaults[w.Family]
	if !ok {
		d = familyDefaults["medium"]
	}
	if layout == "hourly" {
		return d.hourly
	}
	return d.daily
}

// NowString is the label of the first point for layout.
func (w Widget) NowString(layout string) string {
	if s := w.LayoutOptionsFor(layout).NowString; s != "" {
		return s
	}
	if layout == "hourly" {
		return defaultHourlyNow
	}
	return defaultDailyNow
}

func (a API) Timeout() time.Duration   { return time.Duration(a.TimeoutSeconds) * time.Second }
// Retries is the configured retry count; 0 when unset.
func (a API) Retries() int {
	if a.RetryCount == nil {
		return 0
	}
	return *a.RetryCount
}

func (a API) RetryWait() time.Duration { return time.Duration(a.RetryWaitMs) * time.Millisecond }

func (c Cache) ForecastTTL() time.Duration { return time.Duration(c.ForecastTTLSeconds) * time.Second }
func (c Cache) LocationTTL() time.Duration { return time.Duration(c.LocationTTLSeconds) * time.Second }

func (r Run) Timeout() time.Duration { return time.Duration(r.TimeoutSeconds) * time.Second }

// ConfigNotFoundError represents a missing configuration file
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found: %s\n\nTo create a sample configuration file, run:\n  %s -generate-config", e.Path, filepath.Base(os.Args[0]))
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// MultiValidationError represents multiple validation errors
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	var messages []string
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// Validate checks the configuration for correctness and completeness
func (c *Config) Validate() error {
	var errors []ValidationError

	errors = append(errors, c.validateLocation()...)
	errors = append(errors, c.validateWidget()...)
	errors = append(errors, c.validateAPI()...)
	errors = append(errors, c.validateCache()...)
	errors = append(errors, c.validateUpdate()...)
	errors = append(errors, c.validateRun()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return &MultiValidationError{Errors: errors}
	}
	return nil
}

// validateLocation checks that a forecast area can be determined
func (c *Config) validateLocation() []ValidationError {
	var errors []ValidationError

	if hash := strings.TrimSpace(c.Location.Geohash); hash != "" {
		if !geohash.Valid(hash) {
			errors = append(errors, ValidationError{
				Field:   "location.geohash",
				Message: fmt.Sprintf("%q is not a valid geohash", c.Location.Geohash),
			})
		}
		return errors
	}

	if c.Location.Latitude == 0 && c.Location.Longitude == 0 {
		errors = append(errors, ValidationError{
			Field:   "location",
			Message: "either geohash or latitude/longitude is required",
		})
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		errors = append(errors, ValidationError{
			Field:   "location.latitude",
			Message: fmt.Sprintf("latitude must be between -90 and 90, got %.6f", c.Location.Latitude),
		})
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		errors = append(errors, ValidationError{
			Field:   "location.longitude",
			Message: fmt.Sprintf("longitude must be between -180 and 180, got %.6f", c.Location.Longitude),
		})
	}
	if c.Location.Precision < 1 || c.Location.Precision > 12 {
		errors = append(errors, ValidationError{
			Field:   "location.precision",
			Message: fmt.Sprintf("precision must be between 1 and 12, got %d", c.Location.Precision),
		})
	}
	return errors
}

// validateWidget checks presentation settings
func (c *Config) validateWidget() []ValidationError {
	var errors []ValidationError
	w := c.Widget

	if _, ok := familyDefaults[w.Family]; !ok {
		errors = append(errors, ValidationError{
			Field:   "widget.family",
			Message: fmt.Sprintf("family must be one of: small, medium, large, extraLarge, got '%s'", w.Family),
		})
	}
	if w.Layout != "hourly" && w.Layout != "daily" {
		errors = append(errors, ValidationError{
			Field:   "widget.layout",
			Message: fmt.Sprintf("layout must be hourly or daily, got '%s'", w.Layout),
		})
	}
	if w.ScreenWidth <= 0 || w.ScreenHeight <= 0 {
		errors = append(errors, ValidationError{
			Field:   "widget.screen_width",
			Message: fmt.Sprintf("screen size must be positive, got %vx%v", w.ScreenWidth, w.ScreenHeight),
		})
	}
	if w.Padding < 0 {
		errors = append(errors, ValidationError{
			Field:   "widget.padding",
			Message: fmt.Sprintf("padding must not be negative, got %v", w.Padding),
		})
	}
	fonts := []struct {
		field string
		size  float64
	}{
		{"widget.header_font_size", w.HeaderFontSize},
		{"widget.symbol_font_size", w.SymbolFontSize},
		{"widget.temp_font_size", w.TempFontSize},
	}
	for _, f := range fonts {
		if f.size <= 0 || f.size > 72 {
			errors = append(errors, ValidationError{
				Field:   f.field,
				Message: fmt.Sprintf("font size must be between 0 and 72, got %v", f.size),
			})
		}
	}
	switch w.ColorScheme {
	case "auto", "day", "night":
	default:
		errors = append(errors, ValidationError{
			Field:   "widget.color_scheme",
			Message: fmt.Sprintf("color_scheme must be auto, day or night, got '%s'", w.ColorScheme),
		})
	}
	points := []struct {
		field string
		n     int
	}{
		{"widget.hourly.points_to_show", w.Hourly.PointsToShow},
		{"widget.daily.points_to_show", w.Daily.PointsToShow},
	}
	for _, p := range points {
		if p.n < 0 || p.n > 48 {
			errors = append(errors, ValidationError{
				Field:   p.field,
				Message: fmt.Sprintf("points_to_show must be between 0 and 48, got %d", p.n),
			})
		}
	}
	return errors
}

// validateAPI checks forecast provider settings
func (c *Config) validateAPI() []ValidationError {
	var errors []ValidationError

	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("base_url must be an http(s) URL, got '%s'", c.API.BaseURL),
		})
	}
	if c.API.TimeoutSeconds < 1 || c.API.TimeoutSeconds > 120 {
		errors = append(errors, ValidationError{
			Field:   "api.timeout_seconds",
			Message: fmt.Sprintf("timeout_seconds must be between 1 and 120, got %d", c.API.TimeoutSeconds),
		})
	}
	if retries := c.API.Retries(); retries < 0 || retries > 10 {
		errors = append(errors, ValidationError{
			Field:   "api.retry_count",
			Message: fmt.Sprintf("retry_count must be between 0 and 10, got %d", retries),
		})
	}
	return errors
}

// validateCache checks cache configuration
func (c *Config) validateCache() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Cache.Directory) == "" {
		errors = append(errors, ValidationError{
			Field:   "cache.directory",
			Message: "cache directory is required",
		})
	} else if info, err := os.Stat(c.Cache.Directory); err == nil && !info.IsDir() {
		errors = append(errors, ValidationError{
			Field:   "cache.directory",
			Message: fmt.Sprintf("%s exists and is not a directory", c.Cache.Directory),
		})
	}
	if c.Cache.ForecastTTLSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.forecast_ttl_seconds",
			Message: "forecast_ttl_seconds must be positive",
		})
	}
	if c.Cache.LocationTTLSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.location_ttl_seconds",
			Message: "location_ttl_seconds must be positive",
		})
	}
	return errors
}

// validateUpdate checks the module download settings
func (c *Config) validateUpdate() []ValidationError {
	var errors []ValidationError

	if strings.ContainsAny(c.Update.Name, `/\`) || c.Update.Name == "." || c.Update.Name == ".." {
		errors = append(errors, ValidationError{
			Field:   "update.name",
			Message: fmt.Sprintf("name must be a single path element, got '%s'", c.Update.Name),
		})
	}
	if !strings.HasPrefix(c.Update.Extension, ".") {
		errors = append(errors, ValidationError{
			Field:   "update.extension",
			Message: fmt.Sprintf("extension must start with a dot, got '%s'", c.Update.Extension),
		})
	}
	if c.Update.Enabled {
		if u, err := url.Parse(strings.ReplaceAll(c.Update.URL, "{name}", c.Update.Name)); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "update.url",
				Message: "url is required when update is enabled",
			})
		}
	}
	return errors
}

func (c *Config) validateRun() []ValidationError {
	if c.Run.TimeoutSeconds < 1 || c.Run.TimeoutSeconds > 600 {
		return []ValidationError{{
			Field:   "run.timeout_seconds",
			Message: fmt.Sprintf("timeout_seconds must be between 1 and 600, got %d", c.Run.TimeoutSeconds),
		}}
	}
	return nil
}

// validateLogging checks logging configuration
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	validLevels := []string{"debug", "info", "warn", "error"}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level != "" {
		valid := false
		for _, validLevel := range validLevels {
			if level == validLevel {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, ValidationError{
				Field:   "logging.level",
				Message: fmt.Sprintf("level must be one of: %s, got '%s'", strings.Join(validLevels, ", "), c.Logging.Level),
			})
		}
	}

	if c.Logging.MaxFiles < 0 || c.Logging.MaxFiles > 365 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_files",
			Message: fmt.Sprintf("max_files must be between 0 and 365, got %d", c.Logging.MaxFiles),
		})
	}

	if c.Logging.Enabled {
		if strings.TrimSpace(c.Logging.Directory) == "" {
			errors = append(errors, ValidationError{
				Field:   "logging.directory",
				Message: "directory is required when logging is enabled",
			})
		}
		// filename_pattern is validated by the logger on initialization
	}
	return errors
}

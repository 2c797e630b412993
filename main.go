package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	_ "time/tzdata"

	"weatherline/api"
	"weatherline/cache"
	"weatherline/chart"
	"weatherline/config"
	"weatherline/internal/errorutil"
	"weatherline/internal/logger"
	"weatherline/widget"
)

// contentDir is the content-cache directory inside the cache root.
const contentDir = "cache_WeatherLine"

func main() {
	// Define command-line flags
	configPath := flag.String("config", getDefaultConfigPath(), "Path to TOML configuration file")
	logLevel := flag.String("log-level", "", "Logging level (debug, info, warn, error); overrides the config file")
	logFile := flag.String("log-file", "", "Log output file (default: stderr)")
	params := flag.String("params", "", "Widget parameters as a JSON object")
	resolveModule := flag.Bool("resolve-module", false, "Resolve today's module download and print its path")
	indent := flag.Bool("indent", false, "Indent the rendered frame")
	generateConfig := flag.Bool("generate-config", false, "Generate a sample configuration file and exit")
	flag.Parse()

	// Handle config generation
	if *generateConfig {
		if err := config.GenerateSampleConfig(*configPath); err != nil {
			logger.Fatal("Failed to generate sample config: %v", err)
		}
		logger.Info("Sample configuration file created at: %s", *configPath)
		logger.Info("Edit the [location] section before the first run")
		return
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		var configNotFound *config.ConfigNotFoundError
		if errors.As(err, &configNotFound) {
			logger.Fatal("%v", err)
		} else {
			logger.Fatal("Failed to load configuration: %v", err)
		}
	}

	if err := cfg.ApplyParams(*params); err != nil {
		logger.Fatal("%v", err)
	}

	// Configure logging
	if *logLevel != "" {
		if _, err := logger.ParseLevel(*logLevel); err != nil {
			logger.Warn("Invalid log level: %s, using configured level", *logLevel)
			*logLevel = ""
		}
	}
	if err := logger.Initialize(loggerConfig(cfg.Logging, *logLevel, *logFile)); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	defer logger.Get().Close()
	if name := logger.Get().FileName(); name != "" {
		logger.Debug("Logging to %s", name)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Configuration validation failed: %v", err)
	}
	logger.Get().LogAttrs(context.Background(), slog.LevelDebug, "Configuration loaded and validated", errorutil.ConfigContext(*configPath)...)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Run.Timeout())
	defer cancel()

	if *resolveModule {
		path, err := resolveModulePath(ctx, cfg)
		if err != nil {
			logger.Fatal("Module resolution failed: %v", err)
		}
		fmt.Println(path)
		return
	}

	if err := runWidget(ctx, cfg, os.Stdout, *indent); err != nil {
		logger.Fatal("Widget refresh failed: %v", err)
	}
}

// loggerConfig maps the [logging] table and the command-line overrides onto
// the logger. A log file given on the command line enables file logging.
func loggerConfig(l config.Logging, level, file string) logger.Config {
	lc := logger.Config{
		Enabled:         l.Enabled,
		Directory:       l.Directory,
		FilenamePattern: l.FilenamePattern,
		Level:           l.Level,
		MaxFiles:        l.MaxFiles,
		ConsoleOutput:   l.ConsoleOutput,
	}
	if level != "" {
		lc.Level = level
	}
	if file != "" {
		lc.Enabled = true
		lc.Directory = filepath.Dir(file)
		lc.FilenamePattern = filepath.Base(file)
		lc.MaxFiles = 0
	}
	return lc
}

// widgetSettings converts the validated configuration to frame settings.
func widgetSettings(cfg *config.Config) (widget.Settings, error) {
	family, err := widget.ParseFamily(cfg.Widget.Family)
	if err != nil {
		return widget.Settings{}, err
	}
	mode, err := chart.ParseMode(cfg.Widget.Layout)
	if err != nil {
		return widget.Settings{}, err
	}

	layout := cfg.Widget.Layout
	return widget.Settings{
		Family:     family,
		Screen:     chart.Size{Width: cfg.Widget.ScreenWidth, Height: cfg.Widget.ScreenHeight},
		Mode:       mode,
		Padding:    cfg.Widget.Padding,
		HeaderFont: cfg.Widget.HeaderFontSize,
		Fonts: chart.Fonts{
			Temp:   cfg.Widget.TempFontSize,
			Symbol: cfg.Widget.SymbolFontSize,
			Axis:   cfg.Widget.HeaderFontSize,
		},
		ColorScheme:  cfg.Widget.ColorScheme,
		PointsToShow: cfg.Widget.PointsToShow(layout),
		NowString:    cfg.Widget.NowString(layout),
		TwelveHours:  cfg.Widget.TwelveHoursEnabled(),
		RoundedGraph: cfg.Widget.RoundedGraphEnabled(),
		RoundedTemp:  cfg.Widget.RoundedTempEnabled(),
	}, nil
}

// locationFunc returns the configured geohash, or resolves the configured
// coordinates through the cached locator.
func locationFunc(cfg *config.Config, content *cache.ContentCache) widget.GeohashFunc {
	if hash := strings.TrimSpace(cfg.Location.Geohash); hash != "" {
		return func(context.Context) (string, error) { return hash, nil }
	}

	locator := api.NewCachedLocator(api.StaticLocator{Coordinates: api.Coordinates{
		Latitude:  cfg.Location.Latitude,
		Longitude: cfg.Location.Longitude,
	}}, content, cfg.Cache.LocationTTL())

	return func(ctx context.Context) (string, error) {
		return api.LocationGeohash(ctx, locator, cfg.Location.Precision)
	}
}

// runWidget performs one refresh and renders the frame to out.
func runWidget(ctx context.Context, cfg *config.Config, out io.Writer, indent bool) error {
	settings, err := widgetSettings(cfg)
	if err != nil {
		return err
	}

	content := cache.NewContentCache(cache.NewDirStore(cfg.Cache.Directory), contentDir)

	client := api.NewBOMClient(cfg.API.BaseURL)
	client.SetTimeout(cfg.API.Timeout())
	client.SetRetryPolicy(cfg.API.Retries(), cfg.API.RetryWait(), 5*cfg.API.RetryWait())

	service := api.NewForecastService(client, content, cfg.Cache.ForecastTTL())

	frame, err := widget.Build(ctx, service, locationFunc(cfg, content), settings)
	if err != nil {
		return err
	}
	logger.LogWithFields(logger.DebugLevel, "Frame composed", map[string]any{
		"family":      string(frame.Family),
		"layout":      string(frame.Chart.Mode),
		"ops":         len(frame.Chart.Ops),
		"from_cache":  frame.FromCache,
		"unavailable": frame.Unavailable,
	})
	// A refresh that hit the run deadline still renders its degraded frame.
	return widget.NewJSONRenderer(out, indent).Render(context.WithoutCancel(ctx), frame)
}

// resolveModulePath returns the path of today's module download, refreshing
// it at most once per day.
func resolveModulePath(ctx context.Context, cfg *config.Config) (string, error) {
	if !cfg.Update.Enabled {
		return "", errors.New("module updates are disabled; set [update] enabled = true")
	}

	versions := cache.NewVersionCache(
		cache.NewDirStore(cfg.Update.Directory),
		api.NewHTTPSource(cfg.Update.URL, cfg.API.Timeout()),
		cache.WithExtension(cfg.Update.Extension),
	)
	return versions.Resolve(ctx, cfg.Update.Name)
}

// getDefaultConfigPath returns a cross-platform default config path
func getDefaultConfigPath() string {
	// Try to use config.toml in the current directory
	return filepath.Clean("config.toml")
}

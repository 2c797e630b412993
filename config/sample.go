package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GenerateSampleConfig creates a sample configuration file with documentation
func GenerateSampleConfig(path string) error {
	sampleConfig := `# WeatherLine Configuration File
# Forecast chart widget backed by the Bureau of Meteorology API

[location]
# Either a fixed BOM geohash...
# geohash = "r1r0fs"
# ...or coordinates, encoded at the given precision
latitude = -37.8136
longitude = 144.9631
precision = 6

[widget]
# Widget family: small, medium, large, extraLarge
family = "medium"
# Chart layout: hourly or daily
layout = "daily"
# Portrait screen size in points, used for the widget size lookup
screen_width = 414
screen_height = 896
padding = 16
header_font_size = 12
symbol_font_size = 18
temp_font_size = 16
twelve_hours = true
rounded_graph = false
rounded_temp = true
# Color scheme: auto (follows the first point), day or night
color_scheme = "auto"

[widget.hourly]
now_string = "Now"
# 0 uses the family default
points_to_show = 0

[widget.daily]
now_string = "Today"
points_to_show = 0

[api]
base_url = "https://api.weather.bom.gov.au/v1"
timeout_seconds = 10
retry_count = 3
retry_wait_ms = 1000

[cache]
# Defaults to the user cache directory
# directory = "~/.cache/weatherline"
forecast_ttl_seconds = 60
location_ttl_seconds = 3600

[update]
# Download a fresh module once per day, falling back to the last good copy
enabled = false
name = "WeatherLine"
url = "https://example.com/{name}.js"
extension = ".js"

[run]
# Upper bound for one widget refresh
timeout_seconds = 30

[logging]
enabled = false
directory = "logs"
# Date patterns: YYYY, YY, MM, DD, HH
filename_pattern = "weatherline-YYYYMMDD.log"
level = "info"
max_files = 7
console_output = false
`

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write sample config to %s: %w", path, err)
	}

	return nil
}

package api

import (
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/gjson"
)

// Normalize reshapes raw BOM responses into a ForecastSnapshot. Missing
// observations, hourly or daily series and unparsable times are fetch
// failures, so an incomplete snapshot is never cached or rendered.
func Normalize(raw *RawForecast) (*ForecastSnapshot, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: no data", ErrFetchFailure)
	}

	loc := gjson.GetBytes(raw.Location, "data")
	obs := gjson.GetBytes(raw.Observations, "data")
	hourly := gjson.GetBytes(raw.Hourly, "data")
	daily := gjson.GetBytes(raw.Daily, "data")

	if !loc.IsObject() {
		return nil, fmt.Errorf("%w: location data missing", ErrFetchFailure)
	}
	if !obs.IsObject() {
		return nil, fmt.Errorf("%w: observations missing", ErrFetchFailure)
	}
	if !hourly.IsArray() || len(hourly.Array()) == 0 {
		return nil, fmt.Errorf("%w: hourly forecast missing", ErrFetchFailure)
	}
	if !daily.IsArray() || len(daily.Array()) == 0 {
		return nil, fmt.Errorf("%w: daily forecast missing", ErrFetchFailure)
	}

	snap := &ForecastSnapshot{
		Location: Location{
			ID:       loc.Get("id").String(),
			Name:     loc.Get("name").String(),
			Geohash:  loc.Get("geohash").String(),
			Timezone: loc.Get("timezone").String(),
		},
		Current: Observation{
			Temp:          obs.Get("temp").Float(),
			TempFeelsLike: obs.Get("temp_feels_like").Float(),
			Humidity:      int(obs.Get("humidity").Int()),
			Pressure:      obs.Get("pressure").Float(),
			WindSpeed:     obs.Get("wind.speed_kilometre").Float(),
			WindDirection: obs.Get("wind.direction").String(),
		},
		FetchedAt: parseIssueTime(raw.Hourly),
	}

	for i, h := range hourly.Array() {
		t, err := parseTime(h.Get("time"))
		if err != nil {
			return nil, fmt.Errorf("%w: hourly[%d]: %w", ErrFetchFailure, i, err)
		}
		snap.Hourly = append(snap.Hourly, HourPoint{
			Time:           t,
			Temp:           h.Get("temp").Float(),
			IsNight:        h.Get("is_night").Bool(),
			IconDescriptor: h.Get("icon_descriptor").String(),
			Rain:           Rain{Chance: int(h.Get("rain.chance").Int())},
		})
	}
	sort.SliceStable(snap.Hourly, func(i, j int) bool {
		return snap.Hourly[i].Time.Before(snap.Hourly[j].Time)
	})

	for i, d := range daily.Array() {
		t, err := parseTime(d.Get("date"))
		if err != nil {
			return nil, fmt.Errorf("%w: daily[%d]: %w", ErrFetchFailure, i, err)
		}
		snap.Daily = append(snap.Daily, DayPoint{
			Date:           t,
			TempMax:        d.Get("temp_max").Float(),
			TempMin:        d.Get("temp_min").Float(),
			IconDescriptor: d.Get("icon_descriptor").String(),
			ShortText:      d.Get("short_text").String(),
			Rain:           Rain{Chance: int(d.Get("rain.chance").Int())},
		})
	}

	return snap, nil
}

func parseTime(v gjson.Result) (time.Time, error) {
	if v.Type != gjson.String {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	t, err := time.Parse(time.RFC3339, v.Str)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", v.Str, err)
	}
	return t, nil
}

// parseIssueTime reads metadata.issue_time, or returns the zero time.
func parseIssueTime(doc []byte) time.Time {
	t, err := parseTime(gjson.GetBytes(doc, "metadata.issue_time"))
	if err != nil {
		return time.Time{}
	}
	return t
}

package chart

import (
	"fmt"
	"strconv"
	"time"

	"weatherline/api"
)

// Mode selects which forecast series is charted.
type Mode string

const (
	Hourly Mode = "hourly"
	Daily  Mode = "daily"
)

// ParseMode validates a layout name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Hourly, Daily:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown layout %q (want hourly or daily)", s)
	}
}

// Sample is the part of a forecast period the chart draws.
type Sample struct {
	Temp       float64
	IsNight    bool
	Condition  Condition
	RainChance int
}

// Series adapts one forecast series to the chart: which temperature to
// plot and how to label the axis.
type Series interface {
	Mode() Mode
	Len() int
	Sample(i int) Sample
	AxisLabel(i int, twelveHours bool, loc *time.Location) string
}

// HourlySeries plots the hourly temperature, labelled by hour.
type HourlySeries []api.HourPoint

func (s HourlySeries) Mode() Mode { return Hourly }
func (s HourlySeries) Len() int   { return len(s) }

func (s HourlySeries) Sample(i int) Sample {
	p := s[i]
	return Sample{
		Temp:       p.Temp,
		IsNight:    p.IsNight,
		Condition:  ParseCondition(p.IconDescriptor),
		RainChance: p.Rain.Chance,
	}
}

func (s HourlySeries) AxisLabel(i int, twelveHours bool, loc *time.Location) string {
	return FormatHour(s[i].Time.In(loc).Hour(), twelveHours)
}

// DailySeries plots the daily maximum, labelled by day of month.
type DailySeries []api.DayPoint

func (s DailySeries) Mode() Mode { return Daily }
func (s DailySeries) Len() int   { return len(s) }

func (s DailySeries) Sample(i int) Sample {
	p := s[i]
	return Sample{
		Temp:       p.TempMax,
		Condition:  ParseCondition(p.IconDescriptor),
		RainChance: p.Rain.Chance,
	}
}

func (s DailySeries) AxisLabel(i int, _ bool, loc *time.Location) string {
	return strconv.Itoa(s[i].Date.In(loc).Day())
}

// SeriesFor selects the series of snap to chart for mode.
func SeriesFor(mode Mode, snap *api.ForecastSnapshot) (Series, error) {
	switch mode {
	case Hourly:
		return HourlySeries(snap.Hourly), nil
	case Daily:
		return DailySeries(snap.Daily), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", mode)
	}
}

// FormatHour renders an hour of day. In twelve-hour mode midnight is
// "12a", noon "12p" and other hours are modulo 12 without a suffix.
func FormatHour(hour int, twelveHours bool) string {
	if !twelveHours {
		return strconv.Itoa(hour)
	}
	switch hour {
	case 0:
		return "12a"
	case 12:
		return "12p"
	default:
		return strconv.Itoa(hour % 12)
	}
}

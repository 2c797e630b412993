package chart

import "fmt"

// Gradient is a two-stop vertical background.
type Gradient struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Palette holds the colors of one scheme as #RRGGBB strings.
type Palette struct {
	Name       string   `json:"name"`
	Background Gradient `json:"background"`
	Foreground string   `json:"foreground"`
	Day        string   `json:"day"`
	Night      string   `json:"night"`
	Rain       string   `json:"rain"`
	Heat       string   `json:"heat"`
}

var (
	DayPalette = Palette{
		Name:       "day",
		Background: Gradient{Start: "#4B8AB4", End: "#76A6C6"},
		Foreground: "#FFFFFF",
		Day:        "#F0C40F",
		Night:      "#FFFFFF",
		Rain:       "#FFFFFF",
		Heat:       "#F0C40F",
	}

	NightPalette = Palette{
		Name:       "night",
		Background: Gradient{Start: "#18182D", End: "#282C42"},
		Foreground: "#949494",
		Day:        "#FE9C00",
		Night:      "#999999",
		Rain:       "#2893DE",
		Heat:       "#F45246",
	}
)

const (
	// RainChanceThreshold is the chance of rain, in percent, at which a
	// point is drawn in the rain color.
	RainChanceThreshold = 20
	// HeatThreshold is the temperature, in °C, at which a point is drawn
	// in the heat color.
	HeatThreshold = 35
)

// PaletteFor resolves a color scheme name. "auto" picks the night palette
// when the first point of the series is at night.
func PaletteFor(scheme string, firstIsNight bool) (Palette, error) {
	switch scheme {
	case "", "auto":
		if firstIsNight {
			return NightPalette, nil
		}
		return DayPalette, nil
	case "day":
		return DayPalette, nil
	case "night":
		return NightPalette, nil
	default:
		return Palette{}, fmt.Errorf("unknown color scheme %q", scheme)
	}
}

// ColorFor picks the color of a point. The first matching rule wins:
// night, then rain, then heat, then day.
func (p Palette) ColorFor(s Sample) string {
	switch {
	case s.IsNight:
		return p.Night
	case s.RainChance >= RainChanceThreshold:
		return p.Rain
	case s.Temp >= HeatThreshold:
		return p.Heat
	default:
		return p.Day
	}
}

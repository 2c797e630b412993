package chart

import "strings"

// Condition is a forecast icon descriptor from a closed set.
type Condition int

const (
	Unknown Condition = iota
	Clear
	Cloudy
	Cyclone
	Dust
	Fog
	Frost
	Haze
	HeavyShower
	LightRain
	LightShower
	MostlySunny
	PartlyCloudy
	Rain
	Shower
	Snow
	Storm
	Sunny
	TropicalCyclone
	Wind
)

var conditionNames = map[Condition]string{
	Unknown:         "unknown",
	Clear:           "clear",
	Cloudy:          "cloudy",
	Cyclone:         "cyclone",
	Dust:            "dust",
	Fog:             "fog",
	Frost:           "frost",
	Haze:            "haze",
	HeavyShower:     "heavy_shower",
	LightRain:       "light_rain",
	LightShower:     "light_shower",
	MostlySunny:     "mostly_sunny",
	PartlyCloudy:    "partly_cloudy",
	Rain:            "rain",
	Shower:          "shower",
	Snow:            "snow",
	Storm:           "storm",
	Sunny:           "sunny",
	TropicalCyclone: "tropical_cyclone",
	Wind:            "wind",
}

// descriptor aliases used by the provider
var conditionAliases = map[string]Condition{
	"dusty":         Dust,
	"hazy":          Haze,
	"heavy_showers": HeavyShower,
	"light_showers": LightShower,
	"showers":       Shower,
	"storms":        Storm,
	"windy":         Wind,
}

var conditionsByName = func() map[string]Condition {
	m := make(map[string]Condition, len(conditionNames)+len(conditionAliases))
	for c, name := range conditionNames {
		if c != Unknown {
			m[name] = c
		}
	}
	for alias, c := range conditionAliases {
		m[alias] = c
	}
	return m
}()

// ParseCondition maps an icon descriptor to a Condition. Unrecognized
// descriptors yield Unknown.
func ParseCondition(descriptor string) Condition {
	return conditionsByName[strings.ToLower(strings.TrimSpace(descriptor))]
}

func (c Condition) String() string {
	if name, ok := conditionNames[c]; ok {
		return name
	}
	return "unknown"
}

// DefaultSymbol is drawn for Unknown conditions.
const DefaultSymbol = "wind"

// Symbol returns the SF Symbol name for c. Conditions without a night
// variant use the day symbol at night.
func (c Condition) Symbol(night bool) string {
	switch c {
	case Clear:
		if night {
			return "moon.stars.fill"
		}
		return "sun.max.fill"
	case Cloudy:
		return "cloud.fill"
	case Cyclone:
		return "tropicalstorm"
	case Dust:
		return "sun.dust.fill"
	case Fog:
		return "cloud.fog.fill"
	case Frost:
		return "sparkles"
	case Haze:
		if night {
			return "moon.haze.fill"
		}
		return "sun.haze.fill"
	case HeavyShower, Rain:
		return "cloud.heavyrain.fill"
	case LightRain:
		return "cloud.drizzle.fill"
	case LightShower, Shower:
		if night {
			return "cloud.moon.rain.fill"
		}
		return "cloud.sun.rain.fill"
	case MostlySunny, PartlyCloudy:
		if night {
			return "cloud.moon.fill"
		}
		return "cloud.sun.fill"
	case Snow:
		return "snow"
	case Storm:
		return "cloud.bolt.rain.fill"
	case Sunny:
		return "sun.max.fill"
	case TropicalCyclone:
		return "hurricane"
	case Wind:
		return "wind"
	default:
		return DefaultSymbol
	}
}

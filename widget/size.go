package widget

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"weatherline/chart"
)

// Family is a home-screen widget size class.
type Family string

const (
	Small      Family = "small"
	Medium     Family = "medium"
	Large      Family = "large"
	ExtraLarge Family = "extraLarge"
)

var (
	ErrUnknownScreen = errors.New("unknown screen size")
	ErrUnknownFamily = errors.New("widget family not available on this screen")
)

// widgetSizes maps a portrait screen size in points to the widget sizes
// the system uses on it. extraLarge exists on iPad screens only.
var widgetSizes = map[string]map[Family][2]float64{
	// iPhone
	"428x926": {Small: {170, 170}, Medium: {364, 170}, Large: {364, 382}},
	"414x896": {Small: {169, 169}, Medium: {360, 169}, Large: {360, 376}},
	"414x736": {Small: {159, 159}, Medium: {348, 159}, Large: {348, 357}},
	"390x844": {Small: {158, 158}, Medium: {338, 158}, Large: {338, 354}},
	"375x812": {Small: {155, 155}, Medium: {329, 155}, Large: {329, 345}},
	"375x667": {Small: {148, 148}, Medium: {322, 148}, Large: {322, 324}},
	"360x780": {Small: {155, 155}, Medium: {329, 155}, Large: {329, 345}},
	"320x568": {Small: {141, 141}, Medium: {292, 141}, Large: {292, 311}},
	// iPad
	"834x1194":  {Small: {136, 136}, Medium: {300, 136}, Large: {300, 300}, ExtraLarge: {628, 300}},
	"1024x1366": {Small: {160, 160}, Medium: {356, 160}, Large: {356, 356}, ExtraLarge: {748, 356}},
}

// ScreenKey formats a screen size as "WxH" in portrait orientation.
func ScreenKey(screen chart.Size) string {
	w, h := screen.Width, screen.Height
	if w > h {
		w, h = h, w
	}
	return strconv.FormatFloat(w, 'f', -1, 64) + "x" + strconv.FormatFloat(h, 'f', -1, 64)
}

// SizeFor returns the widget size in points for family on screen.
func SizeFor(family Family, screen chart.Size) (chart.Size, error) {
	sizes, ok := widgetSizes[ScreenKey(screen)]
	if !ok {
		return chart.Size{}, fmt.Errorf("%w: %s", ErrUnknownScreen, ScreenKey(screen))
	}
	wh, ok := sizes[family]
	if !ok {
		return chart.Size{}, fmt.Errorf("%w: %q on %s", ErrUnknownFamily, family, ScreenKey(screen))
	}
	return chart.Size{Width: wh[0], Height: wh[1]}, nil
}

// ParseFamily validates a family name.
func ParseFamily(s string) (Family, error) {
	switch f := Family(s); f {
	case Small, Medium, Large, ExtraLarge:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
}

// Screens lists the known screen keys in sorted order.
func Screens() []string {
	keys := make([]string, 0, len(widgetSizes))
	for k := range widgetSizes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package widget

import (
	"errors"
	"testing"

	"weatherline/chart"
)

func TestSizeFor(t *testing.T) {
	tests := []struct {
		name    string
		family  Family
		screen  chart.Size
		want    chart.Size
		wantErr error
	}{
		{name: "iPhone 11 medium", family: Medium, screen: chart.Size{Width: 414, Height: 896}, want: chart.Size{Width: 360, Height: 169}},
		{name: "landscape is normalized", family: Small, screen: chart.Size{Width: 896, Height: 414}, want: chart.Size{Width: 169, Height: 169}},
		{name: "iPad extra large", family: ExtraLarge, screen: chart.Size{Width: 1024, Height: 1366}, want: chart.Size{Width: 748, Height: 356}},
		{name: "extra large on iPhone", family: ExtraLarge, screen: chart.Size{Width: 390, Height: 844}, wantErr: ErrUnknownFamily},
		{name: "unknown screen", family: Medium, screen: chart.Size{Width: 100, Height: 200}, wantErr: ErrUnknownScreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SizeFor(tt.family, tt.screen)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SizeFor() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SizeFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScreenKey(t *testing.T) {
	if got := ScreenKey(chart.Size{Width: 1366, Height: 1024}); got != "1024x1366" {
		t.Errorf("ScreenKey() = %s, want 1024x1366", got)
	}
}

func TestParseFamily(t *testing.T) {
	for _, name := range []string{"small", "medium", "large", "extraLarge"} {
		if _, err := ParseFamily(name); err != nil {
			t.Errorf("ParseFamily(%q) error: %v", name, err)
		}
	}
	if _, err := ParseFamily("huge"); !errors.Is(err, ErrUnknownFamily) {
		t.Errorf("expected ErrUnknownFamily, got %v", err)
	}
}

func TestScreensSorted(t *testing.T) {
	screens := Screens()
	if len(screens) != 10 {
		t.Fatalf("expected 10 screens, got %d", len(screens))
	}
	for i := 1; i < len(screens); i++ {
		if screens[i-1] > screens[i] {
			t.Errorf("screens not sorted: %v", screens)
		}
	}
}

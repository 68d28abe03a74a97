// Package config maps named capture profiles and flag-friendly values onto
// pipeline configurations.
package config

import (
	"fmt"
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/roadlab/lanescan/internal/vision"
)

// Selectable capture profiles. Each names the region of interest tuned for
// one camera mount; ProfileNone disables masking entirely.
const (
	ProfileMotorcycle = "motorcycle"
	ProfileScooter    = "scooter"
	ProfileReal       = "real"
	ProfileNone       = "none"
)

// DefaultLineColorHex is the stroke color used by the default styles.
const DefaultLineColorHex = "#B71540"

// profilePolygons holds the region of interest for each camera mount.
// The motorcycle and scooter rigs record 800px-wide frames; the real
// profile matches 1271x712 dash camera footage.
var profilePolygons = map[string]vision.Polygon{
	ProfileMotorcycle: {{X: 0, Y: 200}, {X: 800, Y: 200}, {X: 800, Y: 440}, {X: 0, Y: 440}},
	ProfileScooter:    {{X: 0, Y: 450}, {X: 800, Y: 450}, {X: 556, Y: 196}, {X: 224, Y: 196}, {X: 0, Y: 306}},
	ProfileReal:       {{X: 200, Y: 712}, {X: 1100, Y: 712}, {X: 550, Y: 250}},
}

// Profiles returns the selectable profile names, sorted, including
// ProfileNone.
func Profiles() []string {
	names := make([]string, 0, len(profilePolygons)+1)
	for name := range profilePolygons {
		names = append(names, name)
	}
	names = append(names, ProfileNone)
	sort.Strings(names)
	return names
}

// ForProfile returns the default pipeline configuration carrying the
// region of interest of the named profile. ProfileNone (or the empty
// string) yields a configuration without masking.
func ForProfile(name string) (vision.Config, error) {
	cfg := vision.DefaultConfig()
	if name == ProfileNone || name == "" {
		return cfg, nil
	}
	poly, ok := profilePolygons[name]
	if !ok {
		return vision.Config{}, fmt.Errorf("unknown profile %q (choose from %v)", name, Profiles())
	}
	cfg.ROI = append(vision.Polygon(nil), poly...)
	return cfg, nil
}

// ParseHexColor parses a "#RRGGBB" string into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 {
		return color.RGBA{}, fmt.Errorf("parse color %q: want #RRGGBB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

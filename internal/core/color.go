package core

import "strings"

// Color represents a foreground color for a screen cell.
// Values map onto ANSI 256-color codes in the terminal renderer.
type Color uint8

// Predefined colors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorDarkRed
	ColorOrange
	ColorGray
	ColorDarkGray
)

var colorNames = map[string]Color{
	"default":  ColorDefault,
	"red":      ColorRed,
	"green":    ColorGreen,
	"yellow":   ColorYellow,
	"blue":     ColorBlue,
	"magenta":  ColorMagenta,
	"cyan":     ColorCyan,
	"white":    ColorWhite,
	"bright":   ColorBrightRed,
	"darkred":  ColorDarkRed,
	"orange":   ColorOrange,
	"gray":     ColorGray,
	"darkgray": ColorDarkGray,
}

// ParseColor resolves a color name from configuration.
// The second return value is false for unknown names.
func ParseColor(name string) (Color, bool) {
	c, ok := colorNames[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

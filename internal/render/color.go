package render

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// parseHex accepts #rrggbb and the #rgb shorthand.
func parseHex(s string) (colorful.Color, error) {
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return c, nil
}

// Lighten moves every channel toward white by factor (0..1).
// Unparseable colors are returned unchanged.
func Lighten(hex string, factor float64) string {
	c, err := parseHex(hex)
	if err != nil {
		return hex
	}
	return colorful.Color{
		R: c.R + (1-c.R)*factor,
		G: c.G + (1-c.G)*factor,
		B: c.B + (1-c.B)*factor,
	}.Clamped().Hex()
}

// Darken scales every channel toward black by factor (0..1).
// Unparseable colors are returned unchanged.
func Darken(hex string, factor float64) string {
	c, err := parseHex(hex)
	if err != nil {
		return hex
	}
	return colorful.Color{
		R: c.R * (1 - factor),
		G: c.G * (1 - factor),
		B: c.B * (1 - factor),
	}.Clamped().Hex()
}

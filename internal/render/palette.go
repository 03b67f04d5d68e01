package render

import (
	"fmt"
	"sort"
)

// Palette holds the colors a chart is drawn with, as #rrggbb or #rgb hex strings.
type Palette struct {
	Background string `yaml:"background" json:"background"`
	Fretboard  string `yaml:"fretboard" json:"fretboard"`
	Text       string `yaml:"text" json:"text"`
	Finger     string `yaml:"finger" json:"finger"`
	Open       string `yaml:"open" json:"open"`
	Muted      string `yaml:"muted" json:"muted"`
}

var builtinPalettes = map[string]Palette{
	"default": {
		Background: "#f5f5f5",
		Fretboard:  "#8a4b08",
		Text:       "#333",
		Finger:     "#4CAF50",
		Open:       "#1e88e5",
		Muted:      "#e53935",
	},
	"neon": {
		Background: "#000000",
		Fretboard:  "#ffffff",
		Text:       "#ffffff",
		Finger:     "#00ff00",
		Open:       "#00ffff",
		Muted:      "#ff00ff",
	},
}

// Palettes is a set of named palettes.
type Palettes map[string]Palette

// NewPalettes returns the built-in palettes merged with extra ones.
// Every color of an extra palette is validated.
func NewPalettes(extra map[string]Palette) (Palettes, error) {
	out := make(Palettes, len(builtinPalettes)+len(extra))
	for name, p := range builtinPalettes {
		out[name] = p
	}
	for name, p := range extra {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("palette %q: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}

// Lookup returns the palette registered under name.
func (ps Palettes) Lookup(name string) (Palette, error) {
	p, ok := ps[name]
	if !ok {
		return Palette{}, fmt.Errorf("unknown palette %q (have %v)", name, ps.Names())
	}
	return p, nil
}

// Names returns the palette names in sorted order.
func (ps Palettes) Names() []string {
	names := make([]string, 0, len(ps))
	for name := range ps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every color parses.
func (p Palette) Validate() error {
	fields := []struct{ name, value string }{
		{"background", p.Background},
		{"fretboard", p.Fretboard},
		{"text", p.Text},
		{"finger", p.Finger},
		{"open", p.Open},
		{"muted", p.Muted},
	}
	for _, f := range fields {
		if _, err := parseHex(f.value); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

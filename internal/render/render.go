// Package render draws resolved chords as SVG: a fretboard diagram and a staff
// notation strip. Renderers are stateless after construction and safe for
// concurrent use.
package render

import "chordchart/internal/model"

// Renderer turns a chord and a palette into an SVG document.
type Renderer interface {
	Render(c model.Chord, p Palette) ([]byte, error)
}

const (
	fontText  = "roboto"
	fontMusic = "noto_music"
)

// addDefs writes the font faces into a fresh <defs> block.
func addDefs(svg *Element, fonts []Font) *Element {
	defs := svg.Add("defs")
	for _, f := range fonts {
		defs.Add("style", "type", "text/css").WithText(f.FaceRule())
	}
	return defs
}

func addBackground(svg *Element, p Palette) {
	svg.Add("rect",
		"width", "100%",
		"height", "100%",
		"fill", p.Background,
		"rx", "10",
		"ry", "10",
	)
}

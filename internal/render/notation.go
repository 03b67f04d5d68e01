package render

import (
	"strings"

	"chordchart/internal/model"
)

// SMuFL glyphs from the Noto Music font.
const (
	glyphTrebleClef = "\uE050"
	glyphNoteHead   = "\uE0A4"
	glyphFlat       = "\uE260"
	glyphSharp      = "\uE262"
)

// Notation draws the root triad of a chord on a treble staff.
type Notation struct {
	Width  int
	Height int
	Fonts  []Font
}

// NewNotation returns a 250x150 staff renderer.
func NewNotation(fonts []Font) *Notation {
	return &Notation{Width: 250, Height: 150, Fonts: fonts}
}

// Render implements Renderer. Only the root and quality are drawn.
func (n *Notation) Render(c model.Chord, p Palette) ([]byte, error) {
	return n.Build(c, p).Marshal()
}

// Build returns the SVG tree of the staff.
func (n *Notation) Build(c model.Chord, p Palette) *Element {
	svg := newSVG(n.Width, n.Height)
	addDefs(svg, n.Fonts)
	addBackground(svg, p)

	staff := svg.Add("g", "transform", "translate(25, 50)")
	for i := 0; i < 5; i++ {
		y := num(float64(i * 10))
		staff.Add("line",
			"x1", "0", "y1", y,
			"x2", num(float64(n.Width-50)), "y2", y,
			"stroke", p.Text, "stroke-width", "1",
		)
	}

	staff.Add("text",
		"x", "5", "y", "35",
		"font-size", "60",
		"font-family", fontMusic,
		"fill", p.Text,
	).WithText(glyphTrebleClef)

	sig := KeySignatureOf(c.Root)
	addKeySignature(staff, sig, p.Text)

	xOffset := 70 + len(sig.Notes)*10
	for i, pos := range NotePositions(c.Root, c.Quality) {
		x := float64(xOffset + i*30)
		y := float64(40 - (pos.Step-1)*5 - (pos.Octave-4)*35)
		addNote(staff, x, y, p.Text)
	}
	return svg
}

// KeySignature lists the accidentals of a major key in the order they are written.
type KeySignature struct {
	Notes []string
	Flats bool
}

var (
	sharpKeys  = []string{"G", "D", "A", "E", "B", "F#", "C#"}
	flatKeys   = []string{"F", "Bb", "Eb", "Ab", "Db", "Gb", "Cb"}
	sharpOrder = []string{"F", "C", "G", "D", "A", "E", "B"}
	flatOrder  = []string{"B", "E", "A", "D", "G", "C", "F"}
)

// KeySignatureOf returns the major key signature of root. Roots without a
// conventional major key (A#, D#, G#) get an empty signature.
func KeySignatureOf(root string) KeySignature {
	for i, k := range sharpKeys {
		if k == root {
			return KeySignature{Notes: sharpOrder[:i+1]}
		}
	}
	for i, k := range flatKeys {
		if k == root {
			return KeySignature{Notes: flatOrder[:i+1], Flats: true}
		}
	}
	return KeySignature{}
}

// staff heights of each accidental
var accidentalY = map[string]float64{"F": 35, "C": 38, "G": 31, "D": 34, "A": 37, "E": 30, "B": 33}

func addKeySignature(staff *Element, sig KeySignature, color string) {
	glyph := glyphSharp
	if sig.Flats {
		glyph = glyphFlat
	}
	for i, note := range sig.Notes {
		staff.Add("text",
			"x", num(float64(50+i*12)), "y", num(accidentalY[note]),
			"font-size", "32",
			"font-family", fontMusic,
			"fill", color,
		).WithText(glyph)
	}
}

func addNote(staff *Element, x, y float64, color string) {
	staff.Add("text",
		"x", num(x),
		"y", num(y),
		"font-size", "40",
		"font-family", fontMusic,
		"fill", color,
		"text-anchor", "middle",
	).WithText(glyphNoteHead)
	staff.Add("line",
		"x1", num(x+8), "y1", num(y),
		"x2", num(x+8), "y2", num(y-35),
		"stroke", color, "stroke-width", "1",
	)
}

// StaffPosition is a diatonic step (C=1 .. B=7) in an octave.
type StaffPosition struct {
	Step   int
	Octave int
}

var letterSteps = map[byte]int{'C': 1, 'D': 2, 'E': 3, 'F': 4, 'G': 5, 'A': 6, 'B': 7}

// NotePositions returns root, third and fifth as staff positions. Accidentals move
// the root by a whole step on the staff; the stacked thirds do not carry the octave.
func NotePositions(root, quality string) []StaffPosition {
	if root == "" {
		return nil
	}
	step, ok := letterSteps[root[0]]
	if !ok {
		return nil
	}
	octave := 4
	switch {
	case strings.Contains(root, "b"):
		step--
	case strings.Contains(root, "#"):
		step++
	}
	if step < 1 {
		step += 7
		octave--
	} else if step > 7 {
		step -= 7
		octave++
	}

	// Minor and major triads share staff positions; the quality only changes accidentals.
	return []StaffPosition{
		{step, octave},
		{wrapStep(step + 2), octave},
		{wrapStep(step + 4), octave},
	}
}

func wrapStep(s int) int {
	if s%7 == 0 {
		return 7
	}
	return s % 7
}

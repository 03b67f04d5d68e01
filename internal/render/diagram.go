package render

import (
	"strconv"
	"strings"

	"chordchart/internal/model"
)

// Diagram draws a chord as a vertical fretboard with the lowest string on the right.
type Diagram struct {
	Width   int
	Height  int
	Frets   int
	Strings int
	Fonts   []Font
}

// NewDiagram returns a 250x400 diagram of 12 frets and 6 strings, enough for
// every transposed fret (0..11).
func NewDiagram(fonts []Font) *Diagram {
	return &Diagram{Width: 250, Height: 400, Frets: 12, Strings: 6, Fonts: fonts}
}

const (
	boardLeft = 25
	boardTop  = 60
	nutMarkY  = 50
)

func (d *Diagram) boardWidth() float64  { return float64(d.Width - 50) }
func (d *Diagram) boardHeight() float64 { return float64(d.Height - 180) }

// Render implements Renderer.
func (d *Diagram) Render(c model.Chord, p Palette) ([]byte, error) {
	return d.Build(c, p).Marshal()
}

// Build returns the SVG tree of the diagram.
func (d *Diagram) Build(c model.Chord, p Palette) *Element {
	svg := newSVG(d.Width, d.Height)

	defs := addDefs(svg, d.Fonts)
	d.addGradient(defs, p)
	addBackground(svg, p)
	d.drawFretboard(svg, p)
	d.addFingerPositions(svg, c.Frets, p)
	d.addExtraVoices(svg, c.ExtraVoices(d.Strings), p)
	d.addChordName(svg, c, p)

	return svg
}

func (d *Diagram) addGradient(defs *Element, p Palette) {
	g := defs.Add("linearGradient",
		"id", "fretboardGradient",
		"x1", "0%", "y1", "0%", "x2", "100%", "y2", "100%",
	)
	g.Add("stop", "offset", "0%", "style", "stop-color:"+p.Fretboard+";stop-opacity:1")
	g.Add("stop", "offset", "100%", "style", "stop-color:"+Darken(p.Fretboard, 0.2)+";stop-opacity:1")
}

func (d *Diagram) drawFretboard(svg *Element, p Palette) {
	w, h := d.boardWidth(), d.boardHeight()
	board := svg.Add("g", "transform", "translate("+strconv.Itoa(boardLeft)+", "+strconv.Itoa(boardTop)+")")
	board.Add("rect",
		"width", num(w),
		"height", num(h),
		"fill", "url(#fretboardGradient)",
		"rx", "5",
		"ry", "5",
	)

	fretColor := Lighten(p.Fretboard, 0.3)
	for i := 0; i <= d.Frets; i++ {
		y := float64(i) * (h / float64(d.Frets))
		board.Add("line",
			"x1", "0", "y1", num(y),
			"x2", num(w), "y2", num(y),
			"stroke", fretColor,
			"stroke-width", "2",
		)
	}

	stringColor := Lighten(p.Fretboard, 0.5)
	for i := 0; i < d.Strings; i++ {
		x := float64(i) * (w / float64(d.Strings-1))
		board.Add("line",
			"x1", num(x), "y1", "0",
			"x2", num(x), "y2", num(h),
			"stroke", stringColor,
			"stroke-width", "1",
		)
	}

	for i := 1; i <= d.Frets; i++ {
		y := (float64(i) - 0.5) * (h / float64(d.Frets))
		svg.Add("text",
			"x", "10",
			"y", num(boardTop+y),
			"font-size", "12",
			"font-family", fontText,
			"fill", p.Text,
			"text-anchor", "middle",
		).WithText(strconv.Itoa(i))
	}
}

// addFingerPositions marks one entry per string; entries past the last string are
// drawn by addExtraVoices.
func (d *Diagram) addFingerPositions(svg *Element, frets []int, p Palette) {
	stringSpacing := d.boardWidth() / float64(d.Strings-1)
	fretSpacing := d.boardHeight() / float64(d.Frets)

	for i, pos := range frets {
		if i >= d.Strings {
			break
		}
		x := boardLeft + float64(d.Strings-1-i)*stringSpacing
		switch {
		case pos > 0:
			y := boardTop + (float64(pos)-0.5)*fretSpacing
			addFingerCircle(svg, x, y, p.Finger, p.Text, strconv.Itoa(pos))
		case pos == 0:
			addOpenString(svg, x, nutMarkY, p.Open)
		default:
			addMutedString(svg, x, nutMarkY, p.Muted)
		}
	}
}

func (d *Diagram) addExtraVoices(svg *Element, extra []int, p Palette) {
	if len(extra) == 0 {
		return
	}
	labels := make([]string, len(extra))
	for i, f := range extra {
		labels[i] = model.IconExtra + strconv.Itoa(f)
	}
	svg.Add("text",
		"x", strconv.Itoa(d.Width/2),
		"y", num(boardTop+d.boardHeight()+30),
		"text-anchor", "middle",
		"font-size", "14",
		"font-family", fontText,
		"fill", p.Text,
		"class", "extra-voices",
	).WithText(strings.Join(labels, " "))
}

func (d *Diagram) addChordName(svg *Element, c model.Chord, p Palette) {
	name := c.Name()
	x := d.Width / 2

	// Shadow first so the title sits on top of it.
	svg.Add("text",
		"x", strconv.Itoa(x+1),
		"y", "31",
		"text-anchor", "middle",
		"font-size", "24",
		"font-family", fontText,
		"font-weight", "bold",
		"fill", Lighten(p.Background, 0.2),
	).WithText(name)
	svg.Add("text",
		"x", strconv.Itoa(x),
		"y", "30",
		"text-anchor", "middle",
		"font-size", "24",
		"font-family", fontText,
		"font-weight", "bold",
		"fill", p.Text,
		"class", "chord-name",
	).WithText(name)
}

func addFingerCircle(svg *Element, x, y float64, fill, text, label string) {
	svg.Add("circle",
		"cx", num(x), "cy", num(y), "r", "12",
		"fill", fill,
		"stroke", Darken(fill, 0.2),
		"stroke-width", "2",
	)
	svg.Add("text",
		"x", num(x), "y", num(y+5),
		"text-anchor", "middle",
		"font-size", "14",
		"font-family", fontText,
		"font-weight", "bold",
		"fill", text,
	).WithText(label)
}

func addOpenString(svg *Element, x, y float64, color string) {
	svg.Add("circle",
		"cx", num(x), "cy", num(y), "r", "8",
		"fill", "none",
		"stroke", color,
		"stroke-width", "2",
	)
}

func addMutedString(svg *Element, x, y float64, color string) {
	const size = 8
	svg.Add("line",
		"x1", num(x-size), "y1", num(y-size),
		"x2", num(x+size), "y2", num(y+size),
		"stroke", color,
		"stroke-width", "2",
	)
	svg.Add("line",
		"x1", num(x-size), "y1", num(y+size),
		"x2", num(x+size), "y2", num(y-size),
		"stroke", color,
		"stroke-width", "2",
	)
}

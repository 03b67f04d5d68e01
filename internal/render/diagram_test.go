package render

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chordchart/internal/chord"
	"chordchart/internal/model"
)

func countElements(e *Element, name string) int {
	n := 0
	if e.XMLName.Local == name {
		n++
	}
	for _, c := range e.Children {
		n += countElements(c, name)
	}
	return n
}

func findByClass(e *Element, class string) *Element {
	if v, ok := e.Attr("class"); ok && v == class {
		return e
	}
	for _, c := range e.Children {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func wellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
	}
}

func TestDiagram_Build(t *testing.T) {
	c, err := chord.Resolve("C/E")
	require.NoError(t, err)

	p, _ := NewPalettes(nil)
	pal, _ := p.Lookup("default")
	svg := NewDiagram(nil).Build(c, pal)

	// 3 open rings + 3 fretted circles
	assert.Equal(t, 6, countElements(svg, "circle"))
	// 13 fret wires + 6 strings
	assert.Equal(t, 19, countElements(svg.Find("g"), "line"))
	assert.Nil(t, findByClass(svg, "extra-voices"))

	title := findByClass(svg, "chord-name")
	require.NotNil(t, title)
	assert.Equal(t, "Cmajor/E", title.Text)

	grad := svg.Find("defs").Find("linearGradient")
	require.NotNil(t, grad)
	id, _ := grad.Attr("id")
	assert.Equal(t, "fretboardGradient", id)
}

func TestDiagram_MutedAndExtraVoices(t *testing.T) {
	c := model.Chord{Root: "A", Quality: "madd9", Frets: []int{model.Muted, 1, 2, 2, 0, 0, 2}}
	p, _ := NewPalettes(nil)
	pal, _ := p.Lookup("neon")
	svg := NewDiagram(nil).Build(c, pal)

	// 2 crossed lines for the muted string, on top of 19 board lines
	assert.Equal(t, 21, countElements(svg, "line"))
	extra := findByClass(svg, "extra-voices")
	require.NotNil(t, extra)
	assert.Equal(t, "+2", extra.Text)
}

func TestDiagram_Render(t *testing.T) {
	c, err := chord.Resolve("F#m7b5")
	require.NoError(t, err)
	p, _ := NewPalettes(nil)
	pal, _ := p.Lookup("default")

	font := Font{Name: "roboto", DataURI: "data:font/truetype;charset=utf-8;base64,AAAA"}
	doc, err := NewDiagram([]Font{font}).Render(c, pal)
	require.NoError(t, err)
	wellFormed(t, doc)

	s := string(doc)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, s, "@font-face")
	assert.Contains(t, s, "base64,AAAA")
	assert.Contains(t, s, "F#m7b5")
}

func TestNotation(t *testing.T) {
	sig := KeySignatureOf("D")
	assert.Equal(t, []string{"F", "C"}, sig.Notes)
	assert.False(t, sig.Flats)

	sig = KeySignatureOf("Eb")
	assert.Equal(t, []string{"B", "E", "A"}, sig.Notes)
	assert.True(t, sig.Flats)

	assert.Empty(t, KeySignatureOf("C").Notes)
	assert.Empty(t, KeySignatureOf("G#").Notes)

	assert.Equal(t, []StaffPosition{{1, 4}, {3, 4}, {5, 4}}, NotePositions("C", "major"))
	assert.Equal(t, []StaffPosition{{7, 3}, {2, 3}, {4, 3}}, NotePositions("Cb", "major"))
	assert.Equal(t, []StaffPosition{{6, 4}, {1, 4}, {3, 4}}, NotePositions("A", "m"))
	assert.Equal(t, []StaffPosition{{1, 5}, {3, 5}, {5, 5}}, NotePositions("B#", "major"))

	c, err := chord.Resolve("Bbm6/9")
	require.NoError(t, err)
	p, _ := NewPalettes(nil)
	pal, _ := p.Lookup("default")
	svg := NewNotation(nil).Build(c, pal)

	staff := svg.Find("g")
	require.NotNil(t, staff)
	// 5 staff lines + 3 stems
	assert.Equal(t, 8, countElements(staff, "line"))
	// clef + 2 flats + 3 note heads
	assert.Equal(t, 6, countElements(staff, "text"))

	doc, err := NewNotation(nil).Render(c, pal)
	require.NoError(t, err)
	wellFormed(t, doc)
}

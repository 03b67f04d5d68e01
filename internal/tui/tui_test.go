package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chordchart/internal/chord"
	"chordchart/internal/model"
	"chordchart/internal/render"
)

func newTestModel(t *testing.T, notations ...string) AppModel {
	t.Helper()
	palettes, err := render.NewPalettes(nil)
	require.NoError(t, err)

	r := chord.NewResolver(nil)
	m := InitialModel(r, palettes, "default", "", notations)
	msg := ResolveCmd(r, notations)()
	updated, _ := m.Update(msg)
	updated, _ = updated.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(AppModel)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m AppModel, msgs ...tea.Msg) AppModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(AppModel)
	}
	return m
}

func TestInitialModel_PicksPalette(t *testing.T) {
	palettes, err := render.NewPalettes(nil)
	require.NoError(t, err)

	m := InitialModel(chord.NewResolver(nil), palettes, "neon", "", nil)
	name, p := m.ActivePalette()
	assert.Equal(t, "neon", name)
	assert.Equal(t, "#000000", p.Background)
	assert.True(t, m.Loading)
}

func TestUpdate_ChordsReady(t *testing.T) {
	m := newTestModel(t, "C", "Am7", "H7")

	assert.False(t, m.Loading)
	require.Len(t, m.Entries, 3)
	assert.Equal(t, []int{0, 1, 2}, m.FilteredIndices)
	require.NotNil(t, m.Entries[1].Chord)
	assert.Equal(t, "m7", m.Entries[1].Chord.Quality)
	assert.Nil(t, m.Entries[2].Chord)
	assert.Equal(t, "InvalidNotation", chord.Kind(m.Entries[2].Err))
}

func TestUpdate_Navigation(t *testing.T) {
	m := newTestModel(t, "C", "G", "D")

	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.SelectedIdx, "stays at the top")

	m = send(m, key("j"), key("j"), key("j"))
	assert.Equal(t, 2, m.SelectedIdx, "stops at the bottom")

	m = send(m, key("k"))
	e, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "G", e.Notation)
}

func TestUpdate_Filter(t *testing.T) {
	m := newTestModel(t, "C", "Cmaj7", "Am", "F#m7")

	m = send(m, key("/"))
	assert.True(t, m.InputMode)
	assert.False(t, m.AddMode)

	m = send(m, key("m"), key("7"))
	assert.True(t, m.SearchActive)
	assert.Equal(t, []int{3}, m.FilteredIndices)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.InputMode)
	assert.Equal(t, []int{3}, m.FilteredIndices, "filter survives enter")

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.SearchActive)
	assert.Equal(t, []int{0, 1, 2, 3}, m.FilteredIndices)
}

func TestUpdate_AddChord(t *testing.T) {
	m := newTestModel(t, "C")

	m = send(m, key("a"), key("G"), key("7"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.InputMode)
	assert.False(t, m.AddMode)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, 1, m.SelectedIdx, "new chord is selected")

	e, ok := m.Selected()
	require.True(t, ok)
	require.NotNil(t, e.Chord)
	assert.Equal(t, []int{0, 0, 0, 11, 0, 0}, e.Chord.Frets)

	// Blank input adds nothing.
	m = send(m, key("a"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.Entries, 2)
}

func TestUpdate_CyclePalette(t *testing.T) {
	m := newTestModel(t, "C")
	start, _ := m.ActivePalette()

	m = send(m, key("p"))
	next, _ := m.ActivePalette()
	assert.NotEqual(t, start, next)

	m = send(m, key("p"))
	back, _ := m.ActivePalette()
	assert.Equal(t, start, back, "two built-in palettes wrap around")
}

func TestUpdate_Help(t *testing.T) {
	m := newTestModel(t, "C")

	m = send(m, key("?"))
	assert.True(t, m.ShowHelp)
	assert.NotEmpty(t, m.HelpContent)
	assert.NotEmpty(t, m.View())

	// q closes help instead of quitting.
	next, cmd := m.Update(key("q"))
	assert.Nil(t, cmd)
	assert.False(t, next.(AppModel).ShowHelp)
}

func TestUpdate_Quit(t *testing.T) {
	m := newTestModel(t, "C")
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView(t *testing.T) {
	m := newTestModel(t, "C", "Xm")

	assert.Contains(t, InitialModel(nil, nil, "", "", nil).View(), "Resolving chords")

	v := m.View()
	assert.Contains(t, v, "Chords")
	assert.Contains(t, v, "palette: default")
	assert.Contains(t, v, "Xm (InvalidNotation)")

	details := m.DetailsViewport.View()
	assert.Contains(t, details, "Shape:")
	assert.Contains(t, details, model.IconNut)

	m = send(m, key("j"))
	assert.Contains(t, m.DetailsViewport.View(), "Error:")
	assert.Contains(t, m.View(), "InvalidNotation")
}

func TestFretboard(t *testing.T) {
	p, err := render.NewPalettes(nil)
	require.NoError(t, err)

	open := model.Chord{Root: "A", Quality: "major", Frets: []int{0, 2, 2, 1, 0, 0}}
	out := Fretboard(open, p["default"])
	assert.Equal(t, 3, strings.Count(out, model.IconFinger))
	assert.Equal(t, 3, strings.Count(out, model.IconOpen))
	assert.Zero(t, strings.Count(out, model.IconMuted))
	assert.Contains(t, out, model.IconNut, "open position shows the nut")

	muted := model.Chord{Frets: []int{-1, 3, 2, 0, 1, 0}}
	out = Fretboard(muted, p["default"])
	assert.Equal(t, 1, strings.Count(out, model.IconMuted))
	assert.Equal(t, 3, strings.Count(out, model.IconFinger))

	high := model.Chord{Frets: []int{7, 9, 9, 8, 7, 7}}
	out = Fretboard(high, p["default"])
	assert.NotContains(t, out, model.IconNut)
	assert.Contains(t, out, " 7")
	assert.Equal(t, 6, strings.Count(out, model.IconFinger))

	extra := model.Chord{Frets: []int{0, 2, 2, 1, 0, 0, 5}}
	out = Fretboard(extra, p["default"])
	assert.Contains(t, out, "extra: +5")
}

func TestLowestFret(t *testing.T) {
	assert.Equal(t, 1, lowestFret([]int{0, 0, 0, 0, 0, 0}))
	assert.Equal(t, 1, lowestFret([]int{0, 2, 2, 1, 0, 0}))
	assert.Equal(t, 1, lowestFret([]int{-1, 5, 4, 0, 1, 0}))
	assert.Equal(t, 7, lowestFret([]int{7, 9, 9, 8, 7, 7}))
	assert.Equal(t, 3, lowestFret([]int{0, 3, 0, 11, 0, 0}))
}

func TestLoadCmd_ReadsList(t *testing.T) {
	list := filepath.Join(t.TempDir(), "set.txt")
	require.NoError(t, os.WriteFile(list, []byte("# set\nC\nAm7 neon\n"), 0644))

	msg := LoadCmd(chord.NewResolver(nil), list, []string{"G"})()
	entries, ok := msg.(MsgChordsReady)
	require.True(t, ok, "got %T", msg)
	require.Len(t, entries, 2)
	assert.Equal(t, "C", entries[0].Notation)
	assert.Equal(t, "Am7", entries[1].Notation)
}

func TestLoadCmd_MissingListShowsError(t *testing.T) {
	palettes, err := render.NewPalettes(nil)
	require.NoError(t, err)
	r := chord.NewResolver(nil)
	list := filepath.Join(t.TempDir(), "missing.txt")

	m := InitialModel(r, palettes, "default", list, nil)
	msg := LoadCmd(r, list, nil)()
	loadErr, ok := msg.(MsgError)
	require.True(t, ok, "got %T", msg)
	assert.True(t, errors.Is(loadErr, os.ErrNotExist))

	m = send(m, msg)
	assert.False(t, m.Loading)
	assert.Error(t, m.Err)
	assert.Contains(t, m.View(), "Error: open chord list")
}

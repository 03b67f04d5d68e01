package tui

import (
	"chordchart/internal/chord"
	"chordchart/internal/model"
	"chordchart/internal/render"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Entry is one chord in the browser list.
type Entry struct {
	Notation string
	Chord    *model.Chord // nil when the notation did not resolve
	Err      error
}

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Resolver *chord.Resolver
	Palettes render.Palettes
	ListPath string   // chord list read by Init, takes precedence over Pending
	Pending  []string // notations resolved by Init
	Entries  []Entry
	Loading  bool
	Err      error

	// UI State
	SelectedIdx  int
	PaletteNames []string
	PaletteIdx   int
	WindowSize   tea.WindowSizeMsg

	// Input State
	InputMode       bool
	AddMode         bool // input adds a chord instead of filtering
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of Entries to show
	SearchActive    bool

	// Help
	ShowHelp    bool
	HelpContent string
	HelpScrollY int

	// Components
	DetailsViewport viewport.Model
}

// InitialModel returns the initial state for browsing with the named palette. Chords
// come from listPath when it is set, otherwise from notations.
func InitialModel(r *chord.Resolver, palettes render.Palettes, palette, listPath string, notations []string) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Chord..."
	ti.CharLimit = 32
	ti.Width = 20

	names := palettes.Names()
	idx := 0
	for i, n := range names {
		if n == palette {
			idx = i
		}
	}

	return AppModel{
		Resolver:        r,
		DetailsViewport: viewport.New(40, 10),
		Palettes:        palettes,
		ListPath:        listPath,
		Pending:         notations,
		Loading:         true,
		InputBuffer:     ti,
		PaletteNames:    names,
		PaletteIdx:      idx,
	}
}

// ActivePalette returns the palette the fretboard is drawn with.
func (m AppModel) ActivePalette() (string, render.Palette) {
	if len(m.PaletteNames) == 0 {
		return "", render.Palette{}
	}
	name := m.PaletteNames[m.PaletteIdx]
	return name, m.Palettes[name]
}

// Selected returns the highlighted entry.
func (m AppModel) Selected() (Entry, bool) {
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		return Entry{}, false
	}
	return m.Entries[m.FilteredIndices[m.SelectedIdx]], true
}

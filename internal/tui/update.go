package tui

import (
	"strings"

	"chordchart/internal/batch"
	"chordchart/internal/chord"
	"chordchart/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// MsgChordsReady carries the resolved chord list.
type MsgChordsReady []Entry

// MsgError indicates an error occurred.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		_, rightWidth, interiorHeight := panelSizes(msg.Width, msg.Height)
		m.DetailsViewport.Width = rightWidth
		m.DetailsViewport.Height = interiorHeight - 2
		m.refreshDetails()
		if m.ShowHelp {
			m.HelpContent = renderHelp(msg.Width)
		}
		return m, nil

	case MsgChordsReady:
		m.Loading = false
		m.Entries = []Entry(msg)
		m.applyFilter()
		m.refreshDetails()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				if m.AddMode {
					m.addChord(m.InputBuffer.Value())
					m.AddMode = false
					m.InputBuffer.SetValue("")
				}
				m.applyFilter()
				m.refreshDetails()
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.AddMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.applyFilter()
				m.refreshDetails()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			if !m.AddMode {
				m.applyFilter()
				m.refreshDetails()
			}
			return m, cmd
		}

		if m.ShowHelp {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "?", "esc", "q":
				m.ShowHelp = false
			case "up", "k":
				if m.HelpScrollY > 0 {
					m.HelpScrollY--
				}
			case "down", "j":
				m.HelpScrollY++
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.SearchActive {
				m.InputBuffer.SetValue("")
				m.applyFilter()
				m.refreshDetails()
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.refreshDetails()
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
				m.refreshDetails()
			}
		case "pgup":
			m.DetailsViewport.SetYOffset(m.DetailsViewport.YOffset - m.DetailsViewport.Height/2)
		case "pgdown":
			m.DetailsViewport.SetYOffset(m.DetailsViewport.YOffset + m.DetailsViewport.Height/2)
		case "p":
			if len(m.PaletteNames) > 0 {
				m.PaletteIdx = (m.PaletteIdx + 1) % len(m.PaletteNames)
				m.refreshDetails()
			}
		case "?":
			m.ShowHelp = true
			m.HelpScrollY = 0
			m.HelpContent = renderHelp(m.WindowSize.Width)
		case "/":
			m.InputMode = true
			m.InputBuffer.Placeholder = "Filter..."
			m.InputBuffer.SetValue("")
			m.InputBuffer.Focus()
			return m, textinput.Blink
		case "a":
			m.InputMode = true
			m.AddMode = true
			m.InputBuffer.Placeholder = "Chord..."
			m.InputBuffer.SetValue("")
			m.InputBuffer.Focus()
			return m, textinput.Blink
		}
	}

	return m, cmd
}

// addChord resolves notation, appends it and selects it. Blank input is ignored.
func (m *AppModel) addChord(notation string) {
	notation = strings.TrimSpace(notation)
	if notation == "" {
		return
	}
	m.Entries = append(m.Entries, resolveEntry(m.Resolver, notation))
	m.InputBuffer.SetValue("")
	m.applyFilter()
	m.SelectedIdx = len(m.FilteredIndices) - 1
}

// refreshDetails redraws the details panel for the selected chord and palette.
func (m *AppModel) refreshDetails() {
	_, p := m.ActivePalette()
	if e, ok := m.Selected(); ok {
		m.DetailsViewport.SetContent(renderDetails(e, p))
	} else {
		m.DetailsViewport.SetContent("No chord selected.")
	}
	m.DetailsViewport.GotoTop()
}

// applyFilter narrows the list to notations containing the filter text.
func (m *AppModel) applyFilter() {
	term := ""
	if !m.AddMode {
		term = strings.ToLower(strings.TrimSpace(m.InputBuffer.Value()))
	}
	m.SearchActive = term != ""

	var result []int
	for i, e := range m.Entries {
		if term == "" || strings.Contains(strings.ToLower(e.Notation), term) {
			result = append(result, i)
		}
	}
	m.FilteredIndices = result

	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}

func resolveEntry(r *chord.Resolver, notation string) Entry {
	c, err := r.Resolve(notation)
	if err != nil {
		return Entry{Notation: notation, Err: err}
	}
	return Entry{Notation: notation, Chord: &c}
}

// LoadCmd reads the chord list, if any, and resolves it in the background.
// A list that cannot be read is reported as MsgError.
func LoadCmd(r *chord.Resolver, listPath string, notations []string) tea.Cmd {
	if listPath == "" {
		return ResolveCmd(r, notations)
	}
	return func() tea.Msg {
		reqs, err := batch.ReadList(listPath, model.DefaultPalette)
		if err != nil {
			return MsgError(err)
		}
		fromList := make([]string, len(reqs))
		for i, req := range reqs {
			fromList[i] = req.Notation
		}
		return ResolveCmd(r, fromList)()
	}
}

// ResolveCmd resolves the pending notations in the background.
func ResolveCmd(r *chord.Resolver, notations []string) tea.Cmd {
	return func() tea.Msg {
		entries := make([]Entry, len(notations))
		for i, n := range notations {
			entries[i] = resolveEntry(r, n)
		}
		return MsgChordsReady(entries)
	}
}

// renderHelp renders the user guide for a terminal of the given width.
// Rendering failures fall back to the raw markdown.
func renderHelp(width int) string {
	wrap := width*80/100 - 4
	if wrap < 40 {
		wrap = 40
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return model.HelpMarkdown()
	}
	out, err := r.Render(model.HelpMarkdown())
	if err != nil {
		return model.HelpMarkdown()
	}
	return out
}

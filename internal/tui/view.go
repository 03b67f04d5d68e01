package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chordchart/internal/batch"
	"chordchart/internal/chord"
	"chordchart/internal/model"
	"chordchart/internal/render"
)

// fretRows is the number of fret rows drawn below the nut.
const fretRows = 5

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
			Bold(true)
)

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Resolving chords... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	leftWidth, rightWidth, interiorHeight := panelSizes(m.WindowSize.Width, m.WindowSize.Height)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	borderColor := lipgloss.Color("63")

	// LEFT PANEL: chord list
	var leftView strings.Builder
	leftView.WriteString(headerStyle.Render("Chords"))
	leftView.WriteString("\n\n")

	visibleItems := interiorHeight - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - (visibleItems / 2)
		}
		if startIdx+visibleItems > len(m.FilteredIndices) {
			startIdx = len(m.FilteredIndices) - visibleItems
		}
		endIdx = startIdx + visibleItems
	}

	for i := startIdx; i < endIdx; i++ {
		idx := m.FilteredIndices[i]
		entry := m.Entries[idx]

		line := fmt.Sprintf("%2d. %s %s", idx+1, entryIcon(entry), entry.Notation)
		if entry.Err != nil {
			line += " (" + chord.Kind(entry.Err) + ")"
		}
		if len(line) > leftWidth-2 && leftWidth > 5 {
			line = line[:leftWidth-5] + "..."
		}

		if i == m.SelectedIdx {
			leftView.WriteString(selectedStyle.Render(line))
		} else {
			leftView.WriteString(normalStyle.Render(line))
		}
		leftView.WriteString("\n")
	}
	if len(m.FilteredIndices) == 0 {
		leftView.WriteString(dimStyle.Render("No chords match."))
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(leftView.String())

	// RIGHT PANEL: details
	paletteName, _ := m.ActivePalette()
	var rightView strings.Builder
	rightView.WriteString(headerStyle.Render("Details"))
	rightView.WriteString(dimStyle.Render("  palette: " + paletteName))
	rightView.WriteString("\n\n")
	rightView.WriteString(m.DetailsViewport.View())

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(rightView.String())

	help := "↑/↓: Navigate • PgUp/PgDn: Scroll details • /: Filter • a: Add • p: Palette • ?: Help • q: Quit"
	footer := "\n\n" + help
	if m.InputMode {
		prompt := "Filter"
		if m.AddMode {
			prompt = "Add chord"
		}
		footer = fmt.Sprintf("\n\n%s: %s", prompt, m.InputBuffer.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

// panelSizes splits the window into the list and details panels.
func panelSizes(width, height int) (leftWidth, rightWidth, interiorHeight int) {
	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth = netWidth / 2
	rightWidth = netWidth - leftWidth

	boxHeight := height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight = boxHeight - 2
	if interiorHeight < 2 {
		interiorHeight = 2
	}
	return leftWidth, rightWidth, interiorHeight
}

func entryIcon(e Entry) string {
	switch {
	case e.Err != nil:
		return model.IconFailed
	case len(e.Chord.ExtraVoices(chord.Strings)) > 0:
		return model.IconExtra
	default:
		return model.IconOK
	}
}

func renderDetails(e Entry, p render.Palette) string {
	var b strings.Builder
	if e.Err != nil {
		b.WriteString(labelStyle.Render("Notation: ") + e.Notation + "\n")
		b.WriteString(labelStyle.Render("Error:    ") + errorStyle.Render(chord.Kind(e.Err)) + "\n\n")
		b.WriteString(e.Err.Error())
		return b.String()
	}

	c := e.Chord
	bass := c.Bass
	if bass == "" {
		bass = "-"
	}
	alteration := c.Alteration
	if alteration == "" {
		alteration = "-"
	}
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Chord:      "), c.Name())
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Root:       "), c.Root)
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Quality:    "), c.Quality)
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Shape:      "), c.BaseQuality)
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Alteration: "), alteration)
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("Bass:       "), bass)
	fmt.Fprintf(&b, "%s%s\n\n", labelStyle.Render("Frets:      "), batch.FormatFrets(c.Frets))
	b.WriteString(Fretboard(*c, p))
	return b.String()
}

// Fretboard draws the chord as text, low E string on the left, in the palette's colors.
func Fretboard(c model.Chord, p render.Palette) string {
	strs := chord.Strings
	frets := c.Frets
	if len(frets) < strs {
		strs = len(frets)
	}

	fingerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Finger)).Bold(true)
	openStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Open))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))
	boardStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Fretboard))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text))

	low := lowestFret(frets[:strs])

	var b strings.Builder

	// Marker row above the nut.
	b.WriteString("    ")
	for i := 0; i < strs; i++ {
		switch {
		case frets[i] == 0:
			b.WriteString(openStyle.Render(model.IconOpen))
		case frets[i] < 0:
			b.WriteString(mutedStyle.Render(model.IconMuted))
		default:
			b.WriteString(" ")
		}
		if i < strs-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	nut := model.IconFret
	if low == 1 {
		nut = model.IconNut
	}
	b.WriteString("    " + boardStyle.Render(strings.Repeat(nut, 3*strs-2)) + "\n")

	for row := 0; row < fretRows; row++ {
		fret := low + row
		b.WriteString(textStyle.Render(fmt.Sprintf("%2d  ", fret)))
		for i := 0; i < strs; i++ {
			if frets[i] == fret {
				b.WriteString(fingerStyle.Render(model.IconFinger))
			} else {
				b.WriteString(boardStyle.Render(model.IconString))
			}
			if i < strs-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
		b.WriteString("    " + boardStyle.Render(strings.Repeat(model.IconFret, 3*strs-2)) + "\n")
	}

	if extra := c.ExtraVoices(chord.Strings); len(extra) > 0 {
		labels := make([]string, len(extra))
		for i, f := range extra {
			labels[i] = fmt.Sprintf("%s%d", model.IconExtra, f)
		}
		b.WriteString(textStyle.Render("extra: " + strings.Join(labels, " ")))
		b.WriteString("\n")
	}
	return b.String()
}

// lowestFret picks the first fret row so every fretted note fits in the window.
func lowestFret(frets []int) int {
	low := 0
	for _, f := range frets {
		if f > 0 && (low == 0 || f < low) {
			low = f
		}
	}
	high := 0
	for _, f := range frets {
		if f > high {
			high = f
		}
	}
	if low == 0 || high <= fretRows {
		return 1
	}
	return low
}

func (m *AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}
	helpHeight := h - 6
	if helpHeight < 5 {
		helpHeight = 5
	}

	lines := strings.Split(m.HelpContent, "\n")
	contentHeight := helpHeight - 2

	startY := m.HelpScrollY
	if startY > len(lines)-contentHeight {
		startY = len(lines) - contentHeight
	}
	if startY < 0 {
		startY = 0
	}
	m.HelpScrollY = startY

	endY := startY + contentHeight
	if endY > len(lines) {
		endY = len(lines)
	}

	content := titleStyle.Render("chordchart help") + "\n" + strings.Join(lines[startY:endY], "\n")

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Height(helpHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(content)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, LoadCmd(m.Resolver, m.ListPath, m.Pending))
}

package model

// Centralized glyphs for the text fretboard and chart lists
// Using simple single-width characters for consistent terminal rendering
const (
	IconOpen      = "○" // Open string above the nut
	IconMuted     = "×" // Muted string
	IconFinger    = "●" // Fretted note
	IconString    = "│" // Empty string segment
	IconFret      = "─" // Fret wire
	IconNut       = "═" // Nut
	IconExtra     = "+" // Voice appended beyond the sixth string
	IconDuplicate = "≈" // Almost equal (duplicate request)
	IconFailed    = "✗" // Thin X (failed to resolve)
	IconSkipped   = "·" // Unchanged chart already on disk
	IconOK        = " " // Space (OK - no icon to reduce noise)
)

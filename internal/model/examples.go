package model

// DefaultPalette is used when a request names no palette.
const DefaultPalette = "default"

// ExampleChords is the built-in chord set used when no chords are given.
var ExampleChords = []string{
	// Basic major and minor chords
	"C", "Am", "F#", "Ebm",
	// Seventh chords
	"G7", "Bm7", "Dmaj7", "F#m7",
	// Extended chords
	"A9", "Cm11", "Gmaj13", "E7#9",
	// Sus and add chords
	"Dsus4", "Fsus2", "Cadd9", "G6",
	// Altered chords
	"Ab7b5", "B7#5", "F#7b9", "C7#9",
	// Diminished and augmented chords
	"Ddim", "F#dim7", "Gaug", "Baug7",
	// Complex jazz chords
	"Cmaj9#11", "Dm11b5", "G13b9", "Ebm9#5",
	// Slash chords
	"C/E", "Am/F#", "G/B", "F#m7/C#",
	// Exotic and rare chords
	"C7#9#5", "Abmaj7#5", "E7alt", "Bbm6/9",
	// Chords with multiple alterations
	"D7b9b13", "Gmaj13#11", "F#7#9b13", "Am11b5",
	// Power chords
	"C5", "G5", "F#5", "Bb5",
}

// ExampleRequests returns the built-in chord set as batch requests.
func ExampleRequests(palette string) []ChartRequest {
	if palette == "" {
		palette = DefaultPalette
	}
	reqs := make([]ChartRequest, len(ExampleChords))
	for i, c := range ExampleChords {
		reqs[i] = ChartRequest{Index: i + 1, Notation: c, Palette: palette}
	}
	return reqs
}

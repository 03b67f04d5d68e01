package model

// Chord is the resolved form of a chord notation string.
type Chord struct {
	Root        string `json:"root"`                 // Root spelling as written (e.g. F#)
	Quality     string `json:"quality"`              // Quality as parsed, including any alteration suffix
	BaseQuality string `json:"base_quality"`         // Longest shape-table key matched by Quality
	Alteration  string `json:"alteration,omitempty"` // Suffix applied on top of BaseQuality
	Frets       []int  `json:"frets"`                // Per-string frets after alteration and transposition
	Bass        string `json:"bass,omitempty"`       // Explicit bass note, empty when none
}

// Muted marks a string that is not played.
const Muted = -1

// Name rebuilds the display name of the chord (e.g. Cmaj7/G).
func (c Chord) Name() string {
	if c.Bass == "" {
		return c.Root + c.Quality
	}
	return c.Root + c.Quality + "/" + c.Bass
}

// HasBass reports whether an explicit bass note was given.
func (c Chord) HasBass() bool {
	return c.Bass != ""
}

// ExtraVoices returns the entries appended beyond one value per string.
func (c Chord) ExtraVoices(strings int) []int {
	if len(c.Frets) <= strings {
		return nil
	}
	return c.Frets[strings:]
}

// ChartRequest is one chart to generate in a batch.
type ChartRequest struct {
	Index    int    // 1-based position in the batch
	Notation string // Chord notation (e.g. Am/F#)
	Palette  string // Palette name (e.g. default)
	Line     int    // Line number in the list file, 0 when not read from a file
	Source   string // List file the request came from, empty for built-ins/args
}

// ChartResult records what happened to one request.
type ChartResult struct {
	Request      ChartRequest
	Chord        *Chord // nil when the notation failed to resolve
	DiagramPath  string
	NotationPath string
	Err          string // Error message if the chart failed
	ErrKind      string // Error kind (InvalidNotation, UnknownQuality, ...)
	Skipped      bool   // True if an unchanged chart was already on disk
	IsDuplicate  bool   // True if an earlier request had the same notation and palette
	DuplicateOf  int    // Index of the earlier request if this is a duplicate
}

// Failed reports whether the chart could not be generated.
func (r ChartResult) Failed() bool {
	return r.Err != ""
}

// BatchResult contains the outcome of a batch run.
type BatchResult struct {
	RunID       string
	Results     []ChartResult
	GalleryPath string
	Diagnostics []string
}

// Counts returns the number of generated, skipped and failed charts.
func (b BatchResult) Counts() (generated, skipped, failed int) {
	for _, r := range b.Results {
		switch {
		case r.Failed():
			failed++
		case r.Skipped:
			skipped++
		default:
			generated++
		}
	}
	return generated, skipped, failed
}

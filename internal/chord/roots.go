package chord

// rootOrder lists the recognized root spellings by semitone distance from A.
var rootOrder = []string{
	"A", "A#", "Bb", "B", "C", "C#", "Db", "D", "D#", "Eb",
	"E", "F", "F#", "Gb", "G", "G#", "Ab",
}

var rootOffsets = map[string]int{
	"A": 0, "A#": 1, "Bb": 1, "B": 2, "C": 3, "C#": 4, "Db": 4,
	"D": 5, "D#": 6, "Eb": 6, "E": 7, "F": 8, "F#": 9, "Gb": 9,
	"G": 10, "G#": 11, "Ab": 11,
}

// RootOffset returns the semitone offset of a root spelling, anchored at A=0.
func RootOffset(root string) (int, bool) {
	off, ok := rootOffsets[root]
	return off, ok
}

// Roots returns the 17 recognized root spellings.
func Roots() []string {
	out := make([]string, len(rootOrder))
	copy(out, rootOrder)
	return out
}

// scanNote reads a note spelling ([A-G] with an optional # or b) from the start of s.
// It returns the spelling and the number of bytes consumed, or 0 if s does not start
// with a note letter.
func scanNote(s string) (string, int) {
	if s == "" || s[0] < 'A' || s[0] > 'G' {
		return "", 0
	}
	if len(s) > 1 && (s[1] == '#' || s[1] == 'b') {
		return s[:2], 2
	}
	return s[:1], 1
}

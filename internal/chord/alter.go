package chord

// alterations are the suffix tokens accepted after a base quality.
// A suffix is applied as a single token; it is never split further.
var alterations = map[string]func([]int) []int{
	"#5":   shiftString(2, +1),
	"b5":   shiftString(2, -1),
	"#9":   shiftString(1, +1),
	"b9":   shiftString(1, -1),
	"add9": appendVoice(2),
	"#11":  appendVoice(6),
	"b13":  appendVoice(8),
}

// Alterations returns the recognized alteration tokens.
func Alterations() []string {
	return []string{"#5", "b5", "#9", "b9", "add9", "#11", "b13"}
}

// shiftString moves one string by delta semitones. A muted string stays muted.
func shiftString(idx, delta int) func([]int) []int {
	return func(frets []int) []int {
		if frets[idx] < 0 {
			return frets
		}
		frets[idx] = mod12(frets[idx] + delta)
		return frets
	}
}

// appendVoice adds the interval as an extra entry after the six strings rather than
// placing it on a string. Renderers show these as extra voices.
func appendVoice(fret int) func([]int) []int {
	return func(frets []int) []int {
		return append(frets, fret)
	}
}

// applyAlteration applies suffix to a private copy of the base shape.
func applyAlteration(base Shape, suffix string) ([]int, bool) {
	frets := make([]int, Strings, Strings+1)
	copy(frets, base[:])
	if suffix == "" {
		return frets, true
	}
	rule, ok := alterations[suffix]
	if !ok {
		return nil, false
	}
	return rule(frets), true
}

func mod12(n int) int {
	return ((n % 12) + 12) % 12
}

package chord

import (
	"strings"
	"unicode"

	"chordchart/internal/model"
)

// defaultQuality is assumed when nothing follows the root.
const defaultQuality = "major"

// form is the surface shape of a notation string.
type form int

const (
	formRoot         form = iota // C
	formQuality                  // Cmaj7
	formSlash                    // Cmaj7/G, C/E
	formSlashQuality             // Bbm6/9, Bbm6/9/D
)

type parts struct {
	form    form
	root    string
	quality string
	bass    string
}

// Resolver turns chord notations into chord descriptors. It is safe for concurrent use.
type Resolver struct {
	table      *Table
	slashNames []string
}

// NewResolver returns a Resolver backed by t. A nil table means the built-in shapes.
func NewResolver(t *Table) *Resolver {
	if t == nil {
		t = NewTable(nil)
	}
	return &Resolver{table: t, slashNames: t.slashQualities()}
}

// Table returns the shape table the resolver reads from.
func (r *Resolver) Table() *Table {
	return r.table
}

var defaultResolver = NewResolver(nil)

// Resolve resolves a notation against the built-in shape table.
func Resolve(notation string) (model.Chord, error) {
	return defaultResolver.Resolve(notation)
}

// Resolve parses notation (e.g. "F#m7b5/C#") into root, quality, frets and bass.
func (r *Resolver) Resolve(notation string) (model.Chord, error) {
	p, err := r.split(notation)
	if err != nil {
		return model.Chord{}, err
	}

	quality := p.quality
	if quality == "" {
		quality = defaultQuality
	}

	base, ok := r.table.longestPrefix(quality)
	if !ok {
		return model.Chord{}, newError(notation, ErrUnknownQuality, "no prefix of %q is a known quality", quality)
	}
	suffix := quality[len(base):]

	shape, _ := r.table.Lookup(base)
	frets, ok := applyAlteration(shape, suffix)
	if !ok {
		return model.Chord{}, newError(notation, ErrUnknownAlteration, "%q after %q is not an alteration", suffix, base)
	}

	offset, ok := RootOffset(p.root)
	if !ok {
		return model.Chord{}, newError(notation, ErrUnknownRoot, "%q has no semitone offset", p.root)
	}
	transpose(frets, offset)

	return model.Chord{
		Root:        p.root,
		Quality:     quality,
		BaseQuality: base,
		Alteration:  suffix,
		Frets:       frets,
		Bass:        p.bass,
	}, nil
}

// split separates root, quality and bass according to the surface form of notation.
func (r *Resolver) split(notation string) (parts, error) {
	root, n := scanNote(notation)
	if n == 0 {
		return parts{}, newError(notation, ErrInvalidNotation, "must start with a root note A-G")
	}
	rest := notation[n:]
	if strings.IndexFunc(rest, unicode.IsSpace) >= 0 {
		return parts{}, newError(notation, ErrInvalidNotation, "contains whitespace")
	}

	if !strings.Contains(rest, "/") {
		if rest == "" {
			return parts{form: formRoot, root: root}, nil
		}
		return parts{form: formQuality, root: root, quality: rest}, nil
	}

	// Qualities such as m6/9 carry their own slash and must directly follow the root.
	for _, q := range r.slashNames {
		if !strings.HasPrefix(rest, q) {
			continue
		}
		tail := rest[len(q):]
		if tail == "" {
			return parts{form: formSlashQuality, root: root, quality: q}, nil
		}
		if tail[0] != '/' {
			break
		}
		bass, ok := parseBass(tail[1:])
		if !ok {
			return parts{}, newError(notation, ErrInvalidNotation, "bass %q is not a note", tail[1:])
		}
		return parts{form: formSlashQuality, root: root, quality: q, bass: bass}, nil
	}

	i := strings.IndexByte(rest, '/')
	bass, ok := parseBass(rest[i+1:])
	if !ok {
		return parts{}, newError(notation, ErrInvalidNotation, "bass %q is not a note", rest[i+1:])
	}
	return parts{form: formSlash, root: root, quality: rest[:i], bass: bass}, nil
}

// parseBass accepts exactly one note spelling.
func parseBass(s string) (string, bool) {
	note, n := scanNote(s)
	if n == 0 || n != len(s) {
		return "", false
	}
	return note, true
}

// transpose shifts every fretted entry by offset semitones. Open and muted strings stay put.
func transpose(frets []int, offset int) {
	for i, f := range frets {
		if f <= 0 {
			continue
		}
		frets[i] = mod12(f + offset)
	}
}

package chord

import (
	"sort"
	"strings"
)

// Strings is the number of strings a shape describes.
const Strings = 6

// Shape is a base fingering, one fret offset per string. Index 0 is the root string.
// Shapes are arrays so that every lookup hands out its own copy.
type Shape [Strings]int

// builtinShapes are the canonical fingerings, voiced from an A root.
var builtinShapes = map[string]Shape{
	"major":    {0, 2, 2, 1, 0, 0},
	"maj7":     {0, 2, 1, 1, 0, 0},
	"maj9":     {0, 2, 1, 1, 2, 2},
	"maj13":    {0, 2, 1, 1, 2, 3},
	"minor":    {0, 1, 2, 2, 0, 0},
	"m7":       {0, 1, 0, 0, 0, 0},
	"m9":       {0, 1, 0, 0, 2, 0},
	"m11":      {0, 1, 0, 0, 0, 1},
	"m13":      {0, 1, 0, 0, 2, 3},
	"7":        {0, 2, 0, 1, 0, 0},
	"9":        {0, 2, 0, 1, 0, 2},
	"11":       {0, 2, 0, 1, 0, 3},
	"13":       {0, 2, 0, 1, 2, 2},
	"dim":      {0, 1, 2, 0, 2, 0},
	"dim7":     {0, 1, 2, 0, 2, 3},
	"aug":      {0, 3, 2, 1, 1, 0},
	"sus2":     {0, 2, 2, 0, 0, 0},
	"sus4":     {0, 2, 2, 2, 0, 0},
	"7sus4":    {0, 2, 0, 2, 0, 0},
	"add9":     {0, 2, 2, 1, 0, 2},
	"6":        {0, 2, 2, 1, 2, 0},
	"6/9":      {0, 2, 2, 1, 2, 2},
	"5":        {0, 3, 2, 0, 0, 0},
	"7b9":      {0, 2, 0, 1, 3, 2},
	"7#9":      {0, 2, 0, 1, 3, 3},
	"7b5":      {0, 2, 0, 1, 5, 3},
	"7#5":      {0, 2, 0, 1, 1, 4},
	"9b5":      {0, 2, 1, 1, 3, 2},
	"13b9":     {0, 2, 1, 3, 3, 4},
	"7#11":     {0, 2, 0, 1, 1, 1},
	"7b13":     {0, 2, 0, 1, 4, 4},
	"m7b5":     {0, 1, 0, 1, 2, 0},
	"m9b5":     {0, 1, 0, 1, 2, 2},
	"aug7":     {0, 3, 2, 3, 1, 0},
	"aug9":     {0, 3, 2, 3, 3, 4},
	"9#11":     {0, 2, 1, 1, 1, 2},
	"13#11":    {0, 2, 1, 1, 3, 3},
	"m6":       {0, 1, 2, 0, 2, 0},
	"m6/9":     {0, 1, 2, 2, 2, 2},
	"7#5b9":    {0, 3, 2, 3, 2, 0},
	"7#9#5":    {0, 3, 2, 3, 3, 0},
	"maj11":    {0, 0, 1, 1, 2, 2},
	"13sus4":   {0, 2, 0, 2, 2, 2},
	"7b9b13":   {0, 2, 0, 1, 3, 4},
	"7#9b13":   {0, 2, 0, 1, 3, 4},
	"7#11b13":  {0, 2, 0, 1, 1, 4},
	"9#5":      {0, 3, 2, 3, 3, 2},
	"9b13":     {0, 2, 0, 1, 2, 3},
	"m13b9":    {0, 1, 0, 1, 3, 3},
	"maj13#11": {0, 2, 1, 1, 3, 3},
	"13b5":     {0, 2, 3, 3, 2, 4},
	"13#9":     {0, 2, 0, 1, 3, 2},
	"7alt":     {0, 2, 0, 1, 3, 4},
}

// Table maps quality names to base shapes. It is read-only after NewTable returns.
type Table struct {
	shapes map[string]Shape
	names  []string
}

// NewTable builds the built-in table plus any extra canonical shapes, then adds the
// generated aliases. Extras override built-ins of the same name.
func NewTable(extra map[string]Shape) *Table {
	canonical := make(map[string]Shape, len(builtinShapes)+len(extra))
	for name, s := range builtinShapes {
		canonical[name] = s
	}
	for name, s := range extra {
		if name == "" {
			continue
		}
		canonical[name] = s
	}

	shapes := make(map[string]Shape, len(canonical)*2)
	for name, s := range canonical {
		shapes[name] = s
	}
	for name, s := range canonical {
		for _, alias := range aliasesOf(name) {
			// A canonical entry always wins over a generated alias.
			if _, ok := canonical[alias]; ok {
				continue
			}
			shapes[alias] = s
		}
	}

	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Table{shapes: shapes, names: names}
}

// aliasesOf returns the generated alternative spellings of a canonical quality name.
func aliasesOf(name string) []string {
	var aliases []string
	if strings.Contains(name, "major") {
		aliases = append(aliases, strings.ReplaceAll(name, "major", "maj"))
	}
	if strings.Contains(name, "minor") {
		aliases = append(aliases, strings.ReplaceAll(name, "minor", "m"))
	}
	if strings.HasPrefix(name, "m") {
		aliases = append(aliases, "min"+name[1:])
	}
	return aliases
}

// Lookup returns a copy of the shape registered under name.
func (t *Table) Lookup(name string) (Shape, bool) {
	s, ok := t.shapes[name]
	return s, ok
}

// Names returns every quality name, aliases included, in sorted order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of quality names in the table.
func (t *Table) Len() int {
	return len(t.names)
}

// slashQualities returns the names containing '/', longest first.
func (t *Table) slashQualities() []string {
	var out []string
	for _, name := range t.names {
		if strings.Contains(name, "/") {
			out = append(out, name)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// longestPrefix finds the longest prefix of quality that is a table key.
func (t *Table) longestPrefix(quality string) (string, bool) {
	for n := len(quality); n > 0; n-- {
		if _, ok := t.shapes[quality[:n]]; ok {
			return quality[:n], true
		}
	}
	return "", false
}

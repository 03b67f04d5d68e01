package chord

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chordchart/internal/model"
)

func TestResolve_LiteralScenarios(t *testing.T) {
	tests := []struct {
		notation string
		want     model.Chord
	}{
		{"C", model.Chord{Root: "C", Quality: "major", BaseQuality: "major", Frets: []int{0, 5, 5, 4, 0, 0}}},
		{"Am7", model.Chord{Root: "A", Quality: "m7", BaseQuality: "m7", Frets: []int{0, 1, 0, 0, 0, 0}}},
		{"G7", model.Chord{Root: "G", Quality: "7", BaseQuality: "7", Frets: []int{0, 0, 0, 11, 0, 0}}},
		{"C/E", model.Chord{Root: "C", Quality: "major", BaseQuality: "major", Frets: []int{0, 5, 5, 4, 0, 0}, Bass: "E"}},
		{"Am", model.Chord{Root: "A", Quality: "m", BaseQuality: "m", Frets: []int{0, 1, 2, 2, 0, 0}}},
		{"F#m7/C#", model.Chord{Root: "F#", Quality: "m7", BaseQuality: "m7", Frets: []int{0, 10, 0, 0, 0, 0}, Bass: "C#"}},
		{"Bbm6/9", model.Chord{Root: "Bb", Quality: "m6/9", BaseQuality: "m6/9", Frets: []int{0, 2, 3, 3, 3, 3}}},
		{"Bbm6/9/D", model.Chord{Root: "Bb", Quality: "m6/9", BaseQuality: "m6/9", Frets: []int{0, 2, 3, 3, 3, 3}, Bass: "D"}},
		{"A6/9", model.Chord{Root: "A", Quality: "6/9", BaseQuality: "6/9", Frets: []int{0, 2, 2, 1, 2, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			got, err := Resolve(tt.notation)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.notation, diff)
			}
		})
	}
}

func TestResolve_Alterations(t *testing.T) {
	tests := []struct {
		notation   string
		base       string
		alteration string
		frets      []int
	}{
		{"A7#5", "7#5", "", []int{0, 2, 0, 1, 1, 4}}, // longest match takes the whole key
		{"Amaj7#5", "maj7", "#5", []int{0, 2, 2, 1, 0, 0}},
		{"Am11b5", "m11", "b5", []int{0, 1, 11, 0, 0, 1}},
		{"Amaj9#9", "maj9", "#9", []int{0, 3, 1, 1, 2, 2}},
		{"Am7b9", "m7", "b9", []int{0, 0, 0, 0, 0, 0}},
		{"Amadd9", "m", "add9", []int{0, 1, 2, 2, 0, 0, 2}},
		{"Amaj9#11", "maj9", "#11", []int{0, 2, 1, 1, 2, 2, 6}},
		{"Am9b13", "m9", "b13", []int{0, 1, 0, 0, 2, 0, 8}},
		{"Cmaj9#11", "maj9", "#11", []int{0, 5, 4, 4, 5, 5, 9}},
		{"Ebm9#5", "m9", "#5", []int{0, 7, 7, 0, 8, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			got, err := Resolve(tt.notation)
			require.NoError(t, err)
			assert.Equal(t, tt.base, got.BaseQuality)
			assert.Equal(t, tt.alteration, got.Alteration)
			assert.Equal(t, tt.base+tt.alteration, got.Quality)
			if diff := cmp.Diff(tt.frets, got.Frets); diff != "" {
				t.Errorf("frets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		notation string
		kind     error
	}{
		{"", ErrInvalidNotation},
		{"Xmaj7", ErrInvalidNotation},
		{"cmaj7", ErrInvalidNotation},
		{"#C", ErrInvalidNotation},
		{"C maj7", ErrInvalidNotation},
		{"C/", ErrInvalidNotation},
		{"C/E/G", ErrInvalidNotation},
		{"C/H", ErrInvalidNotation},
		{"C/Em", ErrInvalidNotation},
		{"Cmaj7/Gm6/9", ErrInvalidNotation},
		{"Cm6/9x", ErrInvalidNotation},
		{"Cm6/9/", ErrInvalidNotation},
		{"Cxyz", ErrUnknownQuality},
		{"C/Exyz", ErrInvalidNotation},
		{"Cmxyz", ErrUnknownAlteration},
		{"Cmaj7#13", ErrUnknownAlteration},
		{"C7b5#9x", ErrUnknownAlteration},
		{"Cb", ErrUnknownRoot},
		{"E#m", ErrUnknownRoot},
		{"Fbxyz", ErrUnknownQuality}, // quality is resolved before the root offset
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			_, err := Resolve(tt.notation)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v, want kind %v", err, tt.kind)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.notation, pe.Notation)
			assert.Equal(t, tt.kind.Error(), Kind(err))
		})
	}
}

func TestResolve_EveryRootAndQuality(t *testing.T) {
	table := NewTable(nil)
	for _, root := range Roots() {
		offset, ok := RootOffset(root)
		require.True(t, ok, root)
		for _, q := range table.Names() {
			c, err := Resolve(root + q)
			require.NoError(t, err, root+q)
			require.Len(t, c.Frets, Strings, root+q)

			base, _ := table.Lookup(q)
			for i, f := range base {
				if f == 0 {
					assert.Equal(t, 0, c.Frets[i], "%s%s string %d should stay open", root, q, i)
				} else {
					assert.Equal(t, (f+offset)%12, c.Frets[i], "%s%s string %d", root, q, i)
				}
			}
		}
	}
}

func TestResolve_ARootIsIdentity(t *testing.T) {
	table := NewTable(nil)
	for _, q := range table.Names() {
		c, err := Resolve("A" + q)
		require.NoError(t, err)
		base, _ := table.Lookup(q)
		assert.Equal(t, base[:], c.Frets, q)
	}
}

func TestResolve_DoesNotMutateTable(t *testing.T) {
	before, ok := defaultResolver.Table().Lookup("9")
	require.True(t, ok)

	first, err := Resolve("C#9")
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := Resolve("C#9")
		require.NoError(t, err)
		assert.Equal(t, first, again)

		_, err = Resolve("A9#5")
		require.NoError(t, err)
		_, err = Resolve("A9add9")
		require.NoError(t, err)
	}

	after, _ := defaultResolver.Table().Lookup("9")
	assert.Equal(t, before, after)
}

func TestResolve_AliasesAreIndependent(t *testing.T) {
	// Altering through one alias must not leak into the canonical entry or other aliases.
	altered, err := Resolve("Amin7#5")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 0, 0, 0}, altered.Frets)

	plain, err := Resolve("Am7")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 0, 0, 0}, plain.Frets)

	minor, err := Resolve("Aminor")
	require.NoError(t, err)
	short, err := Resolve("Am")
	require.NoError(t, err)
	assert.Equal(t, minor.Frets, short.Frets)
}

func TestResolve_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c, err := Resolve("Gmaj7#5/B")
				if assert.NoError(t, err) {
					assert.Equal(t, []int{0, 0, 0, 11, 0, 0}, c.Frets)
				}
			}
		}()
	}
	wg.Wait()
}

func TestResolver_CustomTable(t *testing.T) {
	r := NewResolver(NewTable(map[string]Shape{"mystery": {0, 1, 1, 1, 0, -1}}))

	c, err := r.Resolve("Cmystery")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 4, 4, 0, model.Muted}, c.Frets)

	// min alias is generated for custom shapes starting with m
	_, err = r.Resolve("Cminystery")
	require.NoError(t, err)

	_, err = Resolve("Cmystery")
	assert.ErrorIs(t, err, ErrUnknownAlteration)
}

func TestResolver_AlterationKeepsMutedString(t *testing.T) {
	r := NewResolver(NewTable(map[string]Shape{"x": {0, model.Muted, 2, 2, 2, 0}}))

	for _, notation := range []string{"Cx#9", "Cxb9"} {
		c, err := r.Resolve(notation)
		require.NoError(t, err, notation)
		assert.Equal(t, []int{0, model.Muted, 5, 5, 5, 0}, c.Frets, notation)
	}

	frets := shiftString(0, +1)([]int{model.Muted, 2})
	assert.Equal(t, []int{model.Muted, 2}, frets)
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "charts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_ChartRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, ok, err := s.GetChart(ctx, "C/E", "default")
	require.NoError(t, err)
	assert.False(t, ok)

	c := Chart{
		Notation:    "C/E",
		Palette:     "default",
		Root:        "C",
		Quality:     "major",
		Bass:        "E",
		Frets:       []int{0, 5, 5, 4, 0, 0},
		DiagramPath: "guitar_chord_diagrams/chord_001_C_E_default.svg",
		RunID:       "run-1",
		GeneratedAt: time.Unix(1700000000, 0),
	}
	require.NoError(t, s.PutChart(ctx, c))

	got, ok, err := s.GetChart(ctx, "C/E", "default")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, c.Frets, got.Frets)
	assert.Equal(t, c.Bass, got.Bass)
	assert.True(t, c.GeneratedAt.Equal(got.GeneratedAt))

	// same key replaces
	c.Frets = []int{0, 5, 5, 4, 0, 0, 5}
	c.GeneratedAt = time.Unix(1700000100, 0)
	require.NoError(t, s.PutChart(ctx, c))
	require.NoError(t, s.PutChart(ctx, Chart{Notation: "Am", Palette: "neon", Root: "A", Quality: "m",
		Frets: []int{0, 1, 2, 2, 0, 0}, GeneratedAt: time.Unix(1600000000, 0)}))

	all, err := s.ListCharts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "C/E", all[0].Notation)
	assert.Len(t, all[0].Frets, 7)
}

func TestStore_Runs(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, ok, err := s.LastRun(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PutRun(ctx, Run{ID: "a", StartedAt: time.Unix(100, 0), Total: 3, Failed: 1}))
	require.NoError(t, s.PutRun(ctx, Run{ID: "b", StartedAt: time.Unix(200, 0), Total: 5, Skipped: 2}))

	last, ok, err := s.LastRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", last.ID)
	assert.Equal(t, 2, last.Skipped)
}

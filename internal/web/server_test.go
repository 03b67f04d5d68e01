package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chordchart/internal/chord"
	"chordchart/internal/render"
	"chordchart/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	palettes, err := render.NewPalettes(nil)
	require.NoError(t, err)
	return &Server{
		Resolver: chord.NewResolver(nil),
		Palettes: palettes,
		Diagram:  render.NewDiagram(nil),
		Notation: render.NewNotation(nil),
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestResolve(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := get(t, h, "/api/resolve?chord=Am%2FF%23")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Root    string `json:"root"`
		Quality string `json:"quality"`
		Bass    string `json:"bass"`
		Frets   []int  `json:"frets"`
		Name    string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "A", body.Root)
	assert.Equal(t, "m", body.Quality)
	assert.Equal(t, "F#", body.Bass)
	assert.Equal(t, "Am/F#", body.Name)
	assert.Len(t, body.Frets, chord.Strings)
}

func TestResolve_Errors(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		query  string
		status int
		kind   string
	}{
		{"", http.StatusBadRequest, ""},
		{"?chord=H7", http.StatusUnprocessableEntity, "InvalidNotation"},
		{"?chord=Cxyz", http.StatusUnprocessableEntity, "UnknownQuality"},
		{"?chord=Cmaj7%2313", http.StatusUnprocessableEntity, "UnknownAlteration"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, h, "/api/resolve"+tt.query)
			assert.Equal(t, tt.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.kind, body.Kind)
		})
	}
}

func TestSVGEndpoints(t *testing.T) {
	h := newTestServer(t).Handler()

	for _, path := range []string{"/api/diagram", "/api/notation"} {
		rec := get(t, h, path+"?chord=C&palette=neon")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "<svg")
		assert.Contains(t, rec.Body.String(), "#000000", "neon background")
	}

	rec := get(t, h, "/api/diagram?chord=C&palette=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h, "/api/diagram?chord=Xb")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSVGEndpoint_Disabled(t *testing.T) {
	s := newTestServer(t)
	s.Notation = nil
	rec := get(t, s.Handler(), "/api/notation?chord=C")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := get(t, h, "/api/palettes")
	require.Equal(t, http.StatusOK, rec.Code)
	var palettes map[string]render.Palette
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &palettes))
	assert.Contains(t, palettes, "default")
	assert.Contains(t, palettes, "neon")

	rec = get(t, h, "/api/qualities")
	require.Equal(t, http.StatusOK, rec.Code)
	var q struct {
		Roots       []string `json:"roots"`
		Qualities   []string `json:"qualities"`
		Alterations []string `json:"alterations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Contains(t, q.Roots, "F#")
	assert.Contains(t, q.Qualities, "m7b5")
	assert.Contains(t, q.Alterations, "add9")

	rec = get(t, h, "/api/help")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# chordchart")
	assert.NotContains(t, rec.Body.String(), "{{VERSION}}")
}

func TestCharts(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s.Handler(), "/api/charts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	st, err := store.Open(filepath.Join(t.TempDir(), "charts.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.PutChart(context.Background(), store.Chart{
		Notation:    "G7",
		Palette:     "default",
		Root:        "G",
		Quality:     "7",
		Frets:       []int{0, 0, 0, 11, 0, 0},
		DiagramPath: "out/chord_001_G7_default.svg",
		RunID:       "run-1",
		GeneratedAt: time.Now(),
	}))
	s.Store = st

	rec = get(t, s.Handler(), "/api/charts")
	require.Equal(t, http.StatusOK, rec.Code)
	var charts []store.Chart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &charts))
	require.Len(t, charts, 1)
	assert.Equal(t, "G7", charts[0].Notation)
}

func TestList(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s.Handler(), "/api/list")
	assert.JSONEq(t, "[]", rec.Body.String())

	s.ListPath = filepath.Join(t.TempDir(), "set.txt")
	rec = get(t, s.Handler(), "/api/list")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, os.WriteFile(s.ListPath, []byte("# set\nC\nCxyz neon\nG7\n"), 0644))
	rec = get(t, s.Handler(), "/api/list")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []listEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, 2, entries[0].Line)
	assert.NotNil(t, entries[0].Chord)

	bad := entries[1]
	assert.Equal(t, "neon", bad.Palette)
	assert.Equal(t, "UnknownQuality", bad.Kind)
	require.NotNil(t, bad.Context)
	assert.Equal(t, "Cxyz neon", bad.Context.Target)
	assert.Equal(t, "C", bad.Context.Before)
	assert.Equal(t, "G7", bad.Context.After)
}

func TestStaticIndex(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "<title>chordchart</title>"))
}

func TestStartServer_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer(t).StartServer(ctx, 0) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

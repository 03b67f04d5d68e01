// Package web serves the chord resolver and renderers over HTTP.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"chordchart/internal/batch"
	"chordchart/internal/chord"
	"chordchart/internal/model"
	"chordchart/internal/render"
	"chordchart/internal/store"
)

//go:embed static/*
var staticFS embed.FS

// Server holds what the handlers need. Store and ListPath are optional.
type Server struct {
	Resolver *chord.Resolver
	Palettes render.Palettes
	Diagram  render.Renderer
	Notation render.Renderer
	Store    *store.Store
	ListPath string
	Logger   *zap.Logger
}

// Handler returns the routed API and static page.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	mux.HandleFunc("/api/resolve", s.handleResolve)
	mux.HandleFunc("/api/diagram", s.handleSVG(func() render.Renderer { return s.Diagram }))
	mux.HandleFunc("/api/notation", s.handleSVG(func() render.Renderer { return s.Notation }))
	mux.HandleFunc("/api/palettes", s.handlePalettes)
	mux.HandleFunc("/api/qualities", s.handleQualities)
	mux.HandleFunc("/api/charts", s.handleCharts)
	mux.HandleFunc("/api/list", s.handleList)
	mux.HandleFunc("/api/help", handleHelp)
	return mux
}

// StartServer serves on port until ctx is cancelled.
func (s *Server) StartServer(ctx context.Context, port int) error {
	logger := s.logger()
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("Starting chordchart web server at http://localhost:%d\n", port)
	fmt.Printf("Go to http://localhost:%d in your browser.\n", port)
	logger.Info("Web server listening", zap.Int("port", port))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		logger.Info("Web server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// resolveParam resolves the chord query parameter, writing the error response on failure.
func (s *Server) resolveParam(w http.ResponseWriter, r *http.Request) (model.Chord, bool) {
	notation := r.URL.Query().Get("chord")
	if notation == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "chord is required"})
		return model.Chord{}, false
	}
	c, err := s.Resolver.Resolve(notation)
	if err != nil {
		s.logger().Debug("Resolve failed", zap.String("chord", notation), zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: chord.Kind(err)})
		return model.Chord{}, false
	}
	return c, true
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	c, ok := s.resolveParam(w, r)
	if !ok {
		return
	}
	response := struct {
		model.Chord
		Name        string `json:"name"`
		ExtraVoices []int  `json:"extra_voices,omitempty"`
	}{
		Chord:       c,
		Name:        c.Name(),
		ExtraVoices: c.ExtraVoices(chord.Strings),
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleSVG(renderer func() render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rd := renderer()
		if rd == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "renderer disabled"})
			return
		}
		c, ok := s.resolveParam(w, r)
		if !ok {
			return
		}
		name := r.URL.Query().Get("palette")
		if name == "" {
			name = model.DefaultPalette
		}
		p, err := s.Palettes.Lookup(name)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: batch.ErrKindPalette})
			return
		}
		data, err := rd.Render(c, p)
		if err != nil {
			s.logger().Error("Render failed", zap.String("chord", c.Name()), zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(data)
	}
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Palettes)
}

func (s *Server) handleQualities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Roots       []string `json:"roots"`
		Qualities   []string `json:"qualities"`
		Alterations []string `json:"alterations"`
	}{
		Roots:       chord.Roots(),
		Qualities:   s.Resolver.Table().Names(),
		Alterations: chord.Alterations(),
	})
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	charts := []store.Chart{}
	if s.Store != nil {
		var err error
		charts, err = s.Store.ListCharts(r.Context())
		if err != nil {
			s.logger().Error("Listing charts failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, charts)
}

type listEntry struct {
	Line     int                `json:"line"`
	Notation string             `json:"notation"`
	Palette  string             `json:"palette"`
	Chord    *model.Chord       `json:"chord,omitempty"`
	Error    string             `json:"error,omitempty"`
	Kind     string             `json:"kind,omitempty"`
	Context  *model.LineContext `json:"context,omitempty"`
}

// handleList resolves every line of the configured chord list file.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries := []listEntry{}
	if s.ListPath == "" {
		writeJSON(w, http.StatusOK, entries)
		return
	}
	reqs, err := batch.ReadList(s.ListPath, model.DefaultPalette)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	for _, req := range reqs {
		e := listEntry{Line: req.Line, Notation: req.Notation, Palette: req.Palette}
		c, err := s.Resolver.Resolve(req.Notation)
		if err != nil {
			e.Error = err.Error()
			e.Kind = chord.Kind(err)
			lc := model.GetLineContext(req.Source, req.Line)
			e.Context = &lc
		} else {
			e.Chord = &c
		}
		entries = append(entries, e)
	}
	writeJSON(w, http.StatusOK, entries)
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(model.HelpMarkdown()))
}

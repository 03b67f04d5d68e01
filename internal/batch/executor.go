package batch

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chordchart/internal/chord"
	"chordchart/internal/model"
	"chordchart/internal/render"
	"chordchart/internal/store"
)

// ErrKindPalette marks requests naming a palette that does not exist.
const ErrKindPalette = "UnknownPalette"

// Executor resolves, renders and writes a batch of charts.
type Executor struct {
	Resolver    *chord.Resolver
	Palettes    render.Palettes
	Diagram     render.Renderer
	Notation    render.Renderer // nil disables notation output
	Layout      Layout
	Store       *store.Store // nil disables the index
	GalleryPath string       // empty disables the gallery
	Workers     int
	Force       bool // regenerate charts the index reports as unchanged
	Logger      *zap.Logger
}

// Run generates every request. A failing chord is recorded in its result and never
// stops the others; only a cancelled context or an unusable output directory ends
// the run early.
func (e *Executor) Run(ctx context.Context, reqs []model.ChartRequest) (model.BatchResult, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	runID := uuid.NewString()
	started := time.Now()
	result := model.BatchResult{RunID: runID}
	logger = logger.With(zap.String("run", runID))

	for _, dir := range e.dirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return result, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	results := make([]model.ChartResult, len(reqs))
	for i, req := range reqs {
		results[i].Request = req
	}
	MarkDuplicates(results)

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	scheduled := 0
	for i := range results {
		if gctx.Err() != nil {
			break
		}
		scheduled++
		i := i
		g.Go(func() error {
			res := e.generate(gctx, results[i].Request, runID, logger)
			res.IsDuplicate = results[i].IsDuplicate
			res.DuplicateOf = results[i].DuplicateOf
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	for i := scheduled; i < len(results); i++ {
		results[i].Err = context.Canceled.Error()
		results[i].ErrKind = "Canceled"
	}
	result.Results = results
	result.Diagnostics = Analyze(results)

	generated, skipped, failed := result.Counts()
	logger.Info("Batch finished",
		zap.Int("generated", generated),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Duration("took", time.Since(started)))

	if e.Store != nil {
		err := e.Store.PutRun(context.WithoutCancel(ctx), store.Run{
			ID:        runID,
			StartedAt: started,
			Total:     len(reqs),
			Failed:    failed,
			Skipped:   skipped,
		})
		if err != nil {
			logger.Warn("Failed to record run", zap.Error(err))
		}
	}

	if e.GalleryPath != "" {
		if err := WriteGallery(e.GalleryPath, result); err != nil {
			return result, err
		}
		result.GalleryPath = model.ExpandTilde(e.GalleryPath)
	}

	return result, ctx.Err()
}

func (e *Executor) dirs() []string {
	if e.Layout == nil {
		return nil
	}
	if e.Notation == nil {
		return e.Layout.Dirs()[:1]
	}
	return e.Layout.Dirs()
}

func (e *Executor) generate(ctx context.Context, req model.ChartRequest, runID string, logger *zap.Logger) model.ChartResult {
	res := model.ChartResult{Request: req}
	log := logger.With(zap.String("chord", req.Notation), zap.String("palette", req.Palette))

	if err := ctx.Err(); err != nil {
		res.Err = err.Error()
		res.ErrKind = "Canceled"
		return res
	}

	c, err := e.Resolver.Resolve(req.Notation)
	if err != nil {
		res.Err = err.Error()
		res.ErrKind = chord.Kind(err)
		log.Warn("Skipping chord", zap.Error(err))
		return res
	}
	res.Chord = &c

	palette, err := e.Palettes.Lookup(req.Palette)
	if err != nil {
		res.Err = err.Error()
		res.ErrKind = ErrKindPalette
		log.Warn("Skipping chord", zap.Error(err))
		return res
	}

	res.DiagramPath = e.Layout.DiagramPath(req)
	if e.Notation != nil {
		res.NotationPath = e.Layout.NotationPath(req)
	}

	if e.unchanged(ctx, c, res) {
		res.Skipped = true
		log.Debug("Chart unchanged", zap.String("path", res.DiagramPath))
		return res
	}

	if err := writeChart(e.Diagram, c, palette, res.DiagramPath); err != nil {
		res.Err = err.Error()
		res.ErrKind = "Write"
		log.Error("Failed to write diagram", zap.Error(err))
		return res
	}
	if e.Notation != nil {
		if err := writeChart(e.Notation, c, palette, res.NotationPath); err != nil {
			res.Err = err.Error()
			res.ErrKind = "Write"
			log.Error("Failed to write notation", zap.Error(err))
			return res
		}
	}
	log.Debug("Chart written", zap.String("path", res.DiagramPath), zap.Ints("frets", c.Frets))

	if e.Store != nil {
		err := e.Store.PutChart(ctx, store.Chart{
			Notation:     req.Notation,
			Palette:      req.Palette,
			Root:         c.Root,
			Quality:      c.Quality,
			Bass:         c.Bass,
			Frets:        c.Frets,
			DiagramPath:  res.DiagramPath,
			NotationPath: res.NotationPath,
			RunID:        runID,
			GeneratedAt:  time.Now(),
		})
		if err != nil {
			log.Warn("Failed to index chart", zap.Error(err))
		}
	}
	return res
}

// unchanged reports whether the index already holds this exact chart and its files exist.
func (e *Executor) unchanged(ctx context.Context, c model.Chord, res model.ChartResult) bool {
	if e.Store == nil || e.Force {
		return false
	}
	rec, ok, err := e.Store.GetChart(ctx, res.Request.Notation, res.Request.Palette)
	if err != nil || !ok {
		return false
	}
	if !slices.Equal(rec.Frets, c.Frets) || rec.DiagramPath != res.DiagramPath || rec.NotationPath != res.NotationPath {
		return false
	}
	for _, p := range []string{res.DiagramPath, res.NotationPath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

func writeChart(r render.Renderer, c model.Chord, p render.Palette, path string) error {
	doc, err := r.Render(c, p)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

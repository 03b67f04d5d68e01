package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"chordchart/internal/config"
	"chordchart/internal/model"
)

// Layout decides where the files of a chart go.
type Layout interface {
	DiagramPath(req model.ChartRequest) string
	NotationPath(req model.ChartRequest) string
	Root() string
	Dirs() []string
	Name() string
}

// SplitLayout puts diagrams and notation strips in separate directories.
type SplitLayout struct {
	Base        string
	DiagramDir  string
	NotationDir string
}

func (l *SplitLayout) DiagramPath(req model.ChartRequest) string {
	return filepath.Join(l.Base, l.DiagramDir, diagramFile(req))
}

func (l *SplitLayout) NotationPath(req model.ChartRequest) string {
	return filepath.Join(l.Base, l.NotationDir, notationFile(req))
}

func (l *SplitLayout) Root() string { return l.Base }

func (l *SplitLayout) Dirs() []string {
	return []string{filepath.Join(l.Base, l.DiagramDir), filepath.Join(l.Base, l.NotationDir)}
}

func (l *SplitLayout) Name() string { return "split" }

// FlatLayout puts every file in one directory.
type FlatLayout struct {
	Base string
}

func (l *FlatLayout) DiagramPath(req model.ChartRequest) string {
	return filepath.Join(l.Base, diagramFile(req))
}

func (l *FlatLayout) NotationPath(req model.ChartRequest) string {
	return filepath.Join(l.Base, notationFile(req))
}

func (l *FlatLayout) Root() string { return l.Base }

func (l *FlatLayout) Dirs() []string { return []string{l.Base} }

func (l *FlatLayout) Name() string { return "flat" }

// DetectLayout picks the layout named in the output config, defaulting to split.
func DetectLayout(cfg config.OutputConfig) Layout {
	base := model.ExpandTilde(cfg.Dir)
	if base == "" {
		base = "."
	}
	if cfg.Layout == "flat" {
		return &FlatLayout{Base: base}
	}
	return &SplitLayout{Base: base, DiagramDir: cfg.DiagramDir, NotationDir: cfg.NotationDir}
}

// GalleryPath places the gallery page at the root of the layout, next to the chart directories.
func GalleryPath(l Layout, file string) string {
	return filepath.Join(l.Root(), file)
}

// fileStem is the request's index, notation and palette, safe for a file name.
func fileStem(req model.ChartRequest) string {
	name := strings.ReplaceAll(req.Notation, "/", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("%03d_%s_%s", req.Index, name, req.Palette)
}

func diagramFile(req model.ChartRequest) string {
	return "chord_" + fileStem(req) + ".svg"
}

func notationFile(req model.ChartRequest) string {
	return "notation_" + fileStem(req) + ".svg"
}

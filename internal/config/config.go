package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"chordchart/internal/chord"
	"chordchart/internal/model"
	"chordchart/internal/render"
)

// Config holds all chordchart configuration.
type Config struct {
	// Palette used when a request names none
	Palette string `yaml:"palette"`

	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	Web     WebConfig     `yaml:"web"`
	Logging LoggingConfig `yaml:"logging"`
	Update  UpdateConfig  `yaml:"update"`

	// Extra palettes, merged over the built-in default and neon palettes
	Palettes map[string]render.Palette `yaml:"palettes,omitempty"`

	// Extra canonical shapes; aliases are generated for them as for built-ins
	Shapes map[string][]int `yaml:"shapes,omitempty"`

	// SQLite index of generated charts. Empty disables the index.
	DatabasePath string `yaml:"database_path"`
}

// OutputConfig configures batch file generation.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	DiagramDir  string `yaml:"diagram_dir"`
	NotationDir string `yaml:"notation_dir"`
	Layout      string `yaml:"layout"` // split, flat
	Notation    bool   `yaml:"notation"`
	Gallery     bool   `yaml:"gallery"`
	GalleryFile string `yaml:"gallery_file"`
	Workers     int    `yaml:"workers"`
}

// RenderConfig configures chart geometry and fonts.
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Frets  int `yaml:"frets"`

	// Font name -> TTF path, e.g. roboto, noto_music
	Fonts map[string]string `yaml:"fonts,omitempty"`
}

// WebConfig configures the gallery server.
type WebConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
	File        string `yaml:"file"` // used by the browser, which owns the terminal
}

// UpdateConfig names the GitHub repository checked by --update.
type UpdateConfig struct {
	Owner      string `yaml:"owner"`
	Repository string `yaml:"repository"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Palette: "default",
		Output: OutputConfig{
			Dir:         ".",
			DiagramDir:  "guitar_chord_diagrams",
			NotationDir: "musical_notation",
			Layout:      "split",
			Notation:    true,
			Gallery:     true,
			GalleryFile: "chord_chart_gallery.html",
			Workers:     4,
		},
		Render: RenderConfig{
			Width:  250,
			Height: 400,
			Frets:  12,
		},
		Web: WebConfig{
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Update: UpdateConfig{
			Owner:      "chordchart",
			Repository: "chordchart",
		},
	}
}

// Load reads a YAML config file over the defaults and applies env overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, cfg.Validate()
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets the environment win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHORDCHART_PALETTE"); v != "" {
		c.Palette = v
	}
	if v := os.Getenv("CHORDCHART_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CHORDCHART_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Web.Port = port
		}
	}
	if v := os.Getenv("CHORDCHART_DB"); v != "" {
		c.DatabasePath = v
	}
}

// Validate checks values that would otherwise fail deep inside a batch.
func (c *Config) Validate() error {
	switch c.Output.Layout {
	case "split", "flat":
	default:
		return fmt.Errorf("output.layout must be split or flat, got %q", c.Output.Layout)
	}
	if c.Output.Workers < 1 {
		return fmt.Errorf("output.workers must be at least 1, got %d", c.Output.Workers)
	}
	if c.Render.Frets < 1 || c.Render.Width < 60 || c.Render.Height < 200 {
		return fmt.Errorf("render geometry too small: %dx%d with %d frets", c.Render.Width, c.Render.Height, c.Render.Frets)
	}
	for name, frets := range c.Shapes {
		if len(frets) != chord.Strings {
			return fmt.Errorf("shape %q needs %d frets, got %d", name, chord.Strings, len(frets))
		}
		for _, f := range frets {
			if f < model.Muted || f > 11 {
				return fmt.Errorf("shape %q: fret %d out of range %d..11", name, f, model.Muted)
			}
		}
	}
	if _, err := c.PaletteSet(); err != nil {
		return err
	}
	return nil
}

// PaletteSet returns the built-in palettes merged with configured ones.
func (c *Config) PaletteSet() (render.Palettes, error) {
	return render.NewPalettes(c.Palettes)
}

// ShapeTable returns the built-in shapes merged with configured ones.
func (c *Config) ShapeTable() *chord.Table {
	extra := make(map[string]chord.Shape, len(c.Shapes))
	for name, frets := range c.Shapes {
		var s chord.Shape
		copy(s[:], frets)
		extra[name] = s
	}
	return chord.NewTable(extra)
}

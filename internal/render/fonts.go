package render

import (
	"encoding/base64"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"chordchart/internal/model"
)

// Font is a TrueType font embedded into charts as a data URI.
type Font struct {
	Name    string
	DataURI string
}

// FaceRule returns the @font-face CSS rule for the font.
func (f Font) FaceRule() string {
	return fmt.Sprintf("\n@font-face {\n  font-family: '%s';\n  src: url('%s');\n}\n", f.Name, f.DataURI)
}

// LoadFont reads a TTF file and encodes it.
func LoadFont(name, path string) (Font, error) {
	data, err := os.ReadFile(model.ExpandTilde(path))
	if err != nil {
		return Font{}, fmt.Errorf("load font %s: %w", name, err)
	}
	return Font{
		Name:    name,
		DataURI: "data:font/truetype;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// LoadFonts loads every configured font. Fonts that cannot be read are logged and
// skipped; charts then fall back to the viewer's default faces.
func LoadFonts(paths map[string]string, logger *zap.Logger) []Font {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	var fonts []Font
	for _, name := range names {
		if paths[name] == "" {
			continue
		}
		f, err := LoadFont(name, paths[name])
		if err != nil {
			logger.Warn("Skipping font", zap.String("font", name), zap.Error(err))
			continue
		}
		fonts = append(fonts, f)
	}
	return fonts
}

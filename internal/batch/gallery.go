package batch

import (
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"

	"chordchart/internal/model"
)

var galleryTmpl = template.Must(template.New("gallery").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Chord Chart Gallery</title>
  <style>
    body { font-family: Arial, sans-serif; max-width: 1200px; margin: 0 auto; padding: 20px; }
    h1, h2 { text-align: center; }
    .gallery { display: flex; flex-wrap: wrap; justify-content: center; gap: 20px; }
    .chord-set { text-align: center; margin-bottom: 20px; }
    .failed { color: #e53935; text-align: center; }
    img { max-width: 300px; height: auto; border: 1px solid #ddd; border-radius: 4px; }
  </style>
</head>
<body>
  <h1>Chord Chart Gallery</h1>
{{- range .}}
  <h2>{{.Notation}} ({{.Palette}})</h2>
  {{- if .Err}}
  <p class="failed">{{.Err}}</p>
  {{- else}}
  <div class="gallery">
    <div class="chord-set">
      <h3>Guitar Chord Diagram</h3>
      <img src="{{.Diagram}}" alt="{{.Notation}} guitar chord">
    </div>
    {{- if .NotationImg}}
    <div class="chord-set">
      <h3>Musical Notation</h3>
      <img src="{{.NotationImg}}" alt="{{.Notation}} musical notation">
    </div>
    {{- end}}
  </div>
  {{- end}}
{{- end}}
</body>
</html>
`))

type galleryEntry struct {
	Notation    string
	Palette     string
	Diagram     string
	NotationImg string
	Err         string
}

// WriteGallery writes an HTML page showing every chart of the batch. Image paths
// are written relative to the page and URL-escaped, since sharps appear in file names.
func WriteGallery(path string, result model.BatchResult) error {
	path = model.ExpandTilde(path)
	base := filepath.Dir(path)
	entries := make([]galleryEntry, 0, len(result.Results))
	for _, r := range result.Results {
		e := galleryEntry{Notation: r.Request.Notation, Palette: r.Request.Palette, Err: r.Err}
		e.Diagram = relativeTo(base, r.DiagramPath)
		e.NotationImg = relativeTo(base, r.NotationPath)
		entries = append(entries, e)
	}

	if err := os.MkdirAll(base, 0755); err != nil {
		return fmt.Errorf("failed to create gallery directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create gallery: %w", err)
	}
	defer f.Close()

	if err := galleryTmpl.Execute(f, entries); err != nil {
		return fmt.Errorf("failed to write gallery: %w", err)
	}
	return f.Close()
}

func relativeTo(base, p string) string {
	if p == "" {
		return ""
	}
	rel, err := filepath.Rel(base, p)
	if err != nil {
		rel = p
	}
	return (&url.URL{Path: filepath.ToSlash(rel)}).String()
}

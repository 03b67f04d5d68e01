package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"chordchart/internal/model"
)

// Parser reads chord list files: one chart per line, "<notation> [palette]".
// Blank lines and lines starting with # are ignored; a trailing "# ..." is a comment.
type Parser struct {
	source         string
	defaultPalette string
}

// NewParser creates a Parser. source is recorded on each request for line context.
func NewParser(source, defaultPalette string) *Parser {
	if defaultPalette == "" {
		defaultPalette = model.DefaultPalette
	}
	return &Parser{source: source, defaultPalette: defaultPalette}
}

// Parse reads the list and returns a channel of requests.
// It runs asynchronously; the error channel carries at most one read error.
func (p *Parser) Parse(r io.Reader) (chan model.ChartRequest, chan error) {
	reqs := make(chan model.ChartRequest)
	errs := make(chan error, 1) // Buffered to avoid blocking if receiver stops

	go func() {
		defer close(reqs)
		defer close(errs)

		scanner := bufio.NewScanner(r)
		lineNum := 0
		index := 0
		for scanner.Scan() {
			lineNum++
			req, ok := p.parseLine(scanner.Text())
			if !ok {
				continue
			}
			index++
			req.Index = index
			req.Line = lineNum
			req.Source = p.source
			reqs <- req
		}
		if err := scanner.Err(); err != nil {
			errs <- err
		}
	}()

	return reqs, errs
}

func (p *Parser) parseLine(line string) (model.ChartRequest, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return model.ChartRequest{}, false
	}

	fields := strings.Fields(line)
	for i, f := range fields {
		if strings.HasPrefix(f, "#") {
			fields = fields[:i]
			break
		}
	}

	req := model.ChartRequest{Notation: fields[0], Palette: p.defaultPalette}
	switch len(fields) {
	case 1:
	case 2:
		req.Palette = fields[1]
	default:
		// Keep the whole line so the resolver reports it instead of guessing.
		req.Notation = strings.Join(fields, " ")
	}
	return req, true
}

// ReadList parses a list file into requests.
func ReadList(path, defaultPalette string) ([]model.ChartRequest, error) {
	f, err := os.Open(model.ExpandTilde(path))
	if err != nil {
		return nil, fmt.Errorf("open chord list: %w", err)
	}
	defer f.Close()

	reqs, errs := NewParser(path, defaultPalette).Parse(f)
	var all []model.ChartRequest
	for req := range reqs {
		all = append(all, req)
	}
	if err := <-errs; err != nil {
		return all, fmt.Errorf("read chord list %s: %w", path, err)
	}
	return all, nil
}

// FromNotations turns command-line chords into requests.
func FromNotations(notations []string, palette string) []model.ChartRequest {
	if palette == "" {
		palette = model.DefaultPalette
	}
	reqs := make([]model.ChartRequest, len(notations))
	for i, n := range notations {
		reqs[i] = model.ChartRequest{Index: i + 1, Notation: n, Palette: palette}
	}
	return reqs
}

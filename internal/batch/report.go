package batch

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"chordchart/internal/chord"
	"chordchart/internal/model"
)

// MarkDuplicates flags requests repeating an earlier (notation, palette) pair.
func MarkDuplicates(results []model.ChartResult) {
	seen := make(map[string]int) // notation+palette -> index
	for i, r := range results {
		key := r.Request.Notation + "\x00" + r.Request.Palette
		if first, ok := seen[key]; ok {
			results[i].IsDuplicate = true
			results[i].DuplicateOf = first
		} else {
			seen[key] = i
		}
	}
}

// Analyze returns human readable findings about a finished batch.
func Analyze(results []model.ChartResult) []string {
	var diags []string

	byKind := make(map[string]int)
	extra := 0
	for _, r := range results {
		if r.Failed() {
			byKind[r.ErrKind]++
		}
		if r.Chord != nil && len(r.Chord.ExtraVoices(chord.Strings)) > 0 {
			extra++
		}
		if r.IsDuplicate {
			first := results[r.DuplicateOf].Request
			diags = append(diags, fmt.Sprintf(
				"%s (%s) at #%d repeats #%d; both files are written.",
				r.Request.Notation, r.Request.Palette, r.Request.Index, first.Index))
		}
	}

	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		diags = append(diags, fmt.Sprintf("%d chart(s) failed with %s.", byKind[k], k))
	}
	if extra > 0 {
		diags = append(diags, fmt.Sprintf("%d chart(s) carry extra voices beyond the sixth string.", extra))
	}
	return diags
}

// GenerateReport renders a batch result as text. Verbose adds every chart's frets and
// the list-file context of each failure.
func GenerateReport(result model.BatchResult, verbose bool) string {
	var b strings.Builder
	generated, skipped, failed := result.Counts()

	b.WriteString("Chord Chart Report\n")
	b.WriteString("==================\n")
	if result.RunID != "" {
		fmt.Fprintf(&b, "Run:       %s\n", result.RunID)
	}
	fmt.Fprintf(&b, "Charts:    %d\n", len(result.Results))
	fmt.Fprintf(&b, "Generated: %d\n", generated)
	fmt.Fprintf(&b, "Skipped:   %d (unchanged)\n", skipped)
	fmt.Fprintf(&b, "Failed:    %d\n", failed)
	if result.GalleryPath != "" {
		fmt.Fprintf(&b, "Gallery:   %s\n", result.GalleryPath)
	}

	if failed > 0 {
		b.WriteString("\nFailures\n--------\n")
		for _, r := range result.Results {
			if !r.Failed() {
				continue
			}
			fmt.Fprintf(&b, "%s #%03d %-12s %s\n", model.IconFailed, r.Request.Index, r.Request.Notation, r.Err)
			if verbose && r.Request.Source != "" && r.Request.Line > 0 {
				writeLineContext(&b, r.Request)
			}
		}
	}

	if len(result.Diagnostics) > 0 {
		b.WriteString("\nDiagnostics\n-----------\n")
		for _, d := range result.Diagnostics {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}

	if verbose {
		b.WriteString("\nCharts\n------\n")
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "\t#\tchord\tpalette\tbase\talt\tfrets\tbass\tfile")
		for _, r := range result.Results {
			if r.Chord == nil {
				continue
			}
			fmt.Fprintf(tw, "%s\t%03d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				statusIcon(r), r.Request.Index, r.Request.Notation, r.Request.Palette,
				r.Chord.BaseQuality, r.Chord.Alteration, FormatFrets(r.Chord.Frets),
				r.Chord.Bass, r.DiagramPath)
		}
		tw.Flush()
	}

	return b.String()
}

func writeLineContext(b *strings.Builder, req model.ChartRequest) {
	ctx := model.GetLineContext(req.Source, req.Line)
	if ctx.ErrorMsg != "" {
		fmt.Fprintf(b, "      (%s)\n", ctx.ErrorMsg)
		return
	}
	if ctx.HasBefore {
		fmt.Fprintf(b, "      %4d | %s\n", ctx.LineNumber-1, ctx.Before)
	}
	fmt.Fprintf(b, "    > %4d | %s\n", ctx.LineNumber, ctx.Target)
	if ctx.HasAfter {
		fmt.Fprintf(b, "      %4d | %s\n", ctx.LineNumber+1, ctx.After)
	}
}

func statusIcon(r model.ChartResult) string {
	switch {
	case r.Failed():
		return model.IconFailed
	case r.IsDuplicate:
		return model.IconDuplicate
	case r.Skipped:
		return model.IconSkipped
	default:
		return model.IconOK
	}
}

// FormatFrets prints frets space separated, with muted strings as x.
func FormatFrets(frets []int) string {
	parts := make([]string, len(frets))
	for i, f := range frets {
		if f < 0 {
			parts[i] = "x"
		} else {
			parts[i] = fmt.Sprint(f)
		}
	}
	return strings.Join(parts, " ")
}

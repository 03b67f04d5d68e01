package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chordchart/internal/batch"
	"chordchart/internal/chord"
	"chordchart/internal/config"
	"chordchart/internal/logging"
	"chordchart/internal/model"
	"chordchart/internal/render"
	"chordchart/internal/store"
	"chordchart/internal/tui"
	"chordchart/internal/watch"
	"chordchart/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"go.uber.org/zap"
)

const defaultConfigPath = "chordchart.yaml"

func checkUpdate(currentVer string, cfg config.UpdateConfig) {
	githubTag := &latest.GithubTag{
		Owner:      cfg.Owner,
		Repository: cfg.Repository,
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Printf("👉 Download it from https://github.com/%s/%s/releases\n", cfg.Owner, cfg.Repository)
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: chordchart [options] [chord ...]\n\n")
		fmt.Fprintf(os.Stderr, "chordchart turns chord symbols into guitar fretboard diagrams and staff\n")
		fmt.Fprintf(os.Stderr, "notation (SVG). Without chords or --list it charts a built-in example set.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  chordchart                      # Chart the example set\n")
		fmt.Fprintf(os.Stderr, "  chordchart Cmaj7 Am/F# Bbm6/9   # Chart the given chords\n")
		fmt.Fprintf(os.Stderr, "  chordchart -l set.txt -r        # Chart a list file and print a report\n")
		fmt.Fprintf(os.Stderr, "  chordchart -l set.txt --watch   # Rebuild whenever set.txt changes\n")
		fmt.Fprintf(os.Stderr, "  chordchart --json G7 Xm         # Resolve only, print JSON\n")
		fmt.Fprintf(os.Stderr, "  chordchart --tui                # Browse chords in the terminal\n")
	}

	jsonFlag := pflag.BoolP("json", "j", false, "Resolve chords and print the descriptors as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print a detailed run report after generating")
	outputFlag := pflag.StringP("output", "o", "", "Save the report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Per-chart details in the report and debug logging")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode on http://localhost:<port>")
	tuiFlag := pflag.BoolP("tui", "t", false, "Browse chords in the terminal")
	watchFlag := pflag.Bool("watch", false, "Regenerate whenever the --list file changes")
	listFlag := pflag.StringP("list", "l", "", "Chord list file, one '<chord> [palette]' per line")
	outFlag := pflag.String("out", "", "Output base directory")
	paletteFlag := pflag.StringP("palette", "p", "", "Default palette (default, neon or a configured one)")
	notationFlag := pflag.Bool("notation", true, "Also render staff notation")
	galleryFlag := pflag.Bool("gallery", true, "Write the HTML gallery")
	layoutFlag := pflag.String("layout", "", "Output layout: split or flat")
	workersFlag := pflag.Int("workers", 0, "Charts rendered in parallel")
	dbFlag := pflag.String("db", "", "SQLite chart index; unchanged charts are skipped")
	forceFlag := pflag.BoolP("force", "f", false, "Regenerate charts the index reports as unchanged")
	configFlag := pflag.StringP("config", "c", defaultConfigPath, "Config file (YAML)")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("chordchart version %s\n", model.Version)
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *updateFlag {
		checkUpdate(model.Version, cfg.Update)
		return
	}

	if *paletteFlag != "" {
		cfg.Palette = *paletteFlag
	}
	if *outFlag != "" {
		cfg.Output.Dir = *outFlag
	}
	if *layoutFlag != "" {
		cfg.Output.Layout = *layoutFlag
	}
	if *workersFlag > 0 {
		cfg.Output.Workers = *workersFlag
	}
	if *dbFlag != "" {
		cfg.DatabasePath = *dbFlag
	}
	if pflag.Lookup("notation").Changed {
		cfg.Output.Notation = *notationFlag
	}
	if pflag.Lookup("gallery").Changed {
		cfg.Output.Gallery = *galleryFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	resolver := chord.NewResolver(cfg.ShapeTable())

	if *jsonFlag {
		runJsonMode(resolver, pflag.Args(), *listFlag, cfg.Palette)
		return
	}

	if *tuiFlag {
		runTuiMode(cfg, resolver, pflag.Args(), *listFlag, *verboseFlag)
		return
	}

	logger, err := logging.New(cfg.Logging, *verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(cfg, resolver, *forceFlag, logger)
	if err != nil {
		logger.Error("Startup failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.close()

	if *webFlag {
		srv := &web.Server{
			Resolver: resolver,
			Palettes: app.executor.Palettes,
			Diagram:  app.executor.Diagram,
			Notation: app.executor.Notation,
			Store:    app.executor.Store,
			ListPath: *listFlag,
			Logger:   logger,
		}
		if err := srv.StartServer(ctx, cfg.Web.Port); err != nil {
			logger.Error("Web server failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if *watchFlag {
		if *listFlag == "" {
			fmt.Fprintln(os.Stderr, "Error: --watch needs --list")
			os.Exit(1)
		}
		runWatchMode(ctx, app, *listFlag, cfg.Palette, *reportFlag, *verboseFlag)
		return
	}

	reqs, err := requests(pflag.Args(), *listFlag, cfg.Palette)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	result, err := app.executor.Run(ctx, reqs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *reportFlag {
		writeReport(result, *outputFlag, *verboseFlag)
		return
	}
	printSummary(result)
}

// app bundles the long-lived pieces shared by batch, watch and web modes.
type app struct {
	executor *batch.Executor
	store    *store.Store
}

func newApp(cfg *config.Config, resolver *chord.Resolver, force bool, logger *zap.Logger) (*app, error) {
	palettes, err := cfg.PaletteSet()
	if err != nil {
		return nil, err
	}
	if _, err := palettes.Lookup(cfg.Palette); err != nil {
		return nil, err
	}

	fonts := render.LoadFonts(cfg.Render.Fonts, logger)
	diagram := render.NewDiagram(fonts)
	diagram.Width = cfg.Render.Width
	diagram.Height = cfg.Render.Height
	diagram.Frets = cfg.Render.Frets

	a := &app{
		executor: &batch.Executor{
			Resolver: resolver,
			Palettes: palettes,
			Diagram:  diagram,
			Layout:   batch.DetectLayout(cfg.Output),
			Workers:  cfg.Output.Workers,
			Force:    force,
			Logger:   logger,
		},
	}
	if cfg.Output.Notation {
		a.executor.Notation = render.NewNotation(fonts)
	}
	if cfg.Output.Gallery {
		a.executor.GalleryPath = batch.GalleryPath(a.executor.Layout, cfg.Output.GalleryFile)
	}
	if cfg.DatabasePath != "" {
		st, err := store.Open(model.ExpandTilde(cfg.DatabasePath))
		if err != nil {
			return nil, err
		}
		a.store = st
		a.executor.Store = st
	}
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// requests picks the chords to chart: the list file, then positional args, then the examples.
func requests(args []string, listPath, palette string) ([]model.ChartRequest, error) {
	if listPath != "" {
		return batch.ReadList(listPath, palette)
	}
	if len(args) > 0 {
		return batch.FromNotations(args, palette), nil
	}
	return model.ExampleRequests(palette), nil
}

func printSummary(result model.BatchResult) {
	generated, skipped, failed := result.Counts()
	fmt.Printf("Generated %d chart(s), skipped %d unchanged, %d failed.\n", generated, skipped, failed)
	for _, r := range result.Results {
		if r.Failed() {
			fmt.Printf("  %s %s: %s\n", model.IconFailed, r.Request.Notation, r.Err)
		}
	}
	if result.GalleryPath != "" {
		fmt.Printf("Gallery: %s\n", result.GalleryPath)
	}
}

func writeReport(result model.BatchResult, outputFile string, verbose bool) {
	report := batch.GenerateReport(result, verbose)

	if outputFile != "" {
		err := os.WriteFile(outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
	} else {
		fmt.Println(report)
	}
}

func runWatchMode(ctx context.Context, a *app, listPath, palette string, report, verbose bool) {
	logger := a.executor.Logger
	rebuild := func(ctx context.Context) error {
		reqs, err := batch.ReadList(listPath, palette)
		if err != nil {
			return err
		}
		result, err := a.executor.Run(ctx, reqs)
		if err != nil {
			return err
		}
		if report {
			fmt.Println(batch.GenerateReport(result, verbose))
		} else {
			printSummary(result)
		}
		return nil
	}

	if err := rebuild(ctx); err != nil {
		logger.Error("Initial build failed", zap.Error(err))
	}

	w, err := watch.New(listPath, 300*time.Millisecond, rebuild, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := w.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Watching %s (Ctrl+C to stop)\n", listPath)
	<-ctx.Done()
	w.Stop()
}

type jsonEntry struct {
	Notation string       `json:"notation"`
	Chord    *model.Chord `json:"chord,omitempty"`
	Error    string       `json:"error,omitempty"`
	Kind     string       `json:"kind,omitempty"`
}

func runJsonMode(resolver *chord.Resolver, args []string, listPath, palette string) {
	reqs, err := requests(args, listPath, palette)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	entries := make([]jsonEntry, 0, len(reqs))
	for _, req := range reqs {
		e := jsonEntry{Notation: req.Notation}
		c, err := resolver.Resolve(req.Notation)
		if err != nil {
			e.Error = err.Error()
			e.Kind = chord.Kind(err)
		} else {
			e.Chord = &c
		}
		entries = append(entries, e)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(entries)
}

func runTuiMode(cfg *config.Config, resolver *chord.Resolver, args []string, listPath string, verbose bool) {
	logger, err := logging.NewForTerminalUI(cfg.Logging, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	palettes, err := cfg.PaletteSet()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	notations := args
	if listPath == "" && len(notations) == 0 {
		notations = model.ExampleChords
	}
	logger.Info("Starting chord browser", zap.String("list", listPath), zap.Int("chords", len(notations)))

	m := tui.InitialModel(resolver, palettes, cfg.Palette, listPath, notations)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

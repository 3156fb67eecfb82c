package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/grepdoc/internal/config"
	"github.com/standardbeagle/grepdoc/internal/debug"
	"github.com/standardbeagle/grepdoc/internal/display"
	"github.com/standardbeagle/grepdoc/internal/export"
	"github.com/standardbeagle/grepdoc/internal/ingest"
	"github.com/standardbeagle/grepdoc/internal/pipeline"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
	"github.com/standardbeagle/grepdoc/internal/watch"
)

// job is one resolved export: where to read, how to render, where to write.
type job struct {
	cfg    *config.Config
	input  string // "" or "-" reads stdin
	output string // "" writes to the app writer
	format export.Format
	opts   export.Options
	info   searchtypes.SearchInfo
}

func exportCommand(c *cli.Context) error {
	j, err := newJob(c)
	if err != nil {
		return err
	}

	format, err := resolveFormat(c, j.cfg)
	if err != nil {
		return err
	}
	j.format = format

	if err := j.run(c.Context, c.App.Reader, c.App.Writer); err != nil {
		return err
	}

	if !c.Bool("watch") {
		return nil
	}
	return j.watch(c)
}

func showCommand(c *cli.Context) error {
	j, err := newJob(c)
	if err != nil {
		return err
	}
	j.format = export.FormatPrint
	return j.run(c.Context, c.App.Reader, c.App.Writer)
}

func newJob(c *cli.Context) (*job, error) {
	if c.NArg() > 1 {
		return nil, fmt.Errorf("expected at most one input file, got %d", c.NArg())
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, err
	}

	tmpl, err := cfg.HTMLTemplateContent()
	if err != nil {
		return nil, err
	}

	return &job{
		cfg:    cfg,
		input:  c.Args().First(),
		output: c.String("output"),
		opts: export.Options{
			Title:        cfg.Export.Title,
			HTMLTemplate: tmpl,
		},
		info: searchInfo(c, cfg),
	}, nil
}

// resolveFormat prefers --format, then the --output extension, then config.
func resolveFormat(c *cli.Context, cfg *config.Config) (export.Format, error) {
	if name := c.String("format"); name != "" {
		return export.ParseFormat(name)
	}
	if out := c.String("output"); out != "" {
		if f, err := export.FormatForPath(out); err == nil {
			return f, nil
		}
	}
	return export.ParseFormat(cfg.Export.Format)
}

func searchInfo(c *cli.Context, cfg *config.Config) searchtypes.SearchInfo {
	return searchtypes.SearchInfo{
		SearchPaths:       []string{cfg.Project.Root},
		FileFilter:        strings.Join(cfg.Include, ";"),
		SearchText:        c.String("search-text"),
		UseRegex:          c.Bool("regex"),
		CaseSensitive:     c.Bool("case-sensitive"),
		WholeWord:         c.Bool("whole-word"),
		Negation:          c.Bool("invert"),
		LineNumbers:       cfg.Render.LineNumbers,
		RemoveWhitespace:  cfg.Render.TrimWhitespace,
		ContextBefore:     cfg.Context.Before,
		ContextAfter:      cfg.Context.After,
		WindowRadius:      cfg.Window.Radius,
		LongLineThreshold: cfg.Window.LongLineThreshold,
		Exclusions:        cfg.Exclude,
	}
}

func (j *job) readInput(stdin io.Reader) ([]searchtypes.FileResult, error) {
	opts := ingest.Options{
		WindowRadius:      j.cfg.Window.Radius,
		LongLineThreshold: j.cfg.Window.LongLineThreshold,
	}
	if j.input == "" || j.input == "-" {
		opts.Source = "<stdin>"
		return ingest.ReadRipgrepJSON(stdin, opts)
	}
	return ingest.ReadRipgrepJSONFile(j.input, opts)
}

func (j *job) run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	start := time.Now()

	files, err := j.readInput(stdin)
	if err != nil {
		return err
	}

	sections, err := pipeline.Prepare(ctx, files, pipeline.Options{
		Root:    j.cfg.Project.Root,
		Include: j.cfg.Include,
		Exclude: j.cfg.Exclude,
		Before:  j.cfg.Context.Before,
		After:   j.cfg.Context.After,
		Workers: j.cfg.Performance.Workers,
	})
	if err != nil {
		return err
	}

	doc := display.BuildDocument(sections, j.info.RenderOptions())

	if j.output == "" {
		err = export.Export(stdout, j.format, doc, j.info, j.opts)
	} else {
		err = export.ExportFile(j.output, j.format, doc, j.info, j.opts)
	}
	if err != nil {
		return err
	}

	debug.Printf("exported %d files, %d hits as %s in %v\n",
		len(doc.Sections), doc.TotalHits(), j.format, time.Since(start))
	return nil
}

// watch re-runs the export on every settled change of the input file until
// interrupted.
func (j *job) watch(c *cli.Context) error {
	if j.input == "" || j.input == "-" {
		return fmt.Errorf("--watch needs an input file, not stdin")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	debounce := time.Duration(j.cfg.Watch.DebounceMs) * time.Millisecond
	w, err := watch.New(j.input, debounce, func(string) {
		if err := j.run(ctx, c.App.Reader, c.App.Writer); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "Export failed: %v\n", err)
			return
		}
		if j.output != "" {
			fmt.Fprintf(c.App.ErrWriter, "Updated %s\n", j.output)
		}
	})
	if err != nil {
		return err
	}
	w.SetErrorHandler(func(err error) {
		fmt.Fprintf(c.App.ErrWriter, "Watch error: %v\n", err)
	})
	if err := w.Start(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "Watching %s (Ctrl+C to stop)\n", j.input)

	<-ctx.Done()
	err = w.Stop()

	stats := w.Stats()
	debug.LogWatch("%s: %d events, %d exports, %d errors, last at %v\n",
		j.input, stats.EventsSeen, stats.Triggers, stats.ErrorCount, stats.LastTrigger.Format(time.RFC3339))
	return err
}

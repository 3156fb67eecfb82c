// Package pipeline turns raw search results into display-ready file
// sections: glob filtering, context selection and windowing.
package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/grepdoc/internal/debug"
	gderrors "github.com/standardbeagle/grepdoc/internal/errors"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
	"github.com/standardbeagle/grepdoc/internal/selector"
	"github.com/standardbeagle/grepdoc/internal/window"
	"github.com/standardbeagle/grepdoc/pkg/pathutil"
)

// Options configure Prepare.
type Options struct {
	// Root makes reported paths relative for glob matching and display.
	// Empty keeps paths as reported.
	Root    string
	Include []string
	Exclude []string

	Before int
	After  int

	// Workers bounds concurrent file preparation; <= 0 uses GOMAXPROCS.
	Workers int
}

// ValidatePatterns reports every malformed include or exclude glob.
func (o Options) ValidatePatterns() error {
	var errs []error
	for _, p := range o.Include {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, gderrors.NewConfigError("include", p, fmt.Errorf("invalid glob pattern")))
		}
	}
	for _, p := range o.Exclude {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, gderrors.NewConfigError("exclude", p, fmt.Errorf("invalid glob pattern")))
		}
	}
	return gderrors.NewMultiError(errs).ErrorOrNil()
}

// Filter returns the files whose relative path passes the include and
// exclude globs, in input order.
func Filter(files []searchtypes.FileResult, opts Options) []searchtypes.FileResult {
	out := make([]searchtypes.FileResult, 0, len(files))
	for _, f := range files {
		rel := pathutil.MatchPath(f.Path, opts.Root)
		if !matchAny(opts.Include, rel, true) {
			debug.LogPipeline("not included: %s\n", rel)
			continue
		}
		if matchAny(opts.Exclude, rel, false) {
			debug.LogPipeline("excluded: %s\n", rel)
			continue
		}
		out = append(out, f)
	}
	return out
}

// matchAny reports whether path matches one of patterns; an empty pattern
// list yields whenEmpty.
func matchAny(patterns []string, path string, whenEmpty bool) bool {
	if len(patterns) == 0 {
		return whenEmpty
	}
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			// bad pattern shouldn't break the run
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Prepare filters files and builds one FileSection per remaining file.
// Sections come back in input order. Each section owns its lines, so
// callers may build documents from them concurrently.
func Prepare(ctx context.Context, files []searchtypes.FileResult, opts Options) ([]searchtypes.FileSection, error) {
	if err := opts.ValidatePatterns(); err != nil {
		return nil, err
	}

	kept := Filter(files, opts)
	if opts.Root != "" {
		kept = pathutil.ToRelativeFileResults(kept, opts.Root)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sections := make([]searchtypes.FileSection, len(kept))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range kept {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sections[i] = prepareFile(kept[i], opts.Before, opts.After)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	debug.LogPipeline("prepared %d of %d files with %d workers\n", len(sections), len(files), workers)
	return sections, nil
}

func prepareFile(file searchtypes.FileResult, before, after int) searchtypes.FileSection {
	selected := selector.Select(file, before, after)
	debug.LogPipeline("%s: %d result lines, %d shown\n", file.Path, file.SelectedLines(), len(selected))

	lines := make([]searchtypes.DisplayLine, 0, len(selected))
	for _, l := range selected {
		lines = append(lines, window.NewLine(l).Display())
	}

	return searchtypes.FileSection{
		Path:     file.Path,
		HitCount: file.HitCount,
		Lines:    lines,
	}
}

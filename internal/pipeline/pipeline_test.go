package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/grepdoc/internal/display"
	gderrors "github.com/standardbeagle/grepdoc/internal/errors"
	"github.com/standardbeagle/grepdoc/internal/ingest"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
	"github.com/standardbeagle/grepdoc/internal/window"
)

// TestMain verifies the worker group never leaves goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func file(path string, lines ...searchtypes.LineResult) searchtypes.FileResult {
	f := searchtypes.FileResult{Path: path, Lines: lines}
	for _, l := range lines {
		f.HitCount += len(l.Matches)
	}
	return f
}

func hitLine(n int, text string, start, length int) searchtypes.LineResult {
	return searchtypes.LineResult{
		OriginalText: text,
		LineNumber:   n,
		HasMatch:     true,
		Matches:      []searchtypes.MatchRecord{{Start: start, Length: length}},
	}
}

func ctxLine(n int, text string) searchtypes.LineResult {
	return searchtypes.LineResult{OriginalText: text, LineNumber: n}
}

func paths(sections []searchtypes.FileSection) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Path)
	}
	return out
}

func TestFilter(t *testing.T) {
	files := []searchtypes.FileResult{
		{Path: "/repo/src/main.go"},
		{Path: "/repo/src/main_test.go"},
		{Path: "/repo/vendor/lib/x.go"},
		{Path: "/repo/README.md"},
	}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{"no patterns", nil, nil, []string{"/repo/src/main.go", "/repo/src/main_test.go", "/repo/vendor/lib/x.go", "/repo/README.md"}},
		{"include go", []string{"**/*.go"}, nil, []string{"/repo/src/main.go", "/repo/src/main_test.go", "/repo/vendor/lib/x.go"}},
		{"exclude vendor", nil, []string{"vendor/**"}, []string{"/repo/src/main.go", "/repo/src/main_test.go", "/repo/README.md"}},
		{"include and exclude", []string{"**/*.go"}, []string{"**/*_test.go", "vendor/**"}, []string{"/repo/src/main.go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(files, Options{Root: "/repo", Include: tt.include, Exclude: tt.exclude})
			var gotPaths []string
			for _, f := range got {
				gotPaths = append(gotPaths, f.Path)
			}
			assert.Equal(t, tt.want, gotPaths)
		})
	}
}

func TestValidatePatterns(t *testing.T) {
	assert.NoError(t, Options{Include: []string{"**/*.go"}, Exclude: []string{"a/{b,c}/*"}}.ValidatePatterns())

	err := Options{Exclude: []string{"src/[unterminated"}}.ValidatePatterns()
	require.Error(t, err)
	var cfgErr *gderrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "exclude", cfgErr.Field)

	_, err = Prepare(context.Background(), nil, Options{Include: []string{"["}})
	assert.Error(t, err)
}

func TestValidatePatterns_ReportsEveryBadGlob(t *testing.T) {
	err := Options{
		Include: []string{"[a", "**/*.go"},
		Exclude: []string{"d/[x", "vendor/**", "c["},
	}.ValidatePatterns()
	require.Error(t, err)

	var multi *gderrors.MultiError
	require.True(t, errors.As(err, &multi))
	require.Len(t, multi.Errors, 3)

	var fields, values []string
	for _, e := range multi.Errors {
		var cfgErr *gderrors.ConfigError
		require.True(t, errors.As(e, &cfgErr))
		fields = append(fields, cfgErr.Field)
		values = append(values, cfgErr.Value)
	}
	assert.Equal(t, []string{"include", "exclude", "exclude"}, fields)
	assert.Equal(t, []string{"[a", "d/[x", "c["}, values)
}

func TestPrepare_RipgrepWithoutLineNumbers(t *testing.T) {
	// rg --json --no-line-number -B1
	stream := `{"type":"context","data":{"path":{"text":"a.go"},"lines":{"text":"before\n"},"line_number":null,"submatches":[]}}
{"type":"match","data":{"path":{"text":"a.go"},"lines":{"text":"x hit\n"},"line_number":null,"submatches":[{"match":{"text":"hit"},"start":2,"end":5}]}}
`
	files, err := ingest.ReadRipgrepJSON(strings.NewReader(stream), ingest.Options{})
	require.NoError(t, err)

	sections, err := Prepare(context.Background(), files, Options{Before: 1})
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, 1, sections[0].HitCount)
	require.Len(t, sections[0].Lines, 2)
	assert.Equal(t, "before", sections[0].Lines[0].Text)
	assert.Equal(t, "x hit", sections[0].Lines[1].Text)
	assert.Equal(t, []searchtypes.MatchRecord{{Start: 2, Length: 3}}, sections[0].Lines[1].Matches)

	doc := display.BuildDocument(sections, searchtypes.RenderOptions{ShowLineNumbers: true})
	assert.Equal(t, "----\na.go\n----\nbefore\nx hit\n\n", doc.Text)
}

func TestPrepare_InvertedMatches(t *testing.T) {
	// rg --json --invert-match -A1
	stream := `{"type":"match","data":{"path":{"text":"a.go"},"lines":{"text":"one\n"},"line_number":1,"submatches":[]}}
{"type":"match","data":{"path":{"text":"a.go"},"lines":{"text":"three\n"},"line_number":3,"submatches":[]}}
`
	files, err := ingest.ReadRipgrepJSON(strings.NewReader(stream), ingest.Options{})
	require.NoError(t, err)

	sections, err := Prepare(context.Background(), files, Options{})
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, 2, sections[0].HitCount)
	require.Len(t, sections[0].Lines, 2)
	assert.Equal(t, "one", sections[0].Lines[0].Text)
	assert.Equal(t, "three", sections[0].Lines[1].Text)

	doc := display.BuildDocument(sections, searchtypes.RenderOptions{ShowLineNumbers: true})
	assert.Equal(t, "----\na.go\n----\n1: one\n3: three\n\n", doc.Text)
	assert.Empty(t, doc.Highlights)
}

func TestPrepare(t *testing.T) {
	files := []searchtypes.FileResult{
		file("/repo/a.go",
			ctxLine(1, "package a"),
			ctxLine(2, ""),
			hitLine(3, "func Foo() {}", 5, 3),
			ctxLine(4, ""),
			ctxLine(5, "var x = 1"),
			ctxLine(6, "var y = 2"),
			hitLine(7, "// Foo again", 3, 3),
		),
		file("/repo/b.go", hitLine(10, "Foo", 0, 3)),
	}

	sections, err := Prepare(context.Background(), files, Options{Root: "/repo", Before: 1, After: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"a.go", "b.go"}, paths(sections))

	a := sections[0]
	assert.Equal(t, 2, a.HitCount)
	var numbers []int
	for _, l := range a.Lines {
		numbers = append(numbers, l.LineNumber)
	}
	assert.Equal(t, []int{2, 3, 4, -1, 6, 7}, numbers)
	assert.Equal(t, "func Foo() {}", a.Lines[1].Text)
	assert.Equal(t, []searchtypes.MatchRecord{{Start: 5, Length: 3}}, a.Lines[1].Matches)

	assert.Equal(t, "/repo/a.go", files[0].Path, "input not modified")
}

func TestPrepare_WindowsLongLines(t *testing.T) {
	text := "0123456789" + strings.Repeat("x", 40) + "NEEDLE" + strings.Repeat("y", 40)
	line := hitLine(1, text, 50, 6)
	line.WindowRadius = 4
	line.LongLineThreshold = 20

	sections, err := Prepare(context.Background(), []searchtypes.FileResult{file("long.min.js", line)}, Options{})
	require.NoError(t, err)
	require.Len(t, sections[0].Lines, 1)

	got := sections[0].Lines[0]
	assert.Equal(t, window.Window(line), got)
	assert.Equal(t, "...xxxxNEEDLEyyyy...", got.Text)
	assert.Equal(t, []searchtypes.MatchRecord{{Start: 7, Length: 6}}, got.Matches)
}

func TestPrepare_PreservesOrderWithManyWorkers(t *testing.T) {
	var files []searchtypes.FileResult
	for i := 0; i < 200; i++ {
		files = append(files, file(fmt.Sprintf("f%03d.go", i), hitLine(1, "hit", 0, 3)))
	}

	sections, err := Prepare(context.Background(), files, Options{Workers: 8})
	require.NoError(t, err)
	require.Len(t, sections, 200)
	for i, s := range sections {
		assert.Equal(t, fmt.Sprintf("f%03d.go", i), s.Path)
	}
}

func TestPrepare_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []searchtypes.FileResult{file("a.go", hitLine(1, "hit", 0, 3))}
	_, err := Prepare(ctx, files, Options{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrepare_Empty(t *testing.T) {
	sections, err := Prepare(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, sections)
}

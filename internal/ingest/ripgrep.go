// Package ingest converts search engine output into FileResults.
//
// The only supported producer is ripgrep's JSON Lines stream (rg --json),
// which carries per-line text, line numbers and byte offsets of every
// submatch, plus the context lines requested with -A/-B/-C.
package ingest

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/standardbeagle/grepdoc/internal/debug"
	gderrors "github.com/standardbeagle/grepdoc/internal/errors"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// maxRecordSize bounds a single JSON record; minified sources produce very
// long lines.
const maxRecordSize = 64 * 1024 * 1024

// Options control how raw lines are turned into LineResults.
type Options struct {
	Source            string // name used in error messages
	WindowRadius      int
	LongLineThreshold int
}

// rgText is ripgrep's arbitrary-data encoding: text when valid UTF-8,
// base64 bytes otherwise.
type rgText struct {
	Text  *string `json:"text"`
	Bytes *string `json:"bytes"`
}

func (t rgText) decode() (string, error) {
	if t.Text != nil {
		return *t.Text, nil
	}
	if t.Bytes != nil {
		raw, err := base64.StdEncoding.DecodeString(*t.Bytes)
		if err != nil {
			return "", fmt.Errorf("invalid base64 data: %w", err)
		}
		return string(raw), nil
	}
	return "", nil
}

type rgSubmatch struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type rgData struct {
	Path       rgText       `json:"path"`
	Lines      rgText       `json:"lines"`
	LineNumber *int         `json:"line_number"`
	Submatches []rgSubmatch `json:"submatches"`
}

type rgMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ReadRipgrepJSON parses an rg --json stream. Files are returned in the
// order ripgrep reported them.
func ReadRipgrepJSON(r io.Reader, opts Options) ([]searchtypes.FileResult, error) {
	if opts.Source == "" {
		opts.Source = "<input>"
	}

	p := &parser{opts: opts, index: map[string]int{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	for scanner.Scan() {
		p.record++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		if err := p.handle([]byte(raw)); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, gderrors.NewInputError(opts.Source, p.record+1, err)
	}

	debug.LogIngest("%s: %d records, %d files\n", opts.Source, p.record, len(p.files))
	return p.files, nil
}

// ReadRipgrepJSONFile opens path and parses it.
func ReadRipgrepJSONFile(path string, opts Options) ([]searchtypes.FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gderrors.NewFileError("open", path, err)
	}
	defer f.Close()

	if opts.Source == "" {
		opts.Source = path
	}
	return ReadRipgrepJSON(f, opts)
}

type parser struct {
	opts   Options
	record int
	files  []searchtypes.FileResult
	index  map[string]int
}

func (p *parser) fail(path string, err error) error {
	e := gderrors.NewInputError(p.opts.Source, p.record, err)
	if path != "" {
		e = e.WithFile(path)
	}
	return e
}

func (p *parser) file(path string) *searchtypes.FileResult {
	i, ok := p.index[path]
	if !ok {
		i = len(p.files)
		p.index[path] = i
		p.files = append(p.files, searchtypes.FileResult{Path: path})
	}
	return &p.files[i]
}

func (p *parser) handle(raw []byte) error {
	var msg rgMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return p.fail("", err)
	}

	switch msg.Type {
	case "begin", "match", "context":
	case "end", "summary":
		return nil
	default:
		debug.LogIngest("skipping unknown record type %q at %d\n", msg.Type, p.record)
		return nil
	}

	var data rgData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return p.fail("", err)
	}
	path, err := data.Path.decode()
	if err != nil {
		return p.fail("", err)
	}
	if path == "" {
		return p.fail("", fmt.Errorf("%s record without path", msg.Type))
	}

	file := p.file(path)
	if msg.Type == "begin" {
		return nil
	}

	line, err := p.lineResult(msg.Type == "match", data)
	if err != nil {
		return p.fail(path, err)
	}
	file.Lines = append(file.Lines, line)
	switch {
	case len(line.Matches) > 0:
		file.HitCount += len(line.Matches)
	case line.IsHit:
		// inverted searches select whole lines
		file.HitCount++
	}
	return nil
}

func (p *parser) lineResult(isMatch bool, data rgData) (searchtypes.LineResult, error) {
	text, err := data.Lines.decode()
	if err != nil {
		return searchtypes.LineResult{}, err
	}
	text = trimLineEnding(text)

	line := searchtypes.LineResult{
		OriginalText:      text,
		LineNumber:        searchtypes.NoLineNumber,
		HasMatch:          isMatch && len(data.Submatches) > 0,
		IsHit:             isMatch,
		WindowRadius:      p.opts.WindowRadius,
		LongLineThreshold: p.opts.LongLineThreshold,
	}
	if data.LineNumber != nil {
		line.LineNumber = *data.LineNumber
	}

	if !isMatch {
		return line, nil
	}

	line.Matches = make([]searchtypes.MatchRecord, 0, len(data.Submatches))
	for _, sm := range data.Submatches {
		if sm.Start < 0 || sm.End < sm.Start || sm.Start > len(text) {
			return line, fmt.Errorf("line %d: submatch [%d,%d) outside line of %d bytes",
				line.LineNumber, sm.Start, sm.End, len(text))
		}
		end := min(sm.End, len(text)) // a submatch may cover the stripped line ending
		start := utf8.RuneCountInString(text[:sm.Start])
		line.Matches = append(line.Matches, searchtypes.MatchRecord{
			Start:  start,
			Length: utf8.RuneCountInString(text[sm.Start:end]),
		})
	}
	if len(line.Matches) > 0 {
		line.ColumnNumber = line.Matches[0].Start + 1
	}

	if err := line.ValidateMatches(); err != nil {
		return line, fmt.Errorf("line %d: %w", line.LineNumber, err)
	}
	return line, nil
}

func trimLineEnding(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}

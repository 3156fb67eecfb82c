package searchtypes

import (
	"fmt"
	"unicode/utf8"
)

// NoLineNumber marks a placeholder or separator line that has no source line.
const NoLineNumber = -1

// MatchRecord locates one matched substring. Start is a rune offset into the
// text that currently owns the record: the original line before windowing,
// the display text afterwards.
type MatchRecord struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the exclusive end offset of the match.
func (m MatchRecord) End() int {
	return m.Start + m.Length
}

// LineResult is one physical or context line as produced by the search
// engine. It is treated as immutable input; windowing returns new values.
//
// LineNumber is NoLineNumber when the engine did not report one.
// HasMatch means the line carries match ranges to highlight; IsHit means
// the engine selected the line, which inverted searches do without ranges.
type LineResult struct {
	OriginalText      string        `json:"text"`
	LineNumber        int           `json:"line"`
	ColumnNumber      int           `json:"column"`
	HasMatch          bool          `json:"has_match"`
	IsHit             bool          `json:"is_hit"`
	Matches           []MatchRecord `json:"matches,omitempty"`
	WindowRadius      int           `json:"-"`
	LongLineThreshold int           `json:"-"`
}

// Selected reports whether the line is a result rather than context.
func (l LineResult) Selected() bool {
	return l.IsHit || l.HasMatch
}

// IsPlaceholder reports whether the line is a bare separator: no source
// line, no text and not a result.
func (l LineResult) IsPlaceholder() bool {
	return l.LineNumber == NoLineNumber && l.OriginalText == "" && !l.Selected()
}

// ValidateMatches checks the ordering contract the windower relies on:
// matches sorted by Start, non-overlapping and inside the line text.
func (l LineResult) ValidateMatches() error {
	n := utf8.RuneCountInString(l.OriginalText)
	prevEnd := 0
	for i, m := range l.Matches {
		if m.Start < 0 || m.Length < 0 {
			return fmt.Errorf("match %d has negative offset or length (start=%d length=%d)", i, m.Start, m.Length)
		}
		if m.End() > n {
			return fmt.Errorf("match %d ends at %d past line length %d", i, m.End(), n)
		}
		if i > 0 && m.Start < prevEnd {
			return fmt.Errorf("match %d at %d overlaps or precedes previous match ending at %d", i, m.Start, prevEnd)
		}
		prevEnd = m.End()
	}
	return nil
}

// DisplayLine is the text shown for a LineResult after windowing. Matches are
// relative to Text.
type DisplayLine struct {
	Text       string        `json:"text"`
	LineNumber int           `json:"line"`
	HasMatch   bool          `json:"has_match"`
	Matches    []MatchRecord `json:"matches,omitempty"`
}

// HighlightRange is a highlighted span of a fully concatenated document.
type HighlightRange struct {
	StartIndex int `json:"start"`
	Length     int `json:"length"`
}

// FileResult holds every line the search engine reported for one file.
type FileResult struct {
	Path     string       `json:"path"`
	HitCount int          `json:"hit_count"`
	Lines    []LineResult `json:"lines"`
}

// SelectedLines returns the number of result lines, excluding context.
func (f FileResult) SelectedLines() int {
	count := 0
	for _, l := range f.Lines {
		if l.Selected() {
			count++
		}
	}
	return count
}

// FileSection is the windowed, ordered set of lines rendered for one file.
type FileSection struct {
	Path     string        `json:"path"`
	HitCount int           `json:"hit_count"`
	Lines    []DisplayLine `json:"lines"`
}

// RenderOptions vary per export and change highlight positions.
type RenderOptions struct {
	ShowLineNumbers         bool
	RemoveLeadingWhitespace bool
}

// SearchInfo describes the search that produced an export. Renderers print
// it in their header blocks.
type SearchInfo struct {
	SearchPaths       []string `json:"search_paths" xml:"searchPaths>path" yaml:"search_paths"`
	FileFilter        string   `json:"file_filter" xml:"fileTypes" yaml:"file_filter"`
	SearchText        string   `json:"search_text" xml:"searchText" yaml:"search_text"`
	UseRegex          bool     `json:"regex" xml:"regularExpressions" yaml:"regex"`
	CaseSensitive     bool     `json:"case_sensitive" xml:"caseSensitive" yaml:"case_sensitive"`
	WholeWord         bool     `json:"whole_word" xml:"wholeWord" yaml:"whole_word"`
	Negation          bool     `json:"negation" xml:"negation" yaml:"negation"`
	LineNumbers       bool     `json:"line_numbers" xml:"lineNumbers" yaml:"line_numbers"`
	RemoveWhitespace  bool     `json:"remove_leading_whitespace" xml:"removeLeadingWhitespace" yaml:"remove_leading_whitespace"`
	ContextBefore     int      `json:"context_before" xml:"contextBefore" yaml:"context_before"`
	ContextAfter      int      `json:"context_after" xml:"contextAfter" yaml:"context_after"`
	WindowRadius      int      `json:"window_radius" xml:"windowRadius" yaml:"window_radius"`
	LongLineThreshold int      `json:"long_line_threshold" xml:"longLineThreshold" yaml:"long_line_threshold"`
	Exclusions        []string `json:"exclusions,omitempty" xml:"exclusions>exclusion,omitempty" yaml:"exclusions,omitempty"`
}

// RenderOptions derives the offset-affecting subset of the search settings.
func (s SearchInfo) RenderOptions() RenderOptions {
	return RenderOptions{
		ShowLineNumbers:         s.LineNumbers,
		RemoveLeadingWhitespace: s.RemoveWhitespace,
	}
}

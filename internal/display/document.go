package display

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/standardbeagle/grepdoc/internal/debug"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// Document is the concatenated multi-file result text plus the absolute
// position of every match inside it. All offsets count runes.
type Document struct {
	Text       string
	Highlights []searchtypes.HighlightRange
	Sections   []Section
}

// Section locates one file's block (header, lines, trailing blank line).
type Section struct {
	Path     string
	HitCount int
	Start    int
	Length   int
	Lines    []RenderedLine

	// Highlights[FirstHighlight : FirstHighlight+HighlightCount] belong to this section
	FirstHighlight int
	HighlightCount int
}

// RenderedLine is one output line after trimming and prefixing. Its
// highlights live in the owning Document.
type RenderedLine struct {
	Text       string
	Start      int // document offset of the first rune
	LineNumber int
	HasMatch   bool
}

// HighlightsIn returns the highlights that fall inside a section.
func (d Document) HighlightsIn(s Section) []searchtypes.HighlightRange {
	return d.Highlights[s.FirstHighlight : s.FirstHighlight+s.HighlightCount]
}

// TotalHits sums the hit counts of every section.
func (d Document) TotalHits() int {
	total := 0
	for _, s := range d.Sections {
		total += s.HitCount
	}
	return total
}

// HeaderSeparator returns the dash line drawn above and below a file path.
func HeaderSeparator(path string) string {
	return strings.Repeat("-", utf8.RuneCountInString(path))
}

// LinePrefix returns the "<N>: " prefix, or "" for placeholder lines and
// when line numbers are hidden.
func LinePrefix(lineNumber int, show bool) string {
	if !show || lineNumber <= searchtypes.NoLineNumber {
		return ""
	}
	return strconv.Itoa(lineNumber) + ": "
}

// TrimLength returns how many leading runes are stripped from a display line
// when leading whitespace removal is on. Trimming stops at the first match so
// a highlight never loses its head.
func TrimLength(line searchtypes.DisplayLine) int {
	n := 0
	for _, r := range line.Text {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	if line.HasMatch && len(line.Matches) > 0 && line.Matches[0].Start < n {
		n = line.Matches[0].Start
	}
	return n
}

// BuildDocument concatenates the file sections into one document and places
// every match. Match offsets in the input are relative to their windowed
// DisplayLine; only the net shift from prefixing and trimming is applied.
func BuildDocument(files []searchtypes.FileSection, opts searchtypes.RenderOptions) Document {
	b := &builder{opts: opts}
	for _, f := range files {
		b.addFile(f)
	}
	debug.Log("DISPLAY", "built document: %d files, %d runes, %d highlights\n",
		len(files), b.cursor, len(b.doc.Highlights))
	b.doc.Text = b.sb.String()
	return b.doc
}

type builder struct {
	opts   searchtypes.RenderOptions
	sb     strings.Builder
	cursor int
	doc    Document
}

func (b *builder) writeLine(s string) {
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
	b.cursor += utf8.RuneCountInString(s) + 1
}

func (b *builder) addFile(f searchtypes.FileSection) {
	section := Section{
		Path:           f.Path,
		HitCount:       f.HitCount,
		Start:          b.cursor,
		FirstHighlight: len(b.doc.Highlights),
		Lines:          make([]RenderedLine, 0, len(f.Lines)),
	}

	sep := HeaderSeparator(f.Path)
	b.writeLine(sep)
	b.writeLine(f.Path)
	b.writeLine(sep)

	for _, line := range f.Lines {
		section.Lines = append(section.Lines, b.addLine(line))
	}

	// blank line between file sections
	b.writeLine("")

	section.Length = b.cursor - section.Start
	section.HighlightCount = len(b.doc.Highlights) - section.FirstHighlight
	b.doc.Sections = append(b.doc.Sections, section)
}

func (b *builder) addLine(line searchtypes.DisplayLine) RenderedLine {
	removeLength := 0
	if b.opts.RemoveLeadingWhitespace {
		removeLength = TrimLength(line)
	}
	prefix := LinePrefix(line.LineNumber, b.opts.ShowLineNumbers)
	addLength := utf8.RuneCountInString(prefix)

	text := line.Text
	if removeLength > 0 {
		text = string([]rune(text)[removeLength:])
	}

	rendered := RenderedLine{
		Text:       prefix + text,
		Start:      b.cursor,
		LineNumber: line.LineNumber,
		HasMatch:   line.HasMatch,
	}
	if line.HasMatch {
		for _, m := range line.Matches {
			h := searchtypes.HighlightRange{
				StartIndex: rendered.Start + m.Start + addLength - removeLength,
				Length:     m.Length,
			}
			b.doc.Highlights = append(b.doc.Highlights, h)
		}
	}

	b.writeLine(rendered.Text)
	return rendered
}

package display

import (
	"unicode/utf8"

	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// Run is a stretch of text that is either entirely highlighted or not.
type Run struct {
	Text        string
	Highlighted bool
}

// SplitRuns cuts text into plain and highlighted runs. base is the document
// offset of text's first rune; highlights are document-relative, sorted and
// non-overlapping. Highlights outside the text are ignored and partial
// overlaps are clipped.
func SplitRuns(text string, base int, highlights []searchtypes.HighlightRange) []Run {
	r := []rune(text)
	var runs []Run
	pos := 0
	for _, h := range highlights {
		start := max(h.StartIndex-base, pos)
		end := min(h.StartIndex+h.Length-base, len(r))
		if end <= start {
			continue
		}
		if start > pos {
			runs = append(runs, Run{Text: string(r[pos:start])})
		}
		runs = append(runs, Run{Text: string(r[start:end]), Highlighted: true})
		pos = end
	}
	if pos < len(r) {
		runs = append(runs, Run{Text: string(r[pos:])})
	}
	return runs
}

// LineRuns splits every line of a section into runs. Highlights are sorted
// by document offset, so a single pass hands each line its own slice.
func (d Document) LineRuns(s Section) [][]Run {
	highlights := d.HighlightsIn(s)
	out := make([][]Run, len(s.Lines))
	next := 0
	for i, l := range s.Lines {
		end := l.Start + utf8.RuneCountInString(l.Text)
		first := next
		for next < len(highlights) && highlights[next].StartIndex < end {
			next++
		}
		out[i] = SplitRuns(l.Text, l.Start, highlights[first:next])
	}
	return out
}

// Package window truncates long result lines to small windows of context
// around each match and remaps match offsets onto the truncated text.
//
// Window is a pure function: the input LineResult is never modified and the
// returned DisplayLine owns freshly allocated match records. Line wraps the
// result of a single eager computation so callers can share it between
// goroutines without re-running the remap.
package window

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/standardbeagle/grepdoc/internal/debug"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// Ellipsis marks text dropped from a windowed line.
const Ellipsis = "..."

var ellipsisLen = utf8.RuneCountInString(Ellipsis)

// Active reports whether Window would truncate the line.
func Active(line searchtypes.LineResult) bool {
	return active(line, utf8.RuneCountInString(line.OriginalText))
}

func active(line searchtypes.LineResult, n int) bool {
	return line.HasMatch &&
		len(line.Matches) > 0 &&
		line.WindowRadius > 0 &&
		line.WindowRadius < n &&
		line.LongLineThreshold > 0 &&
		n >= line.LongLineThreshold
}

// Window derives the display form of a line. Lines below the long-line
// threshold (or without matches) pass through unchanged. Matches that are
// unsorted, overlapping or outside the text are a programmer error and panic.
func Window(line searchtypes.LineResult) searchtypes.DisplayLine {
	out := searchtypes.DisplayLine{
		Text:       line.OriginalText,
		LineNumber: line.LineNumber,
		HasMatch:   line.HasMatch,
		Matches:    slices.Clone(line.Matches),
	}
	if line.HasMatch {
		if err := line.ValidateMatches(); err != nil {
			panic(fmt.Sprintf("window: line %d: %v", line.LineNumber, err))
		}
	}

	runes := []rune(line.OriginalText)
	if !active(line, len(runes)) {
		return out
	}

	w := &windower{
		text:    runes,
		radius:  line.WindowRadius,
		matches: out.Matches,
	}
	out.Text = w.run()

	debug.LogWindow("line %d: %d -> %d runes, %d matches\n",
		line.LineNumber, len(runes), utf8.RuneCountInString(out.Text), len(out.Matches))
	return out
}

// windower carries the state of one windowing pass. matches is remapped in
// place; it is always a private copy of the caller's records.
type windower struct {
	text    []rune
	radius  int
	matches []searchtypes.MatchRecord

	buf     strings.Builder
	emitted int // runes written to buf
}

func (w *windower) bounds(m searchtypes.MatchRecord) (int, int) {
	start := max(0, m.Start-w.radius)
	end := min(m.Start+m.Length+w.radius-1, len(w.text)-1)
	return start, end
}

func (w *windower) run() string {
	winStart, winEnd := w.bounds(w.matches[0])
	anchor, last := 0, 0

	for i := 1; i < len(w.matches); i++ {
		bpos, epos := w.bounds(w.matches[i])
		if bpos >= winStart && bpos <= winEnd {
			winEnd = epos
			last = i
			continue
		}
		w.flush(winStart, winEnd, anchor, last)
		winStart, winEnd = bpos, epos
		anchor, last = i, i
	}
	w.flush(winStart, winEnd, anchor, last)

	if winEnd < len(w.text)-1 {
		w.write(Ellipsis, ellipsisLen)
	}
	return w.buf.String()
}

// flush emits text[winStart..winEnd] (inclusive) and remaps the matches
// anchor..last, which are the only matches inside that window.
func (w *windower) flush(winStart, winEnd, anchor, last int) {
	shift := w.emitted - winStart
	if winStart != 0 {
		w.write(Ellipsis, ellipsisLen)
		shift += ellipsisLen
	}
	for j := anchor; j <= last; j++ {
		w.matches[j].Start += shift
	}
	w.write(string(w.text[winStart:winEnd+1]), winEnd-winStart+1)
}

func (w *windower) write(s string, runes int) {
	w.buf.WriteString(s)
	w.emitted += runes
}

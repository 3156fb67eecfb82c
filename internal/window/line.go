package window

import (
	"slices"

	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// Line holds the display form of a LineResult. It is computed once, in
// NewLine, and never recomputed.
type Line struct {
	display searchtypes.DisplayLine
}

// NewLine windows the line eagerly.
func NewLine(source searchtypes.LineResult) *Line {
	return &Line{display: Window(source)}
}

// Display returns the windowed line. Matches are relative to its Text.
func (l *Line) Display() searchtypes.DisplayLine {
	d := l.display
	d.Matches = slices.Clone(d.Matches)
	return d
}

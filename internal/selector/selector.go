// Package selector picks the lines rendered for a file: every matching line
// plus a bounded number of surrounding context lines, with placeholder
// separators between groups that are not contiguous.
package selector

import (
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// Placeholder returns the separator line inserted between context groups.
func Placeholder() searchtypes.LineResult {
	return searchtypes.LineResult{LineNumber: searchtypes.NoLineNumber}
}

// Select returns the lines of file to display, in file order. Context
// windows of neighbouring results are unioned so each line appears once.
// With no context requested only result lines are returned and no
// separators are inserted.
//
// Lines are placed by line number. When the engine reported none (rg
// --no-line-number) their position in the stream is used instead.
func Select(file searchtypes.FileResult, before, after int) []searchtypes.LineResult {
	before, after = max(0, before), max(0, after)

	lines := make([]searchtypes.LineResult, 0, len(file.Lines))
	pos := make([]int, 0, len(file.Lines))
	numbered := true
	for i, l := range file.Lines {
		if l.IsPlaceholder() {
			continue
		}
		lines = append(lines, l)
		pos = append(pos, i+1)
		if l.LineNumber < 1 {
			numbered = false
		}
	}
	if numbered {
		for i, l := range lines {
			pos[i] = l.LineNumber
		}
	}

	include := make([]bool, len(lines))
	for i, l := range lines {
		if !l.Selected() {
			continue
		}
		include[i] = true
		for j := i - 1; j >= 0 && pos[j] >= pos[i]-before; j-- {
			include[j] = true
		}
		for j := i + 1; j < len(lines) && pos[j] <= pos[i]+after; j++ {
			include[j] = true
		}
	}

	withContext := before > 0 || after > 0
	out := make([]searchtypes.LineResult, 0, len(lines))
	prev := 0
	for i, l := range lines {
		if !include[i] {
			continue
		}
		if withContext && len(out) > 0 && pos[i] > prev+1 {
			out = append(out, Placeholder())
		}
		out = append(out, l)
		prev = pos[i]
	}
	return out
}

package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// slice returns length runes of text starting at rune offset start.
func slice(text string, start, length int) string {
	r := []rune(text)
	end := min(start+length, len(r))
	start = max(0, start)
	if end <= start {
		return ""
	}
	return string(r[start:end])
}

func TestSplitRuns(t *testing.T) {
	hl := func(start, length int) searchtypes.HighlightRange {
		return searchtypes.HighlightRange{StartIndex: start, Length: length}
	}

	tests := []struct {
		name       string
		text       string
		base       int
		highlights []searchtypes.HighlightRange
		want       []Run
	}{
		{
			name: "no highlights",
			text: "plain",
			want: []Run{{Text: "plain"}},
		},
		{
			name:       "middle",
			text:       "a hit b",
			base:       100,
			highlights: []searchtypes.HighlightRange{hl(102, 3)},
			want:       []Run{{Text: "a "}, {Text: "hit", Highlighted: true}, {Text: " b"}},
		},
		{
			name:       "whole line and adjacent",
			text:       "abcd",
			highlights: []searchtypes.HighlightRange{hl(0, 2), hl(2, 2)},
			want:       []Run{{Text: "ab", Highlighted: true}, {Text: "cd", Highlighted: true}},
		},
		{
			name:       "outside range ignored",
			text:       "abcd",
			base:       10,
			highlights: []searchtypes.HighlightRange{hl(2, 3), hl(20, 1)},
			want:       []Run{{Text: "abcd"}},
		},
		{
			name:       "clipped at both edges",
			text:       "abcd",
			base:       10,
			highlights: []searchtypes.HighlightRange{hl(8, 3), hl(13, 5)},
			want:       []Run{{Text: "a", Highlighted: true}, {Text: "bc"}, {Text: "d", Highlighted: true}},
		},
		{
			name:       "multibyte",
			text:       "héllo wörld",
			highlights: []searchtypes.HighlightRange{hl(6, 5)},
			want:       []Run{{Text: "héllo "}, {Text: "wörld", Highlighted: true}},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitRuns(tt.text, tt.base, tt.highlights))
		})
	}
}

func TestDocument_LineRuns(t *testing.T) {
	doc := BuildDocument([]searchtypes.FileSection{
		{
			Path:  "a.txt",
			Lines: []searchtypes.DisplayLine{hit("x", 1, mr(0, 1))},
		},
		{
			Path: "f.txt",
			Lines: []searchtypes.DisplayLine{
				hit("say hit", 3, mr(4, 3)),
				ctx("", searchtypes.NoLineNumber),
				ctx("plain", 7),
				hit("hit and hit", 8, mr(0, 3), mr(8, 3)),
			},
		},
	}, searchtypes.RenderOptions{ShowLineNumbers: true})

	runs := doc.LineRuns(doc.Sections[1])

	require.Len(t, runs, 4)
	assert.Equal(t, []Run{{Text: "3: say "}, {Text: "hit", Highlighted: true}}, runs[0])
	assert.Nil(t, runs[1])
	assert.Equal(t, []Run{{Text: "7: plain"}}, runs[2])
	assert.Equal(t, []Run{
		{Text: "8: "},
		{Text: "hit", Highlighted: true},
		{Text: " and "},
		{Text: "hit", Highlighted: true},
	}, runs[3])
}

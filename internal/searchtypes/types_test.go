package searchtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMatches(t *testing.T) {
	tests := []struct {
		name    string
		line    LineResult
		wantErr string
	}{
		{
			name: "sorted non-overlapping",
			line: LineResult{OriginalText: "abcdefghij", Matches: []MatchRecord{{Start: 0, Length: 2}, {Start: 2, Length: 3}, {Start: 9, Length: 1}}},
		},
		{
			name: "no matches",
			line: LineResult{OriginalText: "abc"},
		},
		{
			name:    "negative start",
			line:    LineResult{OriginalText: "abc", Matches: []MatchRecord{{Start: -1, Length: 1}}},
			wantErr: "negative",
		},
		{
			name:    "past end",
			line:    LineResult{OriginalText: "abc", Matches: []MatchRecord{{Start: 2, Length: 2}}},
			wantErr: "past line length",
		},
		{
			name:    "overlapping",
			line:    LineResult{OriginalText: "abcdef", Matches: []MatchRecord{{Start: 1, Length: 3}, {Start: 2, Length: 1}}},
			wantErr: "overlaps",
		},
		{
			name:    "unsorted",
			line:    LineResult{OriginalText: "abcdef", Matches: []MatchRecord{{Start: 4, Length: 1}, {Start: 0, Length: 1}}},
			wantErr: "overlaps or precedes",
		},
		{
			// rune length, not byte length
			name: "multibyte text",
			line: LineResult{OriginalText: "héllo", Matches: []MatchRecord{{Start: 4, Length: 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.ValidateMatches()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFileResult_SelectedLines(t *testing.T) {
	f := FileResult{
		Path: "a.go",
		Lines: []LineResult{
			{LineNumber: 1, HasMatch: true, IsHit: true},
			{LineNumber: 2},
			{LineNumber: NoLineNumber},
			{LineNumber: 4, IsHit: true},
		},
	}
	assert.Equal(t, 2, f.SelectedLines())
	assert.True(t, f.Lines[2].IsPlaceholder())
	assert.False(t, f.Lines[0].IsPlaceholder())
}

func TestLineResult_IsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		line LineResult
		want bool
	}{
		{"bare separator", LineResult{LineNumber: NoLineNumber}, true},
		{"numbered line", LineResult{LineNumber: 3}, false},
		{"unnumbered text", LineResult{LineNumber: NoLineNumber, OriginalText: "x"}, false},
		{"unnumbered hit", LineResult{LineNumber: NoLineNumber, IsHit: true}, false},
		{"unnumbered match", LineResult{LineNumber: NoLineNumber, HasMatch: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.line.IsPlaceholder())
		})
	}
}

func TestSearchInfo_RenderOptions(t *testing.T) {
	info := SearchInfo{LineNumbers: true, RemoveWhitespace: false}
	assert.Equal(t, RenderOptions{ShowLineNumbers: true}, info.RenderOptions())
}

func TestMatchRecord_End(t *testing.T) {
	assert.Equal(t, 7, MatchRecord{Start: 4, Length: 3}.End())
}

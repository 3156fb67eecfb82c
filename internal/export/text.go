package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/standardbeagle/grepdoc/internal/display"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

type textRenderer struct {
	opts Options
}

func (r *textRenderer) Render(w io.Writer, doc display.Document, info searchtypes.SearchInfo) error {
	var sb strings.Builder

	title := r.opts.title()
	sb.WriteString(title + "\n")
	sb.WriteString(display.HeaderSeparator(title) + "\n")
	for _, field := range headerFields(info) {
		fmt.Fprintf(&sb, "%s: %s\n", field.name, field.value)
	}
	fmt.Fprintf(&sb, "Total files: %d\n", len(doc.Sections))
	fmt.Fprintf(&sb, "Total hits: %d\n", doc.TotalHits())
	sb.WriteString("\nResults\n-------\n")
	sb.WriteString(doc.Text)

	_, err := io.WriteString(w, sb.String())
	return err
}

type headerField struct {
	name  string
	value string
}

// headerFields lists the search settings printed above the results.
func headerFields(info searchtypes.SearchInfo) []headerField {
	exclusions := "none"
	if len(info.Exclusions) > 0 {
		exclusions = strings.Join(info.Exclusions, ", ")
	}
	return []headerField{
		{"Search paths", strings.Join(info.SearchPaths, ", ")},
		{"File filter", info.FileFilter},
		{"Search text", info.SearchText},
		{"Regular expressions", yesNo(info.UseRegex)},
		{"Case sensitive", yesNo(info.CaseSensitive)},
		{"Whole word", yesNo(info.WholeWord)},
		{"Negation", yesNo(info.Negation)},
		{"Line numbers", yesNo(info.LineNumbers)},
		{"Remove leading whitespace", yesNo(info.RemoveWhitespace)},
		{"Context lines", fmt.Sprintf("%d before, %d after", info.ContextBefore, info.ContextAfter)},
		{"Long line window", fmt.Sprintf("radius %d, threshold %d", info.WindowRadius, info.LongLineThreshold)},
		{"Exclusions", exclusions},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package export

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/standardbeagle/grepdoc/internal/display"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// printRenderer writes the document text for a terminal. Styles are bound
// to the destination writer, so redirected output carries no escape codes.
type printRenderer struct{}

func (printRenderer) Render(w io.Writer, doc display.Document, _ searchtypes.SearchInfo) error {
	term := lipgloss.NewRenderer(w)
	highlight := term.NewStyle().
		Foreground(lipgloss.Color("220")).
		Bold(true).
		TabWidth(lipgloss.NoTabConversion)
	path := term.NewStyle().
		Foreground(lipgloss.Color("245")).
		Bold(true).
		TabWidth(lipgloss.NoTabConversion)

	var sb strings.Builder
	for _, s := range doc.Sections {
		sep := display.HeaderSeparator(s.Path)
		sb.WriteString(sep + "\n")
		sb.WriteString(path.Render(s.Path) + "\n")
		sb.WriteString(sep + "\n")
		for _, line := range doc.LineRuns(s) {
			for _, run := range line {
				if run.Highlighted {
					sb.WriteString(highlight.Render(run.Text))
				} else {
					sb.WriteString(run.Text)
				}
			}
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

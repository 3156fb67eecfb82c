// Package export renders a display.Document into the supported output
// formats. Every renderer reads the same document text and highlight
// ranges; none of them rescans the text for matches.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/standardbeagle/grepdoc/internal/debug"
	"github.com/standardbeagle/grepdoc/internal/display"
	gderrors "github.com/standardbeagle/grepdoc/internal/errors"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// DefaultTitle heads exports that have no configured title.
const DefaultTitle = "grepdoc results"

// Options tune renderers. Zero values select defaults.
type Options struct {
	Title string
	// HTMLTemplate replaces the built-in HTML template.
	HTMLTemplate string
}

func (o Options) title() string {
	if o.Title == "" {
		return DefaultTitle
	}
	return o.Title
}

// Renderer writes one document in one format.
type Renderer interface {
	Render(w io.Writer, doc display.Document, info searchtypes.SearchInfo) error
}

// NewRenderer returns the renderer for format.
func NewRenderer(format Format, opts Options) (Renderer, error) {
	switch format {
	case FormatText:
		return &textRenderer{opts: opts}, nil
	case FormatHTML:
		tmpl := opts.HTMLTemplate
		if tmpl == "" {
			tmpl = DefaultHTMLTemplate
		}
		parsed, err := parseHTMLTemplate(tmpl)
		if err != nil {
			return nil, err
		}
		return &htmlRenderer{opts: opts, tmpl: parsed}, nil
	case FormatXML:
		return xmlRenderer{}, nil
	case FormatJSON:
		return jsonRenderer{}, nil
	case FormatYAML:
		return yamlRenderer{}, nil
	case FormatPrint:
		return printRenderer{}, nil
	}
	return nil, fmt.Errorf("unsupported format %v", format)
}

// Export renders doc to w.
func Export(w io.Writer, format Format, doc display.Document, info searchtypes.SearchInfo, opts Options) error {
	r, err := NewRenderer(format, opts)
	if err != nil {
		return gderrors.NewExportError(format.String(), "", err)
	}
	if err := r.Render(w, doc, info); err != nil {
		return gderrors.NewExportError(format.String(), "", err)
	}
	debug.LogExport("%s: %d sections, %d highlights\n", format, len(doc.Sections), len(doc.Highlights))
	return nil
}

// ExportFile renders doc into the file at path, replacing it.
func ExportFile(path string, format Format, doc display.Document, info searchtypes.SearchInfo, opts Options) (err error) {
	r, err := NewRenderer(format, opts)
	if err != nil {
		return gderrors.NewExportError(format.String(), path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return gderrors.NewExportError(format.String(), path, gderrors.NewFileError("create", path, err))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = gderrors.NewExportError(format.String(), path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := r.Render(bw, doc, info); err != nil {
		return gderrors.NewExportError(format.String(), path, err)
	}
	if err := bw.Flush(); err != nil {
		return gderrors.NewExportError(format.String(), path, err)
	}

	debug.LogExport("%s: wrote %s\n", format, path)
	return nil
}

package export

import (
	"encoding/json"
	"encoding/xml"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/grepdoc/internal/display"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// ReportVersion is written into the version attribute of structured exports.
const ReportVersion = "1.0"

// Report is the shared shape of the XML, JSON and YAML exports.
type Report struct {
	XMLName xml.Name               `json:"-" yaml:"-" xml:"astrogrep"`
	Version string                 `json:"version" yaml:"version" xml:"version,attr"`
	Options searchtypes.SearchInfo `json:"options" yaml:"options" xml:"options"`
	Search  ReportSearch           `json:"search" yaml:"search" xml:"search"`
}

type ReportSearch struct {
	TotalFiles int          `json:"totalfiles" yaml:"totalfiles" xml:"totalfiles,attr"`
	TotalFound int          `json:"totalfound" yaml:"totalfound" xml:"totalfound,attr"`
	Items      []ReportItem `json:"items" yaml:"items" xml:"item"`
}

type ReportItem struct {
	File  string   `json:"file" yaml:"file" xml:"file,attr"`
	Total int      `json:"total" yaml:"total" xml:"total,attr"`
	Lines []string `json:"lines" yaml:"lines" xml:"line"`
}

// NewReport collects the rendered lines of every section.
func NewReport(doc display.Document, info searchtypes.SearchInfo) Report {
	rep := Report{
		Version: ReportVersion,
		Options: info,
		Search: ReportSearch{
			TotalFiles: len(doc.Sections),
			TotalFound: doc.TotalHits(),
			Items:      make([]ReportItem, 0, len(doc.Sections)),
		},
	}
	for _, s := range doc.Sections {
		item := ReportItem{
			File:  s.Path,
			Total: s.HitCount,
			Lines: make([]string, 0, len(s.Lines)),
		}
		for _, l := range s.Lines {
			item.Lines = append(item.Lines, l.Text)
		}
		rep.Search.Items = append(rep.Search.Items, item)
	}
	return rep
}

type xmlRenderer struct{}

func (xmlRenderer) Render(w io.Writer, doc display.Document, info searchtypes.SearchInfo) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(NewReport(doc, info)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, doc display.Document, info searchtypes.SearchInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(doc, info))
}

type yamlRenderer struct{}

func (yamlRenderer) Render(w io.Writer, doc display.Document, info searchtypes.SearchInfo) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewReport(doc, info)); err != nil {
		return err
	}
	return enc.Close()
}

package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects a renderer.
type Format int

const (
	FormatText Format = iota
	FormatHTML
	FormatXML
	FormatJSON
	FormatYAML
	FormatPrint
)

var formatNames = map[Format]string{
	FormatText:  "text",
	FormatHTML:  "html",
	FormatXML:   "xml",
	FormatJSON:  "json",
	FormatYAML:  "yaml",
	FormatPrint: "print",
}

var formatAliases = map[string]Format{
	"text":  FormatText,
	"txt":   FormatText,
	"html":  FormatHTML,
	"htm":   FormatHTML,
	"xml":   FormatXML,
	"json":  FormatJSON,
	"yaml":  FormatYAML,
	"yml":   FormatYAML,
	"print": FormatPrint,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Extension returns the file extension written for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatText, FormatPrint:
		return "txt"
	default:
		return formatNames[f]
	}
}

// ParseFormat accepts a format name, a common alias or a file extension
// (with or without the leading dot).
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return FormatText, fmt.Errorf("unknown export format %q", s)
}

// FormatForPath infers the format from a file name's extension.
func FormatForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatText, fmt.Errorf("cannot infer export format from %q", path)
	}
	return ParseFormat(ext)
}

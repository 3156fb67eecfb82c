package export

import (
	"fmt"
	"html"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/grepdoc/internal/display"
	"github.com/standardbeagle/grepdoc/internal/encoding"
	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

const (
	repeatOpen  = "[repeat]"
	repeatClose = "[/repeat]"
)

// DefaultStyle fills %%style%% in HTML templates.
const DefaultStyle = `body { font-family: sans-serif; margin: 2em; }
h2 { font-size: 1.1em; border-bottom: 1px solid #ccc; }
pre { background: #f7f7f7; padding: 0.5em; overflow-x: auto; }
.hit { background: #fff176; font-weight: bold; }
.summary { color: #555; }`

// DefaultHTMLTemplate is used when no template is configured. Anywhere in a
// template %%title%%, %%style%%, %%totalfiles%% and %%totalhits%% are
// replaced; inside the repeat block so are %%file%%, %%anchor%%, %%total%%
// and %%lines%%.
const DefaultHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%%title%%</title>
<style>
%%style%%
</style>
</head>
<body>
<h1>%%title%%</h1>
<p class="summary">%%totalhits%% hits in %%totalfiles%% files</p>
[repeat]<div class="file" id="%%anchor%%">
<h2><a href="#%%anchor%%">%%file%%</a></h2>
<p class="summary">%%total%% hits</p>
<pre>%%lines%%</pre>
</div>
[/repeat]</body>
</html>
`

type htmlTemplate struct {
	head   string
	repeat string
	tail   string
}

func parseHTMLTemplate(tmpl string) (htmlTemplate, error) {
	open := strings.Index(tmpl, repeatOpen)
	if open < 0 {
		return htmlTemplate{}, fmt.Errorf("html template has no %s block", repeatOpen)
	}
	rest := tmpl[open+len(repeatOpen):]
	end := strings.Index(rest, repeatClose)
	if end < 0 {
		return htmlTemplate{}, fmt.Errorf("html template has unterminated %s block", repeatOpen)
	}
	return htmlTemplate{
		head:   tmpl[:open],
		repeat: rest[:end],
		tail:   rest[end+len(repeatClose):],
	}, nil
}

type htmlRenderer struct {
	opts Options
	tmpl htmlTemplate
}

func (r *htmlRenderer) Render(w io.Writer, doc display.Document, info searchtypes.SearchInfo) error {
	globals := []string{
		"%%title%%", html.EscapeString(r.opts.title()),
		"%%style%%", DefaultStyle,
		"%%totalfiles%%", strconv.Itoa(len(doc.Sections)),
		"%%totalhits%%", strconv.Itoa(doc.TotalHits()),
	}
	global := strings.NewReplacer(globals...)

	var sb strings.Builder
	sb.WriteString(global.Replace(r.tmpl.head))
	for _, s := range doc.Sections {
		// one pass, so placeholder text inside results is left alone
		block := strings.NewReplacer(append(slices.Clone(globals),
			"%%file%%", html.EscapeString(s.Path),
			"%%anchor%%", Anchor(s.Path),
			"%%total%%", strconv.Itoa(s.HitCount),
			"%%lines%%", htmlLines(doc.LineRuns(s)),
		)...)
		sb.WriteString(block.Replace(r.tmpl.repeat))
	}
	sb.WriteString(global.Replace(r.tmpl.tail))

	_, err := io.WriteString(w, sb.String())
	return err
}

// Anchor returns a stable HTML id for a file path.
func Anchor(path string) string {
	return "f" + encoding.Base63Encode(xxhash.Sum64String(path))
}

func htmlLines(lines [][]display.Run) string {
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, run := range line {
			text := html.EscapeString(run.Text)
			if run.Highlighted {
				sb.WriteString(`<span class="hit">` + text + `</span>`)
			} else {
				sb.WriteString(text)
			}
		}
	}
	return sb.String()
}

package config

import (
	"fmt"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/grepdoc/internal/debug"
)

// parseKDL reads a .grepdoc.kdl document over the defaults:
//
//	project { root "."; respect_gitignore true }
//	window { radius 40; long_line_threshold 300 }
//	context { before 2; after 2 }
//	render { line_numbers true; trim_whitespace false }
//	export { format "html"; title "Audit"; html_template "report.html" }
//	performance { workers 4 }
//	watch { debounce_ms 300 }
//	include "**/*.go" "**/*.md"
//	exclude { "vendor/**"; "**/*_test.go" }
func parseKDL(content string) (*Config, error) {
	cfg := Default("")

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleBool(cn, "respect_gitignore", func(v bool) { cfg.Project.RespectGitignore = v })
			}
		case "window":
			for _, cn := range n.Children {
				assignSimpleInt(cn, "radius", func(v int) { cfg.Window.Radius = v })
				assignSimpleInt(cn, "long_line_threshold", func(v int) { cfg.Window.LongLineThreshold = v })
			}
		case "context":
			for _, cn := range n.Children {
				assignSimpleInt(cn, "before", func(v int) { cfg.Context.Before = v })
				assignSimpleInt(cn, "after", func(v int) { cfg.Context.After = v })
			}
		case "render":
			for _, cn := range n.Children {
				assignSimpleBool(cn, "line_numbers", func(v bool) { cfg.Render.LineNumbers = v })
				assignSimpleBool(cn, "trim_whitespace", func(v bool) { cfg.Render.TrimWhitespace = v })
			}
		case "export":
			for _, cn := range n.Children {
				assignSimpleString(cn, "format", func(v string) { cfg.Export.Format = v })
				assignSimpleString(cn, "title", func(v string) { cfg.Export.Title = v })
				assignSimpleString(cn, "html_template", func(v string) { cfg.Export.HTMLTemplate = v })
			}
		case "performance":
			for _, cn := range n.Children {
				assignSimpleInt(cn, "workers", func(v int) { cfg.Performance.Workers = v })
			}
		case "watch":
			for _, cn := range n.Children {
				assignSimpleInt(cn, "debounce_ms", func(v int) { cfg.Watch.DebounceMs = v })
			}
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, collectStringArgs(n)...)
		default:
			debug.Log("CONFIG", "ignoring unknown KDL node %q\n", nodeName(n))
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs accepts both inline (include "a" "b") and block
// (exclude { "a"; "b" }) lists.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// In block form each string is a child node named by the string
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

func assignSimpleInt(n *document.Node, target string, set func(int)) {
	if nodeName(n) == target {
		if v, ok := firstIntArg(n); ok {
			set(v)
		}
	}
}

func assignSimpleBool(n *document.Node, target string, set func(bool)) {
	if nodeName(n) == target {
		if b, ok := firstBoolArg(n); ok {
			set(b)
		}
	}
}

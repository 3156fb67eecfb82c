package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/grepdoc/internal/debug"
)

// GitignorePattern is one parsed .gitignore line.
type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool
}

// ParseGitignore reads .gitignore lines, skipping blanks and comments.
func ParseGitignore(r io.Reader) ([]GitignorePattern, error) {
	var patterns []GitignorePattern
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, parseGitignoreLine(line))
	}
	return patterns, scanner.Err()
}

func parseGitignoreLine(line string) GitignorePattern {
	var p GitignorePattern
	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.Absolute = true
		line = line[1:]
	}
	p.Pattern = line
	return p
}

// ExclusionPattern converts a gitignore pattern to a doublestar glob over
// root-relative paths. Negations have no glob equivalent and return "".
func (p GitignorePattern) ExclusionPattern() string {
	if p.Negate || p.Pattern == "" {
		return ""
	}
	// a slash inside the pattern anchors it like a leading slash does
	anchored := p.Absolute || strings.Contains(p.Pattern, "/")

	glob := p.Pattern
	if !anchored {
		glob = "**/" + glob
	}
	if p.Directory {
		glob += "/**"
	}
	return glob
}

// GitignoreExclusions returns the exclusion globs from root/.gitignore.
// A missing file yields no patterns.
func GitignoreExclusions(root string) ([]string, error) {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	patterns, err := ParseGitignore(f)
	if err != nil {
		return nil, err
	}

	var exclusions []string
	for _, p := range patterns {
		if glob := p.ExclusionPattern(); glob != "" {
			exclusions = append(exclusions, glob)
		}
	}
	return exclusions, nil
}

// AddGitignoreExclusions appends the project .gitignore patterns to Exclude.
func (c *Config) AddGitignoreExclusions() {
	if c.Project.Root == "" {
		return
	}
	patterns, err := GitignoreExclusions(c.Project.Root)
	if err != nil {
		debug.Log("CONFIG", "reading .gitignore: %v\n", err)
		return
	}
	if len(patterns) > 0 {
		c.Exclude = DeduplicatePatterns(append(c.Exclude, patterns...))
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Defaults for values a config file leaves out.
const (
	DefaultWindowRadius      = 40
	DefaultLongLineThreshold = 300
	DefaultWatchDebounceMs   = 300
	DefaultExportFormat      = "text"
)

const (
	kdlFileName  = ".grepdoc.kdl"
	tomlFileName = ".grepdoc.toml"
)

type Config struct {
	Version     int
	Project     Project
	Window      Window
	Context     Context
	Render      Render
	Export      Export
	Performance Performance
	Watch       Watch
	Include     []string
	Exclude     []string
}

type Project struct {
	Root             string
	RespectGitignore bool // Add the root .gitignore patterns to Exclude
}

// Window controls long-line truncation.
type Window struct {
	Radius            int // runes kept on each side of a match
	LongLineThreshold int // lines at least this long are windowed
}

type Context struct {
	Before int
	After  int
}

type Render struct {
	LineNumbers    bool
	TrimWhitespace bool // strip leading whitespace from result lines
}

type Export struct {
	Format       string // name or extension, see export.ParseFormat
	Title        string
	HTMLTemplate string // template file, relative to the project root
}

type Performance struct {
	Workers int // 0 = auto-detect
}

type Watch struct {
	DebounceMs int
}

// Default returns the configuration used when no config file exists.
func Default(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Window: Window{
			Radius:            DefaultWindowRadius,
			LongLineThreshold: DefaultLongLineThreshold,
		},
		Render: Render{
			LineNumbers: true,
		},
		Export: Export{
			Format: DefaultExportFormat,
		},
		Watch: Watch{
			DebounceMs: DefaultWatchDebounceMs,
		},
		Include: []string{},
		Exclude: []string{},
	}
}

// LoadWithRoot layers ~/.grepdoc.kdl (or .toml) under the project config
// found in rootDir. An explicit path replaces the project lookup and must
// exist.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	// Global base config; a broken global file is not fatal
	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := loadDir(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	var projectConfig *Config
	var err error
	if path != "" {
		projectConfig, err = LoadFile(path)
	} else {
		projectConfig, err = loadDir(searchDir)
	}
	if err != nil {
		return nil, err
	}

	var cfg *Config
	switch {
	case baseConfig != nil && projectConfig != nil:
		cfg = mergeConfigs(baseConfig, projectConfig)
	case projectConfig != nil:
		cfg = projectConfig
	case baseConfig != nil:
		baseConfig.Project.Root = absOrSelf(searchDir)
		cfg = baseConfig
	default:
		cfg = Default(absOrSelf(searchDir))
	}

	if cfg.Project.RespectGitignore {
		cfg.AddGitignoreExclusions()
	}
	return cfg, nil
}

// LoadFile parses one config file; the extension selects KDL or TOML.
func LoadFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		cfg, err = parseTOML(content)
	default:
		cfg, err = parseKDL(string(content))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	resolveRoot(cfg, filepath.Dir(path))
	return cfg, nil
}

// loadDir looks for .grepdoc.kdl, then .grepdoc.toml. Returns nil, nil if
// neither exists.
func loadDir(dir string) (*Config, error) {
	for _, name := range []string{kdlFileName, tomlFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		return LoadFile(path)
	}
	return nil, nil
}

// resolveRoot makes the project root absolute. Relative roots are relative
// to the directory containing the config file.
func resolveRoot(cfg *Config, configDir string) {
	if cfg.Project.Root == "" {
		cfg.Project.Root = absOrSelf(configDir)
		return
	}
	if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Join(absOrSelf(configDir), cfg.Project.Root)
	}
	cfg.Project.Root = filepath.Clean(cfg.Project.Root)
}

func absOrSelf(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// mergeConfigs merges a base config with a project config
// Project config takes precedence, but base exclusions are preserved
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		combined := make([]string, 0, len(base.Exclude)+len(project.Exclude))
		combined = append(combined, base.Exclude...)
		combined = append(combined, project.Exclude...)
		merged.Exclude = DeduplicatePatterns(combined)
	}

	// Inclusions: project overrides base completely if specified
	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}

	return &merged
}

// HTMLTemplateContent reads the configured HTML template. Returns "" when
// none is configured.
func (c *Config) HTMLTemplateContent() (string, error) {
	if c.Export.HTMLTemplate == "" {
		return "", nil
	}
	path := c.Export.HTMLTemplate
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Project.Root, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read html template: %w", err)
	}
	return string(content), nil
}

// DeduplicatePatterns removes duplicate patterns, keeping first occurrences
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}

	return result
}

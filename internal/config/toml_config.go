package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// tomlConfig mirrors the KDL layout. Pointers distinguish "unset" from zero
// values so defaults survive partial files.
type tomlConfig struct {
	Project struct {
		Root             *string `toml:"root"`
		RespectGitignore *bool   `toml:"respect_gitignore"`
	} `toml:"project"`
	Window struct {
		Radius            *int `toml:"radius"`
		LongLineThreshold *int `toml:"long_line_threshold"`
	} `toml:"window"`
	Context struct {
		Before *int `toml:"before"`
		After  *int `toml:"after"`
	} `toml:"context"`
	Render struct {
		LineNumbers    *bool `toml:"line_numbers"`
		TrimWhitespace *bool `toml:"trim_whitespace"`
	} `toml:"render"`
	Export struct {
		Format       *string `toml:"format"`
		Title        *string `toml:"title"`
		HTMLTemplate *string `toml:"html_template"`
	} `toml:"export"`
	Performance struct {
		Workers *int `toml:"workers"`
	} `toml:"performance"`
	Watch struct {
		DebounceMs *int `toml:"debounce_ms"`
	} `toml:"watch"`
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// parseTOML reads a .grepdoc.toml document over the defaults. Unknown keys
// are rejected so typos do not silently fall back to defaults.
func parseTOML(content []byte) (*Config, error) {
	var raw tomlConfig
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	cfg := Default("")
	setString(&cfg.Project.Root, raw.Project.Root)
	setBool(&cfg.Project.RespectGitignore, raw.Project.RespectGitignore)
	setInt(&cfg.Window.Radius, raw.Window.Radius)
	setInt(&cfg.Window.LongLineThreshold, raw.Window.LongLineThreshold)
	setInt(&cfg.Context.Before, raw.Context.Before)
	setInt(&cfg.Context.After, raw.Context.After)
	setBool(&cfg.Render.LineNumbers, raw.Render.LineNumbers)
	setBool(&cfg.Render.TrimWhitespace, raw.Render.TrimWhitespace)
	setString(&cfg.Export.Format, raw.Export.Format)
	setString(&cfg.Export.Title, raw.Export.Title)
	setString(&cfg.Export.HTMLTemplate, raw.Export.HTMLTemplate)
	setInt(&cfg.Performance.Workers, raw.Performance.Workers)
	setInt(&cfg.Watch.DebounceMs, raw.Watch.DebounceMs)
	cfg.Include = append(cfg.Include, raw.Include...)
	cfg.Exclude = append(cfg.Exclude, raw.Exclude...)

	return cfg, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/grepdoc/internal/config"
	"github.com/standardbeagle/grepdoc/internal/debug"
	"github.com/standardbeagle/grepdoc/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	rootFlag := c.String("root")

	cfg, err := config.LoadWithRoot(configPath, rootFlag)
	if err != nil {
		if configPath == "" {
			configPath = "project config"
		}
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}

	if c.IsSet("before") {
		cfg.Context.Before = c.Int("before")
	}
	if c.IsSet("after") {
		cfg.Context.After = c.Int("after")
	}
	if c.IsSet("context") {
		cfg.Context.Before = c.Int("context")
		cfg.Context.After = c.Int("context")
	}
	if c.IsSet("window") {
		cfg.Window.Radius = c.Int("window")
	}
	if c.IsSet("long-line") {
		cfg.Window.LongLineThreshold = c.Int("long-line")
	}
	if c.IsSet("line-numbers") {
		cfg.Render.LineNumbers = c.Bool("line-numbers")
	}
	if c.IsSet("trim") {
		cfg.Render.TrimWhitespace = c.Bool("trim")
	}
	if c.IsSet("title") {
		cfg.Export.Title = c.String("title")
	}
	if c.IsSet("workers") {
		cfg.Performance.Workers = c.Int("workers")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pipelineFlags are shared by every command that reads search output.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path (default: .grepdoc.kdl or .grepdoc.toml in the root)",
		},
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Project root; paths are shown and filtered relative to it",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Only export files matching glob patterns (e.g., --include '**/*.go')",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Skip files matching glob patterns (e.g., --exclude 'vendor/**')",
		},
		&cli.IntFlag{
			Name:    "before",
			Aliases: []string{"B"},
			Usage:   "Context lines before each match",
		},
		&cli.IntFlag{
			Name:    "after",
			Aliases: []string{"A"},
			Usage:   "Context lines after each match",
		},
		&cli.IntFlag{
			Name:    "context",
			Aliases: []string{"C"},
			Usage:   "Context lines before and after each match",
		},
		&cli.IntFlag{
			Name:  "window",
			Usage: "Characters kept around each match on long lines (0 disables windowing)",
		},
		&cli.IntFlag{
			Name:  "long-line",
			Usage: "Lines at least this long are windowed (0 disables windowing)",
		},
		&cli.BoolFlag{
			Name:    "line-numbers",
			Aliases: []string{"n"},
			Usage:   "Prefix result lines with their line number",
		},
		&cli.BoolFlag{
			Name:  "trim",
			Usage: "Remove leading whitespace from result lines",
		},
		&cli.StringFlag{
			Name:  "search-text",
			Usage: "Search text shown in export headers",
		},
		&cli.BoolFlag{
			Name:  "regex",
			Usage: "Record that the search text is a regular expression",
		},
		&cli.BoolFlag{
			Name:  "case-sensitive",
			Usage: "Record that the search was case sensitive",
		},
		&cli.BoolFlag{
			Name:  "whole-word",
			Usage: "Record that the search matched whole words",
		},
		&cli.BoolFlag{
			Name:  "invert",
			Usage: "Record that the search listed non-matching lines",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Files prepared in parallel (0 = auto)",
		},
	}
}

func newApp() *cli.App {
	exportFlags := append(pipelineFlags(),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the export to a file instead of stdout",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "text, html, xml, json, yaml or print (default: from --output extension, then config)",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "Title for text and HTML exports",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Re-export whenever the input file changes",
		},
	)

	return &cli.App{
		Name:                   "grepdoc",
		Usage:                  "Turn ripgrep JSON output into highlighted result documents",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug output to stderr",
			},
			&cli.BoolFlag{
				Name:  "debug-log",
				Usage: "Write debug output to a timestamped log file",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress debug output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "export",
				Aliases:   []string{"e"},
				Usage:     "Export search results (rg --json) as text, HTML, XML, JSON or YAML",
				ArgsUsage: "[rg-json-file|-]",
				Flags:     exportFlags,
				Action:    exportCommand,
			},
			{
				Name:      "show",
				Aliases:   []string{"s"},
				Usage:     "Print search results with highlighted matches",
				ArgsUsage: "[rg-json-file|-]",
				Flags:     pipelineFlags(),
				Action:    showCommand,
			},
			{
				Name:  "version",
				Usage: "Show version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, version.FullInfo())
					return nil
				},
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("quiet") {
				debug.SetQuietMode(true)
				return nil
			}
			if c.Bool("debug-log") {
				path, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				debug.EnableDebug = "true"
				fmt.Fprintf(c.App.ErrWriter, "Debug log: %s\n", path)
				return nil
			}
			if c.Bool("debug") {
				debug.EnableDebug = "true"
			}
			if debug.IsDebugEnabled() {
				debug.SetDebugOutput(c.App.ErrWriter)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

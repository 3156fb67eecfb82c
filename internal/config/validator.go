package config

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	gderrors "github.com/standardbeagle/grepdoc/internal/errors"
	"github.com/standardbeagle/grepdoc/internal/export"
)

// maxContextLines bounds before/after context to keep exports readable.
const maxContextLines = 1000

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
// Returns an error if validation fails
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if cfg.Project.Root == "" {
		return gderrors.NewConfigError("project.root", "", errors.New("project root cannot be empty"))
	}

	if err := v.validateWindow(cfg.Window); err != nil {
		return err
	}

	if err := v.validateContext(cfg.Context); err != nil {
		return err
	}

	if cfg.Export.Format != "" {
		if _, err := export.ParseFormat(cfg.Export.Format); err != nil {
			return gderrors.NewConfigError("export.format", cfg.Export.Format, err)
		}
	}

	if cfg.Performance.Workers < 0 {
		return gderrors.NewConfigError("performance.workers", strconv.Itoa(cfg.Performance.Workers),
			errors.New("workers cannot be negative"))
	}

	if cfg.Watch.DebounceMs < 0 {
		return gderrors.NewConfigError("watch.debounce_ms", strconv.Itoa(cfg.Watch.DebounceMs),
			errors.New("debounce cannot be negative"))
	}

	if err := gderrors.NewMultiError(append(
		v.validatePatterns("include", cfg.Include),
		v.validatePatterns("exclude", cfg.Exclude)...,
	)).ErrorOrNil(); err != nil {
		return err
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateWindow(w Window) error {
	if w.Radius < 0 {
		return gderrors.NewConfigError("window.radius", strconv.Itoa(w.Radius),
			fmt.Errorf("radius cannot be negative, got %d", w.Radius))
	}
	if w.LongLineThreshold < 0 {
		return gderrors.NewConfigError("window.long_line_threshold", strconv.Itoa(w.LongLineThreshold),
			fmt.Errorf("threshold cannot be negative, got %d", w.LongLineThreshold))
	}
	return nil
}

func (v *Validator) validateContext(c Context) error {
	if c.Before < 0 || c.Before > maxContextLines {
		return gderrors.NewConfigError("context.before", strconv.Itoa(c.Before),
			fmt.Errorf("must be between 0 and %d", maxContextLines))
	}
	if c.After < 0 || c.After > maxContextLines {
		return gderrors.NewConfigError("context.after", strconv.Itoa(c.After),
			fmt.Errorf("must be between 0 and %d", maxContextLines))
	}
	return nil
}

// validatePatterns returns one ConfigError per malformed glob.
func (v *Validator) validatePatterns(field string, patterns []string) []error {
	var errs []error
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, gderrors.NewConfigError(field, p, errors.New("invalid glob pattern")))
		}
	}
	return errs
}

// setSmartDefaults applies smart defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	// Leave one core for the OS, minimum of 1
	if cfg.Performance.Workers == 0 {
		cfg.Performance.Workers = max(1, runtime.NumCPU()-1)
	}

	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = DefaultWatchDebounceMs
	}

	if cfg.Export.Format == "" {
		cfg.Export.Format = DefaultExportFormat
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}

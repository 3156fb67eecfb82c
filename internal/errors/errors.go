package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Error types for grepdoc
type ErrorType string

const (
	// Input errors
	ErrorTypeInput ErrorType = "input"

	// Output errors
	ErrorTypeExport ErrorType = "export"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// InputError reports search output that violates the line contract
// (malformed JSON, unsorted or overlapping matches).
type InputError struct {
	Type       ErrorType
	Source     string // stream or file name
	FilePath   string // searched file the record belongs to, if known
	Line       int    // stream line (JSON) or source line number
	Underlying error
	Timestamp  time.Time
}

// NewInputError creates a new input error
func NewInputError(source string, line int, err error) *InputError {
	return &InputError{
		Type:       ErrorTypeInput,
		Source:     source,
		Line:       line,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithFile adds the searched file to the error
func (e *InputError) WithFile(path string) *InputError {
	e.FilePath = path
	return e
}

// Error implements the error interface
func (e *InputError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("invalid input %s:%d (file %s): %v", e.Source, e.Line, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("invalid input %s:%d: %v", e.Source, e.Line, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *InputError) Unwrap() error {
	return e.Underlying
}

// ExportError represents a failure writing a rendered document
type ExportError struct {
	Type       ErrorType
	Format     string
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewExportError creates a new export error
func NewExportError(format, path string, err error) *ExportError {
	return &ExportError{
		Type:       ErrorTypeExport,
		Format:     format,
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ExportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s export to %s failed: %v", e.Format, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s export failed: %v", e.Format, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ExportError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	errStr := err.Error()
	return errStr == "permission denied" || errStr == "access denied"
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError collects independent failures, such as every malformed glob
// in one configuration, so they are reported in one go.
type MultiError struct {
	Errors []error
}

// NewMultiError keeps the non-nil errors of errs.
func NewMultiError(errs []error) *MultiError {
	m := &MultiError{}
	for _, err := range errs {
		if err != nil {
			m.Errors = append(m.Errors, err)
		}
	}
	return m
}

// ErrorOrNil returns nil when nothing was collected, so callers never hand
// back a non-nil error interface holding an empty MultiError.
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

func (e *MultiError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

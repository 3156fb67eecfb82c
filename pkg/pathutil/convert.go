// Package pathutil converts between the paths a search engine reports and the
// paths shown in exported documents.
//
// Search engines report whatever paths they were invoked with, which are
// often absolute. Exported documents read better with paths relative to the
// project root, and glob filters are always matched against slash-separated
// relative paths.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/grepdoc/internal/searchtypes"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// Outside the root the absolute path is clearer
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// MatchPath returns the slash-separated path used for glob matching.
func MatchPath(path, rootDir string) string {
	rel := ToRelative(path, rootDir)
	rel = filepath.ToSlash(rel)
	return strings.TrimPrefix(rel, "./")
}

// ToRelativeFileResults converts the paths of file results to relative paths.
// Creates a new slice without modifying the original results.
func ToRelativeFileResults(results []searchtypes.FileResult, rootDir string) []searchtypes.FileResult {
	if len(results) == 0 {
		return results
	}

	converted := make([]searchtypes.FileResult, len(results))
	copy(converted, results)

	for i := range converted {
		converted[i].Path = ToRelative(converted[i].Path, rootDir)
	}

	return converted
}

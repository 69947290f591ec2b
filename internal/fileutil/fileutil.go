// Package fileutil provides path naming and file helpers shared by all
// pipeline stages.
package fileutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name to its filesystem/URL-safe form:
// lowercase, every run of non-alphanumeric characters collapsed to a single
// dash, leading and trailing dashes stripped. Every stage derives artifact
// paths through this function, so it must stay stable.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// FileExists checks if a regular file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// EnsureDir creates the directory and any missing parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// WriteFileIfAbsent writes data to a file only when no file exists there yet.
// Returns true if the file was written, false if it was skipped. Existing
// files are the pipeline's completion markers, so they are never clobbered.
func WriteFileIfAbsent(filePath string, data []byte, perm os.FileMode) (bool, error) {
	if FileExists(filePath) {
		return false, nil
	}

	if err := EnsureDir(filepath.Dir(filePath)); err != nil {
		return false, err
	}

	if err := os.WriteFile(filePath, data, perm); err != nil {
		return false, err
	}

	return true, nil
}

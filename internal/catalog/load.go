package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// FragmentPaths lists the YAML fragment files in dir in a stable sorted
// order so repeated runs process fragments deterministically.
func FragmentPaths(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing fragments in %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadFragment reads and repairs a single fragment file.
func LoadFragment(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fragment: %w", err)
	}
	return ParseFragment(data)
}

// LoadFragments reads every fragment in dir and merges them into one
// catalog. A fragment that fails to parse is logged and skipped; it never
// aborts the load.
func LoadFragments(dir string) (Catalog, error) {
	paths, err := FragmentPaths(dir)
	if err != nil {
		return nil, err
	}

	merged := Catalog{}
	for _, path := range paths {
		fragment, err := LoadFragment(path)
		if err != nil {
			slog.Error("Failed to load fragment, skipping", "fragment", filepath.Base(path), "error", err)
			continue
		}
		merged.Absorb(fragment)
	}

	return merged, nil
}

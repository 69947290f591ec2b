// Package generate implements stage 4 of the pipeline: convert timeline
// YAML files into TypeScript data modules for the frontend.
package generate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/vitrine/internal/fileutil"
)

// requiredKeys must all be present on a timeline item for it to be emitted.
var requiredKeys = []string{"id", "year", "imageUrl", "name"}

// GenerateWithParams converts every YAML timeline list under inputDir into a
// TypeScript module under outputDir. Files that are not lists are skipped
// with a warning; per-file failures do not abort the stage.
func GenerateWithParams(inputDir, outputDir string) error {
	paths, err := filepath.Glob(filepath.Join(inputDir, "*.yaml"))
	if err != nil {
		return err
	}
	sort.Strings(paths)

	if err := fileutil.EnsureDir(outputDir); err != nil {
		return err
	}

	generated := 0
	for _, path := range paths {
		if err := generateFile(path, outputDir); err != nil {
			slog.Warn("Skipping timeline file", "path", path, "error", err)
			continue
		}
		generated++
	}
	slog.Info("Generation stage complete", "files", generated)
	return nil
}

func generateFile(path, outputDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var items []map[string]any
	if err := yaml.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("content is not a list of timeline items: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	rendered := Render(base, items)

	out := filepath.Join(outputDir, base+".ts")
	if err := os.WriteFile(out, []byte(rendered), 0644); err != nil {
		return err
	}
	slog.Info("Generated TypeScript data", "path", out, "items", len(items))
	return nil
}

// Render builds the TypeScript module source for one timeline. Items missing
// a required key are dropped with a warning rather than producing broken
// output.
func Render(name string, items []map[string]any) string {
	var sb strings.Builder
	sb.WriteString("import type { TimelineItem } from \"./types\";\n\n")
	fmt.Fprintf(&sb, "export const %sData: TimelineItem[] = [\n", name)

	for _, item := range items {
		if key, ok := missingKey(item); !ok {
			slog.Warn("Skipping timeline item", "timeline", name, "missing", key)
			continue
		}
		sb.WriteString("  {\n")
		fmt.Fprintf(&sb, "    id: %s,\n", scalar(item["id"]))
		fmt.Fprintf(&sb, "    year: %s,\n", scalar(item["year"]))
		fmt.Fprintf(&sb, "    imageUrl: %q,\n", fmt.Sprint(item["imageUrl"]))
		fmt.Fprintf(&sb, "    name: %q,\n", fmt.Sprint(item["name"]))
		sb.WriteString("  },\n")
	}

	sb.WriteString("];\n")
	return sb.String()
}

func missingKey(item map[string]any) (string, bool) {
	for _, key := range requiredKeys {
		if _, ok := item[key]; !ok {
			return key, false
		}
	}
	return "", true
}

// scalar renders numbers bare and everything else as a quoted string.
func scalar(value any) string {
	switch value.(type) {
	case int, int64, float64:
		return fmt.Sprint(value)
	default:
		return fmt.Sprintf("%q", fmt.Sprint(value))
	}
}

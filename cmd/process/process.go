// Package process implements stage 2 of the pipeline: strip the background
// from every discovered image and mirror the result as PNG under the
// processed root.
package process

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/lepinkainen/vitrine/internal/fileutil"
	"github.com/lepinkainen/vitrine/internal/images"
	"github.com/lepinkainen/vitrine/internal/pool"
	"github.com/lepinkainen/vitrine/internal/report"
)

// Remover strips the background from an image and returns a URL to the
// processed result.
type Remover interface {
	Remove(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Downloader fetches raw bytes from a URL.
type Downloader interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

// Task is one source image to process, identified by its absolute path and
// its path relative to the discovery root.
type Task struct {
	SourcePath string
	RelPath    string
}

// Runner executes the background removal stage.
type Runner struct {
	Removal     Remover
	Download    Downloader
	Store       images.Store
	Concurrency int
}

var sourceExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// CollectTasks walks the discovery root for source images. A missing root
// yields no tasks rather than an error so the stage is a no-op on a fresh
// tree.
func (r *Runner) CollectTasks() ([]Task, error) {
	root := r.Store.DiscoveryRoot
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var tasks []Task
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tasks = append(tasks, Task{SourcePath: path, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return tasks, nil
}

// Run fans processing tasks out across the worker pool.
func (r *Runner) Run(ctx context.Context) (*report.Summary, error) {
	tasks, err := r.CollectTasks()
	if err != nil {
		return nil, err
	}

	results := pool.Map(ctx, tasks, r.Concurrency, r.processOne)

	summary := report.NewSummary("process")
	for _, res := range results {
		switch {
		case res.Err != nil:
			summary.AddFailed()
			slog.Warn("Background removal failed", "image", res.Task.RelPath, "error", res.Err)
		case res.Value:
			summary.AddChanged()
		default:
			summary.AddSkipped()
		}
	}
	return summary, nil
}

// processOne strips the background from one source image. The processed
// mirror path doubles as the completion marker, so an existing mirror means
// the task is already done.
func (r *Runner) processOne(ctx context.Context, task Task) (bool, error) {
	dest := r.Store.ProcessedMirror(task.RelPath)
	if fileutil.FileExists(dest) {
		slog.Debug("Image already processed", "path", dest)
		return false, nil
	}

	data, err := os.ReadFile(task.SourcePath)
	if err != nil {
		return false, err
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(task.SourcePath)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	outputURL, err := r.Removal.Remove(ctx, data, mimeType)
	if err != nil {
		return false, err
	}

	processed, err := r.Download.GetBytes(ctx, outputURL)
	if err != nil {
		return false, fmt.Errorf("downloading processed image: %w", err)
	}

	// Normalize to PNG regardless of what the removal service returned.
	img, err := imaging.Decode(bytes.NewReader(processed))
	if err != nil {
		return false, fmt.Errorf("decoding processed image: %w", err)
	}

	if err := fileutil.EnsureDir(filepath.Dir(dest)); err != nil {
		return false, err
	}
	if err := imaging.Save(img, dest); err != nil {
		return false, err
	}

	slog.Info("Processed image", "image", task.RelPath)
	return true, nil
}

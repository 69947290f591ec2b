// Package upload implements stage 3 of the pipeline: host every processed
// image externally and write enriched fragment copies, plus the merged
// datatable, to the processed root.
package upload

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lepinkainen/vitrine/internal/catalog"
	"github.com/lepinkainen/vitrine/internal/fileutil"
	"github.com/lepinkainen/vitrine/internal/images"
	"github.com/lepinkainen/vitrine/internal/pool"
	"github.com/lepinkainen/vitrine/internal/report"
)

// DatatableName is the merged catalog written after all fragments are
// enriched. It is excluded from its own merge.
const DatatableName = "datatable.yaml"

// Uploader hosts an image externally and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, image []byte) (string, error)
}

// Task is one product entry to host, carrying its raw fragment value.
type Task struct {
	DesignHouse string
	Product     string
	Raw         any
}

// entry is the unified record for a task after the upload attempt, with
// Changed set when a fresh URL was written into it.
type entry struct {
	Record  catalog.Record
	Changed bool
}

// Runner executes the hosting stage.
type Runner struct {
	Host        Uploader
	Store       images.Store
	Concurrency int
}

// Run enriches every fragment in the discovery root and then rebuilds the
// merged datatable. Fragment failures are isolated so one broken file does
// not block the rest.
func (r *Runner) Run(ctx context.Context) (*report.Summary, error) {
	paths, err := catalog.FragmentPaths(r.Store.DiscoveryRoot)
	if err != nil {
		return nil, err
	}

	summary := report.NewSummary("upload")
	for _, path := range paths {
		frag, err := catalog.LoadFragment(path)
		if err != nil {
			slog.Error("Skipping unreadable fragment", "path", path, "error", err)
			summary.AddFailed()
			continue
		}

		enriched, changed := r.enrichFragment(ctx, frag, summary)

		out := filepath.Join(r.Store.ProcessedRoot, filepath.Base(path))
		if err := catalog.WriteFile(out, enriched); err != nil {
			slog.Error("Failed to write enriched fragment", "path", out, "error", err)
			summary.AddFailed()
			continue
		}
		if changed {
			slog.Info("Updated fragment", "path", out)
		} else {
			slog.Debug("Fragment unchanged", "path", out)
		}
	}

	if err := r.buildDatatable(); err != nil {
		return nil, err
	}
	return summary, nil
}

// enrichFragment fans the fragment's entries out across the worker pool and
// folds the per-entry results back into a catalog. Entries that fail keep
// their unified record so the written fragment never loses data.
func (r *Runner) enrichFragment(ctx context.Context, frag catalog.Catalog, summary *report.Summary) (catalog.Catalog, bool) {
	var tasks []Task
	for designHouse, products := range frag {
		for product, raw := range products {
			tasks = append(tasks, Task{DesignHouse: designHouse, Product: product, Raw: raw})
		}
	}

	results := pool.Map(ctx, tasks, r.Concurrency, r.uploadOne)

	enriched := catalog.Catalog{}
	for designHouse := range frag {
		enriched[designHouse] = catalog.ProductMap{}
	}

	changed := false
	for _, res := range results {
		rec := res.Value.Record
		if rec == nil {
			// Worker never produced a record (panic or cancellation).
			rec = catalog.Unify(res.Task.Raw)
		}
		enriched[res.Task.DesignHouse][res.Task.Product] = rec

		switch {
		case res.Err != nil:
			summary.AddFailed()
			slog.Warn("Image upload failed",
				"design_house", res.Task.DesignHouse,
				"product", res.Task.Product,
				"error", res.Err)
		case res.Value.Changed:
			summary.AddChanged()
			changed = true
		default:
			summary.AddSkipped()
		}
	}
	return enriched, changed
}

// uploadOne hosts one product's processed image. Entries already carrying a
// hosted URL, and entries whose processed image does not exist yet, are left
// untouched.
func (r *Runner) uploadOne(ctx context.Context, task Task) (entry, error) {
	rec := catalog.Unify(task.Raw)

	if r.Store.Hosted(rec) {
		slog.Debug("Image already hosted", "design_house", task.DesignHouse, "product", task.Product)
		return entry{Record: rec}, nil
	}

	pngPath := r.Store.ProcessedPath(task.DesignHouse, task.Product, rec.Year())
	if !fileutil.FileExists(pngPath) {
		slog.Debug("No processed image yet", "design_house", task.DesignHouse, "product", task.Product)
		return entry{Record: rec}, nil
	}

	data, err := os.ReadFile(pngPath)
	if err != nil {
		return entry{Record: rec}, err
	}

	url, err := r.Host.Upload(ctx, data)
	if err != nil {
		return entry{Record: rec}, err
	}

	rec.SetImage(url)
	slog.Info("Hosted image", "design_house", task.DesignHouse, "product", task.Product, "url", url)
	return entry{Record: rec, Changed: true}, nil
}

// buildDatatable merges every enriched fragment in the processed root into a
// single catalog, last write wins, and rewrites the datatable.
func (r *Runner) buildDatatable() error {
	paths, err := catalog.FragmentPaths(r.Store.ProcessedRoot)
	if err != nil {
		return err
	}

	merged := catalog.Catalog{}
	for _, path := range paths {
		if filepath.Base(path) == DatatableName {
			continue
		}
		frag, err := catalog.LoadFragment(path)
		if err != nil {
			slog.Error("Skipping unreadable fragment", "path", path, "error", err)
			continue
		}
		merged.Absorb(frag)
	}

	out := filepath.Join(r.Store.ProcessedRoot, DatatableName)
	if err := catalog.WriteFile(out, merged); err != nil {
		return err
	}
	slog.Info("Rebuilt datatable", "path", out, "design_houses", len(merged))
	return nil
}

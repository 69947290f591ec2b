// Package discover implements stage 1 of the pipeline: find one candidate
// image per catalog product and download it to the discovery root.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/lepinkainen/vitrine/internal/catalog"
	"github.com/lepinkainen/vitrine/internal/fileutil"
	"github.com/lepinkainen/vitrine/internal/images"
	"github.com/lepinkainen/vitrine/internal/pool"
	"github.com/lepinkainen/vitrine/internal/report"
)

// DefaultDownloadTimeout bounds a single image download.
const DefaultDownloadTimeout = 5 * time.Second

// Searcher finds a candidate image URL for a product. An empty URL with a
// nil error means no image was found.
type Searcher interface {
	FindImage(ctx context.Context, designHouse, product string) (string, error)
}

// Downloader fetches raw bytes from a URL.
type Downloader interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

// Task identifies one product to discover an image for.
type Task struct {
	DesignHouse string
	Product     string
	Year        string
}

// Runner executes the discovery stage over a catalog.
type Runner struct {
	Search          Searcher
	Download        Downloader
	Store           images.Store
	Concurrency     int
	DownloadTimeout time.Duration
}

// BuildTasks flattens a catalog into discovery tasks, unifying each raw
// product value to extract its year. Tasks are ordered deterministically;
// execution order across the pool is not.
func BuildTasks(cat catalog.Catalog) []Task {
	houses := make([]string, 0, len(cat))
	for designHouse := range cat {
		houses = append(houses, designHouse)
	}
	sort.Strings(houses)

	var tasks []Task
	for _, designHouse := range houses {
		products := cat[designHouse]
		names := make([]string, 0, len(products))
		for product := range products {
			names = append(names, product)
		}
		sort.Strings(names)

		for _, product := range names {
			rec := catalog.Unify(products[product])
			tasks = append(tasks, Task{
				DesignHouse: designHouse,
				Product:     product,
				Year:        rec.Year(),
			})
		}
	}
	return tasks
}

// Run fans discovery tasks out across the worker pool and folds the results
// into a stage summary. Individual task failures are logged and isolated.
func (r *Runner) Run(ctx context.Context, cat catalog.Catalog) *report.Summary {
	tasks := BuildTasks(cat)
	results := pool.Map(ctx, tasks, r.Concurrency, r.discoverOne)

	summary := report.NewSummary("discover")
	for _, res := range results {
		switch {
		case res.Err != nil:
			summary.AddFailed()
			slog.Warn("Image discovery failed",
				"design_house", res.Task.DesignHouse,
				"product", res.Task.Product,
				"error", res.Err)
		case res.Value:
			summary.AddChanged()
		default:
			summary.AddSkipped()
		}
	}
	return summary
}

// discoverOne handles a single product: skip when the artifact already
// exists, otherwise search, download, validate and save. Returns whether a
// new artifact was written.
func (r *Runner) discoverOne(ctx context.Context, task Task) (bool, error) {
	path := r.Store.DiscoveryPath(task.DesignHouse, task.Product, task.Year)
	if fileutil.FileExists(path) {
		slog.Debug("Image already downloaded", "path", path)
		return false, nil
	}

	imageURL, err := r.Search.FindImage(ctx, task.DesignHouse, task.Product)
	if err != nil {
		return false, err
	}
	if imageURL == "" {
		slog.Debug("No image found", "design_house", task.DesignHouse, "product", task.Product)
		return false, nil
	}

	timeout := r.DownloadTimeout
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	dlCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := r.Download.GetBytes(dlCtx, imageURL)
	if err != nil {
		return false, fmt.Errorf("downloading %s: %w", imageURL, err)
	}

	if !images.ValidImage(data) {
		return false, fmt.Errorf("downloaded data from %s is not a decodable image", imageURL)
	}

	written, err := fileutil.WriteFileIfAbsent(path, data, 0644)
	if err != nil {
		return false, err
	}
	if written {
		slog.Info("Downloaded image", "design_house", task.DesignHouse, "product", task.Product)
	}
	return written, nil
}

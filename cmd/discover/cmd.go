package discover

import (
	"context"
	"log/slog"
	"os"

	"github.com/lepinkainen/vitrine/internal/catalog"
	"github.com/lepinkainen/vitrine/internal/config"
	"github.com/lepinkainen/vitrine/internal/errors"
	"github.com/lepinkainen/vitrine/internal/hosting"
	"github.com/lepinkainen/vitrine/internal/httpx"
	"github.com/lepinkainen/vitrine/internal/images"
	"github.com/lepinkainen/vitrine/internal/serpapi"
)

// DiscoverWithParams runs the discovery stage against the configured data
// directories. A missing search credential is fatal before any task runs.
func DiscoverWithParams(dataDir, processedDir string, concurrency int) error {
	if config.SerpAPIKey == "" {
		return errors.NewConfigError("SERP_API_KEY not set (required for image search)")
	}

	cat, err := catalog.LoadFragments(dataDir)
	if err != nil {
		return err
	}

	runner := &Runner{
		Search:      serpapi.NewClient(config.SerpAPIKey),
		Download:    httpx.New(httpx.WithTimeout(DefaultDownloadTimeout)),
		Store:       images.Store{DiscoveryRoot: dataDir, ProcessedRoot: processedDir, HostedDomain: hosting.Domain},
		Concurrency: concurrency,
	}

	summary := runner.Run(context.Background(), cat)
	summary.Render(os.Stdout)
	slog.Info("Discovery stage complete", "changed", summary.Changed, "skipped", summary.Skipped, "failed", summary.Failed)
	return nil
}

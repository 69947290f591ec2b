package process

import (
	"context"
	"log/slog"
	"os"

	"github.com/lepinkainen/vitrine/internal/config"
	"github.com/lepinkainen/vitrine/internal/errors"
	"github.com/lepinkainen/vitrine/internal/hosting"
	"github.com/lepinkainen/vitrine/internal/httpx"
	"github.com/lepinkainen/vitrine/internal/images"
	"github.com/lepinkainen/vitrine/internal/removal"
)

// ProcessWithParams runs the background removal stage against the configured
// data directories. A missing removal credential is fatal before any task
// runs.
func ProcessWithParams(dataDir, processedDir string, concurrency int) error {
	if config.ReplicateAPIToken == "" {
		return errors.NewConfigError("REPLICATE_API_TOKEN not set (required for background removal)")
	}

	runner := &Runner{
		Removal:     removal.NewClient(config.ReplicateAPIToken),
		Download:    httpx.New(),
		Store:       images.Store{DiscoveryRoot: dataDir, ProcessedRoot: processedDir, HostedDomain: hosting.Domain},
		Concurrency: concurrency,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		return err
	}
	summary.Render(os.Stdout)
	slog.Info("Processing stage complete", "changed", summary.Changed, "skipped", summary.Skipped, "failed", summary.Failed)
	return nil
}

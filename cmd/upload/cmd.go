package upload

import (
	"context"
	"log/slog"
	"os"

	"github.com/lepinkainen/vitrine/internal/config"
	"github.com/lepinkainen/vitrine/internal/errors"
	"github.com/lepinkainen/vitrine/internal/hosting"
	"github.com/lepinkainen/vitrine/internal/images"
)

// UploadWithParams runs the hosting stage against the configured data
// directories. A missing hosting credential is fatal before any task runs.
func UploadWithParams(dataDir, processedDir string, concurrency int) error {
	if config.ImgBBAPIKey == "" {
		return errors.NewConfigError("IBB_API_KEY not set (required for image hosting)")
	}

	runner := &Runner{
		Host:        hosting.NewClient(config.ImgBBAPIKey),
		Store:       images.Store{DiscoveryRoot: dataDir, ProcessedRoot: processedDir, HostedDomain: hosting.Domain},
		Concurrency: concurrency,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		return err
	}
	summary.Render(os.Stdout)
	slog.Info("Upload stage complete", "changed", summary.Changed, "skipped", summary.Skipped, "failed", summary.Failed)
	return nil
}

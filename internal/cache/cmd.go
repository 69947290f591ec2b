package cache

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

// ClearCmd represents the cache clear subcommand. It drops cached search
// responses so the next discovery run re-queries the provider.
type ClearCmd struct{}

func (c *ClearCmd) Run() error {
	slog.Info("Clearing search cache", "database", viper.GetString("cache.dbfile"))

	cacheDB, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	rowsDeleted, err := cacheDB.ClearAll(SearchTable)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	slog.Info("Cache cleared", "rows_deleted", rowsDeleted)
	return nil
}

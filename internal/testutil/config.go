package testutil

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/lepinkainen/vitrine/internal/cache"
	"github.com/lepinkainen/vitrine/internal/config"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	DataDir           string
	ProcessedDir      string
	Concurrency       int
	SerpAPIKey        string
	ReplicateAPIToken string
	ImgBBAPIKey       string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		DataDir:           config.DataDir,
		ProcessedDir:      config.ProcessedDir,
		Concurrency:       config.Concurrency,
		SerpAPIKey:        config.SerpAPIKey,
		ReplicateAPIToken: config.ReplicateAPIToken,
		ImgBBAPIKey:       config.ImgBBAPIKey,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.DataDir = state.DataDir
	config.ProcessedDir = state.ProcessedDir
	config.Concurrency = state.Concurrency
	config.SerpAPIKey = state.SerpAPIKey
	config.ReplicateAPIToken = state.ReplicateAPIToken
	config.ImgBBAPIKey = state.ImgBBAPIKey
}

// ResetConfig saves the current config state and schedules restoration when
// the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetupTestCache points the global response cache at a throwaway database
// inside the test environment and schedules its teardown.
func SetupTestCache(t *testing.T, env *TestEnv) {
	t.Helper()

	if err := cache.ResetGlobalCache(); err != nil {
		t.Fatalf("failed to reset cache: %v", err)
	}

	viper.Set("cache.dbfile", env.Path("cache", "test-cache.db"))
	viper.Set("cache.ttl", "24h")
	env.MkdirAll("cache")

	t.Cleanup(func() {
		_ = cache.ResetGlobalCache()
	})
}

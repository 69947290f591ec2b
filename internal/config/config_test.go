package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	InitConfig()

	assert.Equal(t, "./data-store", DataDir)
	assert.Equal(t, "./data-store-processed", ProcessedDir)
	assert.Equal(t, "./data-yaml", GenerateInputDir)
	assert.Equal(t, "./ts-data", GenerateOutputDir)
	assert.Equal(t, 10, Concurrency)
}

func TestInitConfigReadsViperValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("datadir", "/srv/catalog")
	viper.Set("concurrency", 4)
	viper.Set("SerpAPIKey", "search-key")
	viper.Set("ImgBBAPIKey", "host-key")

	InitConfig()

	assert.Equal(t, "/srv/catalog", DataDir)
	assert.Equal(t, 4, Concurrency)
	assert.Equal(t, "search-key", SerpAPIKey)
	assert.Equal(t, "host-key", ImgBBAPIKey)
}

func TestSetConcurrency(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	InitConfig()
	SetConcurrency(3)
	assert.Equal(t, 3, Concurrency)

	// Non-positive widths are ignored.
	SetConcurrency(0)
	assert.Equal(t, 3, Concurrency)
}

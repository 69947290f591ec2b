package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// DataDir holds source fragments and downloaded discovery images
	DataDir string
	// ProcessedDir holds background-stripped images, enriched fragments and the datatable
	ProcessedDir string
	// GenerateInputDir holds the timeline YAML lists for code generation
	GenerateInputDir string
	// GenerateOutputDir receives the generated TypeScript files
	GenerateOutputDir string
	// Concurrency is the worker pool width for enrichment stages
	Concurrency int
	// SerpAPIKey is the API key for the image search provider
	SerpAPIKey string
	// ReplicateAPIToken is the API token for the background removal provider
	ReplicateAPIToken string
	// ImgBBAPIKey is the API key for the image hosting provider
	ImgBBAPIKey string
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("datadir", "./data-store")
	viper.SetDefault("processeddir", "./data-store-processed")
	viper.SetDefault("generate.inputdir", "./data-yaml")
	viper.SetDefault("generate.outputdir", "./ts-data")
	viper.SetDefault("concurrency", 10)

	// Get values from viper
	DataDir = viper.GetString("datadir")
	ProcessedDir = viper.GetString("processeddir")
	GenerateInputDir = viper.GetString("generate.inputdir")
	GenerateOutputDir = viper.GetString("generate.outputdir")
	Concurrency = viper.GetInt("concurrency")
	SerpAPIKey = viper.GetString("SerpAPIKey")
	ReplicateAPIToken = viper.GetString("ReplicateAPIToken")
	ImgBBAPIKey = viper.GetString("ImgBBAPIKey")
}

// SetConcurrency sets the worker pool width
func SetConcurrency(width int) {
	if width > 0 {
		Concurrency = width
	}
}

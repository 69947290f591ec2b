package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/vitrine/cmd/discover"
	"github.com/lepinkainen/vitrine/cmd/generate"
	"github.com/lepinkainen/vitrine/cmd/process"
	"github.com/lepinkainen/vitrine/cmd/upload"
	"github.com/lepinkainen/vitrine/internal/cache"
	"github.com/lepinkainen/vitrine/internal/config"
)

var (
	runDiscover = discover.DiscoverWithParams
	runProcess  = process.ProcessWithParams
	runUpload   = upload.UploadWithParams
	runGenerate = generate.GenerateWithParams
)

// CLI represents the complete command structure for the vitrine application
type CLI struct {
	// Global flags
	DataDir      string `help:"Directory holding catalog fragments and discovered images" default:"./data-store"`
	ProcessedDir string `help:"Directory receiving processed images and enriched fragments" default:"./data-store-processed"`
	Concurrency  int    `help:"Worker pool width for enrichment stages" default:"10"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Discover DiscoverCmd `cmd:"" help:"Find and download a candidate image for each product"`
	Process  ProcessCmd  `cmd:"" help:"Strip backgrounds from discovered images"`
	Upload   UploadCmd   `cmd:"" help:"Host processed images and write enriched fragments"`
	Generate GenerateCmd `cmd:"" help:"Generate TypeScript data files from timeline YAML"`
	Run      RunCmd      `cmd:"" help:"Run all pipeline stages in order"`
	Cache    CacheCmd    `cmd:"" help:"Manage the search response cache"`
}

// DiscoverCmd represents the image discovery stage
type DiscoverCmd struct{}

// ProcessCmd represents the background removal stage
type ProcessCmd struct{}

// UploadCmd represents the image hosting stage
type UploadCmd struct{}

// GenerateCmd represents the TypeScript generation stage
type GenerateCmd struct {
	InputDir  string `short:"d" help:"Directory containing timeline YAML files (defaults to ./data-yaml)"`
	OutputDir string `short:"o" help:"Directory to write TypeScript data files to (defaults to ./ts-data)"`
}

// RunCmd runs every pipeline stage in order
type RunCmd struct{}

// CacheCmd groups cache management subcommands
type CacheCmd struct {
	Clear cache.ClearCmd `cmd:"" help:"Clear cached search responses"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("vitrine"),
		kong.Description("A tool to enrich a design catalog with hosted product images."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("datadir", "./data-store")
	viper.SetDefault("processeddir", "./data-store-processed")
	viper.SetDefault("generate.inputdir", "./data-yaml")
	viper.SetDefault("generate.outputdir", "./ts-data")
	viper.SetDefault("concurrency", 10)

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Enable environment variable support
	viper.AutomaticEnv()
	// Bind specific environment variables to config keys
	for key, envVar := range map[string]string{
		"SerpAPIKey":        "SERP_API_KEY",
		"ReplicateAPIToken": "REPLICATE_API_TOKEN",
		"ImgBBAPIKey":       "IBB_API_KEY",
	} {
		if err := viper.BindEnv(key, envVar); err != nil {
			slog.Error("Failed to bind environment variable", "variable", envVar, "error", err)
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.DataDir = cli.DataDir
	config.ProcessedDir = cli.ProcessedDir
	config.SetConcurrency(cli.Concurrency)

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
}

// Run methods for each command

func (d *DiscoverCmd) Run() error {
	return runDiscover(config.DataDir, config.ProcessedDir, config.Concurrency)
}

func (p *ProcessCmd) Run() error {
	return runProcess(config.DataDir, config.ProcessedDir, config.Concurrency)
}

func (u *UploadCmd) Run() error {
	return runUpload(config.DataDir, config.ProcessedDir, config.Concurrency)
}

func (g *GenerateCmd) Run() error {
	// Read from config if values not provided via flags
	inputDir := g.InputDir
	if inputDir == "" {
		inputDir = config.GenerateInputDir
	}
	outputDir := g.OutputDir
	if outputDir == "" {
		outputDir = config.GenerateOutputDir
	}

	return runGenerate(inputDir, outputDir)
}

func (r *RunCmd) Run() error {
	slog.Info("Starting catalog enrichment pipeline")

	stages := []struct {
		name string
		run  func() error
	}{
		{"discover", func() error { return runDiscover(config.DataDir, config.ProcessedDir, config.Concurrency) }},
		{"process", func() error { return runProcess(config.DataDir, config.ProcessedDir, config.Concurrency) }},
		{"upload", func() error { return runUpload(config.DataDir, config.ProcessedDir, config.Concurrency) }},
		{"generate", func() error { return runGenerate(config.GenerateInputDir, config.GenerateOutputDir) }},
	}

	for _, stage := range stages {
		slog.Info("Running stage", "stage", stage.name)
		if err := stage.run(); err != nil {
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}
	}

	slog.Info("Pipeline completed successfully")
	return nil
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}

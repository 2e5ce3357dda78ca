package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/heightgrid/internal/app"
	"github.com/chrissnell/heightgrid/internal/constants"
	"github.com/chrissnell/heightgrid/internal/log"
	"github.com/chrissnell/heightgrid/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "heightgrid.yaml", "Path to YAML configuration file")
	input := flag.String("input", "", "Contour GeoJSON file, overrides input.path")
	dataset := flag.String("dataset", "", "Dataset id resolved inside input.dataset-dir, overrides input.dataset")
	output := flag.String("output", "", "Output directory, '-' for stdout; overrides output.directory")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("heightgrid %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load configuration
	cfgData, err := loadConfig(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if err := applyOverrides(cfgData, *input, *dataset, *output); err != nil {
		log.Errorf("Invalid command line: %v", err)
		os.Exit(1)
	}

	application := app.New(cfgData, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Run failed: %v", err)
		log.Sync()
		os.Exit(1)
	}
}

func loadConfig(cfgFile string) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	provider := config.NewYAMLProvider(filename)
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	return cfgData, nil
}

func applyOverrides(cfg *config.ConfigData, input, dataset, output string) error {
	switch {
	case input != "" && dataset != "":
		return fmt.Errorf("-input and -dataset are mutually exclusive")
	case input != "":
		cfg.Input.Path, cfg.Input.Dataset = input, ""
	case dataset != "":
		cfg.Input.Path, cfg.Input.Dataset = "", dataset
	}
	if output != "" {
		cfg.Output.Directory = output
	}
	return cfg.Validate()
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file, applies
// defaults and validates the result
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := parseYAML(cfgFile)
	if err != nil {
		return nil, err
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", y.filename, err)
	}

	y.config = config
	return config, nil
}

func parseYAML(data []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags
	var yamlConfig ConfigYAML
	if err := yaml.UnmarshalStrict(data, &yamlConfig); err != nil {
		return nil, err
	}

	// Convert to our internal format
	return &ConfigData{
		Input: InputData{
			Path:       yamlConfig.Input.Path,
			Dataset:    yamlConfig.Input.Dataset,
			DatasetDir: yamlConfig.Input.DatasetDir,
			CRS:        yamlConfig.Input.CRS,
		},
		Area: AreaData{
			LeftBottom: PointData{
				Lat: yamlConfig.Area.LeftBottom.Lat,
				Lon: yamlConfig.Area.LeftBottom.Lon,
			},
			RightTop: PointData{
				Lat: yamlConfig.Area.RightTop.Lat,
				Lon: yamlConfig.Area.RightTop.Lon,
			},
		},
		Grid: GridData{
			StepSize: yamlConfig.Grid.StepSize,
			Columns:  yamlConfig.Grid.Columns,
			Rows:     yamlConfig.Grid.Rows,
			CRS:      yamlConfig.Grid.CRS,
		},
		Resolver: ResolverData{
			Buffer:               yamlConfig.Resolver.Buffer,
			ContainmentTolerance: yamlConfig.Resolver.ContainmentTolerance,
		},
		Output: OutputData{
			Directory:        yamlConfig.Output.Directory,
			Format:           yamlConfig.Output.Format,
			BandsGeoJSON:     yamlConfig.Output.BandsGeoJSON,
			HeightMapGeoJSON: yamlConfig.Output.HeightMapGeoJSON,
		},
	}, nil
}

// GetInput returns the input configuration
func (y *YAMLProvider) GetInput() (*InputData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Input, nil
}

// GetGrid returns the grid configuration
func (y *YAMLProvider) GetGrid() (*GridData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Grid, nil
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags
type ConfigYAML struct {
	Input    InputYAML    `yaml:"input"`
	Area     AreaYAML     `yaml:"area"`
	Grid     GridYAML     `yaml:"grid"`
	Resolver ResolverYAML `yaml:"resolver,omitempty"`
	Output   OutputYAML   `yaml:"output,omitempty"`
}

type InputYAML struct {
	Path       string `yaml:"path,omitempty"`
	Dataset    string `yaml:"dataset,omitempty"`
	DatasetDir string `yaml:"dataset-dir,omitempty"`
	CRS        string `yaml:"crs,omitempty"`
}

type AreaYAML struct {
	LeftBottom PointYAML `yaml:"left-bottom"`
	RightTop   PointYAML `yaml:"right-top"`
}

type PointYAML struct {
	Lat float64 `yaml:"latitude"`
	Lon float64 `yaml:"longitude"`
}

type GridYAML struct {
	StepSize int    `yaml:"step-size"`
	Columns  int    `yaml:"columns,omitempty"`
	Rows     int    `yaml:"rows,omitempty"`
	CRS      string `yaml:"crs,omitempty"`
}

type ResolverYAML struct {
	Buffer               float64 `yaml:"buffer,omitempty"`
	ContainmentTolerance float64 `yaml:"containment-tolerance,omitempty"`
}

type OutputYAML struct {
	Directory        string `yaml:"directory,omitempty"`
	Format           string `yaml:"format,omitempty"`
	BandsGeoJSON     string `yaml:"bands-geojson,omitempty"`
	HeightMapGeoJSON string `yaml:"heightmap-geojson,omitempty"`
}

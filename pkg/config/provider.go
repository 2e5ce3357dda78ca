package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetInput() (*InputData, error)
	GetGrid() (*GridData, error)

	Close() error
}

// Defaults applied by ConfigData.ApplyDefaults
const (
	DefaultInputCRS             = "EPSG:4326"
	DefaultGridCRS              = "MSK-48"
	DefaultBuffer               = 1.0
	DefaultContainmentTolerance = 1e-6
	DefaultFormat               = "ascii"
	DefaultOutputDirectory      = "."
)

// ConfigData represents the complete configuration of one heightmap run
type ConfigData struct {
	Input    InputData    `json:"input"`
	Area     AreaData     `json:"area"`
	Grid     GridData     `json:"grid"`
	Resolver ResolverData `json:"resolver,omitempty"`
	Output   OutputData   `json:"output"`
}

// InputData names the contour source. Either Path, or Dataset together with
// DatasetDir, must be set.
type InputData struct {
	Path       string `json:"path,omitempty"`
	Dataset    string `json:"dataset,omitempty"`
	DatasetDir string `json:"dataset_dir,omitempty"`
	// CRS is assumed when the source does not declare one
	CRS string `json:"crs,omitempty"`
}

// AreaData is the WGS84 extent to build the heightmap for
type AreaData struct {
	LeftBottom PointData `json:"left_bottom"`
	RightTop   PointData `json:"right_top"`
}

type PointData struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// GridData describes the sampling lattice. Zero Columns or Rows are derived
// from the projected area.
type GridData struct {
	StepSize int    `json:"step_size"`
	Columns  int    `json:"columns,omitempty"`
	Rows     int    `json:"rows,omitempty"`
	CRS      string `json:"crs,omitempty"`
}

type ResolverData struct {
	Buffer               float64 `json:"buffer,omitempty"`
	ContainmentTolerance float64 `json:"containment_tolerance,omitempty"`
}

// OutputData controls where results are written. A Directory of "-" writes
// the heightmap to standard output.
type OutputData struct {
	Directory        string `json:"directory,omitempty"`
	Format           string `json:"format,omitempty"`
	BandsGeoJSON     string `json:"bands_geojson,omitempty"`
	HeightMapGeoJSON string `json:"heightmap_geojson,omitempty"`
}

// ApplyDefaults fills in every optional setting left empty
func (c *ConfigData) ApplyDefaults() {
	if c.Input.CRS == "" {
		c.Input.CRS = DefaultInputCRS
	}
	if c.Grid.CRS == "" {
		c.Grid.CRS = DefaultGridCRS
	}
	if c.Resolver.Buffer == 0 {
		c.Resolver.Buffer = DefaultBuffer
	}
	if c.Resolver.ContainmentTolerance == 0 {
		c.Resolver.ContainmentTolerance = DefaultContainmentTolerance
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDirectory
	}
}

// Validate reports every problem with the configuration at once
func (c *ConfigData) Validate() error {
	var problems []error

	switch {
	case c.Input.Path != "" && c.Input.Dataset != "":
		problems = append(problems, errors.New("input: set either path or dataset, not both"))
	case c.Input.Path == "" && c.Input.Dataset == "":
		problems = append(problems, errors.New("input: path or dataset is required"))
	case c.Input.Dataset != "" && c.Input.DatasetDir == "":
		problems = append(problems, errors.New("input: dataset requires dataset-dir"))
	}

	lb, rt := c.Area.LeftBottom, c.Area.RightTop
	if lb.Lon >= rt.Lon || lb.Lat >= rt.Lat {
		problems = append(problems, fmt.Errorf("area: right-top (%g, %g) must be above and right of left-bottom (%g, %g)", rt.Lon, rt.Lat, lb.Lon, lb.Lat))
	}
	for _, p := range []PointData{lb, rt} {
		if p.Lon < -180 || p.Lon > 180 || p.Lat < -90 || p.Lat > 90 {
			problems = append(problems, fmt.Errorf("area: (%g, %g) is not a longitude/latitude", p.Lon, p.Lat))
		}
	}

	if c.Grid.StepSize < 1 {
		problems = append(problems, fmt.Errorf("grid: step-size must be at least 1, got %d", c.Grid.StepSize))
	}
	if c.Grid.Columns < 0 || c.Grid.Rows < 0 {
		problems = append(problems, errors.New("grid: columns and rows must not be negative"))
	}

	if c.Resolver.Buffer < 0 || c.Resolver.ContainmentTolerance < 0 {
		problems = append(problems, errors.New("resolver: buffer and containment-tolerance must not be negative"))
	}

	switch strings.ToLower(c.Output.Format) {
	case "", "ascii", "json", "msgpack":
	default:
		problems = append(problems, fmt.Errorf("output: unknown format %q", c.Output.Format))
	}

	return errors.Join(problems...)
}

// ConfigData is its own provider once loaded, so callers can adjust a loaded
// configuration and hand it on.
func (c *ConfigData) LoadConfig() (*ConfigData, error) { return c, nil }
func (c *ConfigData) GetInput() (*InputData, error)    { return &c.Input, nil }
func (c *ConfigData) GetGrid() (*GridData, error)      { return &c.Grid, nil }
func (c *ConfigData) Close() error                     { return nil }

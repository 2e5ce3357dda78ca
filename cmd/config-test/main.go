package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chrissnell/heightgrid/internal/crs"
	"github.com/chrissnell/heightgrid/internal/export"
	"github.com/chrissnell/heightgrid/internal/grid"
	"github.com/chrissnell/heightgrid/internal/pipeline"
	"github.com/chrissnell/heightgrid/internal/projection"
	"github.com/chrissnell/heightgrid/pkg/config"
	"gonum.org/v1/gonum/spatial/r2"
)

func main() {
	yamlFile := flag.String("yaml", "", "Path to YAML configuration file")
	flag.Parse()

	if *yamlFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <heightgrid.yaml>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Check")
	fmt.Println("===================")

	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	provider := config.NewYAMLProvider(*yamlFile)
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Configuration is valid")

	failed := false
	check := func(ok bool, format string, args ...interface{}) {
		mark := "✓"
		if !ok {
			mark = "✗"
			failed = true
		}
		fmt.Printf("%s %s\n", mark, fmt.Sprintf(format, args...))
	}

	// Input
	fmt.Println("\nInput:")
	input, err := provider.GetInput()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input section: %v\n", err)
		os.Exit(1)
	}
	if input.Path != "" {
		_, err := os.Stat(input.Path)
		check(err == nil, "path %s %s", input.Path, status(err))
	} else {
		path, err := pipeline.DirResolver{Dir: input.DatasetDir}.Resolve(input.Dataset)
		check(err == nil, "dataset %s resolves to %s %s", input.Dataset, path, status(err))
	}
	_, err = crs.Resolve(input.CRS)
	check(err == nil, "input crs %s %s", input.CRS, status(err))

	// Grid
	fmt.Println("\nGrid:")
	gridData, err := provider.GetGrid()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading grid section: %v\n", err)
		os.Exit(1)
	}
	gridCRS, err := crs.Resolve(gridData.CRS)
	check(err == nil, "grid crs %s %s", gridData.CRS, status(err))
	if err != nil {
		os.Exit(1)
	}

	lb, err := projection.ProjectPoint(r2.Vec{X: cfg.Area.LeftBottom.Lon, Y: cfg.Area.LeftBottom.Lat}, gridCRS)
	check(err == nil, "left-bottom projects to (%.1f, %.1f) %s", lb.X, lb.Y, status(err))
	rt, err := projection.ProjectPoint(r2.Vec{X: cfg.Area.RightTop.Lon, Y: cfg.Area.RightTop.Lat}, gridCRS)
	check(err == nil, "right-top projects to (%.1f, %.1f) %s", rt.X, rt.Y, status(err))

	columns, rows, err := grid.Dimensions(lb, rt, gridData.StepSize)
	check(err == nil, "area needs %d columns x %d rows at %dm %s", columns, rows, gridData.StepSize, status(err))
	if gridData.Columns != 0 {
		columns = gridData.Columns
	}
	if gridData.Rows != 0 {
		rows = gridData.Rows
	}
	fmt.Printf("  grid will be %d x %d (%d points)\n", columns, rows, columns*rows)

	// Output
	fmt.Println("\nOutput:")
	format, err := export.ParseFormat(cfg.Output.Format)
	check(err == nil, "format %s %s", cfg.Output.Format, status(err))
	if err == nil {
		fmt.Printf("  heightmap file: %s\n", export.Filename(format, gridData.StepSize, columns, rows))
	}
	if cfg.Output.BandsGeoJSON != "" {
		fmt.Printf("  bands layer: %s\n", cfg.Output.BandsGeoJSON)
	}
	if cfg.Output.HeightMapGeoJSON != "" {
		fmt.Printf("  heightmap layer: %s\n", cfg.Output.HeightMapGeoJSON)
	}

	if failed {
		fmt.Println("\nCheck failed!")
		os.Exit(1)
	}
	fmt.Println("\nCheck completed!")
}

func status(err error) string {
	if err != nil {
		return fmt.Sprintf("(%v)", err)
	}
	return ""
}

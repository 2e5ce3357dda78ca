// Package pipeline chains the heightmap stages: load, validate, project,
// build bands, generate the grid and resolve it.
package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/chrissnell/heightgrid/internal/bands"
	"github.com/chrissnell/heightgrid/internal/contour"
	"github.com/chrissnell/heightgrid/internal/crs"
	"github.com/chrissnell/heightgrid/internal/grid"
	"github.com/chrissnell/heightgrid/internal/heightmap"
	"github.com/chrissnell/heightgrid/internal/log"
	"github.com/chrissnell/heightgrid/internal/projection"
	"github.com/chrissnell/heightgrid/pkg/config"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Result holds everything one run produced.
type Result struct {
	RunID string

	// CRS is the proj4 definition of Contours, Bands and HeightMap.
	CRS       string
	Contours  *contour.Dataset
	Bands     []bands.Band
	HeightMap *heightmap.HeightMap
	Stats     heightmap.Stats
}

// Run executes one pipeline run. cfg must have defaults applied and be valid.
// Any stage failure aborts the run.
func Run(cfg *config.ConfigData) (*Result, error) {
	runID := uuid.NewString()
	logger := log.ForRun(runID)
	started := time.Now()

	inputCRS, err := crs.Resolve(cfg.Input.CRS)
	if err != nil {
		return nil, fmt.Errorf("input crs: %w", err)
	}
	gridCRS, err := crs.Resolve(cfg.Grid.CRS)
	if err != nil {
		return nil, fmt.Errorf("grid crs: %w", err)
	}

	path, err := inputPath(cfg.Input)
	if err != nil {
		return nil, err
	}

	p := projection.New()
	lonLatLB := r2.Vec{X: cfg.Area.LeftBottom.Lon, Y: cfg.Area.LeftBottom.Lat}
	lonLatRT := r2.Vec{X: cfg.Area.RightTop.Lon, Y: cfg.Area.RightTop.Lat}

	stage := time.Now()
	ds, err := contour.LoadFile(path, nil, contour.WithDefaultCRS(inputCRS))
	if err != nil {
		return nil, err
	}
	total := len(ds.Features)
	bbox, err := areaIn(p, ds.CRS, lonLatLB, lonLatRT)
	if err != nil {
		return nil, err
	}
	log.Debugf("area filter in source crs: %v .. %v", bbox.LeftBottom, bbox.RightTop)
	ds = ds.Filter(bbox)
	logger.Infow("loaded contours", "path", path, "features", len(ds.Features), "filtered", total-len(ds.Features), "took", time.Since(stage))
	if len(ds.Features) == 0 {
		log.Warnf("no contours of %s overlap the area; the heightmap will be all no-data", path)
	}

	if err := contour.Validate(ds); err != nil {
		return nil, err
	}

	stage = time.Now()
	projected, err := p.Project(ds, gridCRS)
	if err != nil {
		return nil, err
	}
	logger.Debugw("projected contours", "crs", gridCRS, "took", time.Since(stage))

	stage = time.Now()
	terrain, err := bands.Build(projected, bands.WithContainmentTolerance(cfg.Resolver.ContainmentTolerance))
	if err != nil {
		return nil, err
	}
	logger.Infow("built elevation bands", "bands", len(terrain), "took", time.Since(stage))

	lb, err := p.ProjectPoint(lonLatLB, gridCRS)
	if err != nil {
		return nil, err
	}
	rt, err := p.ProjectPoint(lonLatRT, gridCRS)
	if err != nil {
		return nil, err
	}

	step := cfg.Grid.StepSize
	columns, rows := cfg.Grid.Columns, cfg.Grid.Rows
	if columns == 0 || rows == 0 {
		c, r, err := grid.Dimensions(lb, rt, step)
		if err != nil {
			return nil, err
		}
		if columns == 0 {
			columns = c
		}
		if rows == 0 {
			rows = r
		}
		logger.Debugw("derived grid size", "columns", columns, "rows", rows)
	}

	g, err := grid.Generate(grid.TopLeft(lb, step, rows), step, columns, rows, gridCRS)
	if err != nil {
		return nil, err
	}

	stage = time.Now()
	hm, err := heightmap.Resolve(terrain, g, heightmap.WithBuffer(cfg.Resolver.Buffer))
	if err != nil {
		return nil, err
	}
	stats := hm.Stats()
	logger.Infow("resolved heightmap",
		"columns", columns,
		"rows", rows,
		"nodata", stats.NoData,
		"min", stats.Min,
		"max", stats.Max,
		"mean", stats.Mean,
		"took", time.Since(stage),
	)
	logger.Infof("run finished in %v", time.Since(started))

	return &Result{
		RunID:     runID,
		CRS:       gridCRS,
		Contours:  projected,
		Bands:     terrain,
		HeightMap: hm,
		Stats:     stats,
	}, nil
}

func inputPath(in config.InputData) (string, error) {
	if in.Path != "" {
		return in.Path, nil
	}
	return DirResolver{Dir: in.DatasetDir}.Resolve(in.Dataset)
}

// areaEdgeSteps is how many segments each edge of the area is split into
// when it is transformed. Straight lon/lat edges become curves in a projected
// CRS.
const areaEdgeSteps = 8

// areaIn expresses the WGS84 area as the envelope, in the dataset CRS, of its
// densified outline.
func areaIn(p *projection.Projector, dst string, lb, rt r2.Vec) (contour.BBox, error) {
	corners := []r2.Vec{lb, {X: rt.X, Y: lb.Y}, rt, {X: lb.X, Y: rt.Y}}

	box := contour.BBox{
		LeftBottom: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		RightTop:   r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for i, from := range corners {
		to := corners[(i+1)%len(corners)]
		for s := 0; s < areaEdgeSteps; s++ {
			pt := r2.Add(from, r2.Scale(float64(s)/areaEdgeSteps, r2.Sub(to, from)))
			v, err := p.Transform(pt, crs.WGS84, dst)
			if err != nil {
				return contour.BBox{}, err
			}
			box.LeftBottom = r2.Vec{X: math.Min(box.LeftBottom.X, v.X), Y: math.Min(box.LeftBottom.Y, v.Y)}
			box.RightTop = r2.Vec{X: math.Max(box.RightTop.X, v.X), Y: math.Max(box.RightTop.Y, v.Y)}
		}
	}
	return box, nil
}

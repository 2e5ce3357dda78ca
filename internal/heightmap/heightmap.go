// Package heightmap resolves the elevation of every sample point of a grid
// from a set of elevation bands.
package heightmap

import (
	"fmt"
	"slices"
	"sort"

	"github.com/chrissnell/heightgrid/internal/bands"
	"github.com/chrissnell/heightgrid/internal/constants"
	"github.com/chrissnell/heightgrid/internal/errs"
	"github.com/chrissnell/heightgrid/internal/grid"
	"github.com/peterstace/simplefeatures/rtree"
	"github.com/twpayne/go-geos"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBuffer is the distance, in CRS units, bands are grown by before the
// point join so that points on a boundary shared by two bands still match.
const DefaultBuffer = 1.0

const quadSegs = 16

type options struct {
	buffer float64
}

// Option configures Resolve.
type Option func(*options)

// WithBuffer overrides DefaultBuffer.
func WithBuffer(d float64) Option {
	return func(o *options) {
		o.buffer = d
	}
}

// HeightMap is a grid whose points carry resolved elevations. Points left
// unresolved had no band covering them.
type HeightMap struct {
	grid.Grid
}

// Resolve joins the points of g against terrain. A point covered by several
// buffered bands takes the highest elevation. g is not modified.
func Resolve(terrain []bands.Band, g *grid.Grid, opts ...Option) (hm *HeightMap, err error) {
	o := options{buffer: DefaultBuffer}
	for _, opt := range opts {
		opt(&o)
	}

	defer func() {
		if r := recover(); r != nil {
			hm, err = nil, errs.Geometry(errs.NoRow, fmt.Sprintf("band buffer failed: %v", r))
		}
	}()

	out := g.Clone()
	sort.Slice(out.Points, func(i, j int) bool {
		return out.Points[i].Index < out.Points[j].Index
	})
	if len(out.Points) == 0 {
		return &HeightMap{Grid: out}, nil
	}

	items := make([]rtree.BulkItem, len(out.Points))
	for i, p := range out.Points {
		items[i] = rtree.BulkItem{
			Box:      rtree.Box{MinX: p.Location.X, MinY: p.Location.Y, MaxX: p.Location.X, MaxY: p.Location.Y},
			RecordID: i,
		}
	}
	index := rtree.BulkLoad(items)

	// Ascending elevation, so that a later, higher band overwrites.
	ordered := slices.Clone(terrain)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Elevation < ordered[j].Elevation
	})

	for _, band := range ordered {
		if band.Geometry == nil || band.Geometry.IsEmpty() {
			continue
		}
		buffered := band.Geometry.Buffer(o.buffer, quadSegs)
		if buffered.IsEmpty() {
			continue
		}
		prepared := buffered.Prepare()
		b := buffered.Bounds()

		var candidates []int
		_ = index.RangeSearch(rtree.Box{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY}, func(i int) error {
			candidates = append(candidates, i)
			return nil
		})
		sort.Ints(candidates)

		for _, i := range candidates {
			p := &out.Points[i]
			if prepared.Contains(geos.NewPoint([]float64{p.Location.X, p.Location.Y})) {
				p.Elevation = band.Elevation
				p.Resolved = true
			}
		}
	}

	return &HeightMap{Grid: out}, nil
}

// Rows groups the elevations into rows, top row first. A new row starts
// whenever the y coordinate changes. Unresolved points are NoData. Points must
// be sorted by index.
func (hm *HeightMap) Rows() [][]float64 {
	var rows [][]float64
	var row []float64
	for i, p := range hm.Points {
		if i > 0 && p.Location.Y != hm.Points[i-1].Location.Y {
			rows = append(rows, row)
			row = nil
		}
		row = append(row, hm.value(p))
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func (hm *HeightMap) value(p grid.SamplePoint) float64 {
	if !p.Resolved {
		return constants.NoData
	}
	return p.Elevation
}

// Stats summarizes a heightmap. Min, Max and Mean cover resolved points only
// and are zero when nothing resolved.
type Stats struct {
	Points   int
	Resolved int
	NoData   int
	Min      float64
	Max      float64
	Mean     float64
}

// Stats computes summary statistics of the resolved elevations.
func (hm *HeightMap) Stats() Stats {
	var values []float64
	for _, p := range hm.Points {
		if p.Resolved {
			values = append(values, p.Elevation)
		}
	}

	s := Stats{
		Points:   len(hm.Points),
		Resolved: len(values),
		NoData:   len(hm.Points) - len(values),
	}
	if len(values) > 0 {
		s.Min = floats.Min(values)
		s.Max = floats.Max(values)
		s.Mean = stat.Mean(values, nil)
	}
	return s
}

// Package grid generates regular lattices of sample points.
package grid

import (
	"math"
	"slices"

	"github.com/chrissnell/heightgrid/internal/errs"
	"gonum.org/v1/gonum/spatial/r2"
)

// SamplePoint is one lattice point. Elevation is meaningful only when
// Resolved is set.
type SamplePoint struct {
	Index     int
	Location  r2.Vec
	Elevation float64
	Resolved  bool
}

// Grid is a flat, row-major list of sample points. Row 0 is the top row and
// the point at row r, column c has index r*Columns + c.
type Grid struct {
	CRS      string
	Origin   r2.Vec
	StepSize int
	Columns  int
	Rows     int
	Points   []SamplePoint
}

// Generate places columns*rows points at the centers of square cells of side
// stepSize. origin is the top-left corner of the lattice.
func Generate(origin r2.Vec, stepSize, columns, rows int, crs string) (*Grid, error) {
	switch {
	case stepSize < 1:
		return nil, errs.Value("step size must be at least 1, got %d", stepSize)
	case columns < 1:
		return nil, errs.Value("column count must be at least 1, got %d", columns)
	case rows < 1:
		return nil, errs.Value("row count must be at least 1, got %d", rows)
	}

	step := float64(stepSize)
	half := step / 2

	points := make([]SamplePoint, 0, columns*rows)
	for r := 0; r < rows; r++ {
		y := origin.Y - half - float64(r)*step
		for c := 0; c < columns; c++ {
			points = append(points, SamplePoint{
				Index:    r*columns + c,
				Location: r2.Vec{X: origin.X + half + float64(c)*step, Y: y},
			})
		}
	}

	return &Grid{
		CRS:      crs,
		Origin:   origin,
		StepSize: stepSize,
		Columns:  columns,
		Rows:     rows,
		Points:   points,
	}, nil
}

// Clone returns a copy of g that shares no points with it.
func (g *Grid) Clone() Grid {
	out := *g
	out.Points = slices.Clone(g.Points)
	return out
}

// LowerLeft is the bottom-left corner of the lattice.
func (g *Grid) LowerLeft() r2.Vec {
	return r2.Vec{X: g.Origin.X, Y: g.Origin.Y - float64(g.Rows*g.StepSize)}
}

// Dimensions returns the column and row counts needed to cover the extent
// between leftBottom and rightTop with cells of side stepSize.
func Dimensions(leftBottom, rightTop r2.Vec, stepSize int) (columns, rows int, err error) {
	if stepSize < 1 {
		return 0, 0, errs.Value("step size must be at least 1, got %d", stepSize)
	}
	extent := r2.Sub(rightTop, leftBottom)
	if extent.X < 0 || extent.Y < 0 {
		return 0, 0, errs.Value("right top %v is not above and right of left bottom %v", rightTop, leftBottom)
	}
	step := float64(stepSize)
	return int(math.Floor(extent.X/step)) + 1, int(math.Floor(extent.Y/step)) + 1, nil
}

// TopLeft returns the lattice origin whose lower-left corner sits on the
// integer part of leftBottom.
func TopLeft(leftBottom r2.Vec, stepSize, rows int) r2.Vec {
	return r2.Vec{
		X: math.Trunc(leftBottom.X),
		Y: math.Trunc(leftBottom.Y) + float64(rows*stepSize),
	}
}

package contour

import (
	"fmt"

	"github.com/chrissnell/heightgrid/internal/constants"
	"github.com/chrissnell/heightgrid/internal/errs"
	"github.com/twpayne/go-geom"
)

// minRingCoords is the smallest closed ring: a triangle plus its closing
// coordinate.
const minRingCoords = 4

// Validate checks that ds can be fed to the rest of the pipeline: both
// required columns exist, no attribute of any feature is missing, and every
// geometry is a closed ring. On success it marks "geometry" as the active
// spatial attribute.
func Validate(ds *Dataset) error {
	for _, column := range []string{constants.ElevationColumn, constants.GeometryColumn} {
		if !ds.HasColumn(column) {
			return errs.Schema(column)
		}
	}

	for row, f := range ds.Features {
		for _, column := range ds.Columns {
			if _, ok := f.Value(column); !ok {
				return errs.Data(column, ds.Row(row))
			}
		}
	}

	for row, f := range ds.Features {
		if err := checkRing(f.Geometry); err != nil {
			return errs.Geometry(ds.Row(row), err.Error())
		}
	}

	ds.ActiveGeometry = constants.GeometryColumn
	return nil
}

func checkRing(g geom.T) error {
	switch g := g.(type) {
	case *geom.LineString:
		return closed(g.NumCoords(), g.Coord)
	case *geom.LinearRing:
		return closed(g.NumCoords(), g.Coord)
	case *geom.Polygon:
		if g.NumLinearRings() == 0 {
			return fmt.Errorf("polygon has no rings")
		}
		for i := 0; i < g.NumLinearRings(); i++ {
			lr := g.LinearRing(i)
			if err := closed(lr.NumCoords(), lr.Coord); err != nil {
				return fmt.Errorf("ring %d: %w", i, err)
			}
		}
		return nil
	}
	return fmt.Errorf("%T is not a ring", g)
}

func closed(n int, coord func(int) geom.Coord) error {
	if n < minRingCoords {
		return fmt.Errorf("ring has %d coordinates, need at least %d", n, minRingCoords)
	}
	if !coord(0).Equal(geom.XY, coord(n-1)) {
		return fmt.Errorf("ring is not closed")
	}
	return nil
}

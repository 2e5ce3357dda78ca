// Package bands turns closed elevation contours into disjoint elevation bands.
//
// Contours at one elevation are unioned into a single region. Regions are
// then processed from the lowest elevation up: whenever a higher region lies
// inside a lower one, it is cut out of the lower one, so that a plateau is
// never covered by the slope around it. Cutting can split a region, so the
// parts of each elevation are unioned once more at the end.
package bands

import (
	"fmt"
	"sort"

	"github.com/chrissnell/heightgrid/internal/contour"
	"github.com/chrissnell/heightgrid/internal/errs"
	"github.com/peterstace/simplefeatures/rtree"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geos"
)

// DefaultContainmentTolerance inflates the lower region before testing
// whether a higher one lies inside it, so that regions sharing a boundary
// still count as nested.
const DefaultContainmentTolerance = 1e-6

// quadSegs is the number of segments per quarter circle used by buffers.
const quadSegs = 16

// Band is the region of one elevation. Geometry is a Polygon or MultiPolygon
// and may be empty when higher bands covered the whole region.
type Band struct {
	Elevation float64
	Geometry  *geos.Geom
}

type options struct {
	tolerance float64
}

// Option configures Build.
type Option func(*options)

// WithContainmentTolerance overrides DefaultContainmentTolerance.
func WithContainmentTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// part is one connected polygon of an elevation.
type part struct {
	elevation float64
	geom      *geos.Geom
}

// Build converts the rings of a validated dataset into one band per distinct
// elevation, sorted by ascending elevation.
func Build(ds *contour.Dataset, opts ...Option) (bands []Band, err error) {
	o := options{tolerance: DefaultContainmentTolerance}
	for _, opt := range opts {
		opt(&o)
	}

	// go-geos reports GEOS failures such as topology exceptions by panicking.
	defer func() {
		if r := recover(); r != nil {
			bands, err = nil, errs.Geometry(errs.NoRow, fmt.Sprintf("polygon operation failed: %v", r))
		}
	}()

	groups, elevations, err := group(ds)
	if err != nil {
		return nil, err
	}

	var parts []part
	for _, e := range elevations {
		region := unaryUnion(groups[e])
		for _, p := range polygons(region) {
			parts = append(parts, part{elevation: e, geom: p})
		}
	}

	subtractNested(parts, o.tolerance)

	byElevation := make(map[float64][]*geos.Geom, len(elevations))
	for _, p := range parts {
		byElevation[p.elevation] = append(byElevation[p.elevation], p.geom)
	}

	bands = make([]Band, 0, len(elevations))
	for _, e := range elevations {
		bands = append(bands, Band{Elevation: e, Geometry: unaryUnion(byElevation[e])})
	}
	return bands, nil
}

// group builds one GEOS polygon per feature and groups them by exact
// elevation. Polygon features keep their holes.
func group(ds *contour.Dataset) (map[float64][]*geos.Geom, []float64, error) {
	groups := make(map[float64][]*geos.Geom)
	for row, f := range ds.Features {
		if f.Elevation == nil {
			return nil, nil, errs.Data("elevation", ds.Row(row))
		}
		p, err := toPolygon(f.Geometry)
		if err != nil {
			return nil, nil, errs.Geometry(ds.Row(row), err.Error())
		}
		groups[*f.Elevation] = append(groups[*f.Elevation], p)
	}

	elevations := make([]float64, 0, len(groups))
	for e := range groups {
		elevations = append(elevations, e)
	}
	sort.Float64s(elevations)
	return groups, elevations, nil
}

func toPolygon(g geom.T) (*geos.Geom, error) {
	var rings [][][]float64
	switch g := g.(type) {
	case *geom.LineString:
		rings = [][][]float64{coords(g.FlatCoords(), g.Stride())}
	case *geom.LinearRing:
		rings = [][][]float64{coords(g.FlatCoords(), g.Stride())}
	case *geom.Polygon:
		for i := 0; i < g.NumLinearRings(); i++ {
			lr := g.LinearRing(i)
			rings = append(rings, coords(lr.FlatCoords(), lr.Stride()))
		}
	default:
		return nil, fmt.Errorf("%T is not a ring", g)
	}

	p := geos.NewPolygon(rings)
	if !p.IsValid() {
		p = p.MakeValid()
	}
	return p, nil
}

func coords(flat []float64, stride int) [][]float64 {
	out := make([][]float64, 0, len(flat)/stride)
	for i := 0; i+1 < len(flat); i += stride {
		out = append(out, []float64{flat[i], flat[i+1]})
	}
	return out
}

// subtractNested cuts every higher part out of each lower part that contains
// it. parts must be sorted by ascending elevation; it is updated in place.
func subtractNested(parts []part, tolerance float64) {
	if len(parts) < 2 {
		return
	}

	items := make([]rtree.BulkItem, len(parts))
	for i, p := range parts {
		items[i] = rtree.BulkItem{Box: box(p.geom, 0), RecordID: i}
	}
	index := rtree.BulkLoad(items)

	for i := range parts {
		lower := &parts[i]
		inflated := lower.geom.Buffer(tolerance, quadSegs)

		var nested []int
		_ = index.RangeSearch(box(lower.geom, tolerance), func(j int) error {
			if parts[j].elevation > lower.elevation {
				nested = append(nested, j)
			}
			return nil
		})
		sort.Ints(nested)

		for _, j := range nested {
			if parts[j].geom.Within(inflated) {
				lower.geom = lower.geom.Difference(parts[j].geom)
			}
		}
	}
}

func box(g *geos.Geom, pad float64) rtree.Box {
	b := g.Bounds()
	return rtree.Box{
		MinX: b.MinX - pad,
		MinY: b.MinY - pad,
		MaxX: b.MaxX + pad,
		MaxY: b.MaxY + pad,
	}
}

// unaryUnion merges geoms into a single (multi)polygon. Ownership of geoms
// passes to the returned collection.
func unaryUnion(geoms []*geos.Geom) *geos.Geom {
	if len(geoms) == 0 {
		return geos.NewEmptyCollection(geos.TypeIDMultiPolygon)
	}
	return geos.NewCollection(geos.TypeIDGeometryCollection, geoms).UnaryUnion()
}

// polygons returns independent copies of the non-empty polygons in g.
func polygons(g *geos.Geom) []*geos.Geom {
	switch g.TypeID() {
	case geos.TypeIDPolygon:
		if g.IsEmpty() {
			return nil
		}
		return []*geos.Geom{g.Clone()}
	case geos.TypeIDMultiPolygon, geos.TypeIDGeometryCollection:
		var out []*geos.Geom
		for i := 0; i < g.NumGeometries(); i++ {
			out = append(out, polygons(g.Geometry(i))...)
		}
		return out
	}
	return nil
}

// Polygons returns the coordinates of every polygon of the band, exterior
// ring first, in GeoJSON MultiPolygon layout.
func (b Band) Polygons() [][][][]float64 {
	var out [][][][]float64
	for _, p := range polygons(b.Geometry) {
		rings := [][][]float64{p.ExteriorRing().CoordSeq().ToCoords()}
		for i := 0; i < p.NumInteriorRings(); i++ {
			rings = append(rings, p.InteriorRing(i).CoordSeq().ToCoords())
		}
		out = append(out, rings)
	}
	return out
}

// Area is the planar area of the band in squared CRS units.
func (b Band) Area() float64 {
	return b.Geometry.Area()
}

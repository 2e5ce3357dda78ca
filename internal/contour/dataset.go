// Package contour loads and validates elevation contour datasets.
//
// A Dataset is a fixed-schema collection of Features: every feature carries an
// elevation and a ring geometry, plus whatever extra attributes the source
// had. Datasets are created by Load, checked by Validate and handed to the
// projection and band-building stages.
package contour

import (
	"slices"

	"github.com/chrissnell/heightgrid/internal/constants"
	"github.com/twpayne/go-geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Feature is one contour record. A nil Elevation or Geometry is a missing
// value.
type Feature struct {
	Elevation  *float64
	Geometry   geom.T
	Properties map[string]interface{}
}

// Value returns the attribute stored under column, and whether it is present
// and non-null.
func (f Feature) Value(column string) (interface{}, bool) {
	switch column {
	case constants.ElevationColumn:
		if f.Elevation == nil {
			return nil, false
		}
		return *f.Elevation, true
	case constants.GeometryColumn:
		if f.Geometry == nil {
			return nil, false
		}
		return f.Geometry, true
	}
	v, ok := f.Properties[column]
	return v, ok && v != nil
}

// Dataset is an ordered collection of features sharing one CRS.
type Dataset struct {
	// CRS is the proj4 definition the coordinates are expressed in.
	CRS string

	// Columns lists the attributes the source carried, including
	// "elevation" and "geometry" when present.
	Columns []string

	// ActiveGeometry names the spatial attribute. Set by Validate.
	ActiveGeometry string

	Features []Feature

	// SourceRows holds, per feature, its position in the source collection.
	// Parts of a multi-part source feature share one position. Nil means
	// features map one-to-one onto source rows.
	SourceRows []int
}

// Row returns the source row of the i-th feature.
func (d *Dataset) Row(i int) int {
	if i < len(d.SourceRows) {
		return d.SourceRows[i]
	}
	return i
}

// HasColumn reports whether the dataset carries the named attribute.
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.Columns, name)
}

// WithGeometries returns a copy of d tagged with crs whose i-th feature has
// geometry geoms[i]. Attributes are shared with d.
func (d *Dataset) WithGeometries(crs string, geoms []geom.T) *Dataset {
	out := &Dataset{
		CRS:            crs,
		Columns:        slices.Clone(d.Columns),
		ActiveGeometry: d.ActiveGeometry,
		Features:       make([]Feature, len(d.Features)),
		SourceRows:     slices.Clone(d.SourceRows),
	}
	for i, f := range d.Features {
		out.Features[i] = Feature{
			Elevation:  f.Elevation,
			Geometry:   geoms[i],
			Properties: f.Properties,
		}
	}
	return out
}

// BBox is an axis-aligned box given by its left-bottom and right-top corners.
type BBox struct {
	LeftBottom r2.Vec
	RightTop   r2.Vec
}

func (b BBox) bounds() *geom.Bounds {
	return geom.NewBounds(geom.XY).Set(b.LeftBottom.X, b.LeftBottom.Y, b.RightTop.X, b.RightTop.Y)
}

// Overlaps reports whether the envelope of g touches the box. Nil geometries
// and collections overlap every box so that Validate still sees them.
func (b BBox) Overlaps(g geom.T) bool {
	switch g.(type) {
	case nil, *geom.GeometryCollection:
		return true
	}
	return g.Bounds().Overlaps(geom.XY, b.bounds())
}

// Filter returns a copy of d holding only the features that overlap bbox.
// Features are kept whole.
func (d *Dataset) Filter(bbox BBox) *Dataset {
	out := &Dataset{
		CRS:            d.CRS,
		Columns:        slices.Clone(d.Columns),
		ActiveGeometry: d.ActiveGeometry,
	}
	for i, f := range d.Features {
		if bbox.Overlaps(f.Geometry) {
			out.Features = append(out.Features, f)
			out.SourceRows = append(out.SourceRows, d.Row(i))
		}
	}
	return out
}

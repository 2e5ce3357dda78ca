// Package projection reprojects contour datasets and single points between
// coordinate reference systems given as proj4 strings.
package projection

import (
	"fmt"
	"math"
	"slices"

	"github.com/chrissnell/heightgrid/internal/contour"
	"github.com/chrissnell/heightgrid/internal/crs"
	"github.com/chrissnell/heightgrid/internal/errs"
	"github.com/ctessum/geom/proj"
	"github.com/twpayne/go-geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Projector caches parsed spatial references and transforms by their proj4
// strings. A Projector is not safe for concurrent use.
type Projector struct {
	srs        map[string]*proj.SR
	transforms map[[2]string]proj.Transformer
}

// New returns an empty Projector.
func New() *Projector {
	return &Projector{
		srs:        make(map[string]*proj.SR),
		transforms: make(map[[2]string]proj.Transformer),
	}
}

var defaultProjector = New()

// Project reprojects ds into target using a package-level Projector.
func Project(ds *contour.Dataset, target string) (*contour.Dataset, error) {
	return defaultProjector.Project(ds, target)
}

// ProjectPoint projects a WGS84 longitude/latitude into target using a
// package-level Projector.
func ProjectPoint(p r2.Vec, target string) (r2.Vec, error) {
	return defaultProjector.ProjectPoint(p, target)
}

// Transform moves a single point from src to dst using a package-level
// Projector.
func Transform(pt r2.Vec, src, dst string) (r2.Vec, error) {
	return defaultProjector.Transform(pt, src, dst)
}

func (p *Projector) sr(def string) (*proj.SR, error) {
	if sr, ok := p.srs[def]; ok {
		return sr, nil
	}
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", def, err)
	}
	p.srs[def] = sr
	return sr, nil
}

func (p *Projector) transformer(src, dst string) (proj.Transformer, error) {
	key := [2]string{src, dst}
	if t, ok := p.transforms[key]; ok {
		return t, nil
	}
	from, err := p.sr(src)
	if err != nil {
		return nil, err
	}
	to, err := p.sr(dst)
	if err != nil {
		return nil, err
	}
	t, err := from.NewTransform(to)
	if err != nil {
		return nil, fmt.Errorf("building transform: %w", err)
	}
	p.transforms[key] = t
	return t, nil
}

// Project returns a new dataset in target with every geometry transformed
// from ds.CRS. Attributes are preserved and ds is left untouched.
func (p *Projector) Project(ds *contour.Dataset, target string) (*contour.Dataset, error) {
	geoms := make([]geom.T, len(ds.Features))
	if ds.CRS == target {
		for i, f := range ds.Features {
			geoms[i] = f.Geometry
		}
		return ds.WithGeometries(target, geoms), nil
	}

	t, err := p.transformer(ds.CRS, target)
	if err != nil {
		return nil, errs.Projection(errs.NoRow, err)
	}

	for i, f := range ds.Features {
		g, err := transformGeom(f.Geometry, t)
		if err != nil {
			return nil, errs.Projection(ds.Row(i), err)
		}
		geoms[i] = g
	}
	return ds.WithGeometries(target, geoms), nil
}

// ProjectPoint projects a WGS84 longitude/latitude (X = longitude) into
// target, applying the datum shift of target.
func (p *Projector) ProjectPoint(pt r2.Vec, target string) (r2.Vec, error) {
	return p.Transform(pt, crs.WGS84, target)
}

// Transform moves a single point from src to dst.
func (p *Projector) Transform(pt r2.Vec, src, dst string) (r2.Vec, error) {
	if src == dst {
		return pt, nil
	}
	t, err := p.transformer(src, dst)
	if err != nil {
		return r2.Vec{}, errs.Projection(errs.NoRow, err)
	}
	x, y, err := apply(t, pt.X, pt.Y)
	if err != nil {
		return r2.Vec{}, errs.Projection(errs.NoRow, err)
	}
	return r2.Vec{X: x, Y: y}, nil
}

func apply(t proj.Transformer, x, y float64) (float64, float64, error) {
	tx, ty, err := t(x, y)
	if err != nil {
		return 0, 0, fmt.Errorf("transforming (%g, %g): %w", x, y, err)
	}
	if math.IsNaN(tx) || math.IsNaN(ty) || math.IsInf(tx, 0) || math.IsInf(ty, 0) {
		return 0, 0, fmt.Errorf("transforming (%g, %g): point outside projection domain", x, y)
	}
	return tx, ty, nil
}

func transformGeom(g geom.T, t proj.Transformer) (geom.T, error) {
	switch g.(type) {
	case nil:
		return nil, nil
	case *geom.GeometryCollection:
		// Only empty collections reach here; Validate rejects them anyway.
		return g, nil
	}

	flat := slices.Clone(g.FlatCoords())
	stride := g.Stride()
	for i := 0; i+1 < len(flat); i += stride {
		x, y, err := apply(t, flat[i], flat[i+1])
		if err != nil {
			return nil, err
		}
		flat[i], flat[i+1] = x, y
	}

	switch g := g.(type) {
	case *geom.LineString:
		return geom.NewLineStringFlat(g.Layout(), flat), nil
	case *geom.LinearRing:
		return geom.NewLinearRingFlat(g.Layout(), flat), nil
	case *geom.Polygon:
		return geom.NewPolygonFlat(g.Layout(), flat, slices.Clone(g.Ends())), nil
	case *geom.Point:
		return geom.NewPointFlat(g.Layout(), flat), nil
	case *geom.MultiPoint:
		return geom.NewMultiPointFlat(g.Layout(), flat), nil
	}
	return nil, fmt.Errorf("unsupported geometry %T", g)
}

package export

import (
	"fmt"

	"github.com/chrissnell/heightgrid/internal/bands"
	"github.com/chrissnell/heightgrid/internal/constants"
	"github.com/chrissnell/heightgrid/internal/heightmap"
	"github.com/chrissnell/heightgrid/internal/projection"
	geojson "github.com/paulmach/go.geojson"
	"gonum.org/v1/gonum/spatial/r2"
)

// BandsGeoJSON returns one MultiPolygon feature per non-empty band, carrying
// an "elevation" property. Coordinates are moved from src to dst; pass the
// same CRS twice to keep them as they are.
func BandsGeoJSON(bs []bands.Band, src, dst string) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, b := range bs {
		polygons := b.Polygons()
		if len(polygons) == 0 {
			continue
		}
		for _, rings := range polygons {
			for _, ring := range rings {
				if err := reproject(ring, src, dst); err != nil {
					return nil, fmt.Errorf("band %v: %w", b.Elevation, err)
				}
			}
		}
		f := geojson.NewMultiPolygonFeature(polygons...)
		f.SetProperty(constants.ElevationColumn, b.Elevation)
		fc.AddFeature(f)
	}
	return fc, nil
}

// HeightMapGeoJSON returns one Point feature per resolved sample point, with
// "index" and "elevation" properties. Coordinates are moved from the grid CRS
// to dst.
func HeightMapGeoJSON(hm *heightmap.HeightMap, dst string) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, p := range hm.Points {
		if !p.Resolved {
			continue
		}
		pt, err := projection.Transform(p.Location, hm.CRS, dst)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", p.Index, err)
		}
		f := geojson.NewPointFeature([]float64{pt.X, pt.Y})
		f.SetProperty("index", p.Index)
		f.SetProperty(constants.ElevationColumn, p.Elevation)
		fc.AddFeature(f)
	}
	return fc, nil
}

// reproject rewrites the coordinates of ring in place.
func reproject(ring [][]float64, src, dst string) error {
	if src == dst {
		return nil
	}
	for _, c := range ring {
		pt, err := projection.Transform(r2.Vec{X: c[0], Y: c[1]}, src, dst)
		if err != nil {
			return err
		}
		c[0], c[1] = pt.X, pt.Y
	}
	return nil
}

package contour

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/chrissnell/heightgrid/internal/constants"
	"github.com/chrissnell/heightgrid/internal/crs"
	"github.com/chrissnell/heightgrid/internal/errs"
	geojson "github.com/paulmach/go.geojson"
	"github.com/twpayne/go-geom"
)

type loadOptions struct {
	defaultCRS string
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithDefaultCRS sets the CRS assumed when the source does not declare one.
// It defaults to WGS84.
func WithDefaultCRS(def string) LoadOption {
	return func(o *loadOptions) {
		o.defaultCRS = def
	}
}

// LoadFile reads a GeoJSON FeatureCollection from path. See Load.
func LoadFile(path string, bbox *BBox, opts ...LoadOption) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Load("opening "+path, err)
	}
	defer f.Close()

	return Load(f, bbox, opts...)
}

// Load reads a GeoJSON FeatureCollection. When bbox is non-nil, features whose
// envelope lies entirely outside it are dropped; features that only partially
// overlap are kept whole. Multi-part features are split into one feature per
// part carrying the same attributes, and SourceRows records which source
// feature each part came from. An elevation that is not a number is loaded as
// missing and reported by Validate.
func Load(r io.Reader, bbox *BBox, opts ...LoadOption) (*Dataset, error) {
	o := loadOptions{defaultCRS: crs.WGS84}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Load("reading source", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errs.Load("decoding feature collection", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, errs.Load(fmt.Sprintf("expected a FeatureCollection, got %q", fc.Type), nil)
	}

	srcCRS, err := declaredCRS(data)
	if err != nil {
		return nil, errs.Load("reading crs member", err)
	}
	if srcCRS == "" {
		srcCRS = o.defaultCRS
	}

	ds := &Dataset{
		CRS:     srcCRS,
		Columns: columns(fc),
	}

	for i, f := range fc.Features {
		elevation, props := splitProperties(f.Properties)

		parts, err := geometries(f.Geometry)
		if err != nil {
			return nil, &errs.Error{Kind: errs.ErrLoad, Column: constants.GeometryColumn, Row: i, Err: err}
		}

		for _, g := range parts {
			if bbox != nil && !bbox.Overlaps(g) {
				continue
			}
			ds.Features = append(ds.Features, Feature{
				Elevation:  elevation,
				Geometry:   g,
				Properties: props,
			})
			ds.SourceRows = append(ds.SourceRows, i)
		}
	}

	return ds, nil
}

// columns collects the attribute names across every feature of the source,
// before any bbox filtering, so that an empty selection keeps its schema.
func columns(fc *geojson.FeatureCollection) []string {
	seen := make(map[string]bool)
	for _, f := range fc.Features {
		for k := range f.Properties {
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen)+1)
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return append(cols, constants.GeometryColumn)
}

func splitProperties(in map[string]interface{}) (*float64, map[string]interface{}) {
	props := make(map[string]interface{}, len(in))
	var elevation *float64
	for k, v := range in {
		if k != constants.ElevationColumn {
			props[k] = v
			continue
		}
		switch e := v.(type) {
		case float64:
			elevation = &e
		case string:
			if f, err := strconv.ParseFloat(e, 64); err == nil {
				elevation = &f
			}
		}
	}
	return elevation, props
}

// geometries converts a GeoJSON geometry into go-geom geometries, one per
// part. A null geometry yields a single nil entry so the feature is kept and
// reported by Validate.
func geometries(g *geojson.Geometry) ([]geom.T, error) {
	if g == nil {
		return []geom.T{nil}, nil
	}

	switch g.Type {
	case geojson.GeometryLineString:
		ls, err := lineString(g.LineString)
		if err != nil {
			return nil, err
		}
		return []geom.T{ls}, nil
	case geojson.GeometryMultiLineString:
		out := make([]geom.T, 0, len(g.MultiLineString))
		for _, line := range g.MultiLineString {
			ls, err := lineString(line)
			if err != nil {
				return nil, err
			}
			out = append(out, ls)
		}
		return out, nil
	case geojson.GeometryPolygon:
		p, err := polygon(g.Polygon)
		if err != nil {
			return nil, err
		}
		return []geom.T{p}, nil
	case geojson.GeometryMultiPolygon:
		out := make([]geom.T, 0, len(g.MultiPolygon))
		for _, rings := range g.MultiPolygon {
			p, err := polygon(rings)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	case geojson.GeometryPoint:
		flat, err := flatXY([][]float64{g.Point})
		if err != nil {
			return nil, err
		}
		return []geom.T{geom.NewPointFlat(geom.XY, flat)}, nil
	case geojson.GeometryMultiPoint:
		flat, err := flatXY(g.MultiPoint)
		if err != nil {
			return nil, err
		}
		return []geom.T{geom.NewMultiPointFlat(geom.XY, flat)}, nil
	case geojson.GeometryCollection:
		// Never a ring; kept so Validate can reject it.
		return []geom.T{geom.NewGeometryCollection()}, nil
	}
	return nil, fmt.Errorf("unknown geometry type %q", g.Type)
}

func lineString(coords [][]float64) (*geom.LineString, error) {
	flat, err := flatXY(coords)
	if err != nil {
		return nil, err
	}
	return geom.NewLineStringFlat(geom.XY, flat), nil
}

func polygon(rings [][][]float64) (*geom.Polygon, error) {
	var flat []float64
	ends := make([]int, 0, len(rings))
	for _, ring := range rings {
		f, err := flatXY(ring)
		if err != nil {
			return nil, err
		}
		flat = append(flat, f...)
		ends = append(ends, len(flat))
	}
	return geom.NewPolygonFlat(geom.XY, flat, ends), nil
}

// flatXY drops any Z/M ordinates.
func flatXY(coords [][]float64) ([]float64, error) {
	flat := make([]float64, 0, 2*len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("coordinate with %d ordinates", len(c))
		}
		flat = append(flat, c[0], c[1])
	}
	return flat, nil
}

// declaredCRS reads the legacy GeoJSON "crs" member, if any.
func declaredCRS(data []byte) (string, error) {
	var member struct {
		CRS *struct {
			Properties struct {
				Name string `json:"name"`
			} `json:"properties"`
		} `json:"crs"`
	}
	if err := json.Unmarshal(data, &member); err != nil {
		return "", err
	}
	if member.CRS == nil || member.CRS.Properties.Name == "" {
		return "", nil
	}
	return crs.Resolve(member.CRS.Properties.Name)
}

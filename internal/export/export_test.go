package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/chrissnell/heightgrid/internal/bands"
	"github.com/chrissnell/heightgrid/internal/contour"
	"github.com/chrissnell/heightgrid/internal/crs"
	"github.com/chrissnell/heightgrid/internal/grid"
	"github.com/chrissnell/heightgrid/internal/heightmap"
	geojson "github.com/paulmach/go.geojson"
	"github.com/twpayne/go-geom"
	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/spatial/r2"
)

// smallMap is a 3x2 heightmap whose lower-left corner is (1000, 2000).
func smallMap() *heightmap.HeightMap {
	g, err := grid.Generate(r2.Vec{X: 1000, Y: 2020}, 10, 3, 2, crs.MSK48)
	if err != nil {
		panic(err)
	}
	hm := &heightmap.HeightMap{Grid: g.Clone()}
	for i := range hm.Points {
		if i == 4 {
			continue
		}
		hm.Points[i].Elevation = float64(10 + i)
		hm.Points[i].Resolved = true
	}
	hm.Points[1].Elevation = 12.5
	return hm
}

func TestWriteASCIIGrid(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteASCIIGrid(&buf, smallMap()); err != nil {
		t.Fatal(err)
	}

	expected := "ncols 3\n" +
		"nrows 2\n" +
		"xllcorner 1000\n" +
		"yllcorner 2000\n" +
		"cellsize 10\n" +
		"NODATA_value -99999\n" +
		"10 12.5 12\n" +
		"13 -99999 15\n"
	if buf.String() != expected {
		t.Errorf("got:\n%s\nexpected:\n%s", buf.String(), expected)
	}
}

func TestASCIIGridFilename(t *testing.T) {
	tests := []struct {
		step, columns, rows int
		expected            string
	}{
		{200, 130, 101, "heightmap_200m_130c_101r.txt"},
		{1, 1, 1, "heightmap_1m_1c_1r.txt"},
	}
	for _, tt := range tests {
		if got := ASCIIGridFilename(tt.step, tt.columns, tt.rows); got != tt.expected {
			t.Errorf("ASCIIGridFilename(%d, %d, %d) = %q, expected %q", tt.step, tt.columns, tt.rows, got, tt.expected)
		}
	}
}

func TestFormats(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		filename string
		wantErr  bool
	}{
		{input: "", expected: FormatASCII, filename: "heightmap_10m_3c_2r.txt"},
		{input: "ASCII", expected: FormatASCII, filename: "heightmap_10m_3c_2r.txt"},
		{input: "json", expected: FormatJSON, filename: "heightmap_10m_3c_2r.json"},
		{input: " msgpack ", expected: FormatMsgPack, filename: "heightmap_10m_3c_2r.msgpack"},
		{input: "tiff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", f)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if f != tt.expected {
				t.Errorf("ParseFormat(%q) = %q, expected %q", tt.input, f, tt.expected)
			}
			if name := Filename(f, 10, 3, 2); name != tt.filename {
				t.Errorf("Filename = %q, expected %q", name, tt.filename)
			}
		})
	}
}

func TestWriteEncodedRaster(t *testing.T) {
	r := NewRaster(smallMap())

	var js bytes.Buffer
	if err := Write(&js, r, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var fromJSON Raster
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"ncols":3`) {
		t.Errorf("JSON lacks the ncols key: %s", js.String())
	}

	var mp bytes.Buffer
	if err := Write(&mp, r, FormatMsgPack); err != nil {
		t.Fatal(err)
	}
	var fromMsgPack map[string]interface{}
	if err := msgpack.Unmarshal(mp.Bytes(), &fromMsgPack); err != nil {
		t.Fatal(err)
	}
	if _, ok := fromMsgPack["nrows"]; !ok {
		t.Errorf("MessagePack keys = %v, expected json tag names", fromMsgPack)
	}

	if fromJSON.Columns != 3 || fromJSON.Rows != 2 || fromJSON.Data[1][1] != -99999 {
		t.Errorf("decoded raster = %+v", fromJSON)
	}

	if err := Write(&js, r, Format("tiff")); err == nil {
		t.Error("expected error for an unknown format")
	}
}

func testBands(t *testing.T) []bands.Band {
	t.Helper()
	low, high := 15.0, 25.0
	// Around 1310000/400000 in MSK-48, east of Lipetsk.
	ds := &contour.Dataset{
		CRS:            crs.MSK48,
		Columns:        []string{"elevation", "geometry"},
		ActiveGeometry: "geometry",
		Features: []contour.Feature{
			{Elevation: &low, Geometry: geom.NewLineStringFlat(geom.XY, []float64{
				1310000, 400000, 1320000, 400000, 1320000, 410000, 1310000, 410000, 1310000, 400000,
			})},
			{Elevation: &high, Geometry: geom.NewLineStringFlat(geom.XY, []float64{
				1313000, 403000, 1317000, 403000, 1317000, 407000, 1313000, 407000, 1313000, 403000,
			})},
		},
	}
	bs, err := bands.Build(ds)
	if err != nil {
		t.Fatal(err)
	}
	return bs
}

func TestBandsGeoJSON(t *testing.T) {
	bs := testBands(t)

	tests := []struct {
		name       string
		dst        string
		xMin, xMax float64
	}{
		{name: "projected", dst: crs.MSK48, xMin: 1310000, xMax: 1320000},
		{name: "wgs84", dst: crs.WGS84, xMin: 39, xMax: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := BandsGeoJSON(bs, crs.MSK48, tt.dst)
			if err != nil {
				t.Fatal(err)
			}
			if len(fc.Features) != 2 {
				t.Fatalf("got %d features, expected 2", len(fc.Features))
			}
			if fc.Features[0].Properties["elevation"] != 15.0 || fc.Features[1].Properties["elevation"] != 25.0 {
				t.Errorf("elevations = %v, %v", fc.Features[0].Properties["elevation"], fc.Features[1].Properties["elevation"])
			}
			g := fc.Features[0].Geometry
			if !g.IsMultiPolygon() {
				t.Fatalf("geometry type = %s", g.Type)
			}
			if rings := len(g.MultiPolygon[0]); rings != 2 {
				t.Errorf("the 15 band has %d rings, expected exterior and hole", rings)
			}
			for _, c := range g.MultiPolygon[0][0] {
				if c[0] < tt.xMin || c[0] > tt.xMax {
					t.Fatalf("x = %v outside [%v, %v]", c[0], tt.xMin, tt.xMax)
				}
			}

			data, err := fc.MarshalJSON()
			if err != nil {
				t.Fatal(err)
			}
			if _, err := geojson.UnmarshalFeatureCollection(data); err != nil {
				t.Errorf("output does not parse back: %v", err)
			}
		})
	}
}

func TestHeightMapGeoJSON(t *testing.T) {
	hm := smallMap()

	fc, err := HeightMapGeoJSON(hm, crs.MSK48)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 5 {
		t.Fatalf("got %d features, expected one per resolved point", len(fc.Features))
	}
	first := fc.Features[0]
	if first.Geometry.Point[0] != 1005 || first.Geometry.Point[1] != 2015 {
		t.Errorf("first point at %v", first.Geometry.Point)
	}
	if first.Properties["index"] != 0 || first.Properties["elevation"] != 10.0 {
		t.Errorf("first properties = %v", first.Properties)
	}
}

package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chrissnell/heightgrid/internal/crs"
	"github.com/chrissnell/heightgrid/internal/export"
	"github.com/chrissnell/heightgrid/internal/log"
	"github.com/chrissnell/heightgrid/pkg/config"
	geojson "github.com/paulmach/go.geojson"
)

// WriteOutputs writes the heightmap and the optional GeoJSON layers described
// by out and returns the paths it wrote. With out.Directory set to "-" the
// heightmap goes to stdout instead of a file.
func WriteOutputs(res *Result, out config.OutputData, stdout io.Writer) ([]string, error) {
	format, err := export.ParseFormat(out.Format)
	if err != nil {
		return nil, err
	}

	raster := export.NewRaster(res.HeightMap)
	var written []string

	if out.Directory == "-" {
		if err := export.Write(stdout, raster, format); err != nil {
			return nil, fmt.Errorf("writing heightmap: %w", err)
		}
	} else {
		path := filepath.Join(out.Directory, export.Filename(format, raster.CellSize, raster.Columns, raster.Rows))
		if err := writeFile(path, func(w io.Writer) error {
			return export.Write(w, raster, format)
		}); err != nil {
			return nil, fmt.Errorf("writing heightmap: %w", err)
		}
		written = append(written, path)
	}

	if out.BandsGeoJSON != "" {
		fc, err := export.BandsGeoJSON(res.Bands, res.CRS, crs.WGS84)
		if err != nil {
			return written, err
		}
		if err := writeGeoJSON(out.BandsGeoJSON, fc); err != nil {
			return written, err
		}
		written = append(written, out.BandsGeoJSON)
	}

	if out.HeightMapGeoJSON != "" {
		fc, err := export.HeightMapGeoJSON(res.HeightMap, crs.WGS84)
		if err != nil {
			return written, err
		}
		if err := writeGeoJSON(out.HeightMapGeoJSON, fc); err != nil {
			return written, err
		}
		written = append(written, out.HeightMapGeoJSON)
	}

	for _, p := range written {
		log.Infof("wrote %s", p)
	}
	return written, nil
}

func writeGeoJSON(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return writeFile(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Package export writes heightmaps and elevation bands in the formats
// downstream consumers read: ESRI ASCII grids, JSON or MessagePack row tables
// and GeoJSON map layers.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/chrissnell/heightgrid/internal/constants"
	"github.com/chrissnell/heightgrid/internal/heightmap"
)

// Raster is a heightmap laid out as rows, top row first, georeferenced by its
// lower-left corner.
type Raster struct {
	Columns   int         `json:"ncols"`
	Rows      int         `json:"nrows"`
	XLLCorner int         `json:"xllcorner"`
	YLLCorner int         `json:"yllcorner"`
	CellSize  int         `json:"cellsize"`
	NoData    float64     `json:"nodata_value"`
	Data      [][]float64 `json:"data"`
}

// NewRaster lays out hm as rows. hm must be sorted by index.
func NewRaster(hm *heightmap.HeightMap) Raster {
	ll := hm.LowerLeft()
	return Raster{
		Columns:   hm.Columns,
		Rows:      hm.Grid.Rows,
		XLLCorner: int(ll.X),
		YLLCorner: int(ll.Y),
		CellSize:  hm.StepSize,
		NoData:    constants.NoData,
		Data:      hm.Rows(),
	}
}

// WriteASCII writes r as an ESRI ASCII grid.
func (r Raster) WriteASCII(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\n", r.Columns)
	fmt.Fprintf(bw, "nrows %d\n", r.Rows)
	fmt.Fprintf(bw, "xllcorner %d\n", r.XLLCorner)
	fmt.Fprintf(bw, "yllcorner %d\n", r.YLLCorner)
	fmt.Fprintf(bw, "cellsize %d\n", r.CellSize)
	fmt.Fprintf(bw, "NODATA_value %s\n", formatValue(r.NoData))

	for _, row := range r.Data {
		for i, v := range row {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatValue(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteASCIIGrid writes hm to w as an ESRI ASCII grid.
func WriteASCIIGrid(w io.Writer, hm *heightmap.HeightMap) error {
	return NewRaster(hm).WriteASCII(w)
}

// ASCIIGridFilename is the conventional download name of a heightmap.
func ASCIIGridFilename(stepSize, columns, rows int) string {
	return fmt.Sprintf("heightmap_%dm_%dc_%dr.txt", stepSize, columns, rows)
}

// Package crs holds the coordinate reference system definitions used by the
// pipeline. Every CRS is identified by its proj4 string; two datasets share a
// CRS only if the strings are identical.
package crs

import (
	"fmt"
	"strings"
)

// WGS84 is the geographic longitude/latitude reference of input points.
const WGS84 = "+proj=longlat +datum=WGS84 +no_defs"

// MSK48 is the local transverse mercator every grid and band of a run is
// computed in. Mixing it with any other planar CRS within one run corrupts the
// spatial join.
const MSK48 = "+proj=tmerc +lat_0=0 +lon_0=38.48333333333 +k=1 +x_0=1250000 +y_0=-5412900.566 +ellps=krass +towgs84=23.57,-140.95,-79.8,0,0.35,0.79,-0.22 +units=m +no_defs"

var named = map[string]string{
	"EPSG:4326":     WGS84,
	"EPSG::4326":    WGS84,
	"CRS84":         WGS84,
	"OGC:1.3:CRS84": WGS84,
	"MSK-48":        MSK48,
	"MSK48":         MSK48,
}

// Resolve turns a CRS name as found in configuration or in a GeoJSON "crs"
// member into a proj4 string. proj4 strings are returned unchanged.
func Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty crs name")
	}
	if strings.HasPrefix(name, "+") {
		return name, nil
	}
	key := strings.ToUpper(strings.TrimPrefix(strings.ToLower(name), "urn:ogc:def:crs:"))
	if def, ok := named[key]; ok {
		return def, nil
	}
	return "", fmt.Errorf("unknown crs %q", name)
}

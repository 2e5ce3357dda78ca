// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// Version holds the application version information
const Version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

// NoData is the elevation written for grid points no band covers.
const NoData = -99999

// Attribute names every contour dataset must carry.
const (
	ElevationColumn = "elevation"
	GeometryColumn  = "geometry"
)

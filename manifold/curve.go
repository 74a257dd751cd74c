// Package manifold builds structured meshes on the ellipsoid by
// interpolating geodesics across a lon/lat quadrilateral.
package manifold

import (
	"fmt"
	"math"

	"github.com/lazylynx/gmanifold/geodesic"
)

// CurveOptions control a single geodesic curve.
type CurveOptions struct {
	// Radians selects radians for inputs and outputs, wrapped to [-π, π).
	Radians bool
	// IncludeStart and IncludeEnd prepend or append the endpoints as given.
	IncludeStart bool
	IncludeEnd   bool
	// Geod is the ellipsoid model; nil selects a fresh WGS84.
	Geod *geodesic.Geodesic
}

// Geodesic returns npts equally spaced points strictly between the start and
// end points, optionally bracketed by the endpoints themselves. Longitudes
// are wrapped to [-180, 180); latitudes are passed through.
func Geodesic(startLon, startLat, endLon, endLat float64, npts int, opts CurveOptions) ([]float64, []float64, error) {
	geod := opts.Geod
	if geod == nil {
		geod = geodesic.WGS84()
	}

	toDeg, fromDeg, wrap := 1.0, 1.0, geodesic.WrapLon
	if opts.Radians {
		toDeg, fromDeg, wrap = 180/math.Pi, math.Pi/180, geodesic.WrapLonRadians
	}

	pts, err := geod.NPts(startLon*toDeg, startLat*toDeg, endLon*toDeg, endLat*toDeg, npts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: from (%v, %v) to (%v, %v) with %d points: %w",
			ErrGeodesic, startLon, startLat, endLon, endLat, npts, err)
	}

	n := len(pts)
	if opts.IncludeStart {
		n++
	}
	if opts.IncludeEnd {
		n++
	}
	lons := make([]float64, 0, n)
	lats := make([]float64, 0, n)

	if opts.IncludeStart {
		lons = append(lons, wrap(startLon))
		lats = append(lats, startLat)
	}
	for _, p := range pts {
		lons = append(lons, wrap(p.Lon()*fromDeg))
		lats = append(lats, p.Lat()*fromDeg)
	}
	if opts.IncludeEnd {
		lons = append(lons, wrap(endLon))
		lats = append(lats, endLat)
	}
	return lons, lats, nil
}

// GeodesicByIdx is Geodesic between the points at startIdx and endIdx of
// the coordinate arrays.
func GeodesicByIdx(lons, lats []float64, startIdx, endIdx, npts int, opts CurveOptions) ([]float64, []float64, error) {
	if len(lons) != len(lats) {
		return nil, nil, fmt.Errorf("%w: %d longitudes, %d latitudes", ErrShapeMismatch, len(lons), len(lats))
	}
	for _, idx := range []int{startIdx, endIdx} {
		if idx < 0 || idx >= len(lons) {
			return nil, nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexRange, idx, len(lons))
		}
	}
	return Geodesic(lons[startIdx], lats[startIdx], lons[endIdx], lats[endIdx], npts, opts)
}

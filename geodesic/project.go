package geodesic

import (
	"math"

	"github.com/golang/geo/r3"
)

// Spherical places (lon, lat) degrees on a sphere of the given radius.
func Spherical(lon, lat, radius float64) r3.Vector {
	slat, clat := sincosd(lat)
	slon, clon := sincosd(lon)
	return r3.Vector{
		X: radius * clat * clon,
		Y: radius * clat * slon,
		Z: radius * slat,
	}
}

// Ellipsoidal places geodetic (lon, lat) degrees on the model scaled so
// the equatorial radius equals radius. The polar radius is radius*(1-f).
func (geod *Geodesic) Ellipsoidal(lon, lat, radius float64) r3.Vector {
	slat, clat := sincosd(lat)
	slon, clon := sincosd(lon)
	// prime vertical radius of curvature
	n := radius / math.Sqrt(1-geod.e2*sq(slat))
	return r3.Vector{
		X: n * clat * clon,
		Y: n * clat * slon,
		Z: n * (1 - geod.e2) * slat,
	}
}

package geodesic

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// NPts returns npts points equally spaced along the geodesic from
// (lon1, lat1) to (lon2, lat2), excluding both endpoints. Point k of n lies
// k/(n+1) of the way along. Coordinates are degrees, longitudes in
// (-180, 180].
func (geod *Geodesic) NPts(lon1, lat1, lon2, lat2 float64, npts int) ([]orb.Point, error) {
	if npts < 0 {
		return nil, fmt.Errorf("%w: negative point count %d", ErrInvalidCoordinate, npts)
	}
	if err := checkEndpoint(lon1, lat1); err != nil {
		return nil, err
	}
	if err := checkEndpoint(lon2, lat2); err != nil {
		return nil, err
	}
	if npts == 0 {
		return []orb.Point{}, nil
	}

	line := geod.InverseLine(lat1, lon1, lat2, lon2)
	s13 := line.Distance()
	if !finite(s13) {
		return nil, fmt.Errorf("%w: no geodesic from (%v, %v) to (%v, %v)",
			ErrInvalidCoordinate, lon1, lat1, lon2, lat2)
	}

	ds := s13 / float64(npts+1)
	pts := make([]orb.Point, npts)
	for k := range pts {
		p := line.Position(float64(k+1) * ds)
		if !finite(p.Lon, p.Lat) {
			return nil, fmt.Errorf("%w: point %d of %d from (%v, %v) to (%v, %v) is not finite",
				ErrInvalidCoordinate, k+1, npts, lon1, lat1, lon2, lat2)
		}
		pts[k] = orb.Point{p.Lon, p.Lat}
	}
	return pts, nil
}

func checkEndpoint(lon, lat float64) error {
	if !finite(lon, lat) {
		return fmt.Errorf("%w: (%v, %v) is not finite", ErrInvalidCoordinate, lon, lat)
	}
	if math.Abs(lat) > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidCoordinate, lat)
	}
	return nil
}

package manifold

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// CornersFromWKT reads bounding-box corners from the outer ring of a WKT
// POLYGON. WKT rings are closed, so a quadrilateral yields 5 corners.
func CornersFromWKT(s string) ([]float64, []float64, error) {
	geom, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, nil, fmt.Errorf("parse wkt: %w", err)
	}
	poly, ok := geom.(orb.Polygon)
	if !ok {
		return nil, nil, fmt.Errorf("parse wkt: want POLYGON, got %s", geom.GeoJSONType())
	}
	if len(poly) == 0 {
		return nil, nil, fmt.Errorf("%w: empty polygon", ErrCornerCount)
	}
	ring := poly[0]
	lons := make([]float64, len(ring))
	lats := make([]float64, len(ring))
	for i, p := range ring {
		lons[i], lats[i] = p.Lon(), p.Lat()
	}
	return lons, lats, nil
}

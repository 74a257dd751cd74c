package manifold

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazylynx/gmanifold/geodesic"
)

func TestGeodesicLengths(t *testing.T) {
	geod := geodesic.WGS84()
	for _, tc := range []struct {
		name       string
		start, end bool
		want       int
	}{
		{"exclusive", false, false, 5},
		{"with start", true, false, 6},
		{"with end", false, true, 6},
		{"inclusive", true, true, 7},
	} {
		t.Run(tc.name, func(t *testing.T) {
			lons, lats, err := Geodesic(-20, 30, 40, -10, 5, CurveOptions{
				IncludeStart: tc.start,
				IncludeEnd:   tc.end,
				Geod:         geod,
			})
			require.NoError(t, err)
			assert.Len(t, lons, tc.want)
			assert.Len(t, lats, tc.want)
		})
	}
}

func TestGeodesicEndpointsAsGiven(t *testing.T) {
	lons, lats, err := Geodesic(-20, 30, 40, -10, 3, CurveOptions{IncludeStart: true, IncludeEnd: true})
	require.NoError(t, err)
	require.Len(t, lons, 5)
	assert.Equal(t, -20.0, lons[0])
	assert.Equal(t, 30.0, lats[0])
	assert.Equal(t, 40.0, lons[4])
	assert.Equal(t, -10.0, lats[4])
}

func TestGeodesicWrapsLongitude(t *testing.T) {
	lons, _, err := Geodesic(185, 0, 195, 0, 1, CurveOptions{IncludeStart: true, IncludeEnd: true})
	require.NoError(t, err)
	require.Len(t, lons, 3)
	assert.InDelta(t, -175, lons[0], 1e-12)
	assert.InDelta(t, -170, lons[1], 1e-9)
	assert.InDelta(t, -165, lons[2], 1e-12)

	lons, _, err = Geodesic(170, 10, -170, 10, 9, CurveOptions{})
	require.NoError(t, err)
	for _, lon := range lons {
		assert.GreaterOrEqual(t, lon, -180.0)
		assert.Less(t, lon, 180.0)
	}
}

func TestGeodesicRadians(t *testing.T) {
	deg := math.Pi / 180
	dlons, dlats, err := Geodesic(-20, 30, 40, -10, 4, CurveOptions{IncludeEnd: true})
	require.NoError(t, err)
	rlons, rlats, err := Geodesic(-20*deg, 30*deg, 40*deg, -10*deg, 4, CurveOptions{Radians: true, IncludeEnd: true})
	require.NoError(t, err)
	require.Len(t, rlons, len(dlons))
	for i := range dlons {
		assert.InDelta(t, dlons[i]*deg, rlons[i], 1e-12)
		assert.InDelta(t, dlats[i]*deg, rlats[i], 1e-12)
		assert.GreaterOrEqual(t, rlons[i], -math.Pi)
		assert.Less(t, rlons[i], math.Pi)
	}
}

func TestGeodesicErrors(t *testing.T) {
	for _, tc := range []struct {
		name                   string
		lon1, lat1, lon2, lat2 float64
		npts                   int
	}{
		{"negative count", 0, 0, 10, 10, -1},
		{"bad latitude", 0, 95, 10, 10, 3},
		{"nan", 0, 0, math.NaN(), 10, 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Geodesic(tc.lon1, tc.lat1, tc.lon2, tc.lat2, tc.npts, CurveOptions{})
			assert.ErrorIs(t, err, ErrGeodesic)
			assert.ErrorIs(t, err, geodesic.ErrInvalidCoordinate)
		})
	}
}

func TestGeodesicByIdx(t *testing.T) {
	lons := []float64{-10, 10, 10, -10}
	lats := []float64{10, 10, -10, -10}
	opts := CurveOptions{IncludeStart: true, Geod: geodesic.WGS84()}

	gotLons, gotLats, err := GeodesicByIdx(lons, lats, 1, 3, 7, opts)
	require.NoError(t, err)
	wantLons, wantLats, err := Geodesic(10, 10, -10, -10, 7, opts)
	require.NoError(t, err)
	assert.Equal(t, wantLons, gotLons)
	assert.Equal(t, wantLats, gotLats)

	_, _, err = GeodesicByIdx(lons, lats[:3], 0, 1, 3, opts)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, _, err = GeodesicByIdx(lons, lats, 0, 4, 3, opts)
	assert.ErrorIs(t, err, ErrIndexRange)

	_, _, err = GeodesicByIdx(lons, lats, -1, 2, 3, opts)
	assert.ErrorIs(t, err, ErrIndexRange)
}

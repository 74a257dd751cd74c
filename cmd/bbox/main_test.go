package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazylynx/gmanifold/manifold"
)

func TestRunLonsLats(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-lons=-10,10,10,-10", "-lats=10, 10, -10, -10", "-c", "3", "-tri", "-v"}, &stdout, &stderr)
	require.NoError(t, err)

	var mesh manifold.Mesh
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &mesh))
	assert.Equal(t, 16, mesh.NPoints())
	assert.Equal(t, 18, mesh.NFaces())
	assert.Contains(t, stderr.String(), "triangulated=true")
}

func TestRunWKTGeoJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{
		"-wkt", "POLYGON((-10 10, 10 10, 10 -10, -10 -10, -10 10))",
		"-c", "2", "-format", "geojson",
	}, &stdout, &stderr)
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []any  `json:"features"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 4)
	assert.Empty(t, stderr.String())
}

func TestRunErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		want error
	}{
		{"three corners", []string{"-lons=0,1,2", "-lats=0,1,2"}, manifold.ErrCornerCount},
		{"no corners", nil, manifold.ErrCornerCount},
		{"unknown ellipsoid", []string{"-lons=0,1,1,0", "-lats=1,1,0,0", "-ellps", "vulcan"}, manifold.ErrGeodesic},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := run(tc.args, &bytes.Buffer{}, &bytes.Buffer{})
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Error(t, run([]string{"-lons=0,x,1,0", "-lats=1,1,0,0"}, &bytes.Buffer{}, &bytes.Buffer{}))
	assert.Error(t, run([]string{"-wkt", "POINT(1 2)"}, &bytes.Buffer{}, &bytes.Buffer{}))
	assert.Error(t, run([]string{"-lons=0,1,1,0", "-lats=1,1,0,0", "-c", "2", "-format", "obj"}, &bytes.Buffer{}, &bytes.Buffer{}))
	assert.Error(t, run([]string{"-lons=0,1,1,0", "-lats=1,1,0,0", "-projection", "mercator"}, &bytes.Buffer{}, &bytes.Buffer{}))
}

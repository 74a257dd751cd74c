package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazylynx/gmanifold/internal/config"
	"github.com/lazylynx/gmanifold/manifold"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---- Fake cache ----

type fakeCache struct {
	mu     sync.Mutex
	meshes map[string]*manifold.Mesh
	gets   int
	hits   int
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{meshes: make(map[string]*manifold.Mesh)}
}

func (f *fakeCache) Get(_ context.Context, key string) (*manifold.Mesh, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	mesh, ok := f.meshes[key]
	if ok {
		f.hits++
	}
	return mesh, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, mesh *manifold.Mesh) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	f.meshes[key] = mesh
	return nil
}

// ---- Helpers ----

func testConfig() *config.Config {
	return &config.Config{
		Service: "manifoldd",
		Server:  config.ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		Log:     config.LogConfig{Level: "info", Format: "json"},
		Manifold: config.ManifoldConfig{
			Ellipsoid:      "WGS84",
			Radius:         1.1,
			Subdivision:    4,
			MaxSubdivision: 64,
			Workers:        2,
		},
	}
}

func newTestRouter(mc *fakeCache) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var s *Server
	if mc == nil {
		s = New(testConfig(), nil, logger)
	} else {
		s = New(testConfig(), mc, logger)
	}
	return s.Router()
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var box = map[string]any{
	"lons": []float64{-10, 10, 10, -10},
	"lats": []float64{10, 10, -10, -10},
	"c":    2,
}

// ---- Tests ----

func TestHealth(t *testing.T) {
	r := newTestRouter(nil)
	w := do(t, r, http.MethodGet, "/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["cache"])

	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestRequestIDPassthrough(t *testing.T) {
	r := newTestRouter(nil)
	rid := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("X-Request-ID", rid)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, rid, w.Header().Get("X-Request-ID"))
}

func TestEllipsoids(t *testing.T) {
	r := newTestRouter(nil)
	w := do(t, r, http.MethodGet, "/v1/ellipsoids", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		Ellipsoids []ellipsoidInfo `json:"ellipsoids"`
	}](t, w)
	require.NotEmpty(t, body.Ellipsoids)

	var found bool
	for _, e := range body.Ellipsoids {
		if e.Name == "WGS84" {
			found = true
			assert.True(t, e.Default)
			assert.Equal(t, 6378137.0, e.EquatorialRadius)
		} else {
			assert.False(t, e.Default, e.Name)
		}
	}
	assert.True(t, found)
}

func TestGeodesicEndpoint(t *testing.T) {
	r := newTestRouter(nil)
	w := do(t, r, http.MethodPost, "/v1/geodesic", map[string]any{
		"start_lon":     185,
		"start_lat":     0,
		"end_lon":       195,
		"end_lat":       0,
		"npts":          3,
		"include_start": true,
		"include_end":   true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[curveResponse](t, w)
	assert.Equal(t, "WGS84", body.Ellipsoid)
	assert.Equal(t, 5, body.N)
	require.Len(t, body.Lons, 5)
	assert.InDelta(t, -175, body.Lons[0], 1e-12)
	for _, lon := range body.Lons {
		assert.GreaterOrEqual(t, lon, -180.0)
		assert.Less(t, lon, 180.0)
	}
}

func TestGeodesicDefaultsToDefaultNPts(t *testing.T) {
	r := newTestRouter(nil)
	w := do(t, r, http.MethodPost, "/v1/geodesic", map[string]any{
		"start_lon": 0, "start_lat": 0, "end_lon": 10, "end_lat": 10,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, manifold.DefaultNPts, decode[curveResponse](t, w).N)
}

func TestGeodesicErrors(t *testing.T) {
	r := newTestRouter(nil)
	for _, tc := range []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"missing field", map[string]any{"start_lon": 0, "start_lat": 0, "end_lon": 1}, http.StatusBadRequest, "bad_request"},
		{"too many points", map[string]any{"start_lon": 0, "start_lat": 0, "end_lon": 1, "end_lat": 1, "npts": maxCurvePoints + 1}, http.StatusBadRequest, "bad_request"},
		{"bad latitude", map[string]any{"start_lon": 0, "start_lat": 95, "end_lon": 1, "end_lat": 1}, http.StatusUnprocessableEntity, "geodesic"},
		{"negative npts", map[string]any{"start_lon": 0, "start_lat": 0, "end_lon": 1, "end_lat": 1, "npts": -2}, http.StatusUnprocessableEntity, "geodesic"},
		{"unknown ellipsoid", map[string]any{"start_lon": 0, "start_lat": 0, "end_lon": 1, "end_lat": 1, "ellipsoid": "vulcan"}, http.StatusUnprocessableEntity, "unknown_ellipsoid"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/v1/geodesic", tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			apiErr := decode[APIError](t, w)
			assert.Equal(t, tc.code, apiErr.Code)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, w.Header().Get("X-Request-ID"), apiErr.RequestID)
		})
	}
}

func TestBBoxEndpoint(t *testing.T) {
	r := newTestRouter(nil)
	w := do(t, r, http.MethodPost, "/v1/bbox", box)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var mesh manifold.Mesh
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mesh))
	assert.Equal(t, 9, mesh.NPoints())
	assert.Equal(t, 4, mesh.NFaces())
	for _, p := range mesh.Points {
		assert.InDelta(t, 1.1, p.Norm(), 1e-12)
	}
}

func TestBBoxServerDefaults(t *testing.T) {
	r := newTestRouter(nil)
	w := do(t, r, http.MethodPost, "/v1/bbox", map[string]any{
		"lons":        []float64{-10, 10, 10, -10},
		"lats":        []float64{10, 10, -10, -10},
		"triangulate": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	// subdivision 4 from the server config
	assert.EqualValues(t, 25, body["n_points"])
	assert.EqualValues(t, 32, body["n_faces"])
}

func TestBBoxGeoJSON(t *testing.T) {
	r := newTestRouter(nil)
	req := map[string]any{"format": "geojson"}
	for k, v := range box {
		req[k] = v
	}
	w := do(t, r, http.MethodPost, "/v1/bbox", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
		} `json:"features"`
	}](t, w)
	assert.Equal(t, "FeatureCollection", body.Type)
	require.Len(t, body.Features, 4)
	assert.Equal(t, "Polygon", body.Features[0].Geometry.Type)
}

func TestBBoxWKT(t *testing.T) {
	r := newTestRouter(nil)
	w := do(t, r, http.MethodPost, "/v1/bbox", map[string]any{
		"wkt": "POLYGON((-10 10, 10 10, 10 -10, -10 -10, -10 10))",
		"c":   2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	wkt := decode[map[string]any](t, w)

	w = do(t, r, http.MethodPost, "/v1/bbox", box)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, decode[map[string]any](t, w), wkt)

	w = do(t, r, http.MethodPost, "/v1/bbox", map[string]any{"wkt": "POINT(1 2)"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/v1/bbox", map[string]any{
		"wkt":  "POLYGON((-10 10, 10 10, 10 -10, -10 -10, -10 10))",
		"lons": []float64{1, 2, 3, 4},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBBoxErrors(t *testing.T) {
	r := newTestRouter(nil)
	with := func(kv ...any) map[string]any {
		req := map[string]any{}
		for k, v := range box {
			req[k] = v
		}
		for i := 0; i < len(kv); i += 2 {
			req[kv[i].(string)] = kv[i+1]
		}
		return req
	}
	for _, tc := range []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"three corners", with("lons", []float64{0, 1, 2}, "lats", []float64{0, 1, 2}), http.StatusUnprocessableEntity, "corner_count"},
		{"shape mismatch", with("lats", []float64{0, 1, 2}), http.StatusUnprocessableEntity, "shape_mismatch"},
		{"over server limit", with("c", 65), http.StatusUnprocessableEntity, "subdivision"},
		{"negative c", with("c", -3), http.StatusUnprocessableEntity, "subdivision"},
		{"negative radius", with("radius", -1), http.StatusUnprocessableEntity, "radius"},
		{"unknown ellipsoid", with("ellipsoid", "vulcan"), http.StatusUnprocessableEntity, "unknown_ellipsoid"},
		{"bad format", with("format", "obj"), http.StatusBadRequest, "bad_request"},
		{"bad projection", with("projection", "mercator"), http.StatusBadRequest, "bad_request"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/v1/bbox", tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.code, decode[APIError](t, w).Code)
		})
	}
}

func TestBBoxCache(t *testing.T) {
	mc := newFakeCache()
	r := newTestRouter(mc)

	first := do(t, r, http.MethodPost, "/v1/bbox", box)
	require.Equal(t, http.StatusOK, first.Code)
	second := do(t, r, http.MethodPost, "/v1/bbox", box)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 2, mc.gets)
	assert.Equal(t, 1, mc.hits)
	assert.Equal(t, 1, mc.sets)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	w := do(t, r, http.MethodGet, "/v1/health", nil)
	assert.Equal(t, "ok", decode[map[string]any](t, w)["cache"])
}

func TestBBoxBatch(t *testing.T) {
	r := newTestRouter(nil)
	tiles := []manifold.Tile{
		{Lons: []float64{-10, 10, 10, -10}, Lats: []float64{10, 10, -10, -10}},
		{Lons: []float64{100, 120, 120, 100}, Lats: []float64{40, 40, 20, 20}},
	}

	w := do(t, r, http.MethodPost, "/v1/bbox/batch", map[string]any{"tiles": tiles, "c": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[struct {
		Meshes []manifold.Mesh `json:"meshes"`
	}](t, w)
	require.Len(t, body.Meshes, 2)
	for _, mesh := range body.Meshes {
		assert.Equal(t, 16, mesh.NPoints())
		assert.Equal(t, 9, mesh.NFaces())
	}

	w = do(t, r, http.MethodPost, "/v1/bbox/batch", map[string]any{"tiles": tiles, "c": 3, "format": "geojson"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]any](t, w)["meshes"], 2)

	bad := append(tiles, manifold.Tile{Lons: []float64{0, 1}, Lats: []float64{0, 1}})
	w = do(t, r, http.MethodPost, "/v1/bbox/batch", map[string]any{"tiles": bad})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	apiErr := decode[APIError](t, w)
	assert.Equal(t, "corner_count", apiErr.Code)
	assert.Contains(t, apiErr.Message, "tile 2")

	w = do(t, r, http.MethodPost, "/v1/bbox/batch", map[string]any{"tiles": []manifold.Tile{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(nil)
	do(t, r, http.MethodPost, "/v1/bbox", box)

	w := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gmanifold_http_requests_total")
	assert.Contains(t, w.Body.String(), "gmanifold_mesh_builds_total")
}

func TestNoRoute(t *testing.T) {
	r := newTestRouter(nil)
	w := do(t, r, http.MethodGet, "/v2/nothing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode[APIError](t, w).Code)
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lazylynx/gmanifold/geodesic"
	"github.com/lazylynx/gmanifold/internal/cache"
	"github.com/lazylynx/gmanifold/internal/metrics"
	"github.com/lazylynx/gmanifold/manifold"
)

// maxCurvePoints bounds a single /v1/geodesic response.
const maxCurvePoints = 100000

type ellipsoidInfo struct {
	Name             string  `json:"name"`
	EquatorialRadius float64 `json:"equatorial_radius"`
	Flattening       float64 `json:"flattening"`
	Default          bool    `json:"default"`
}

// GET /v1/ellipsoids
func (s *Server) ellipsoids(c *gin.Context) {
	names := geodesic.Ellipsoids()
	out := make([]ellipsoidInfo, 0, len(names))
	for _, name := range names {
		geod, err := s.geods.get(name)
		if err != nil {
			errBuild(c, err)
			return
		}
		out = append(out, ellipsoidInfo{
			Name:             name,
			EquatorialRadius: geod.EquatorialRadius(),
			Flattening:       geod.Flattening(),
			Default:          strings.EqualFold(name, s.cfg.Ellipsoid),
		})
	}
	c.JSON(http.StatusOK, gin.H{"ellipsoids": out})
}

type geodesicRequest struct {
	StartLon     *float64 `json:"start_lon" binding:"required"`
	StartLat     *float64 `json:"start_lat" binding:"required"`
	EndLon       *float64 `json:"end_lon" binding:"required"`
	EndLat       *float64 `json:"end_lat" binding:"required"`
	NPts         *int     `json:"npts"`
	Radians      bool     `json:"radians"`
	IncludeStart bool     `json:"include_start"`
	IncludeEnd   bool     `json:"include_end"`
	Ellipsoid    string   `json:"ellipsoid"`
}

type curveResponse struct {
	Ellipsoid string    `json:"ellipsoid"`
	N         int       `json:"n"`
	Lons      []float64 `json:"lons"`
	Lats      []float64 `json:"lats"`
}

// POST /v1/geodesic
func (s *Server) curve(c *gin.Context) {
	var req geodesicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errBadRequest(c, err.Error())
		return
	}
	npts := manifold.DefaultNPts
	if req.NPts != nil {
		npts = *req.NPts
	}
	if npts > maxCurvePoints {
		errBadRequest(c, fmt.Sprintf("npts must be at most %d, got %d", maxCurvePoints, npts))
		return
	}

	geod, err := s.geods.get(s.ellipsoidName(req.Ellipsoid))
	if err != nil {
		errBuild(c, err)
		return
	}
	lons, lats, err := manifold.Geodesic(*req.StartLon, *req.StartLat, *req.EndLon, *req.EndLat, npts, manifold.CurveOptions{
		Radians:      req.Radians,
		IncludeStart: req.IncludeStart,
		IncludeEnd:   req.IncludeEnd,
		Geod:         geod,
	})
	if err != nil {
		errBuild(c, err)
		return
	}
	metrics.GeodesicPoints.Add(float64(len(lons)))

	c.JSON(http.StatusOK, curveResponse{
		Ellipsoid: geod.Name(),
		N:         len(lons),
		Lons:      lons,
		Lats:      lats,
	})
}

// meshOptions are the build options shared by single and batch requests.
// Zero values fall back to the server configuration.
type meshOptions struct {
	Ellipsoid   string  `json:"ellipsoid"`
	Radius      float64 `json:"radius"`
	C           int     `json:"c"`
	Triangulate bool    `json:"triangulate"`
	Projection  string  `json:"projection"`
	Format      string  `json:"format"` // mesh (default) or geojson
}

type bboxRequest struct {
	Lons []float64 `json:"lons"`
	Lats []float64 `json:"lats"`
	WKT  string    `json:"wkt"`
	meshOptions
}

type batchRequest struct {
	Tiles []manifold.Tile `json:"tiles" binding:"required,min=1,max=256"`
	meshOptions
}

// meshKey identifies a mesh for caching once defaults are applied.
type meshKey struct {
	Lons        []float64 `json:"lons"`
	Lats        []float64 `json:"lats"`
	Ellipsoid   string    `json:"ellipsoid"`
	Radius      float64   `json:"radius"`
	C           int       `json:"c"`
	Triangulate bool      `json:"triangulate"`
	Projection  string    `json:"projection"`
}

func (s *Server) ellipsoidName(name string) string {
	if name == "" {
		return s.cfg.Ellipsoid
	}
	return name
}

// meshConfig applies server defaults to the request options.
func (s *Server) meshConfig(ctx context.Context, o meshOptions) (manifold.Config, error) {
	proj, err := manifold.ParseProjection(o.Projection)
	if err != nil {
		return manifold.Config{}, err
	}
	geod, err := s.geods.get(s.ellipsoidName(o.Ellipsoid))
	if err != nil {
		return manifold.Config{}, err
	}
	sub := o.C
	if sub == 0 {
		sub = s.cfg.Subdivision
	}
	if sub > s.cfg.MaxSubdivision {
		return manifold.Config{}, fmt.Errorf("%w: c=%d exceeds the server limit %d",
			manifold.ErrSubdivision, sub, s.cfg.MaxSubdivision)
	}
	radius := o.Radius
	if radius == 0 {
		radius = s.cfg.Radius
	}
	return manifold.Config{
		Geod:        geod,
		Radius:      radius,
		C:           sub,
		Triangulate: o.Triangulate,
		Projection:  proj,
		Logger:      LoggerFromCtx(ctx),
	}, nil
}

func checkFormat(format string) error {
	switch format {
	case "", "mesh", "geojson":
		return nil
	}
	return fmt.Errorf("format must be mesh or geojson, got %q", format)
}

// POST /v1/bbox
func (s *Server) bbox(c *gin.Context) {
	var req bboxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errBadRequest(c, err.Error())
		return
	}
	if err := checkFormat(req.Format); err != nil {
		errBadRequest(c, err.Error())
		return
	}
	lons, lats := req.Lons, req.Lats
	if req.WKT != "" {
		if len(lons) > 0 || len(lats) > 0 {
			errBadRequest(c, "give either wkt or lons/lats, not both")
			return
		}
		var err error
		if lons, lats, err = manifold.CornersFromWKT(req.WKT); err != nil {
			errBadRequest(c, err.Error())
			return
		}
	}

	if _, err := manifold.ParseProjection(req.Projection); err != nil {
		errBadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	cfg, err := s.meshConfig(ctx, req.meshOptions)
	if err != nil {
		errBuild(c, err)
		return
	}

	key, err := cache.Key("bbox", meshKey{
		Lons:        lons,
		Lats:        lats,
		Ellipsoid:   cfg.Geod.Name(),
		Radius:      cfg.Radius,
		C:           cfg.C,
		Triangulate: cfg.Triangulate,
		Projection:  cfg.Projection.String(),
	})
	if err != nil {
		errBuild(c, err)
		return
	}

	mesh := s.cachedMesh(ctx, key)
	if mesh == nil {
		start := time.Now()
		mesh, err = manifold.BBox(lons, lats, cfg)
		faces := 0
		if mesh != nil {
			faces = mesh.NFaces()
		}
		metrics.ObserveBuild(cfg.Geod.Name(), start, faces, err)
		if err != nil {
			errBuild(c, err)
			return
		}
		s.storeMesh(ctx, key, mesh)
	}
	writeMesh(c, req.Format, mesh)
}

// POST /v1/bbox/batch
func (s *Server) bboxBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errBadRequest(c, err.Error())
		return
	}
	if err := checkFormat(req.Format); err != nil {
		errBadRequest(c, err.Error())
		return
	}
	if _, err := manifold.ParseProjection(req.Projection); err != nil {
		errBadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	cfg, err := s.meshConfig(ctx, req.meshOptions)
	if err != nil {
		errBuild(c, err)
		return
	}

	start := time.Now()
	meshes, err := manifold.BBoxMany(ctx, req.Tiles, cfg, s.cfg.Workers)
	if err != nil {
		metrics.ObserveBuild(cfg.Geod.Name(), start, 0, err)
		errBuild(c, err)
		return
	}
	for _, mesh := range meshes {
		metrics.ObserveBuild(cfg.Geod.Name(), start, mesh.NFaces(), nil)
	}

	if req.Format == "geojson" {
		out := make([]any, len(meshes))
		for i, mesh := range meshes {
			out[i] = mesh.GeoJSON()
		}
		c.JSON(http.StatusOK, gin.H{"meshes": out})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meshes": meshes})
}

func writeMesh(c *gin.Context, format string, mesh *manifold.Mesh) {
	if format == "geojson" {
		c.JSON(http.StatusOK, mesh.GeoJSON())
		return
	}
	c.JSON(http.StatusOK, mesh)
}

// cachedMesh returns nil on a miss; cache failures only cost a rebuild.
func (s *Server) cachedMesh(ctx context.Context, key string) *manifold.Mesh {
	if !s.cacheOn {
		return nil
	}
	mesh, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		LoggerFromCtx(ctx).Warn("cache get failed", "key", key, "error", err)
		return nil
	}
	if !ok {
		metrics.CacheMisses.WithLabelValues("bbox").Inc()
		return nil
	}
	metrics.CacheHits.WithLabelValues("bbox").Inc()
	return mesh
}

func (s *Server) storeMesh(ctx context.Context, key string, mesh *manifold.Mesh) {
	if !s.cacheOn {
		return
	}
	if err := s.cache.Set(ctx, key, mesh); err != nil {
		LoggerFromCtx(ctx).Warn("cache set failed", "key", key, "error", err)
	}
}

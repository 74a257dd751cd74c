package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lazylynx/gmanifold/internal/cache"
	"github.com/lazylynx/gmanifold/internal/config"
	"github.com/lazylynx/gmanifold/internal/metrics"
)

// Server serves geodesic curves and bounding-box meshes over HTTP.
type Server struct {
	cfg       config.ManifoldConfig
	cache     cache.MeshCache
	cacheOn   bool
	geods     *geodRegistry
	logger    *slog.Logger
	startedAt time.Time
}

// New wires a server. A nil cache disables caching.
func New(cfg *config.Config, mc cache.MeshCache, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg.Manifold,
		cache:     mc,
		cacheOn:   mc != nil,
		geods:     newGeodRegistry(),
		logger:    logger,
		startedAt: time.Now(),
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID(s.logger))
	r.Use(AccessLog())
	r.Use(metrics.Middleware())

	r.GET("/metrics", metrics.Handler())

	v1 := r.Group("/v1")
	v1.GET("/health", s.health)
	v1.GET("/ellipsoids", s.ellipsoids)
	v1.POST("/geodesic", s.curve)
	v1.POST("/bbox", s.bbox)
	v1.POST("/bbox/batch", s.bboxBatch)

	r.NoRoute(func(c *gin.Context) {
		abortError(c, http.StatusNotFound, "not_found", "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})
	return r
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) health(c *gin.Context) {
	status := "healthy"
	cacheState := "disabled"
	if s.cacheOn {
		cacheState = "ok"
		if p, ok := s.cache.(pinger); ok {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				cacheState = "error: " + err.Error()
				status = "degraded"
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"uptime":  time.Since(s.startedAt).String(),
		"version": "dev",
		"cache":   cacheState,
	})
}

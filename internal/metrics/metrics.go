package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gmanifold",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gmanifold",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gmanifold",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 7),
	}, []string{"method", "path"})

	// Mesh metrics
	MeshBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gmanifold",
		Subsystem: "mesh",
		Name:      "builds_total",
		Help:      "Total bounding-box meshes built, by ellipsoid and outcome",
	}, []string{"ellipsoid", "outcome"})

	MeshBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gmanifold",
		Subsystem: "mesh",
		Name:      "build_duration_seconds",
		Help:      "Duration of a single bounding-box mesh build",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"ellipsoid"})

	MeshFaces = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gmanifold",
		Subsystem: "mesh",
		Name:      "faces",
		Help:      "Faces per built mesh",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
	})

	GeodesicPoints = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gmanifold",
		Subsystem: "geodesic",
		Name:      "points_total",
		Help:      "Total geodesic curve points returned",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gmanifold",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gmanifold",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// ObserveBuild records one mesh build.
func ObserveBuild(ellipsoid string, start time.Time, faces int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	MeshBuilds.WithLabelValues(ellipsoid, outcome).Inc()
	if err == nil {
		MeshBuildDuration.WithLabelValues(ellipsoid).Observe(time.Since(start).Seconds())
		MeshFaces.Observe(float64(faces))
	}
}

// Middleware records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		// gin resolves the route pattern, which keeps label cardinality low
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(max(c.Writer.Size(), 0)))
	}
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

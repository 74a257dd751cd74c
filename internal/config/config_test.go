package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("manifoldd")
	require.NoError(t, err)

	assert.Equal(t, "manifoldd", cfg.Service)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "WGS84", cfg.Manifold.Ellipsoid)
	assert.Equal(t, 1.1, cfg.Manifold.Radius)
	assert.Equal(t, 128, cfg.Manifold.Subdivision)
	assert.Equal(t, 1024, cfg.Manifold.MaxSubdivision)
	assert.Equal(t, 4, cfg.Manifold.Workers)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr)
	assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GMANIFOLD_SERVER_PORT", "9090")
	t.Setenv("GMANIFOLD_MANIFOLD_ELLIPSOID", "grs80")
	t.Setenv("GMANIFOLD_MANIFOLD_RADIUS", "2.5")
	t.Setenv("GMANIFOLD_CACHE_ENABLED", "true")
	t.Setenv("GMANIFOLD_LOG_FORMAT", "text")

	cfg, err := Load("manifoldd")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "grs80", cfg.Manifold.Ellipsoid)
	assert.Equal(t, 2.5, cfg.Manifold.Radius)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("GMANIFOLD_SERVER_PORT", "0")
	t.Setenv("GMANIFOLD_MANIFOLD_ELLIPSOID", "pluto")

	_, err := Load("manifoldd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "manifold.ellipsoid")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
			Log:      LogConfig{Level: "info", Format: "json"},
			Manifold: ManifoldConfig{Ellipsoid: "WGS84", Radius: 1.1, Subdivision: 128, MaxSubdivision: 1024, Workers: 4},
			Cache:    CacheConfig{Addr: "localhost:6379", TTLSeconds: 60},
		}
	}
	require.NoError(t, valid().Validate())

	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "server.read_timeout"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"radius", func(c *Config) { c.Manifold.Radius = -1 }, "manifold.radius"},
		{"subdivision above max", func(c *Config) { c.Manifold.Subdivision = 2000 }, "manifold.subdivision"},
		{"max subdivision", func(c *Config) { c.Manifold.MaxSubdivision = 1 << 20 }, "manifold.max_subdivision"},
		{"workers", func(c *Config) { c.Manifold.Workers = 0 }, "manifold.workers"},
		{"cache ttl", func(c *Config) { c.Cache.Enabled = true; c.Cache.TTLSeconds = 0 }, "cache.ttl_seconds"},
		{"cache addr", func(c *Config) { c.Cache.Enabled = true; c.Cache.Addr = "" }, "cache.addr"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

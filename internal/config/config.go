package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/lazylynx/gmanifold/geodesic"
	"github.com/lazylynx/gmanifold/manifold"
)

// Config holds all application configuration.
type Config struct {
	Service  string         `mapstructure:"-"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Manifold ManifoldConfig `mapstructure:"manifold"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ManifoldConfig struct {
	Ellipsoid      string  `mapstructure:"ellipsoid"`
	Radius         float64 `mapstructure:"radius"`
	Subdivision    int     `mapstructure:"subdivision"`
	MaxSubdivision int     `mapstructure:"max_subdivision"`
	Workers        int     `mapstructure:"workers"`
}

type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Addr       string `mapstructure:"addr"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

// Load reads configuration from an optional .env file, an optional config
// file and environment variables, in increasing precedence.
func Load(service string) (*Config, error) {
	_ = godotenv.Load() // OK if missing

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("manifold.ellipsoid", manifold.DefaultEllipsoid)
	v.SetDefault("manifold.radius", manifold.DefaultRadius)
	v.SetDefault("manifold.subdivision", manifold.DefaultSubdivision)
	v.SetDefault("manifold.max_subdivision", 1024)
	v.SetDefault("manifold.workers", 4)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl_seconds", 3600)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GMANIFOLD_MANIFOLD_RADIUS → manifold.radius
	v.SetEnvPrefix("GMANIFOLD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Service = service

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if _, err := geodesic.Named(c.Manifold.Ellipsoid); err != nil {
		errs = append(errs, fmt.Sprintf("manifold.ellipsoid: %v", err))
	}
	if !(c.Manifold.Radius > 0) {
		errs = append(errs, fmt.Sprintf("manifold.radius must be positive, got %v", c.Manifold.Radius))
	}
	if c.Manifold.MaxSubdivision <= 0 || c.Manifold.MaxSubdivision > manifold.MaxSubdivision {
		errs = append(errs, fmt.Sprintf("manifold.max_subdivision must be 1-%d, got %d",
			manifold.MaxSubdivision, c.Manifold.MaxSubdivision))
	}
	if c.Manifold.Subdivision <= 0 || c.Manifold.Subdivision > c.Manifold.MaxSubdivision {
		errs = append(errs, fmt.Sprintf("manifold.subdivision must be 1-%d, got %d",
			c.Manifold.MaxSubdivision, c.Manifold.Subdivision))
	}
	if c.Manifold.Workers <= 0 {
		errs = append(errs, "manifold.workers must be positive")
	}
	if c.Cache.Enabled {
		if c.Cache.Addr == "" {
			errs = append(errs, "cache.addr is required when the cache is enabled")
		}
		if c.Cache.TTLSeconds <= 0 {
			errs = append(errs, "cache.ttl_seconds must be positive")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

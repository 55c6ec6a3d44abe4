package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	RateLimit RateLimitConfig `toml:"rate_limit" yaml:"rate_limit"`
	Cache     CacheConfig     `toml:"cache" yaml:"cache"`
	Solver    SolverConfig    `toml:"solver" yaml:"solver"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr" yaml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout" yaml:"idle_timeout"`
}

type RateLimitConfig struct {
	Capacity int      `toml:"capacity" yaml:"capacity"`
	Window   Duration `toml:"window" yaml:"window"`
}

// CacheConfig selects where solved results are cached: "memory" or "redis".
type CacheConfig struct {
	Backend   string   `toml:"backend" yaml:"backend"`
	RedisAddr string   `toml:"redis_addr" yaml:"redis_addr"`
	TTL       Duration `toml:"ttl" yaml:"ttl"`
}

type SolverConfig struct {
	MaxIterations int     `toml:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64 `toml:"tolerance" yaml:"tolerance"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Duration wraps time.Duration for text decoding ("15s", "1m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Environment variables that override file values.
const (
	EnvAddr          = "LOAN_ENGINE_ADDR"
	EnvRedisAddr     = "LOAN_ENGINE_REDIS_ADDR"
	EnvLogLevel      = "LOAN_ENGINE_LOG_LEVEL"
	EnvMaxIterations = "LOAN_ENGINE_SOLVER_MAX_ITERATIONS"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a TOML or YAML file, picked by extension, then applies defaults
// and environment overrides. An empty path yields the defaults plus
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		path = os.ExpandEnv(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".toml":
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		default:
			return nil, fmt.Errorf("unsupported config format %q", ext)
		}
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 15 * time.Second
	}
	if c.Server.IdleTimeout.Duration == 0 {
		c.Server.IdleTimeout.Duration = 60 * time.Second
	}

	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 5
	}
	if c.RateLimit.Window.Duration == 0 {
		c.RateLimit.Window.Duration = time.Minute
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = time.Hour
	}

	if c.Solver.MaxIterations == 0 {
		c.Solver.MaxIterations = 100
	}
	if c.Solver.Tolerance == 0 {
		c.Solver.Tolerance = 1e-10
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = "redis"
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvMaxIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxIterations, err)
		}
		c.Solver.MaxIterations = n
	}
	return nil
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.RateLimit.Capacity < 0 {
		return fmt.Errorf("rate limit capacity must not be negative, got %d", c.RateLimit.Capacity)
	}
	if c.Solver.MaxIterations < 0 {
		return fmt.Errorf("solver max iterations must not be negative, got %d", c.Solver.MaxIterations)
	}
	if c.Solver.Tolerance < 0 {
		return fmt.Errorf("solver tolerance must not be negative, got %g", c.Solver.Tolerance)
	}
	return nil
}

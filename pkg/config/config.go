// Package config loads rcd experiment files.
//
// An experiment file is TOML with four optional tables:
//
//	[learn]
//	algorithm     = "rslw"
//	alpha         = 0.01
//	clique_number = 3
//	boundary      = "greedy"
//	formats       = ["json", "svg"]
//
//	[generate]
//	vars      = 30
//	edge_prob = 0.1
//	samples   = 2000
//	seed      = 7
//
//	[cache]
//	dir        = "~/.cache/rcd"
//	redis_addr = "localhost:6379"
//	no_cache   = false
//
//	[server]
//	addr          = ":8080"
//	read_timeout  = "15s"
//	write_timeout = "5m"
//
// Zero values mean "use the built-in default"; command-line flags override
// anything set here. Unknown keys are rejected so typos do not go unnoticed.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rcd/pkg/errors"
)

// EnvRedisAddr overrides [Cache.RedisAddr] when set.
const EnvRedisAddr = "RCD_REDIS_ADDR"

// Default server settings.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 5 * time.Minute
)

// Config is a parsed experiment file.
type Config struct {
	Learn    Learn    `toml:"learn"`
	Generate Generate `toml:"generate"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
}

// Learn holds skeleton learning settings.
type Learn struct {
	Algorithm    string   `toml:"algorithm"`
	Alpha        float64  `toml:"alpha"`
	CliqueNumber int      `toml:"clique_number"`
	Boundary     string   `toml:"boundary"`
	Formats      []string `toml:"formats"`
}

// Generate holds synthetic data settings.
type Generate struct {
	Vars     int     `toml:"vars"`
	EdgeProb float64 `toml:"edge_prob"`
	Samples  int     `toml:"samples"`
	Seed     uint64  `toml:"seed"`
}

// Cache selects the result cache backend.
type Cache struct {
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
	NoCache       bool   `toml:"no_cache"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default returns a configuration with server defaults filled in. Learning
// and generation defaults are applied later by the pipeline.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:         DefaultAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
	}
}

// Load reads and validates the file at path. An empty path returns the
// defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes TOML text on top of [Default].
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that are set. Zero values are always valid.
func (c *Config) Validate() error {
	if c.Learn.Alpha != 0 {
		if err := errors.ValidateAlpha(c.Learn.Alpha); err != nil {
			return err
		}
	}
	if err := errors.ValidateCliqueNumber(c.Learn.CliqueNumber); err != nil {
		return err
	}
	if b := c.Learn.Boundary; b != "" && !slices.Contains(Boundaries, b) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown boundary finder %q (valid: %v)", b, Boundaries)
	}
	if err := errors.ValidateProbability(c.Generate.EdgeProb); err != nil {
		return err
	}
	if c.Generate.Vars < 0 || c.Generate.Samples < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "vars and samples must be non-negative")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server timeouts must be non-negative")
	}
	return nil
}

// Boundaries lists the accepted [Learn.Boundary] values.
var Boundaries = []string{"greedy", "precision"}

func (c *Config) applyEnv() {
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		c.Cache.RedisAddr = addr
	}
}

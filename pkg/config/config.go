// Package config loads floorpack settings from a TOML file.
//
// The default file is $XDG_CONFIG_HOME/floorpack/config.toml, falling back
// to ~/.config/floorpack/config.toml. A missing default file yields the
// defaults; unknown keys are an error so that typos do not pass silently.
//
//	[solver]
//	model = "coord"
//	rotation = true
//	timeout = "2m"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
// Values are applied in the order defaults, file, environment
// (FLOORPACK_REDIS_ADDR, FLOORPACK_MONGO_URI), command-line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/pipeline"
)

const appName = "floorpack"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the whole configuration file.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Batch  BatchConfig  `toml:"batch"`
}

// SolverConfig holds the default solve options.
type SolverConfig struct {
	Model             string            `toml:"model"`
	Rotation          bool              `toml:"rotation"`
	Symmetry          *bool             `toml:"symmetry"`
	IdenticalSymmetry *bool             `toml:"identical_symmetry"`
	SymmetryDepth     int               `toml:"symmetry_depth"`
	Order             string            `toml:"order"`
	Timeout           pipeline.Duration `toml:"timeout"`
	Backend           string            `toml:"backend"`
	Premise           string            `toml:"premise"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend       string            `toml:"backend"`
	Dir           string            `toml:"dir"`
	RedisAddr     string            `toml:"redis_addr"`
	RedisPassword string            `toml:"redis_password"`
	RedisDB       int               `toml:"redis_db"`
	Prefix        string            `toml:"prefix"`
	TTL           pipeline.Duration `toml:"ttl"`
}

// StoreConfig configures run history. An empty MongoURI keeps records in
// memory.
type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures floorpack serve.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	Workers   int    `toml:"workers"`
	QueueSize int    `toml:"queue_size"`
}

// BatchConfig configures floorpack batch.
type BatchConfig struct {
	Workers int `toml:"workers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			Model:   "cell",
			Order:   "desc",
			Timeout: pipeline.Duration(pipeline.DefaultTimeout),
			Backend: "gini",
			Premise: "assume",
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     pipeline.Duration(pipeline.TTLResult),
		},
		Store:  StoreConfig{Database: appName},
		Server: ServerConfig{Addr: ":8080", Workers: pipeline.DefaultWorkers(), QueueSize: 64},
		Batch:  BatchConfig{Workers: pipeline.DefaultWorkers()},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path over the defaults and applies environment overrides. An
// empty path loads the default file if it exists. An explicit path that
// does not exist is a NOT_FOUND error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg.ApplyEnv()
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case os.IsNotExist(err) && !explicit:
		cfg = Default()
	case os.IsNotExist(err):
		return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s not found", path)
	case err != nil:
		return Config{}, errors.Wrap(errors.ErrCodeParse, err, "config file %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return Config{}, errors.New(errors.ErrCodeParse, "config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides connection settings from the environment.
func (c *Config) ApplyEnv() {
	if addr := os.Getenv("FLOORPACK_REDIS_ADDR"); addr != "" {
		c.Cache.RedisAddr = addr
		if c.Cache.Backend == "" || c.Cache.Backend == CacheFile {
			c.Cache.Backend = CacheRedis
		}
	}
	if uri := os.Getenv("FLOORPACK_MONGO_URI"); uri != "" {
		c.Store.MongoURI = uri
	}
}

// Validate checks the settings that do not depend on other packages.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be one of none, file, redis; got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required with the redis backend")
	}
	if c.Server.Workers < 0 || c.Batch.Workers < 0 || c.Server.QueueSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "worker and queue sizes must be >= 0")
	}
	opts := c.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "[solver]")
	}
	return nil
}

// Options converts the [solver] section to pipeline options.
func (c *Config) Options() pipeline.Options {
	s := c.Solver
	opts := pipeline.Options{
		Model:         s.Model,
		Rotation:      s.Rotation,
		SymmetryDepth: s.SymmetryDepth,
		Order:         s.Order,
		Timeout:       s.Timeout,
		Backend:       s.Backend,
		Premise:       s.Premise,
	}
	if s.Symmetry != nil {
		opts.NoSymmetry = !*s.Symmetry
	}
	if s.IdenticalSymmetry != nil {
		opts.NoIdenticalSymmetry = !*s.IdenticalSymmetry
	}
	return opts
}

// CacheTTL returns the cache entry lifetime.
func (c *Config) CacheTTL() time.Duration { return time.Duration(c.Cache.TTL) }

// Write encodes c as TOML.
func Write(w io.Writer, c Config) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

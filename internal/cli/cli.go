// Package cli implements the floorpack command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorpack/pkg/buildinfo"
	"github.com/matzehuels/floorpack/pkg/cache"
	"github.com/matzehuels/floorpack/pkg/config"
	"github.com/matzehuels/floorpack/pkg/pipeline"
	"github.com/matzehuels/floorpack/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "floorpack"

	// heartbeatInterval is how often a long search reports that it is alive.
	heartbeatInterval = 10 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty selects the default file.
	ConfigPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "floorpack",
		Short: "Floorpack packs rectangles into a strip of minimum height",
		Long: `Floorpack solves the 2D strip packing problem (VLSI floorplanning): place
rectangular modules on a board of fixed width so that the used height is
minimal. Heights are searched with an incremental SAT solver.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				installLogHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/floorpack/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.boundsCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cpCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = &cfg
	return c.cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A nil fallback store
// disables run history unless a MongoDB URI is configured.
func (c *CLI) newRunner(ctx context.Context, noCache bool, fallback store.Store) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	st, err := c.newStore(ctx, cfg, fallback)
	if err != nil {
		ch.Close()
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, st, c.Logger)
	if ttl := cfg.CacheTTL(); ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		c.Logger.Debug("Using redis cache", "addr", cfg.Cache.RedisAddr, "db", cfg.Cache.RedisDB)
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   cfg.Cache.Prefix,
		})
	}
	dir, err := fileCacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) newStore(ctx context.Context, cfg *config.Config, fallback store.Store) (store.Store, error) {
	if cfg.Store.MongoURI == "" {
		return fallback, nil
	}
	c.Logger.Debug("Using mongo run store", "database", cfg.Store.Database)
	return store.NewMongoStore(ctx, store.MongoOptions{
		URI:      cfg.Store.MongoURI,
		Database: cfg.Store.Database,
	})
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/floorpack/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// solveFlags are the solver flags shared by solve, batch and serve.
type solveFlags struct {
	model             string
	rotation          bool
	symmetry          bool
	identicalSymmetry bool
	depth             int
	order             string
	timeout           time.Duration
	backend           string
	premise           string
}

func (f *solveFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.model, "model", "m", "cell", "encoding model: cell, coord")
	fs.BoolVarP(&f.rotation, "rotation", "r", false, "allow 90 degree rotation of modules")
	fs.BoolVar(&f.symmetry, "symmetry", true, "break the largest-module and lexicographic symmetries")
	fs.BoolVar(&f.identicalSymmetry, "identical-symmetry", true, "order modules with identical dimensions")
	fs.IntVar(&f.depth, "depth", 0, "cap the lexicographic chain length (0 = full)")
	fs.StringVar(&f.order, "order", "desc", "height search order: desc, asc")
	fs.DurationVarP(&f.timeout, "timeout", "t", pipeline.DefaultTimeout, "search budget shared by all checks (negative = none)")
	fs.StringVar(&f.backend, "backend", "gini", "sat backend: gini, gophersat (gophersat checks cannot be interrupted; a timed out check keeps running in the background)")
	fs.StringVar(&f.premise, "premise", "assume", "height premise mode: assume, scope")
	registerSolveCompletions(cmd)
}

// options layers flags that were set explicitly over the configured defaults.
func (f *solveFlags) options(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	fs := cmd.Flags()
	opts := base
	if fs.Changed("model") {
		opts.Model = f.model
	}
	if fs.Changed("rotation") {
		opts.Rotation = f.rotation
	}
	if fs.Changed("symmetry") {
		opts.NoSymmetry = !f.symmetry
	}
	if fs.Changed("identical-symmetry") {
		opts.NoIdenticalSymmetry = !f.identicalSymmetry
	}
	if fs.Changed("depth") {
		opts.SymmetryDepth = f.depth
	}
	if fs.Changed("order") {
		opts.Order = f.order
	}
	if fs.Changed("timeout") {
		opts.Timeout = pipeline.Duration(f.timeout)
	}
	if fs.Changed("backend") {
		opts.Backend = f.backend
	}
	if fs.Changed("premise") {
		opts.Premise = f.premise
	}
	return opts
}

// solveOptions loads the configured defaults and applies the flags.
func (c *CLI) solveOptions(cmd *cobra.Command, f *solveFlags) (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := f.options(cmd, cfg.Options())
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

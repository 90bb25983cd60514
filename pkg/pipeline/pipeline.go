// Package pipeline runs strip-packing solves with caching, verification and
// run history.
//
// This package is the single entry point used by the CLI, the HTTP server
// and batch runs, so that all of them share option defaults, cache keys and
// the record format.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, nil, logger)
//	opts := pipeline.Options{Model: "cell", Rotation: true}
//	res, err := runner.Solve(ctx, in, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Search.Status, res.Search.Height())
//
// Batch over instance files on a bounded worker pool:
//
//	items, err := runner.Batch(ctx, paths, opts, 4)
//
// Only OPTIMAL results are cached: a timed-out run with a larger budget may
// still improve, and infeasibility is cheap to re-prove.
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorpack/pkg/cache"
	"github.com/matzehuels/floorpack/pkg/encoding"
	"github.com/matzehuels/floorpack/pkg/sat"
	"github.com/matzehuels/floorpack/pkg/search"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Batch
// =============================================================================

const (
	// DefaultTimeout is the per-instance search budget.
	DefaultTimeout = search.DefaultTimeout

	// TTLResult is how long an optimal result stays cached.
	TTLResult = 30 * 24 * time.Hour

	// TTLBounds is how long computed height bounds stay cached.
	TTLBounds = 30 * 24 * time.Hour
)

// DefaultWorkers is the batch pool size when none is given.
func DefaultWorkers() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// Duration is a time.Duration that reads and writes "1m30s" style text in
// JSON and TOML.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Bare numbers are read
// as seconds.
func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = 0
		return nil
	}
	if v, err := time.ParseDuration(s); err == nil {
		*d = Duration(v)
		return nil
	}
	var secs float64
	if err := json.Unmarshal([]byte(s), &secs); err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// =============================================================================
// Options - Solve Configuration
// =============================================================================

// Options contains all configuration for a solve.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Encoding options
	Model               string `json:"model,omitempty"`
	Rotation            bool   `json:"rotation,omitempty"`
	NoSymmetry          bool   `json:"no_symmetry,omitempty"`
	NoIdenticalSymmetry bool   `json:"no_identical_symmetry,omitempty"`
	SymmetryDepth       int    `json:"symmetry_depth,omitempty"`

	// Search options
	Order   string   `json:"order,omitempty"`
	Timeout Duration `json:"timeout,omitempty"`
	Backend string   `json:"backend,omitempty"`
	Premise string   `json:"premise,omitempty"`

	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger        `json:"-"`
	Progress func(search.Trial) `json:"-"`

	model   encoding.Model
	order   search.Order
	premise search.PremiseMode

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	var err error
	if o.model, err = encoding.ParseModel(o.Model); err != nil {
		return err
	}
	o.Model = string(o.model)
	if o.order, err = search.ParseOrder(o.Order); err != nil {
		return err
	}
	o.Order = o.order.String()
	if o.premise, err = search.ParsePremiseMode(o.Premise); err != nil {
		return err
	}
	o.Premise = o.premise.String()
	if o.Backend == "" {
		o.Backend = sat.BackendGini
	}
	o.Backend = strings.ToLower(o.Backend)
	if o.Timeout == 0 {
		o.Timeout = Duration(DefaultTimeout)
	}
	if o.SymmetryDepth < 0 {
		return fmt.Errorf("symmetry_depth must be >= 0, got %d", o.SymmetryDepth)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	so := o.SearchOptions()
	if err := so.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// EncodingConfig returns the encoding configuration the options describe.
func (o *Options) EncodingConfig() encoding.Config {
	model := o.model
	if model == "" {
		model, _ = encoding.ParseModel(o.Model)
	}
	return encoding.Config{
		Model:             model,
		Rotation:          o.Rotation,
		Symmetry:          !o.NoSymmetry,
		IdenticalSymmetry: !o.NoIdenticalSymmetry,
		SymmetryDepth:     o.SymmetryDepth,
	}
}

// SearchOptions converts to search options. Progress and Logger are passed
// through unchanged.
func (o *Options) SearchOptions() search.Options {
	so := search.Options{
		Order:    o.order,
		Timeout:  time.Duration(o.Timeout),
		Encoding: o.EncodingConfig(),
		Backend:  o.Backend,
		Premise:  o.premise,
		Progress: o.Progress,
		Logger:   o.Logger,
	}
	so.SetDefaults()
	return so
}

// ResultKeyOpts returns the cache key options for a result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	cfg := o.EncodingConfig()
	return cache.ResultKeyOpts{
		Model:             string(cfg.Model),
		Rotation:          cfg.Rotation,
		Symmetry:          cfg.Symmetry,
		IdenticalSymmetry: cfg.IdenticalSymmetry,
		SymmetryDepth:     cfg.SymmetryDepth,
		Order:             o.Order,
		Backend:           o.Backend,
	}
}

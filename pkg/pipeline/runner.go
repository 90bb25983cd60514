package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorpack/pkg/bounds"
	"github.com/matzehuels/floorpack/pkg/cache"
	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/observability"
	"github.com/matzehuels/floorpack/pkg/search"
	"github.com/matzehuels/floorpack/pkg/store"
)

// Runner encapsulates solve execution with caching and run history.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, store and logger. Multiple
// goroutines can safely use the same Runner with different options; every
// solve builds its own SAT session.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
	// TTL is the lifetime of cached results (default TTLResult).
	TTL time.Duration
}

// Result is a solve outcome together with where it came from.
type Result struct {
	Search       *search.Result
	InstanceHash string
	// Cached reports that Search was read from the cache.
	Cached bool
	// Record is the saved run record, nil when the runner has no store.
	Record *store.Record
}

// NewRunner creates a runner. A nil keyer selects cache.DefaultKeyer, a nil
// cache disables caching and a nil store disables run history.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
		TTL:    TTLResult,
	}
}

// Solve finds the minimum strip height for in. Cached results are verified
// against the instance before they are returned.
func (r *Runner) Solve(ctx context.Context, in *instance.Instance, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	out := &Result{InstanceHash: in.Hash()}
	key := r.Keyer.ResultKey(out.InstanceHash, opts.ResultKeyOpts())

	if !opts.Refresh {
		if res, ok := r.cachedResult(ctx, key, in, opts); ok {
			out.Search = res
			out.Cached = true
			opts.Logger.Info("using cached result", "instance", in.Name, "height", res.Height())
		}
	}

	if out.Search == nil {
		res, err := r.search(ctx, in, opts)
		if err != nil {
			return nil, err
		}
		out.Search = res
		if res.Status == search.StatusOptimal && res.Solution != nil {
			if data, err := json.Marshal(res); err == nil {
				if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
					opts.Logger.Warn("cache write failed", "error", err)
				}
			}
		}
	}

	if r.Store != nil {
		rec := store.NewRecord(out.Search, out.InstanceHash, in.Width, in.N())
		rec.Cached = out.Cached
		if err := r.Store.Save(ctx, &rec); err != nil {
			opts.Logger.Warn("saving run record failed", "error", err)
		} else {
			out.Record = &rec
		}
	}
	return out, nil
}

func (r *Runner) cachedResult(ctx context.Context, key string, in *instance.Instance, opts Options) (*search.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var res search.Result
	if err := json.Unmarshal(data, &res); err != nil || res.Solution == nil {
		return nil, false
	}
	if err := res.Solution.Validate(in, opts.Rotation); err != nil {
		opts.Logger.Warn("discarding invalid cached solution", "error", err)
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	res.Instance = in.Name
	return &res, true
}

func (r *Runner) search(ctx context.Context, in *instance.Instance, opts Options) (*search.Result, error) {
	hooks := observability.Solve()
	hooks.OnSolveStart(ctx, in.Name, in.N())

	so := opts.SearchOptions()
	progress := so.Progress
	so.Progress = func(tr search.Trial) {
		hooks.OnTrial(ctx, in.Name, tr.Height, tr.Outcome.String(), tr.Elapsed)
		if progress != nil {
			progress(tr)
		}
	}

	start := time.Now()
	res, err := search.Run(ctx, in, so)
	if err != nil {
		hooks.OnSolveComplete(ctx, in.Name, "", 0, time.Since(start), err)
		return nil, fmt.Errorf("search %s: %w", in.Name, err)
	}
	hooks.OnSolveComplete(ctx, in.Name, string(res.Status), res.Height(), time.Since(start), nil)

	opts.Logger.Info("search finished",
		"instance", in.Name,
		"status", res.Status,
		"height", res.Height(),
		"trials", len(res.Trials),
		"duration", res.TotalTime())
	return res, nil
}

// Bounds returns the height range of in, using the cache.
func (r *Runner) Bounds(ctx context.Context, in *instance.Instance, rotation bool) (bounds.Bounds, bool, error) {
	key := r.Keyer.BoundsKey(in.Hash(), rotation)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var b bounds.Bounds
		if err := json.Unmarshal(data, &b); err == nil {
			return b, true, nil
		}
	}
	if err := in.Validate(); err != nil {
		return bounds.Bounds{}, false, err
	}
	b, err := bounds.Compute(in, rotation)
	if err != nil {
		return bounds.Bounds{}, false, err
	}
	if data, err := json.Marshal(b); err == nil {
		_ = r.Cache.Set(ctx, key, data, TTLBounds)
	}
	return b, false, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close(ctx context.Context) error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(ctx); err == nil {
			err = serr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/search"
)

// BatchItem is the outcome of one instance file in a batch.
type BatchItem struct {
	Path     string
	Instance *instance.Instance
	Result   *Result
	// Err is set when the file could not be read or solved. A failing item
	// never affects the others.
	Err error
}

// Status is the search status, or "ERROR" when the item failed.
func (it BatchItem) Status() string {
	if it.Err != nil || it.Result == nil {
		return "ERROR"
	}
	return string(it.Result.Search.Status)
}

// BatchOptions configures the worker pool of a batch.
type BatchOptions struct {
	// Workers bounds concurrent solves; <= 0 selects DefaultWorkers.
	Workers int
	// OnDone, when set, is called once per finished item. Calls are
	// serialized.
	OnDone func(index int, item BatchItem)
}

// Batch solves every instance file in paths, each with its own search
// budget. Items are returned in input order. The returned error is only the
// context error; per-item failures are reported in BatchItem.Err.
func (r *Runner) Batch(ctx context.Context, paths []string, opts Options, bo BatchOptions) ([]BatchItem, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	workers := bo.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	items := make([]BatchItem, len(paths))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			item := r.batchOne(ctx, path, opts)
			items[i] = item
			if bo.OnDone != nil {
				mu.Lock()
				bo.OnDone(i, item)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	opts.Logger.Info("batch finished", "instances", len(paths), "workers", workers)
	return items, ctx.Err()
}

func (r *Runner) batchOne(ctx context.Context, path string, opts Options) BatchItem {
	item := BatchItem{Path: path}
	in, err := instance.ReadFile(path)
	if err != nil {
		item.Err = err
		opts.Logger.Error("reading instance failed", "path", path, "error", err)
		return item
	}
	item.Instance = in
	res, err := r.Solve(ctx, in, opts)
	if err != nil {
		item.Err = err
		opts.Logger.Error("solve failed", "instance", in.Name, "error", err)
		return item
	}
	item.Result = res
	return item
}

// Summary counts batch items by status.
func Summary(items []BatchItem) map[string]int {
	out := make(map[string]int)
	for _, it := range items {
		out[it.Status()]++
	}
	return out
}

// Optimal reports whether every item was solved to optimality.
func Optimal(items []BatchItem) bool {
	for _, it := range items {
		if it.Status() != string(search.StatusOptimal) {
			return false
		}
	}
	return true
}

package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSolveHooks{}
	s.OnSolveStart(ctx, "ins-1", 4)
	s.OnTrial(ctx, "ins-1", 8, "SAT", time.Millisecond)
	s.OnSolveComplete(ctx, "ins-1", "OPTIMAL", 8, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "result", 1024)

	j := NoopJobHooks{}
	j.OnJobQueued(ctx, "id")
	j.OnJobFinished(ctx, "id", "OPTIMAL", time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Solve().(NoopSolveHooks); !ok {
		t.Error("Solve() should return NoopSolveHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Job().(NoopJobHooks); !ok {
		t.Error("Job() should return NoopJobHooks by default")
	}

	customSolve := &testSolveHooks{}
	SetSolveHooks(customSolve)
	if Solve() != customSolve {
		t.Error("SetSolveHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customJob := &testJobHooks{}
	SetJobHooks(customJob)
	if Job() != customJob {
		t.Error("SetJobHooks should set custom hooks")
	}

	// nil is ignored
	SetSolveHooks(nil)
	if Solve() != customSolve {
		t.Error("SetSolveHooks(nil) should keep existing hooks")
	}

	Solve().OnTrial(context.Background(), "x", 3, "UNSAT", time.Millisecond)
	if customSolve.trials != 1 {
		t.Errorf("trials = %d, want 1", customSolve.trials)
	}

	Reset()
	if _, ok := Solve().(NoopSolveHooks); !ok {
		t.Error("Reset() should restore NoopSolveHooks")
	}
}

type testSolveHooks struct {
	NoopSolveHooks
	trials int
}

func (h *testSolveHooks) OnTrial(context.Context, string, int, string, time.Duration) { h.trials++ }

type testCacheHooks struct{ NoopCacheHooks }

type testJobHooks struct{ NoopJobHooks }

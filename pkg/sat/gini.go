package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// pollInterval bounds how late a cancellation or deadline is noticed.
const pollInterval = 10 * time.Millisecond

// Gini is the incremental backend built on github.com/go-air/gini.
type Gini struct {
	g      *gini.Gini
	maxVar int
}

// NewGini returns an empty gini backend.
func NewGini() *Gini {
	return &Gini{g: gini.New()}
}

// Name implements Backend.
func (b *Gini) Name() string { return BackendGini }

// AddClause implements Backend.
func (b *Gini) AddClause(lits []Lit) {
	for _, l := range lits {
		b.track(l)
		b.g.Add(z.Dimacs2Lit(int(l)))
	}
	b.g.Add(z.LitNull)
}

// Solve implements Backend. gini consumes the assumptions on every solve, so
// they are passed again for each call.
func (b *Gini) Solve(ctx context.Context, timeout time.Duration, assumptions []Lit) Status {
	if err := ctx.Err(); err != nil {
		return Unknown
	}
	if len(assumptions) > 0 {
		ms := make([]z.Lit, len(assumptions))
		for i, l := range assumptions {
			b.track(l)
			ms[i] = z.Dimacs2Lit(int(l))
		}
		b.g.Assume(ms...)
	}

	gs := b.g.GoSolve()
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()

	for {
		if res, done := gs.Test(); done {
			return fromGini(res)
		}
		select {
		case <-ctx.Done():
			return fromGini(gs.Stop())
		case <-deadline:
			return fromGini(gs.Stop())
		case <-tick.C:
		}
	}
}

// Value implements Backend.
func (b *Gini) Value(l Lit) bool {
	if l.Var() > b.maxVar {
		return l < 0
	}
	return b.g.Value(z.Dimacs2Lit(int(l)))
}

func (b *Gini) track(l Lit) {
	if v := l.Var(); v > b.maxVar {
		b.maxVar = v
	}
}

func fromGini(res int) Status {
	switch res {
	case 1:
		return Sat
	case -1:
		return Unsat
	default:
		return Unknown
	}
}

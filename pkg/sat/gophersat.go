package sat

import (
	"context"
	"time"

	"github.com/crillab/gophersat/solver"
)

// Gophersat is the backend built on github.com/crillab/gophersat. The
// engine has no incremental interface, so constraints are kept here and a
// solver is rebuilt for each check with the assumptions as unit clauses.
type Gophersat struct {
	constrs []solver.CardConstr
	model   []bool
}

// NewGophersat returns an empty gophersat backend.
func NewGophersat() *Gophersat {
	return &Gophersat{}
}

// Name implements Backend.
func (b *Gophersat) Name() string { return BackendGophersat }

// AddClause implements Backend.
func (b *Gophersat) AddClause(lits []Lit) {
	b.constrs = append(b.constrs, solver.AtLeast1(toInts(lits)...))
}

// Solve implements Backend. The engine cannot be interrupted: on timeout or
// cancellation the answer is Unknown and the abandoned search finishes in
// the background.
func (b *Gophersat) Solve(ctx context.Context, timeout time.Duration, assumptions []Lit) Status {
	b.model = nil
	if err := ctx.Err(); err != nil {
		return Unknown
	}

	constrs := make([]solver.CardConstr, len(b.constrs), len(b.constrs)+len(assumptions))
	copy(constrs, b.constrs)
	for _, l := range assumptions {
		constrs = append(constrs, solver.AtLeast1(int(l)))
	}

	type answer struct {
		status solver.Status
		model  []bool
	}
	done := make(chan answer, 1)
	go func() {
		s := solver.New(solver.ParseCardConstrs(constrs))
		st := s.Solve()
		var model []bool
		if st == solver.Sat {
			model = s.Model()
		}
		done <- answer{status: st, model: model}
	}()

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case a := <-done:
		switch a.status {
		case solver.Sat:
			b.model = a.model
			return Sat
		case solver.Unsat:
			return Unsat
		default:
			return Unknown
		}
	case <-ctx.Done():
		return Unknown
	case <-deadline:
		return Unknown
	}
}

// Value implements Backend. Variable v is stored at index v-1.
func (b *Gophersat) Value(l Lit) bool {
	v := l.Var()
	if v <= 0 || v > len(b.model) {
		return l < 0
	}
	if l < 0 {
		return !b.model[v-1]
	}
	return b.model[v-1]
}

func toInts(lits []Lit) []int {
	out := make([]int, len(lits))
	for i, l := range lits {
		out[i] = int(l)
	}
	return out
}

package sat

import (
	"context"
	"errors"
	"time"
)

// ErrNoScope is returned by Pop when no scope is open.
var ErrNoScope = errors.New("sat: pop without open scope")

// dedupLimit bounds the clause length checked for repeated literals. Longer
// clauses come from one-hot lists and are distinct by construction.
const dedupLimit = 16

// Result is the outcome of one Check.
type Result struct {
	Status  Status
	Model   Model // nil unless Status is Sat
	Elapsed time.Duration
}

// Stats counts what a session has generated.
type Stats struct {
	Vars    int `json:"vars" bson:"vars"`
	Clauses int `json:"clauses" bson:"clauses"`
	Checks  int `json:"checks" bson:"checks"`
}

// Session owns a backend, allocates variables and tracks scopes.
type Session struct {
	backend  Backend
	stats    Stats
	scopes   []Lit
	truth    Lit
	conflict bool
	buf      []Lit
}

// NewSession wraps a fresh backend.
func NewSession(b Backend) *Session {
	return &Session{backend: b}
}

// Backend returns the wrapped engine.
func (s *Session) Backend() Backend { return s.backend }

// NewLit allocates a fresh variable and returns its positive literal.
func (s *Session) NewLit() Lit {
	s.stats.Vars++
	return Lit(s.stats.Vars)
}

// NewLits allocates n fresh variables.
func (s *Session) NewLits(n int) []Lit {
	out := make([]Lit, n)
	for i := range out {
		out[i] = s.NewLit()
	}
	return out
}

// True returns a literal fixed to true at the top level.
func (s *Session) True() Lit {
	if s.truth == 0 {
		s.truth = s.NewLit()
		s.backend.AddClause([]Lit{s.truth})
		s.stats.Clauses++
	}
	return s.truth
}

// Add adds the clause (lits[0] ∨ lits[1] ∨ ...). Inside a scope the clause
// is guarded by the scope's activation literal. An empty clause at the top
// level makes every later check Unsat.
func (s *Session) Add(lits ...Lit) {
	s.buf = s.buf[:0]
	for _, l := range lits {
		if len(lits) <= dedupLimit {
			dup := false
			for _, k := range s.buf {
				if k == l {
					dup = true
					break
				}
				if k == l.Not() {
					return // tautology
				}
			}
			if dup {
				continue
			}
		}
		s.buf = append(s.buf, l)
	}
	if n := len(s.scopes); n > 0 {
		s.buf = append(s.buf, s.scopes[n-1].Not())
	} else if len(s.buf) == 0 {
		s.conflict = true
		return
	}
	s.backend.AddClause(s.buf)
	s.stats.Clauses++
}

// Implies adds a ⇒ (b[0] ∨ b[1] ∨ ...).
func (s *Session) Implies(a Lit, b ...Lit) {
	clause := make([]Lit, 0, len(b)+1)
	clause = append(clause, a.Not())
	clause = append(clause, b...)
	s.Add(clause...)
}

// Push opens a scope.
func (s *Session) Push() {
	s.scopes = append(s.scopes, s.NewLit())
}

// Pop closes the innermost scope and disables its clauses for good.
func (s *Session) Pop() error {
	n := len(s.scopes)
	if n == 0 {
		return ErrNoScope
	}
	act := s.scopes[n-1]
	s.scopes = s.scopes[:n-1]
	s.backend.AddClause([]Lit{act.Not()})
	s.stats.Clauses++
	return nil
}

// Depth returns the number of open scopes.
func (s *Session) Depth() int { return len(s.scopes) }

// Check decides the clauses under the open scopes and the given assumptions.
func (s *Session) Check(ctx context.Context, timeout time.Duration, assumptions ...Lit) Result {
	start := time.Now()
	s.stats.Checks++
	if s.conflict {
		return Result{Status: Unsat, Elapsed: time.Since(start)}
	}

	all := make([]Lit, 0, len(s.scopes)+len(assumptions))
	all = append(all, s.scopes...)
	all = append(all, assumptions...)

	st := s.backend.Solve(ctx, timeout, all)
	res := Result{Status: st, Elapsed: time.Since(start)}
	if st == Sat {
		m := make(Model, s.stats.Vars+1)
		for v := 1; v <= s.stats.Vars; v++ {
			m[v] = s.backend.Value(Lit(v))
		}
		res.Model = m
	}
	return res
}

// Stats returns the generation counters.
func (s *Session) Stats() Stats { return s.stats }

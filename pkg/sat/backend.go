package sat

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Backend is a SAT engine. Implementations are not safe for concurrent use.
type Backend interface {
	// Name identifies the engine in logs and cache keys.
	Name() string
	// AddClause adds the disjunction of lits. The slice may be reused by
	// the caller after the call returns.
	AddClause(lits []Lit)
	// Solve decides the clauses added so far under the given assumptions.
	// A non-positive timeout means no limit besides ctx.
	Solve(ctx context.Context, timeout time.Duration, assumptions []Lit) Status
	// Value returns the value of l in the model found by the last Sat answer.
	Value(l Lit) bool
}

// Backend names accepted by NewBackend.
const (
	BackendGini      = "gini"
	BackendGophersat = "gophersat"
)

// Backends lists the available engine names.
func Backends() []string { return []string{BackendGini, BackendGophersat} }

// NewBackend returns a fresh engine by name. The empty name selects gini.
func NewBackend(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case "", BackendGini:
		return NewGini(), nil
	case BackendGophersat:
		return NewGophersat(), nil
	default:
		return nil, fmt.Errorf("unknown sat backend %q (available: %s)", name, strings.Join(Backends(), ", "))
	}
}

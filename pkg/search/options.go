package search

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorpack/pkg/encoding"
	"github.com/matzehuels/floorpack/pkg/sat"
)

// DefaultTimeout is the time budget when none is given.
const DefaultTimeout = 300 * time.Second

// Order is the direction in which heights are tried.
//
// Descending pays for satisfiable checks near the upper bound, which are
// usually easy when the greedy bound is tight, and only one unsatisfiable
// check at the end. Ascending pays for every unsatisfiable height between
// the floor and the optimum but never explores heights above it, which wins
// when the area bound is close to the optimum and the greedy bound is loose.
type Order int

const (
	Descending Order = iota
	Ascending
)

func (o Order) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseOrder resolves "desc" or "asc".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "desc", "descending", "down":
		return Descending, nil
	case "asc", "ascending", "up":
		return Ascending, nil
	}
	return Descending, fmt.Errorf("unknown search order %q (available: desc, asc)", s)
}

// PremiseMode selects how a trial height is imposed.
type PremiseMode int

const (
	// PremiseAssume passes the height literals as solver assumptions.
	PremiseAssume PremiseMode = iota
	// PremiseScope asserts them as unit clauses in a scope popped after the
	// check.
	PremiseScope
)

func (m PremiseMode) String() string {
	if m == PremiseScope {
		return "scope"
	}
	return "assume"
}

// ParsePremiseMode resolves "assume" or "scope".
func ParsePremiseMode(s string) (PremiseMode, error) {
	switch strings.ToLower(s) {
	case "", "assume", "assumptions":
		return PremiseAssume, nil
	case "scope", "push":
		return PremiseScope, nil
	}
	return PremiseAssume, fmt.Errorf("unknown premise mode %q (available: assume, scope)", s)
}

// Options configures a search run.
type Options struct {
	Order Order
	// Timeout is the budget shared by all checks. Zero selects
	// DefaultTimeout; a negative value disables the budget.
	Timeout  time.Duration
	Encoding encoding.Config
	// Backend names the SAT engine, see sat.Backends.
	Backend string
	Premise PremiseMode
	// Progress, when set, is called after every trial.
	Progress func(Trial)
	Logger   *log.Logger
}

// DefaultOptions returns descending search with the default encoding and
// budget on the gini backend.
func DefaultOptions() Options {
	return Options{
		Timeout:  DefaultTimeout,
		Encoding: encoding.DefaultConfig(),
		Backend:  sat.BackendGini,
	}
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Backend == "" {
		o.Backend = sat.BackendGini
	}
	o.Encoding.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Validate checks the options after defaults are applied.
func (o *Options) Validate() error {
	if err := o.Encoding.Validate(); err != nil {
		return err
	}
	for _, name := range sat.Backends() {
		if strings.EqualFold(name, o.Backend) {
			return nil
		}
	}
	return fmt.Errorf("unknown sat backend %q (available: %s)", o.Backend, strings.Join(sat.Backends(), ", "))
}

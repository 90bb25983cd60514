package search

import (
	"context"
	"time"

	"github.com/matzehuels/floorpack/pkg/bounds"
	"github.com/matzehuels/floorpack/pkg/encoding"
	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/sat"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// Status is the final state of a search.
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusTimedOut   Status = "TIMED_OUT"
	StatusInfeasible Status = "INFEASIBLE"
	StatusCanceled   Status = "CANCELED"
)

// Trial records one satisfiability check. Trials are values and never
// change after they are appended.
type Trial struct {
	Height  int           `json:"height" bson:"height"`
	Outcome sat.Status    `json:"outcome" bson:"outcome"`
	Elapsed time.Duration `json:"elapsed" bson:"elapsed"`
	// Achieved is the height actually used by the witness of a Sat trial.
	Achieved int `json:"achieved,omitempty" bson:"achieved,omitempty"`
	// Remaining is the budget left after the trial, -1 when unbudgeted.
	Remaining time.Duration `json:"remaining" bson:"remaining"`
}

// Result is the outcome of a search run.
type Result struct {
	Instance  string             `json:"instance,omitempty" bson:"instance,omitempty"`
	Status    Status             `json:"status" bson:"status"`
	Solution  *solution.Solution `json:"solution,omitempty" bson:"solution,omitempty"`
	Bounds    bounds.Bounds      `json:"bounds" bson:"bounds"`
	Trials    []Trial            `json:"trials" bson:"trials"`
	BuildTime time.Duration      `json:"build_time" bson:"build_time"`
	SolveTime time.Duration      `json:"solve_time" bson:"solve_time"`
	Encoding  encoding.Stats     `json:"encoding" bson:"encoding"`
	Config    encoding.Config    `json:"config" bson:"config"`
	Order     string             `json:"order" bson:"order"`
	Backend   string             `json:"backend" bson:"backend"`
}

// Height is the height of the best packing, or 0 without one.
func (r *Result) Height() int {
	if r.Solution == nil {
		return 0
	}
	return r.Solution.Height
}

// TotalTime is build plus solve time.
func (r *Result) TotalTime() time.Duration { return r.BuildTime + r.SolveTime }

// Session is the state of one search: the static encoding, the remaining
// budget, the best witness and the trial log. A Session is not safe for
// concurrent use.
type Session struct {
	in     *instance.Instance
	opts   Options
	bounds bounds.Bounds
	sat    *sat.Session
	enc    encoding.Encoding

	buildTime time.Duration
	remaining time.Duration
	budgeted  bool
	best      *solution.Solution
	trials    []Trial
}

// NewSession estimates the height range and builds the static encoding for
// its upper bound.
func NewSession(in *instance.Instance, opts Options) (*Session, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid search options")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	b, err := bounds.Compute(in, opts.Encoding.Rotation)
	if err != nil {
		return nil, err
	}
	backend, err := sat.NewBackend(opts.Backend)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "create backend")
	}

	start := time.Now()
	ss := sat.NewSession(backend)
	enc, err := encoding.Build(ss, in, b.Upper, opts.Encoding)
	if err != nil {
		return nil, err
	}
	s := &Session{
		in:        in,
		opts:      opts,
		bounds:    b,
		sat:       ss,
		enc:       enc,
		buildTime: time.Since(start),
		remaining: opts.Timeout,
		budgeted:  opts.Timeout > 0,
	}
	opts.Logger.Debug("encoding built", "model", opts.Encoding.Model, "vars", enc.Stats().Vars,
		"clauses", enc.Stats().Clauses, "lower", b.Lower, "upper", b.Upper, "duration", s.buildTime)
	return s, nil
}

// Bounds returns the estimated height range.
func (s *Session) Bounds() bounds.Bounds { return s.bounds }

// Best returns the best packing found so far.
func (s *Session) Best() *solution.Solution { return s.best }

// Trials returns the trial log.
func (s *Session) Trials() []Trial { return s.trials }

// Remaining returns the unused budget, or -1 when the run is unbudgeted.
func (s *Session) Remaining() time.Duration {
	if !s.budgeted {
		return -1
	}
	return s.remaining
}

func (s *Session) exhausted() bool {
	return s.budgeted && s.remaining <= 0
}

// Try runs one check at height h and records it. A Sat answer replaces the
// best witness when it is lower.
func (s *Session) Try(ctx context.Context, h int) (Trial, error) {
	premise := s.enc.Premise(h)

	var timeout time.Duration
	if s.budgeted {
		timeout = s.remaining
	}

	var res sat.Result
	if s.opts.Premise == PremiseScope {
		s.sat.Push()
		for _, l := range premise {
			s.sat.Add(l)
		}
		res = s.sat.Check(ctx, timeout)
		if err := s.sat.Pop(); err != nil {
			return Trial{}, errors.Wrap(errors.ErrCodeInternal, err, "close trial scope")
		}
	} else {
		res = s.sat.Check(ctx, timeout, premise...)
	}
	if s.budgeted {
		s.remaining -= res.Elapsed
	}

	tr := Trial{Height: h, Outcome: res.Status, Elapsed: res.Elapsed, Remaining: s.Remaining()}
	if res.Status == sat.Sat {
		sol := solution.New(s.in.Width, s.enc.Extract(res.Model))
		if err := sol.Validate(s.in, s.opts.Encoding.Rotation); err != nil {
			return tr, errors.Wrap(errors.ErrCodeInternal, err, "decoded packing at height %d", h)
		}
		tr.Achieved = sol.Height
		if s.best == nil || sol.Height < s.best.Height {
			s.best = sol
		}
	}
	s.trials = append(s.trials, tr)

	s.opts.Logger.Debug("trial", "height", h, "outcome", res.Status, "achieved", tr.Achieved, "elapsed", res.Elapsed)
	if s.opts.Progress != nil {
		s.opts.Progress(tr)
	}
	return tr, nil
}

// Run drives trials in the configured order until the optimum is proven,
// the budget runs out or ctx is cancelled.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	var status Status
	var err error
	if s.opts.Order == Ascending {
		status, err = s.ascend(ctx)
	} else {
		status, err = s.descend(ctx)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Instance:  s.in.Name,
		Status:    status,
		Solution:  s.best,
		Bounds:    s.bounds,
		Trials:    s.trials,
		BuildTime: s.buildTime,
		Encoding:  s.enc.Stats(),
		Config:    s.opts.Encoding,
		Order:     s.opts.Order.String(),
		Backend:   s.opts.Backend,
	}
	for _, tr := range s.trials {
		res.SolveTime += tr.Elapsed
	}
	s.opts.Logger.Debug("search finished", "status", status, "height", res.Height(), "trials", len(s.trials))
	return res, nil
}

// stopped maps an interrupted search to its status.
func (s *Session) stopped(ctx context.Context) Status {
	if ctx.Err() != nil {
		return StatusCanceled
	}
	return StatusTimedOut
}

func (s *Session) descend(ctx context.Context) (Status, error) {
	lo, hi := s.bounds.Range()
	for h := hi; h >= lo; {
		if ctx.Err() != nil || s.exhausted() {
			return s.stopped(ctx), nil
		}
		tr, err := s.Try(ctx, h)
		if err != nil {
			return "", err
		}
		switch tr.Outcome {
		case sat.Sat:
			next := h
			if tr.Achieved < next {
				next = tr.Achieved
			}
			h = next - 1
		case sat.Unsat:
			if s.best == nil {
				// the greedy bound is always feasible
				return StatusInfeasible, nil
			}
			return StatusOptimal, nil
		default:
			return s.stopped(ctx), nil
		}
	}
	if s.best == nil {
		return StatusInfeasible, nil
	}
	return StatusOptimal, nil
}

func (s *Session) ascend(ctx context.Context) (Status, error) {
	lo, hi := s.bounds.Range()
	for h := lo; h <= hi; h++ {
		if ctx.Err() != nil || s.exhausted() {
			return s.stopped(ctx), nil
		}
		tr, err := s.Try(ctx, h)
		if err != nil {
			return "", err
		}
		switch tr.Outcome {
		case sat.Sat:
			return StatusOptimal, nil
		case sat.Unsat:
		default:
			return s.stopped(ctx), nil
		}
	}
	return StatusInfeasible, nil
}

// Run builds a session for in and searches for the minimum height.
func Run(ctx context.Context, in *instance.Instance, opts Options) (*Result, error) {
	s, err := NewSession(in, opts)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

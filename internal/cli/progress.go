package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorpack/pkg/sat"
	"github.com/matzehuels/floorpack/pkg/search"
)

// searchLogger turns search trials into log lines: the first witness, every
// improvement, and a heartbeat while checks keep running. It is not safe for
// concurrent use; batch solves log at debug level through their own logger.
type searchLogger struct {
	prog    *progress
	logger  *log.Logger
	timeout time.Duration

	best    int
	trials  int
	lastLog time.Time
}

func newSearchLogger(ctx context.Context, timeout time.Duration) *searchLogger {
	logger := loggerFromContext(ctx)
	return &searchLogger{
		prog:    newProgress(logger),
		logger:  logger,
		timeout: timeout,
		lastLog: time.Now(),
	}
}

// onTrial is installed as pipeline.Options.Progress.
func (s *searchLogger) onTrial(tr search.Trial) {
	s.trials++
	s.logger.Debug("Trial", "height", tr.Height, "outcome", tr.Outcome, "duration", tr.Elapsed.Round(time.Millisecond))

	if tr.Outcome == sat.Sat {
		switch {
		case s.best == 0:
			s.logger.Infof("Initial: height %d (%s)", tr.Achieved, tr.Elapsed.Round(time.Millisecond))
			s.lastLog = time.Now()
		case tr.Achieved < s.best:
			s.logger.Infof("Improved: height %d (↓%d)", tr.Achieved, s.best-tr.Achieved)
			s.lastLog = time.Now()
		}
		if s.best == 0 || tr.Achieved < s.best {
			s.best = tr.Achieved
		}
		return
	}

	if time.Since(s.lastLog) >= heartbeatInterval {
		elapsed := s.prog.elapsed().Truncate(time.Second)
		budget := "unbudgeted"
		if s.timeout > 0 {
			budget = fmt.Sprintf("%.0fs", s.timeout.Seconds())
		}
		s.logger.Infof("Searching... %v/%s elapsed, height %d %s", elapsed, budget, tr.Height, tr.Outcome)
		s.lastLog = time.Now()
	}
}

// done logs the final outcome of a search.
func (s *searchLogger) done(res *search.Result, cached bool) {
	if cached {
		s.prog.done(fmt.Sprintf("Loaded cached result: height %d", res.Height()))
		return
	}
	switch res.Status {
	case search.StatusOptimal:
		s.prog.done(fmt.Sprintf("Search complete: optimal height %d after %d checks", res.Height(), s.trials))
	case search.StatusTimedOut:
		if res.Solution != nil {
			s.prog.done(fmt.Sprintf("Search timed out: best height %d after %d checks", res.Height(), s.trials))
			s.logger.Warn("Height is not proven optimal; try increasing the budget (--timeout)")
		} else {
			s.prog.done("Search timed out without a packing")
		}
	case search.StatusInfeasible:
		s.prog.done("Search complete: no packing within the height bounds")
	default:
		s.prog.done(fmt.Sprintf("Search stopped: %s", res.Status))
	}
}

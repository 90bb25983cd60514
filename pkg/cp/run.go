package cp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorpack/pkg/bounds"
	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// Options configures a MiniZinc run.
type Options struct {
	// Binary is the minizinc executable (default "minizinc").
	Binary string
	// Solver is passed to --solver (default "gecode").
	Solver string
	// ModelPath replaces the bundled model when set.
	ModelPath string
	Rotation  bool
	// Timeout is passed to --time-limit; zero means no limit.
	Timeout time.Duration
	// OnSolution, when set, is called for every intermediate solution.
	OnSolution func(height int, elapsed time.Duration)
	Logger     *log.Logger
}

func (o *Options) setDefaults() {
	if o.Binary == "" {
		o.Binary = "minizinc"
	}
	if o.Solver == "" {
		o.Solver = "gecode"
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Statistics are the solver statistics reported by MiniZinc.
type Statistics struct {
	SolveTime  time.Duration `json:"solve_time"`
	Nodes      int64         `json:"nodes"`
	Failures   int64         `json:"failures"`
	NSolutions int           `json:"n_solutions"`
}

// Result is the outcome of a MiniZinc run.
type Result struct {
	// Status is the final MiniZinc status, e.g. OPTIMAL_SOLUTION,
	// SATISFIED or UNKNOWN.
	Status    string             `json:"status"`
	Solution  *solution.Solution `json:"solution,omitempty"`
	Solutions int                `json:"solutions"`
	Stats     Statistics         `json:"statistics"`
}

// Optimal reports whether MiniZinc proved the last solution optimal.
func (r *Result) Optimal() bool { return r.Status == "OPTIMAL_SOLUTION" }

// Run solves in with MiniZinc, streaming intermediate solutions.
func Run(ctx context.Context, in *instance.Instance, opts Options) (*Result, error) {
	opts.setDefaults()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	b, err := bounds.Compute(in, opts.Rotation)
	if err != nil {
		return nil, err
	}
	bin, err := exec.LookPath(opts.Binary)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err,
			"constraint solving requires MiniZinc. Install it from https://www.minizinc.org")
	}

	dir, err := os.MkdirTemp("", "floorpack-cp-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	model := opts.ModelPath
	if model == "" {
		model = filepath.Join(dir, "strip.mzn")
		if err := os.WriteFile(model, []byte(Model), 0644); err != nil {
			return nil, err
		}
	}
	data := filepath.Join(dir, "instance.dzn")
	if err := os.WriteFile(data, []byte(DZN(in, b, opts.Rotation)), 0644); err != nil {
		return nil, err
	}

	args := []string{
		"--solver", opts.Solver,
		"--json-stream",
		"--output-mode", "json",
		"--intermediate",
		"--statistics",
	}
	if opts.Timeout > 0 {
		args = append(args, "--time-limit", strconv.FormatInt(opts.Timeout.Milliseconds(), 10))
	}
	args = append(args, model, data)
	opts.Logger.Debug("running minizinc", "binary", bin, "solver", opts.Solver, "model", model)

	cmd := exec.CommandContext(ctx, bin, args...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "start minizinc")
	}
	res, perr := ParseStream(stdout, in.Width, opts.OnSolution)
	werr := cmd.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if perr != nil {
		return nil, perr
	}
	if werr != nil && res.Solution == nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, werr, "minizinc: %s", errBuf.String())
	}
	if res.Solution != nil {
		res.Solution.MarkRotations(in)
		if err := res.Solution.Validate(in, opts.Rotation); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSolution, err, "minizinc returned an invalid packing")
		}
	}
	return res, nil
}

type message struct {
	Type       string          `json:"type"`
	Status     string          `json:"status"`
	Time       float64         `json:"time"`
	Output     json.RawMessage `json:"output"`
	Statistics map[string]any  `json:"statistics"`
	Message    string          `json:"message"`
	What       string          `json:"what"`
}

type assignment struct {
	Height int    `json:"height"`
	X      []int  `json:"x"`
	Y      []int  `json:"y"`
	W      []int  `json:"w"`
	H      []int  `json:"h"`
	Rot    []bool `json:"rot"`
}

// ParseStream reads MiniZinc --json-stream output. The last solution wins.
func ParseStream(r io.Reader, width int, onSolution func(int, time.Duration)) (*Result, error) {
	res := &Result{Status: "UNKNOWN"}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var msg message
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeBackend, err, "decode minizinc output")
		}
		switch msg.Type {
		case "solution":
			sol, err := decodeSolution(msg.Output, width)
			if err != nil {
				return nil, err
			}
			res.Solution = sol
			res.Solutions++
			if res.Status == "UNKNOWN" {
				res.Status = "SATISFIED"
			}
			if onSolution != nil {
				onSolution(sol.Height, time.Duration(msg.Time*float64(time.Millisecond)))
			}
		case "statistics":
			mergeStats(&res.Stats, msg.Statistics)
		case "status":
			res.Status = msg.Status
		case "error":
			return nil, errors.New(errors.ErrCodeBackend, "minizinc %s: %s", msg.What, msg.Message)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func decodeSolution(raw json.RawMessage, width int) (*solution.Solution, error) {
	var out struct {
		JSON assignment `json:"json"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "decode minizinc solution")
	}
	a := out.JSON
	n := len(a.X)
	if len(a.Y) != n || len(a.W) != n || len(a.H) != n {
		return nil, errors.New(errors.ErrCodeBackend, "minizinc solution has mismatched arrays")
	}
	ps := make([]solution.Placement, n)
	for i := range ps {
		ps[i] = solution.Placement{X: a.X[i], Y: a.Y[i], Width: a.W[i], Height: a.H[i]}
		if i < len(a.Rot) {
			ps[i].Rotated = a.Rot[i]
		}
	}
	return solution.New(width, ps), nil
}

func mergeStats(st *Statistics, m map[string]any) {
	num := func(key string) (float64, bool) {
		v, ok := m[key].(float64)
		return v, ok
	}
	if v, ok := num("solveTime"); ok {
		st.SolveTime = time.Duration(v * float64(time.Second))
	}
	if v, ok := num("nodes"); ok {
		st.Nodes = int64(v)
	}
	if v, ok := num("failures"); ok {
		st.Failures = int64(v)
	}
	if v, ok := num("nSolutions"); ok {
		st.NSolutions = int(v)
	}
}

// Report writes a short human readable summary.
func Report(w io.Writer, res *Result) error {
	if res.Solution == nil {
		_, err := fmt.Fprintf(w, "No solution (%s)\n", res.Status)
		return err
	}
	n := res.Stats.NSolutions
	if n == 0 {
		n = res.Solutions
	}
	_, err := fmt.Fprintf(w, "Instance solved (%s), height %d\nTook: %.6fs to find %d solutions\nNodes: %d - failures %d\n",
		res.Status, res.Solution.Height, res.Stats.SolveTime.Seconds(), n, res.Stats.Nodes, res.Stats.Failures)
	return err
}

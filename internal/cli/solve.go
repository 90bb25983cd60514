package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/pipeline"
	"github.com/matzehuels/floorpack/pkg/render"
	"github.com/matzehuels/floorpack/pkg/search"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		flags   solveFlags
		noCache bool
		refresh bool
		output  string
		board   bool
		trials  bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "solve <instance>",
		Short: "Find the minimum strip height of an instance",
		Long: `Solve reads an instance file (board width, module count, then one
"<w> <h>" line per module) and searches for the smallest height at which all
modules fit on the board without overlap.

The result is written as a solution file when --output ends in .txt, or
rendered when it ends in .svg, .png, .pdf or .dot.`,
		Example: `  floorpack solve ins-12.txt
  floorpack solve ins-12.txt --rotation --timeout 2m -o out-12.txt
  floorpack solve ins-12.txt --order asc --model coord -o out-12.svg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTextFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.solveOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Refresh = refresh

			in, err := instance.ReadFile(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache, nil)
			if err != nil {
				return err
			}
			defer runner.Close(context.WithoutCancel(ctx))

			res, err := runSolve(ctx, runner, in, opts)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Search)
			}
			printSolveResult(in.Name, res, board, trials)
			if output != "" && res.Search.Solution != nil {
				if err := writeSolution(ctx, output, res.Search.Solution, in.Name); err != nil {
					return err
				}
				printFile(output)
			}
			return statusError(res.Search)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results but store the new one")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the packing (.txt solution, or .svg/.png/.pdf/.dot)")
	cmd.Flags().BoolVar(&board, "board", true, "print the packing as an ASCII board")
	cmd.Flags().BoolVar(&trials, "trials", false, "print the trial log")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// runSolve runs one solve with progress logging.
func runSolve(ctx context.Context, runner *pipeline.Runner, in *instance.Instance, opts pipeline.Options) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	logger.Info("Solving", "instance", in.Name, "width", in.Width, "modules", in.N(), "model", opts.Model, "order", opts.Order, "backend", opts.Backend)

	tracker := newSearchLogger(ctx, time.Duration(opts.Timeout))
	opts.Progress = tracker.onTrial

	res, err := runner.Solve(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	tracker.done(res.Search, res.Cached)
	return res, nil
}

func printSolveResult(name string, res *pipeline.Result, board, trials bool) {
	printNewline()
	printStatus(name, res.Search)
	printStats(res.Search, res.Cached)
	if res.Record != nil {
		printDetail("run %s", res.Record.ID)
	}
	if trials && len(res.Search.Trials) > 0 {
		printTrials(res.Search.Trials)
	}
	if board && res.Search.Solution != nil {
		printNewline()
		fmt.Print(render.ASCII(res.Search.Solution))
	}
}

// writeSolution writes sol as a solution file or a rendering, chosen by the
// file extension.
func writeSolution(ctx context.Context, path string, sol *solution.Solution, title string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case render.FormatSVG, render.FormatPNG, render.FormatPDF, render.FormatDOT:
		data, err := render.Render(ctx, sol, ext, render.WithTitle(title))
		if err != nil {
			return err
		}
		return writeFile(path, data)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return solution.WriteFile(path, sol)
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// statusError maps non-optimal outcomes to an exit error.
func statusError(res *search.Result) error {
	switch res.Status {
	case search.StatusOptimal:
		return nil
	case search.StatusTimedOut:
		return errors.New(errors.ErrCodeTimeout, "height not proven optimal within the budget")
	case search.StatusInfeasible:
		return errors.New(errors.ErrCodeInfeasible, "no packing with height in %d..%d", res.Bounds.Floor(), res.Bounds.Upper)
	case search.StatusCanceled:
		return context.Canceled
	}
	return nil
}

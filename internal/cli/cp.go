package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorpack/pkg/cp"
	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/render"
)

// cpCommand creates the cp command.
func (c *CLI) cpCommand() *cobra.Command {
	var (
		opts      cp.Options
		output    string
		board     bool
		showModel bool
	)

	cmd := &cobra.Command{
		Use:   "cp <instance>",
		Short: "Solve an instance with the MiniZinc constraint model",
		Long: `Cp solves an instance with the bundled MiniZinc model (diffn and
cumulative constraints, minimizing the height) instead of the SAT search. It
requires the minizinc executable on PATH.`,
		Example: `  floorpack cp ins-12.txt --solver chuffed --timeout 5m
  floorpack cp --model-source > strip.mzn`,
		Args: func(cmd *cobra.Command, args []string) error {
			if showModel {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		ValidArgsFunction: completeTextFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showModel {
				fmt.Print(cp.Model)
				return nil
			}
			ctx := cmd.Context()
			in, err := instance.ReadFile(args[0])
			if err != nil {
				return err
			}

			logger := loggerFromContext(ctx)
			prog := newProgress(logger)
			opts.Logger = logger
			opts.OnSolution = func(height int, elapsed time.Duration) {
				logger.Infof("Solution: height %d (%s)", height, elapsed.Round(time.Millisecond))
			}
			logger.Info("Solving with MiniZinc", "instance", in.Name, "solver", opts.Solver, "modules", in.N())

			res, err := cp.Run(ctx, in, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("MiniZinc finished: %s", res.Status))

			printNewline()
			if err := cp.Report(os.Stdout, res); err != nil {
				return err
			}
			if res.Solution == nil {
				return nil
			}
			if !res.Optimal() {
				printWarning("Height %d is not proven optimal", res.Solution.Height)
			}
			if board {
				printNewline()
				fmt.Print(render.ASCII(res.Solution))
			}
			if output != "" {
				if err := writeSolution(ctx, output, res.Solution, in.Name); err != nil {
					return err
				}
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Binary, "minizinc", "minizinc", "minizinc executable")
	cmd.Flags().StringVar(&opts.Solver, "solver", "gecode", "MiniZinc solver backend")
	cmd.Flags().StringVar(&opts.ModelPath, "model-file", "", "use this .mzn model instead of the bundled one")
	cmd.Flags().BoolVarP(&opts.Rotation, "rotation", "r", false, "allow 90 degree rotation of modules")
	cmd.Flags().DurationVarP(&opts.Timeout, "timeout", "t", 0, "MiniZinc time limit (0 = none)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the packing (.txt solution, or .svg/.png/.pdf/.dot)")
	cmd.Flags().BoolVar(&board, "board", true, "print the packing as an ASCII board")
	cmd.Flags().BoolVar(&showModel, "model-source", false, "print the bundled MiniZinc model and exit")
	return cmd
}

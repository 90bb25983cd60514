package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorpack/pkg/bounds"
	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/render"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// boundsCommand creates the bounds command.
func (c *CLI) boundsCommand() *cobra.Command {
	var (
		rotation bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "bounds <instance>",
		Short: "Print the height bounds of an instance",
		Long: `Bounds prints the area lower bound and the greedy shelf upper bound that
limit the height search, without running the SAT solver.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTextFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := instance.ReadFile(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache, nil)
			if err != nil {
				return err
			}
			defer runner.Close(ctx)

			b, cached, err := runner.Bounds(ctx, in, rotation)
			if err != nil {
				return err
			}
			printInstance(in)
			printKeyValue("Area LB", fmt.Sprint(bounds.AreaLowerBound(in)))
			printKeyValue("Tallest", fmt.Sprint(b.Tallest))
			printKeyValue("Lower", fmt.Sprint(b.Floor()))
			printKeyValue("Upper", fmt.Sprint(b.Upper))
			lo, hi := b.Range()
			printKeyValue("Heights", fmt.Sprintf("%d candidates", hi-lo+1))
			if cached {
				printDetail("%s", iconCached)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&rotation, "rotation", "r", false, "allow 90 degree rotation of modules")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	var (
		rotation bool
		board    bool
	)

	cmd := &cobra.Command{
		Use:   "verify <instance> <solution>",
		Short: "Check a solution file against its instance",
		Long: `Verify checks that a solution places every module of the instance with
its own dimensions (or rotated, with --rotation), inside the board and
without overlaps.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeTextFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := instance.ReadFile(args[0])
			if err != nil {
				return err
			}
			sol, err := solution.ReadFile(args[1])
			if err != nil {
				return err
			}
			if err := sol.Validate(in, rotation); err != nil {
				printError("%s does not solve %s", args[1], in.Name)
				return err
			}
			sol.MarkRotations(in)
			printSuccess("Valid packing of height %s", StyleHighlight.Render(fmt.Sprint(sol.Height)))
			if n := sol.Rotations(); n > 0 {
				printDetail("%d modules rotated", n)
			}
			if used := sol.UsedHeight(); used < sol.Height {
				printWarning("Declared height %d, used height %d", sol.Height, used)
			}
			if board {
				printNewline()
				fmt.Print(render.ASCII(sol))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&rotation, "rotation", "r", false, "accept rotated modules")
	cmd.Flags().BoolVar(&board, "board", false, "print the packing as an ASCII board")
	return cmd
}

func printInstance(in *instance.Instance) {
	printKeyValue("Instance", in.Name)
	printKeyValue("Width", fmt.Sprint(in.Width))
	printKeyValue("Modules", fmt.Sprint(in.N()))
	printKeyValue("Area", fmt.Sprint(in.TotalArea()))
}

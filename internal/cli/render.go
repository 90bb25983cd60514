package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/render"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		format   string
		scale    float64
		noLabels bool
		title    string
		instPath string
	)

	cmd := &cobra.Command{
		Use:   "render <solution>",
		Short: "Draw a solution as ASCII, DOT, SVG, PNG or PDF",
		Long: `Render draws a solution file. The format follows the output extension
unless --format is given; without --output ASCII and DOT are printed to
stdout.`,
		Example: `  floorpack render out-12.txt
  floorpack render out-12.txt -o out-12.svg
  floorpack render out-12.txt -o out-12.pdf --instance ins-12.txt`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTextFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sol, err := solution.ReadFile(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = strings.TrimSuffix(args[0], ".txt")
			}
			if instPath != "" {
				in, err := instance.ReadFile(instPath)
				if err != nil {
					return err
				}
				if err := sol.Validate(in, true); err != nil {
					return err
				}
				sol.MarkRotations(in)
			}

			if format == "" {
				format = render.FormatFromPath(output)
			}
			if err := render.ValidateFormat(format); err != nil {
				return err
			}
			if output == "" && !textFormat(format) {
				return fmt.Errorf("format %s needs --output", format)
			}

			data, err := render.Render(ctx, sol, format,
				render.WithScale(scale),
				render.WithLabels(!noLabels),
				render.WithTitle(title),
			)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}
			printSuccess("Rendered %s", format)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(render.Formats(), ", "))
	cmd.Flags().Float64Var(&scale, "scale", 0.25, "inches per grid unit (dot, svg, png)")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "omit module labels")
	cmd.Flags().StringVar(&title, "title", "", "title for PDF pages and DOT graphs")
	cmd.Flags().StringVar(&instPath, "instance", "", "instance file used to check the solution and mark rotations")
	registerFormatCompletion(cmd, "format")
	return cmd
}

// viewCommand creates the view command.
func (c *CLI) viewCommand() *cobra.Command {
	var instPath string

	cmd := &cobra.Command{
		Use:   "view <solution>",
		Short: "Browse a solution interactively",
		Long: `View opens a terminal browser for a solution: the board is drawn with the
selected module highlighted and its position listed next to it.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTextFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			sol, err := solution.ReadFile(args[0])
			if err != nil {
				return err
			}
			name := args[0]
			if instPath != "" {
				in, err := instance.ReadFile(instPath)
				if err != nil {
					return err
				}
				if err := sol.Validate(in, true); err != nil {
					return err
				}
				sol.MarkRotations(in)
				name = in.Name
			}
			if len(sol.Placements) == 0 {
				printInfo("Solution is empty")
				return nil
			}
			_, err = tea.NewProgram(NewSolutionModel(name, sol), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&instPath, "instance", "", "instance file used to check the solution and mark rotations")
	return cmd
}

func textFormat(format string) bool {
	return format == render.FormatASCII || format == render.FormatDOT
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/pipeline"
	"github.com/matzehuels/floorpack/pkg/report"
	"github.com/matzehuels/floorpack/pkg/search"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		flags      solveFlags
		noCache    bool
		refresh    bool
		workers    int
		reportPath string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "batch <file|dir>...",
		Short: "Solve many instances on a worker pool",
		Long: `Batch solves every instance file given on the command line. Directories
are expanded to the .txt files they contain. Each instance has its own search
budget; a failing instance is reported and does not stop the others.`,
		Example: `  floorpack batch instances/ --workers 4 --report results.csv
  floorpack batch ins-*.txt --rotation --report results.xlsx --out-dir out/`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeTextFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.solveOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Refresh = refresh
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Batch.Workers
			}
			if reportPath != "" {
				if _, err := report.FormatFromPath(reportPath); err != nil {
					return err
				}
			}

			paths, err := expandInstances(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return errors.New(errors.ErrCodeNotFound, "no instance files found")
			}

			runner, err := c.newRunner(ctx, noCache, nil)
			if err != nil {
				return err
			}
			defer runner.Close(ctx)

			prog := newProgress(c.Logger)
			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %d instances...", len(paths)))
			spinner.Start()
			finished := 0
			items, err := runner.Batch(ctx, paths, opts, pipeline.BatchOptions{
				Workers: workers,
				OnDone: func(_ int, item pipeline.BatchItem) {
					finished++
					spinner.SetMessage("Solved %d/%d instances...", finished, len(paths))
				},
			})
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Solved %d instances", len(items)))

			printBatchTable(items)
			printBatchSummary(items)

			if outDir != "" {
				if err := writeBatchSolutions(outDir, items); err != nil {
					return err
				}
			}
			if reportPath != "" {
				if err := report.WriteFile(reportPath, report.FromBatch(items)); err != nil {
					return err
				}
				printFile(reportPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results but store the new ones")
	cmd.Flags().IntVarP(&workers, "workers", "w", pipeline.DefaultWorkers(), "concurrent solves")
	cmd.Flags().StringVar(&reportPath, "report", "", "write a timing report (.csv or .xlsx)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "write one solution file per solved instance")

	return cmd
}

// expandInstances resolves files and directories into a sorted, de-duplicated
// list of instance files.
func expandInstances(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "instance path %s", arg)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.txt"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

// outputName maps "ins-12.txt" to "out-12.txt" and anything else to
// "<name>.out.txt".
func outputName(path string) string {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "ins-") {
		return "out-" + strings.TrimPrefix(base, "ins-")
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".out.txt"
}

func writeBatchSolutions(dir string, items []pipeline.BatchItem) error {
	written := 0
	for _, it := range items {
		if it.Result == nil || it.Result.Search.Solution == nil {
			continue
		}
		path := filepath.Join(dir, outputName(it.Path))
		if err := writeSolutionFile(path, it); err != nil {
			return err
		}
		written++
	}
	printDetail("Wrote %d solutions to %s", written, dir)
	return nil
}

func writeSolutionFile(path string, it pipeline.BatchItem) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return solution.WriteFile(path, it.Result.Search.Solution)
}

func printBatchTable(items []pipeline.BatchItem) {
	rows := make([][]string, len(items))
	for i, it := range items {
		name := filepath.Base(it.Path)
		if it.Instance != nil && it.Instance.Name != "" {
			name = it.Instance.Name
		}
		if it.Err != nil || it.Result == nil {
			msg := "unknown error"
			if it.Err != nil {
				msg = errors.UserMessage(it.Err)
			}
			rows[i] = []string{name, StyleError.Render("ERROR"), "", "", "", msg}
			continue
		}
		res := it.Result.Search
		height := ""
		if res.Solution != nil {
			height = fmt.Sprint(res.Height())
		}
		source := iconFresh
		if it.Result.Cached {
			source = iconCached
		}
		rows[i] = []string{
			name,
			styleForStatus(res.Status).Render(string(res.Status)),
			height,
			fmt.Sprintf("%d..%d", res.Bounds.Floor(), res.Bounds.Upper),
			formatDuration(res.TotalTime()),
			source,
		}
	}
	fmt.Println(newTable("Instance", "Status", "Height", "Bounds", "Time", "").Rows(rows...).Render())
}

func printBatchSummary(items []pipeline.BatchItem) {
	counts := pipeline.Summary(items)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d %s", counts[k], strings.ToLower(k))
	}
	if pipeline.Optimal(items) {
		printSuccess("All %d instances solved to optimality", len(items))
		return
	}
	printWarning("%s", strings.Join(parts, ", "))
}

func styleForStatus(st search.Status) lipgloss.Style {
	switch st {
	case search.StatusOptimal:
		return StyleSuccess
	case search.StatusTimedOut:
		return StyleWarning
	}
	return StyleError
}

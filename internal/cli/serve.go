package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorpack/pkg/server"
	"github.com/matzehuels/floorpack/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   solveFlags
		addr    string
		workers int
		queue   int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP solve API",
		Long: `Serve exposes the solver over HTTP:

  POST /v1/solve       submit an instance (JSON or text/plain), returns a job id
  GET  /v1/jobs/{id}   poll a job
  GET  /v1/runs        list recent runs
  GET  /healthz        liveness

Solver flags set the defaults that requests start from. Results are cached
with the configured cache backend and runs are recorded in MongoDB when
store.mongo_uri (or FLOORPACK_MONGO_URI) is set, in memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			defaults, err := c.solveOptions(cmd, &flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Server.Workers
			}
			if !cmd.Flags().Changed("queue") {
				queue = cfg.Server.QueueSize
			}

			runner, err := c.newRunner(ctx, noCache, store.NewMemoryStore())
			if err != nil {
				return err
			}
			defer runner.Close(ctx)

			srv, err := server.New(runner, server.Options{
				Workers:   workers,
				QueueSize: queue,
				Defaults:  defaults,
				Logger:    c.Logger,
			})
			if err != nil {
				return err
			}
			printInfo("Serving on %s", StyleHighlight.Render(addr))
			printNextStep("Try", "curl --data-binary @ins-12.txt -H 'Content-Type: text/plain' http://localhost"+addr+"/v1/solve")
			return srv.ListenAndServe(ctx, addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent solves (default from config)")
	cmd.Flags().IntVar(&queue, "queue", 0, "pending job limit (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}

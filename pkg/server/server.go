package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/floorpack/pkg/observability"
	"github.com/matzehuels/floorpack/pkg/pipeline"
)

// Default values for Options.
const (
	DefaultQueueSize    = 64
	DefaultRetain       = 1000
	DefaultMaxBodyBytes = 1 << 20
	shutdownTimeout     = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// Workers is the number of concurrent solves (default
	// pipeline.DefaultWorkers).
	Workers int
	// QueueSize bounds pending jobs; a full queue answers 503.
	QueueSize int
	// Retain is the number of jobs kept for GET /v1/jobs/{id}.
	Retain int
	// Defaults are the solve options a request starts from.
	Defaults     pipeline.Options
	MaxBodyBytes int64
	Logger       *log.Logger
}

func (o *Options) setDefaults() {
	if o.Workers <= 0 {
		o.Workers = pipeline.DefaultWorkers()
	}
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}
	if o.Retain <= 0 {
		o.Retain = DefaultRetain
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Server is the HTTP front end of a pipeline.Runner.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	jobs   *registry
	queue  chan string
	router chi.Router
}

// New creates a server. The default options are validated here so that a
// bad configuration fails at startup rather than on the first request.
func New(runner *pipeline.Runner, opts Options) (*Server, error) {
	opts.setDefaults()
	check := opts.Defaults
	if err := check.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("default solve options: %w", err)
	}
	if err := checkInterruptible(check); err != nil {
		return nil, fmt.Errorf("default solve options: %w", err)
	}
	s := &Server{
		runner: runner,
		opts:   opts,
		jobs:   newRegistry(opts.Retain),
		queue:  make(chan string, opts.QueueSize),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/jobs/{id}", s.handleJob)
		r.Get("/runs", s.handleRuns)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.opts.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run processes queued jobs until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < s.opts.Workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case id := <-s.queue:
					s.process(ctx, id)
				}
			}
		})
	}
	return g.Wait()
}

// ListenAndServe serves HTTP on addr and runs the workers until ctx is
// done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Run(gctx) })
	g.Go(func() error {
		s.opts.Logger.Info("listening", "addr", addr, "workers", s.opts.Workers)
		if err := srv.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// enqueue registers a job and hands it to the workers.
func (s *Server) enqueue(j *Job) bool {
	select {
	case s.queue <- j.ID:
		observability.Job().OnJobQueued(context.Background(), j.ID)
		return true
	default:
		s.jobs.remove(j.ID)
		return false
	}
}

func (s *Server) process(ctx context.Context, id string) {
	job, ok := s.jobs.get(id)
	if !ok {
		return
	}
	start := time.Now()
	s.jobs.update(id, func(j *Job) {
		j.Status = JobRunning
		j.StartedAt = &start
	})

	res, err := s.runner.Solve(ctx, job.in, job.opts)
	end := time.Now()
	status := JobDone
	s.jobs.update(id, func(j *Job) {
		j.EndedAt = &end
		if err != nil {
			status = JobFailed
			j.Status = JobFailed
			j.Error = toAPIError(err)
			return
		}
		j.Status = JobDone
		j.Result = res.Search
		j.Cached = res.Cached
		if res.Record != nil {
			j.RunID = res.Record.ID
		}
	})
	observability.Job().OnJobFinished(ctx, id, string(status), end.Sub(start))
	s.opts.Logger.Info("job finished", "id", id, "instance", job.Instance, "status", status, "duration", end.Sub(start))
}

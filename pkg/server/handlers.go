package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/floorpack/pkg/buildinfo"
	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/pipeline"
	"github.com/matzehuels/floorpack/pkg/sat"
	"github.com/matzehuels/floorpack/pkg/store"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toAPIError(err error) *apiError {
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	return &apiError{Code: code, Message: errors.UserMessage(err)}
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeParse, errors.ErrCodeInvalidInput, errors.ErrCodeEncoding:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]*apiError{"error": {Code: code, Message: message}})
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]*apiError{"error": toAPIError(err)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
		"queued": len(s.queue),
	})
}

type solveRequest struct {
	Instance *instance.Instance `json:"instance"`
	// Text is an instance in the text format, an alternative to Instance.
	Text    string          `json:"text"`
	Name    string          `json:"name"`
	Options json.RawMessage `json:"options"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput), "request body too large")
		return
	}

	in, opts, err := s.decodeSolve(r, body)
	if err != nil {
		writeErr(w, err)
		return
	}

	job := s.jobs.create(in, opts)
	if !s.enqueue(job) {
		writeError(w, http.StatusServiceUnavailable, "QUEUE_FULL", "solve queue is full, retry later")
		return
	}
	w.Header().Set("Location", "/v1/jobs/"+job.ID)
	writeJSON(w, http.StatusAccepted, map[string]any{"id": job.ID, "status": JobQueued})
}

func (s *Server) decodeSolve(r *http.Request, body []byte) (*instance.Instance, pipeline.Options, error) {
	opts := s.opts.Defaults
	ct := r.Header.Get("Content-Type")
	mediaType := "text/plain"
	if ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, opts, errors.New(errors.ErrCodeUnsupported, "invalid content type %q", ct)
		}
		mediaType = mt
	}

	var in *instance.Instance
	switch {
	case mediaType == "application/json":
		var req solveRequest
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return nil, opts, errors.Wrap(errors.ErrCodeParse, err, "invalid JSON body")
		}
		switch {
		case req.Instance != nil:
			in = req.Instance
			if req.Name != "" {
				in.Name = req.Name
			}
		case req.Text != "":
			parsed, err := instance.ParseString(req.Text, sourceName(req.Name))
			if err != nil {
				return nil, opts, err
			}
			in = parsed
		default:
			return nil, opts, errors.New(errors.ErrCodeInvalidInput, "request needs \"instance\" or \"text\"")
		}
		if len(req.Options) > 0 {
			if err := json.Unmarshal(req.Options, &opts); err != nil {
				return nil, opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
			}
		}
	case mediaType == "text/plain":
		name := r.URL.Query().Get("name")
		parsed, err := instance.Parse(bytes.NewReader(body), sourceName(name))
		if err != nil {
			return nil, opts, err
		}
		in = parsed
		if err := applyQuery(&opts, r); err != nil {
			return nil, opts, err
		}
	default:
		return nil, opts, errors.New(errors.ErrCodeUnsupported, "unsupported content type %q (use application/json or text/plain)", mediaType)
	}

	if err := in.Validate(); err != nil {
		return nil, opts, err
	}
	if err := errors.ValidateInstanceSize(in.Width, in.N()); err != nil {
		return nil, opts, err
	}
	if in.Name != "" {
		if err := errors.ValidateInstanceName(in.Name); err != nil {
			return nil, opts, err
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	if err := checkInterruptible(opts); err != nil {
		return nil, opts, err
	}
	return in, opts, nil
}

// checkInterruptible rejects budgeted gophersat jobs. A gophersat check
// cannot be stopped, so a timed out job would keep a CPU busy after its
// worker has moved on.
func checkInterruptible(opts pipeline.Options) error {
	if opts.Backend == sat.BackendGophersat && opts.Timeout > 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"backend %q cannot be interrupted; use %q or disable the budget with a negative timeout",
			sat.BackendGophersat, sat.BackendGini)
	}
	return nil
}

func sourceName(name string) string {
	if name == "" {
		return "<request>"
	}
	return name
}

// applyQuery reads solve options from query parameters of a text/plain
// request.
func applyQuery(opts *pipeline.Options, r *http.Request) error {
	q := r.URL.Query()
	if v := q.Get("model"); v != "" {
		opts.Model = v
	}
	if v := q.Get("order"); v != "" {
		opts.Order = v
	}
	if v := q.Get("backend"); v != "" {
		opts.Backend = v
	}
	if v := q.Get("premise"); v != "" {
		opts.Premise = v
	}
	if v := q.Get("timeout"); v != "" {
		if err := opts.Timeout.UnmarshalText([]byte(v)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "timeout")
		}
	}
	for name, dst := range map[string]*bool{
		"rotation":    &opts.Rotation,
		"no_symmetry": &opts.NoSymmetry,
		"refresh":     &opts.Refresh,
	} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
			}
			*dst = b
		}
	}
	return nil
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := s.jobs.get(id)
	if !ok {
		writeErr(w, errors.New(errors.ErrCodeNotFound, "job %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	if s.runner.Store == nil {
		writeJSON(w, http.StatusOK, []store.Record{})
		return
	}
	runs, err := s.runner.Store.List(r.Context(), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

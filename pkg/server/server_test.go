package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/pipeline"
	"github.com/matzehuels/floorpack/pkg/store"
)

func newTestServer(t *testing.T, opts Options, run bool) (*Server, *httptest.Server) {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, store.NewMemoryStore(), nil)
	s, err := New(runner, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if run {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			_ = s.Run(ctx)
			close(done)
		}()
		t.Cleanup(func() {
			cancel()
			<-done
		})
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, ts *httptest.Server, path, contentType, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, contentType, strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func waitJob(t *testing.T, ts *httptest.Server, id string) Job {
	t.Helper()
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(ts.URL + "/v1/jobs/" + id)
		if err != nil {
			t.Fatal(err)
		}
		var job Job
		err = json.NewDecoder(resp.Body).Decode(&job)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decode job: %v", err)
		}
		if job.Status == JobDone || job.Status == JobFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return Job{}
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, Options{}, false)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestSolveJSON(t *testing.T) {
	_, ts := newTestServer(t, Options{Workers: 1}, true)
	resp, body := post(t, ts, "/v1/solve", "application/json",
		`{"instance": {"width": 8, "modules": [{"w": 4, "h": 4}, {"w": 4, "h": 4}]}, "name": "two", "options": {"timeout": "30s"}}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	id, _ := body["id"].(string)
	if id == "" || resp.Header.Get("Location") != "/v1/jobs/"+id {
		t.Fatalf("id = %q, location = %q", id, resp.Header.Get("Location"))
	}

	job := waitJob(t, ts, id)
	if job.Status != JobDone {
		t.Fatalf("job = %+v", job)
	}
	if job.Instance != "two" || job.Result.Height() != 4 || job.RunID == "" {
		t.Errorf("job = %+v", job)
	}
}

func TestSolveTextWithQuery(t *testing.T) {
	_, ts := newTestServer(t, Options{Workers: 1}, true)
	resp, body := post(t, ts, "/v1/solve?rotation=true&name=tall", "text/plain", "3\n1\n5 2\n")
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	job := waitJob(t, ts, body["id"].(string))
	if job.Status != JobDone || job.Result.Height() != 5 {
		t.Fatalf("job = %+v", job)
	}
	if !job.Result.Solution.Placements[0].Rotated {
		t.Error("module should be rotated")
	}
}

func TestSolveFailedJob(t *testing.T) {
	_, ts := newTestServer(t, Options{Workers: 1}, true)
	// too wide without rotation: accepted, fails in the worker
	_, body := post(t, ts, "/v1/solve", "text/plain", "3\n1\n5 2\n")
	job := waitJob(t, ts, body["id"].(string))
	if job.Status != JobFailed || job.Error == nil || job.Error.Code != "ENCODING_ERROR" {
		t.Errorf("job = %+v", job)
	}
}

func TestSolveRejects(t *testing.T) {
	_, ts := newTestServer(t, Options{}, false)
	tests := []struct {
		name, contentType, path, body string
		status                        int
		code                          string
	}{
		{"bad json", "application/json", "/v1/solve", "{", http.StatusBadRequest, "PARSE_ERROR"},
		{"unknown field", "application/json", "/v1/solve", `{"instnace": {}}`, http.StatusBadRequest, "PARSE_ERROR"},
		{"no instance", "application/json", "/v1/solve", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad text", "text/plain", "/v1/solve", "8\nx\n", http.StatusBadRequest, "PARSE_ERROR"},
		{"bad option", "application/json", "/v1/solve", `{"text": "8\n1\n4 4\n", "options": {"model": "hexagon"}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad query", "text/plain", "/v1/solve?rotation=maybe", "8\n1\n4 4\n", http.StatusBadRequest, "INVALID_INPUT"},
		{"board too wide", "text/plain", "/v1/solve", "100000\n1\n4 4\n", http.StatusBadRequest, "INVALID_INPUT"},
		{"content type", "image/png", "/v1/solve", "", http.StatusUnsupportedMediaType, "UNSUPPORTED"},
		{"budgeted gophersat", "text/plain", "/v1/solve?backend=gophersat", "8\n1\n4 4\n", http.StatusBadRequest, "INVALID_INPUT"},
		{"budgeted gophersat json", "application/json", "/v1/solve", `{"text": "8\n1\n4 4\n", "options": {"backend": "gophersat", "timeout": "10s"}}`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts, tt.path, tt.contentType, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%v)", resp.StatusCode, tt.status, body)
			}
			if got := errorCode(body); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestQueueFull(t *testing.T) {
	_, ts := newTestServer(t, Options{QueueSize: 1}, false)
	first, _ := post(t, ts, "/v1/solve", "text/plain", "8\n1\n4 4\n")
	if first.StatusCode != http.StatusAccepted {
		t.Fatalf("first status = %d", first.StatusCode)
	}
	second, body := post(t, ts, "/v1/solve", "text/plain", "8\n1\n4 4\n")
	if second.StatusCode != http.StatusServiceUnavailable || errorCode(body) != "QUEUE_FULL" {
		t.Errorf("second: status %d body %v", second.StatusCode, body)
	}
}

func TestJobNotFound(t *testing.T) {
	_, ts := newTestServer(t, Options{}, false)
	resp, err := http.Get(ts.URL + "/v1/jobs/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRuns(t *testing.T) {
	_, ts := newTestServer(t, Options{Workers: 1}, true)
	_, body := post(t, ts, "/v1/solve", "text/plain", "8\n2\n4 4\n4 4\n")
	waitJob(t, ts, body["id"].(string))

	resp, err := http.Get(ts.URL + "/v1/runs?limit=5")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var runs []store.Record
	if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Height != 4 {
		t.Errorf("runs = %+v", runs)
	}

	bad, err := http.Get(ts.URL + "/v1/runs?limit=-1")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("negative limit status = %d", bad.StatusCode)
	}
}

func TestNewRejectsBadDefaults(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, nil, nil)
	if _, err := New(runner, Options{Defaults: pipeline.Options{Backend: "minisat"}}); err == nil {
		t.Error("bad default backend should fail")
	}
	if _, err := New(runner, Options{Defaults: pipeline.Options{Backend: "gophersat"}}); err == nil {
		t.Error("budgeted gophersat defaults should fail")
	}
}

func TestSolveUnbudgetedGophersat(t *testing.T) {
	_, ts := newTestServer(t, Options{}, false)
	resp, body := post(t, ts, "/v1/solve?backend=gophersat&timeout=-1s", "text/plain", "8\n1\n4 4\n")
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d, want 202 (%v)", resp.StatusCode, body)
	}
}

func testInstance() *instance.Instance {
	return &instance.Instance{Name: "one", Width: 4, Modules: []instance.Module{{Width: 4, Height: 4}}}
}

func TestRegistryEviction(t *testing.T) {
	r := newRegistry(2)
	var ids []string
	for i := 0; i < 3; i++ {
		j := r.create(testInstance(), pipeline.Options{})
		r.update(j.ID, func(j *Job) { j.Status = JobDone })
		ids = append(ids, j.ID)
	}
	if _, ok := r.get(ids[0]); ok {
		t.Error("oldest finished job should be evicted")
	}
	if _, ok := r.get(ids[2]); !ok {
		t.Error("newest job should be kept")
	}
}

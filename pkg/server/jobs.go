package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/floorpack/pkg/instance"
	"github.com/matzehuels/floorpack/pkg/pipeline"
	"github.com/matzehuels/floorpack/pkg/search"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job is a queued solve. Snapshots returned by the registry are copies.
type Job struct {
	ID        string         `json:"id"`
	Status    JobStatus      `json:"status"`
	Instance  string         `json:"instance,omitempty"`
	Cached    bool           `json:"cached,omitempty"`
	RunID     string         `json:"run_id,omitempty"`
	Result    *search.Result `json:"result,omitempty"`
	Error     *apiError      `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	StartedAt *time.Time     `json:"started_at,omitempty"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`

	in   *instance.Instance
	opts pipeline.Options
}

// registry holds jobs in memory. Finished jobs beyond the retention limit
// are evicted oldest first.
type registry struct {
	mu     sync.RWMutex
	jobs   map[string]*Job
	order  []string
	retain int
}

func newRegistry(retain int) *registry {
	return &registry{jobs: make(map[string]*Job), retain: retain}
}

func (r *registry) create(in *instance.Instance, opts pipeline.Options) *Job {
	j := &Job{
		ID:        uuid.New().String(),
		Status:    JobQueued,
		Instance:  in.Name,
		CreatedAt: time.Now().UTC(),
		in:        in,
		opts:      opts,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = j
	r.order = append(r.order, j.ID)
	r.evict()
	return j
}

func (r *registry) evict() {
	for len(r.order) > r.retain {
		oldest := r.jobs[r.order[0]]
		if oldest != nil && (oldest.Status == JobQueued || oldest.Status == JobRunning) {
			return
		}
		delete(r.jobs, r.order[0])
		r.order = r.order[1:]
	}
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *registry) get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

func (r *registry) update(id string, fn func(*Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		fn(j)
	}
}

// Package jobs holds the in-memory analysis job table. One record per
// submitted circuit; state moves queued → running → {completed, failed}
// with no retry, no cancellation and no partial progress.
package jobs

import (
	"sync"

	"github.com/M4rulli/Dynamica/pkg/analysis"
	"github.com/M4rulli/Dynamica/pkg/mesh"
)

// Status tracks a job through its lifecycle.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one analysis invocation and its outcome. Result is populated only
// on completion, Error only on failure.
type Job struct {
	ID      string
	Request analysis.Request
	Status  Status
	Result  *mesh.Result
	Error   string
}

// Store is a mutex-guarded job table. Records never leave the table within
// a process lifetime; a failed job can only be resubmitted as a new one.
type Store struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewStore returns an empty job table.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create registers a freshly queued job.
func (s *Store) Create(id string, req analysis.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = &Job{ID: id, Request: req, Status: StatusQueued}
}

// Get returns a snapshot of the job, if present. The result pointer is
// shared but treated as read-only once the job completed.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// SetRunning marks the job as picked up.
func (s *Store) SetRunning(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = StatusRunning
	}
}

// SetCompleted stores the result and clears any stale error.
func (s *Store) SetCompleted(id string, res *mesh.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = StatusCompleted
		j.Result = res
		j.Error = ""
	}
}

// SetFailed records the failure message; the result stays empty.
func (s *Store) SetFailed(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		j.Status = StatusFailed
		j.Error = message
	}
}

// Package batch crops many page images concurrently and tracks the outcome
// of each crop job.
package batch

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/page-autocrop/internal/autocrop"
)

// JobStatus is the lifecycle state of a crop job.
type JobStatus string

// Job states.
const (
	Pending  JobStatus = "PENDING"
	Running  JobStatus = "RUNNING"
	Complete JobStatus = "COMPLETE"
	Failed   JobStatus = "FAILED"
	Skipped  JobStatus = "SKIPPED"
)

// Statuses lists every JobStatus in summary order.
var Statuses = []JobStatus{Pending, Running, Complete, Failed, Skipped}

// Job is one file to autocrop.
type Job struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	OutputDir string    `json:"output_dir"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`

	// Output is the written file, known once the job completes.
	Output string `json:"output,omitempty"`

	// Result is set once the image has been analyzed.
	Result *autocrop.Analysis `json:"result,omitempty"`
}

// NewJob creates a pending job with a fresh ID that writes into outputDir.
func NewJob(input, outputDir string) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Input:     input,
		OutputDir: outputDir,
		Status:    Pending,
	}
}

// Status summarises a set of jobs.
type Status struct {
	// ByStatus lists job inputs per state, in submission order. Every state
	// has an entry, possibly empty.
	ByStatus map[JobStatus][]string `json:"by_status"`

	// Running is true while any job is pending or running.
	Running bool `json:"running"`

	NumberOfJobs int `json:"number_of_jobs"`
}

// Progress counts finished work.
type Progress struct {
	Total    int `json:"total"`
	Finished int `json:"finished"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Tracker is a goroutine-safe store of jobs that keeps submission order.
type Tracker struct {
	mu   sync.RWMutex
	jobs []*Job
	byID map[string]*Job
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{byID: make(map[string]*Job)}
}

// Add registers jobs in order.
func (t *Tracker) Add(jobs ...*Job) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, j := range jobs {
		t.jobs = append(t.jobs, j)
		t.byID[j.ID] = j
	}
}

// update applies fn to the job with id under the write lock.
func (t *Tracker) update(id string, fn func(*Job)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if j, ok := t.byID[id]; ok {
		fn(j)
	}
}

// SetStatus moves a job to status.
func (t *Tracker) SetStatus(id string, status JobStatus) {
	t.update(id, func(j *Job) { j.Status = status })
}

// Finish records the outcome of a job. A nil err marks it Complete.
func (t *Tracker) Finish(id, output string, result *autocrop.Analysis, err error) {
	t.update(id, func(j *Job) {
		j.Output = output
		j.Result = result
		if err != nil {
			j.Status = Failed
			j.Error = err.Error()
			return
		}
		j.Status = Complete
	})
}

// SkipUnfinished marks every pending job as skipped.
func (t *Tracker) SkipUnfinished() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, j := range t.jobs {
		if j.Status == Pending {
			j.Status = Skipped
		}
	}
}

// Jobs returns copies of all jobs in submission order.
func (t *Tracker) Jobs() []Job {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Job, len(t.jobs))
	for i, j := range t.jobs {
		out[i] = *j
	}
	return out
}

// Get returns a copy of the job with id.
func (t *Tracker) Get(id string) (Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	j, ok := t.byID[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// Summary groups job inputs by state.
func (t *Tracker) Summary() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Status{
		ByStatus:     make(map[JobStatus][]string, len(Statuses)),
		NumberOfJobs: len(t.jobs),
	}
	for _, st := range Statuses {
		s.ByStatus[st] = []string{}
	}
	for _, j := range t.jobs {
		s.ByStatus[j.Status] = append(s.ByStatus[j.Status], j.Input)
		if j.Status == Pending || j.Status == Running {
			s.Running = true
		}
	}
	return s
}

// Progress counts jobs that reached a final state.
func (t *Tracker) Progress() Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p := Progress{Total: len(t.jobs)}
	for _, j := range t.jobs {
		switch j.Status {
		case Complete:
			p.Finished++
		case Failed:
			p.Finished++
			p.Failed++
		case Skipped:
			p.Skipped++
		}
	}
	return p
}

package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/pyoutline/internal/doctree"
)

// JobStatus represents the state of an outline job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusPublishing JobStatus = "publishing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Terminal reports whether the job will not change state again.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// Upload is one source file submitted with a job.
type Upload struct {
	Filename string
	Data     []byte
}

// Job tracks the state of a batch of files being outlined.
type Job struct {
	mu sync.Mutex

	ID      string `json:"job_id"`
	Project string `json:"project"`

	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filenames []string  `json:"filenames"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	uploads []Upload
	forest  *doctree.Forest
	errors  []string
}

// Progress tracks processing progress.
type Progress struct {
	FilesTotal       int      `json:"files_total"`
	FilesParsed      int      `json:"files_parsed"`
	Definitions      int      `json:"definitions"`
	EntriesPublished int      `json:"entries_published"`
	Errors           []string `json:"errors"`
}

// NewJob creates a queued job for the given uploads.
func NewJob(project string, uploads []Upload) *Job {
	now := time.Now()
	names := make([]string, 0, len(uploads))
	for _, u := range uploads {
		names = append(names, u.Filename)
	}
	return &Job{
		ID:        uuid.NewString(),
		Project:   project,
		Status:    StatusQueued,
		Phase:     "queued",
		Filenames: names,
		Progress:  Progress{FilesTotal: len(uploads)},
		CreatedAt: now,
		UpdatedAt: now,
		uploads:   uploads,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// FileParsed records a parsed file and its definition count.
func (j *Job) FileParsed(definitions int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesParsed++
	j.Progress.Definitions += definitions
	j.UpdatedAt = time.Now()
}

// AddPublished records published entry counts.
func (j *Job) AddPublished(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.EntriesPublished += n
	j.UpdatedAt = time.Now()
}

// Uploads returns the submitted files.
func (j *Job) Uploads() []Upload {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.uploads
}

// SetForest stores the parsed outline and releases the raw uploads.
func (j *Job) SetForest(f *doctree.Forest) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.forest = f
	j.uploads = nil
}

// Forest returns the parsed outline, or nil before parsing finished.
func (j *Job) Forest() *doctree.Forest {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.forest
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Project   string    `json:"project"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filenames []string  `json:"filenames"`
	Progress  Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:        j.ID,
		Project:   j.Project,
		Status:    j.Status,
		Phase:     j.Phase,
		Filenames: append([]string{}, j.Filenames...),
		Progress: Progress{
			FilesTotal:       j.Progress.FilesTotal,
			FilesParsed:      j.Progress.FilesParsed,
			Definitions:      j.Progress.Definitions,
			EntriesPublished: j.Progress.EntriesPublished,
			Errors:           errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

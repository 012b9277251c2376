package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ooguz/odttomd/internal/doctree"
	"github.com/ooguz/odttomd/internal/parser"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusConverting JobStatus = "converting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single document conversion.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	ReusedFrom  string    `json:"reused_from,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData  []byte
	markdown  []byte
	outline   *doctree.DocTree
	errorKind ErrorKind
	errors    []string
}

// Progress reports what a conversion produced.
type Progress struct {
	InputBytes    int      `json:"input_bytes"`
	MarkdownBytes int      `json:"markdown_bytes"`
	Sections      int      `json:"sections"`
	ErrorKind     string   `json:"error_kind,omitempty"`
	Errors        []string `json:"errors"`
}

// NewJob creates a queued job for an upload.
func NewJob(filename, title string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		Title:       title,
		Progress:    Progress{InputBytes: len(data)},
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
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

// FindCompleted returns a completed job with the given content hash, if any.
func (s *JobStore) FindCompleted(hash string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.ContentHash == hash && job.currentStatus() == StatusCompleted {
			return job
		}
	}
	return nil
}

// Delete removes a job and reports whether it existed.
func (s *JobStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[id]
	delete(s.jobs, id)
	return ok
}

// List returns snapshots of all jobs, oldest first.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	snaps := make([]JobSnapshot, 0, len(s.jobs))
	for _, job := range s.jobs {
		snaps = append(snaps, job.Snapshot())
	}
	s.mu.Unlock()
	sort.Slice(snaps, func(i, k int) bool {
		if snaps[i].CreatedAt.Equal(snaps[k].CreatedAt) {
			return snaps[i].ID < snaps[k].ID
		}
		return snaps[i].CreatedAt.Before(snaps[k].CreatedAt)
	})
	return snaps
}

// Len returns the number of stored jobs.
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
		if now.Sub(job.lastUpdate()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Fail records the error and marks the job failed.
func (j *Job) Fail(phase string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errorKind = Classify(err)
	j.Progress.ErrorKind = string(j.errorKind)
	j.errors = append(j.errors, err.Error())
	j.Progress.Errors = j.errors
	j.Status = StatusFailed
	j.Phase = phase
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Complete stores the conversion result and marks the job completed.
func (j *Job) Complete(markdown []byte, outline *doctree.DocTree) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.markdown = markdown
	j.outline = outline
	j.Progress.MarkdownBytes = len(markdown)
	if outline != nil {
		j.Progress.Sections = outline.Count()
	}
	j.Status = StatusCompleted
	j.Phase = "done"
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// ReuseFrom copies the result of a completed job with identical content.
func (j *Job) ReuseFrom(src *Job) {
	md, outline := src.Result()
	if outline != nil {
		cp := *outline
		cp.Title = j.Title
		if cp.Title == "" {
			cp.Title = parser.TitleFromFilename(j.Filename)
		}
		outline = &cp
	}
	j.mu.Lock()
	j.ReusedFrom = src.ID
	j.mu.Unlock()
	j.Complete(md, outline)
}

// Result returns the Markdown and outline of a completed job.
func (j *Job) Result() ([]byte, *doctree.DocTree) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.markdown, j.outline
}

// ErrorKind returns the classification of the failure, or "" if the job has not failed.
func (j *Job) ErrorKind() ErrorKind {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.errorKind
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

func (j *Job) currentStatus() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.Status
}

func (j *Job) lastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	ContentHash string    `json:"content_hash"`
	ReusedFrom  string    `json:"reused_from,omitempty"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.Title,
		ContentHash: j.ContentHash,
		ReusedFrom:  j.ReusedFrom,
		Progress:    p,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

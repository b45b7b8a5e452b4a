package pipeline

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docfields/internal/props"
)

// JobStatus represents the state of a parse job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusCompleted   JobStatus = "completed"
	StatusUnsupported JobStatus = "unsupported"
	StatusFailed      JobStatus = "failed"
)

// Job tracks the state of a single asynchronous parse.
type Job struct {
	mu sync.Mutex

	ID       string
	Filename string

	Status JobStatus
	Phase  string

	ContentHash string
	DuplicateOf string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Internal: not serialized.
	fileData   []byte
	properties *props.Map
	errors     []string
}

// NewJob returns a queued job with a fresh ID.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Filename:    filename,
		Status:      StatusQueued,
		Phase:       "queued",
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu     sync.Mutex
	jobs  map[string]*Job
	byKey map[string]string
	ttl   time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs:  make(map[string]*Job),
		byKey: make(map[string]string),
		ttl:   ttl,
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

// Remember indexes a completed job by its dedup key.
func (s *JobStore) Remember(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.ContentHash != "" {
		s.byKey[job.DedupKey()] = job.ID
	}
}

// Completed returns a live job remembered under key.
func (s *JobStore) Completed(key string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byKey[key]
	if !ok {
		return nil
	}
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if !expired {
			continue
		}
		delete(s.jobs, id)
		if key := job.DedupKey(); s.byKey[key] == id {
			delete(s.byKey, key)
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

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// Complete stores the extracted properties and marks the job completed.
// The file bytes are released.
func (j *Job) Complete(m *props.Map, duplicateOf string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.properties = m
	j.DuplicateOf = duplicateOf
	j.fileData = nil
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Properties returns the extracted properties, nil until completed.
func (j *Job) Properties() *props.Map {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.properties
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string     `json:"job_id"`
	Status      JobStatus  `json:"status"`
	Phase       string     `json:"phase"`
	Filename    string     `json:"filename"`
	ContentHash string     `json:"content_hash,omitempty"`
	DuplicateOf string     `json:"duplicate_of,omitempty"`
	Properties  *props.Map `json:"properties,omitempty"`
	Errors      []string   `json:"errors"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.errors...)
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		ContentHash: j.ContentHash,
		DuplicateOf: j.DuplicateOf,
		Properties:  j.properties,
		Errors:      errs,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// DedupKey identifies jobs that must parse to the same result: the same
// bytes decoded by the same format. The format follows the extension.
func (j *Job) DedupKey() string {
	return strings.ToLower(filepath.Ext(j.Filename)) + ":" + j.ContentHash
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

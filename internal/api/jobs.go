package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Job tracks one asynchronous review submission.
type Job struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	ReviewID   string     `json:"review_id,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// JobRequest is the POST /jobs payload: the same fields as a synchronous
// review submission.
type JobRequest struct {
	Code             string `json:"code"`
	Filename         string `json:"filename,omitempty"`
	Language         string `json:"language,omitempty"`
	Smoke            bool   `json:"smoke,omitempty"`
	WarningsAsErrors bool   `json:"warnings_as_errors,omitempty"`
	Advise           bool   `json:"advise,omitempty"`
}

// JobManager owns the in-memory job table and its SSE subscribers.
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	subscribers map[chan Job]struct{}
	maxJobs     int // Maximum number of jobs to keep in memory
}

func NewJobManager() *JobManager {
	m := &JobManager{
		jobs:        make(map[string]*Job),
		subscribers: make(map[chan Job]struct{}),
		maxJobs:     1000,
	}
	// Cleanup goroutine keeps the table bounded.
	go m.cleanupLoop()
	return m
}

func (m *JobManager) CreateJob() *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := &Job{
		ID:     generateID("job"),
		Status: "pending",
	}
	m.jobs[job.ID] = job
	m.broadcast(*job)
	return job
}

func (m *JobManager) UpdateJob(id string, update func(*Job)) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil
	}
	update(job)
	m.broadcast(*job)
	return job
}

func (m *JobManager) GetJob(id string) *Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if job, ok := m.jobs[id]; ok {
		copy := *job
		return &copy
	}
	return nil
}

func (m *JobManager) ListJobs(limit int) []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.jobs) {
		limit = len(m.jobs)
	}
	jobs := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, *job)
	}

	// Newest first; jobs that never started sort by ID.
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].StartedAt == nil && jobs[j].StartedAt == nil {
			return jobs[i].ID > jobs[j].ID
		}
		if jobs[i].StartedAt == nil {
			return false
		}
		if jobs[j].StartedAt == nil {
			return true
		}
		return jobs[i].StartedAt.After(*jobs[j].StartedAt)
	})

	if limit < len(jobs) {
		jobs = jobs[:limit]
	}
	return jobs
}

func (m *JobManager) Subscribe() (chan Job, func()) {
	ch := make(chan Job, 10)
	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()
	return ch, func() {
		m.mu.Lock()
		if _, ok := m.subscribers[ch]; ok {
			delete(m.subscribers, ch)
			close(ch)
		}
		m.mu.Unlock()
	}
}

func (m *JobManager) broadcast(job Job) {
	for ch := range m.subscribers {
		select {
		case ch <- job:
		default:
			// Slow consumer; drop rather than block the job table.
		}
	}
}

func generateID(prefix string) string {
	// Random IDs prevent enumeration of other users' jobs.
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}

// cleanupLoop removes old completed jobs to prevent unbounded memory growth
func (m *JobManager) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()

		if len(m.jobs) <= m.maxJobs {
			m.mu.Unlock()
			continue
		}

		type jobWithTime struct {
			id   string
			time time.Time
		}
		var completed []jobWithTime

		for id, job := range m.jobs {
			if job.Status == "done" || job.Status == "error" {
				finish := time.Now()
				if job.FinishedAt != nil {
					finish = *job.FinishedAt
				}
				completed = append(completed, jobWithTime{id: id, time: finish})
			}
		}

		sort.Slice(completed, func(i, j int) bool {
			return completed[i].time.Before(completed[j].time)
		})

		toRemove := len(m.jobs) - m.maxJobs
		if toRemove > len(completed) {
			toRemove = len(completed)
		}
		for i := 0; i < toRemove; i++ {
			delete(m.jobs, completed[i].id)
		}

		m.mu.Unlock()
	}
}

// SetMaxJobs configures the maximum number of jobs to retain in memory
func (m *JobManager) SetMaxJobs(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if max > 0 {
		m.maxJobs = max
	}
}

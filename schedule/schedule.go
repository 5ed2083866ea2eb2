// Package schedule fires inbound command payloads on cron schedules.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/linanwx/uibridge/logger"
)

// Job delivers Payload every time Expr matches.
type Job struct {
	ID      string `json:"id" yaml:"id"`
	Expr    string `json:"expr" yaml:"expr"`
	Payload string `json:"payload" yaml:"payload"`
	// Disabled jobs are kept in the list but never fire.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// FireFunc receives a fired job. It runs on the cron goroutine and should
// only enqueue.
type FireFunc func(job Job)

// Scheduler owns a cron instance and the jobs registered on it.
type Scheduler struct {
	mu      sync.Mutex
	cron    *robfigcron.Cron
	fire    FireFunc
	jobs    map[string]Job
	entries map[string]robfigcron.EntryID
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(fire FireFunc) *Scheduler {
	return &Scheduler{
		cron:    robfigcron.New(),
		fire:    fire,
		jobs:    make(map[string]Job),
		entries: make(map[string]robfigcron.EntryID),
	}
}

// Load registers every job, skipping invalid ones with a warning. It returns
// the number of jobs registered.
func (s *Scheduler) Load(jobs []Job) int {
	n := 0
	for _, job := range jobs {
		if err := s.Add(job); err != nil {
			logger.Warn("skipping scheduled command", "id", job.ID, "err", err)
			continue
		}
		n++
	}
	return n
}

// Add registers job. A job with the same ID is replaced.
func (s *Scheduler) Add(job Job) error {
	job = normalize(job)
	if err := validate(job); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entryID robfigcron.EntryID
	if !job.Disabled {
		j := job
		id, err := s.cron.AddFunc(job.Expr, func() { s.run(j) })
		if err != nil {
			return fmt.Errorf("invalid expr %q: %w", job.Expr, err)
		}
		entryID = id
	}

	s.unscheduleLocked(job.ID)
	s.jobs[job.ID] = job
	if !job.Disabled {
		s.entries[job.ID] = entryID
	}
	return nil
}

// Remove unregisters the job with the given ID.
func (s *Scheduler) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = strings.TrimSpace(id)
	if _, ok := s.jobs[id]; !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	s.unscheduleLocked(id)
	delete(s.jobs, id)
	return nil
}

// RunNow fires the job immediately regardless of its schedule.
func (s *Scheduler) RunNow(id string) error {
	s.mu.Lock()
	job, ok := s.jobs[strings.TrimSpace(id)]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job not found: %s", id)
	}
	s.run(job)
	return nil
}

// List returns the registered jobs sorted by ID.
func (s *Scheduler) List() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run(job Job) {
	logger.Debug("scheduled command fired", "id", job.ID)
	if s.fire != nil {
		s.fire(job)
	}
}

func (s *Scheduler) unscheduleLocked(id string) {
	if entryID, ok := s.entries[id]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, id)
	}
}

func validate(job Job) error {
	if job.ID == "" {
		return fmt.Errorf("id is required")
	}
	if job.Expr == "" {
		return fmt.Errorf("expr is required")
	}
	if job.Payload == "" {
		return fmt.Errorf("payload is required")
	}
	if _, err := robfigcron.ParseStandard(job.Expr); err != nil {
		return fmt.Errorf("invalid expr %q: %w", job.Expr, err)
	}
	return nil
}

func normalize(job Job) Job {
	job.ID = strings.TrimSpace(job.ID)
	job.Expr = strings.TrimSpace(job.Expr)
	job.Payload = strings.TrimSpace(job.Payload)
	return job
}

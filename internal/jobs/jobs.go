// Package jobs tracks long-running analysis runs as explicit state machines:
// queued → running → completed | failed | cancelled.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signalsfoundry/sensorplan/internal/logging"
)

var (
	// ErrJobNotFound is returned for unknown or already removed jobs.
	ErrJobNotFound = errors.New("job not found")
	// ErrInvalidTransition is returned when a status change is not allowed
	// from the job's current status.
	ErrInvalidTransition = errors.New("invalid job transition")
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

var allowedTransitions = map[Status][]Status{
	StatusQueued:  {StatusRunning, StatusFailed, StatusCancelled},
	StatusRunning: {StatusCompleted, StatusFailed, StatusCancelled},
}

func canTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Job is a snapshot of one analysis run.
type Job struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Status     Status    `json:"status"`
	Progress   float64   `json:"progress"`
	Error      string    `json:"error,omitempty"`
	Result     any       `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	StartedAt  time.Time `json:"startedAt,omitempty"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// EventType indicates what kind of change happened to a job.
type EventType int

const (
	EventCreated EventType = iota
	EventStatusChanged
	EventProgress
	EventRemoved
)

// Event is emitted to subscribers after every change.
type Event struct {
	Type EventType
	Job  Job
}

// MetricsRecorder receives the number of tracked jobs per status after every
// transition.
type MetricsRecorder interface {
	SetJobCounts(counts map[string]int)
}

// Manager is an in-memory, thread-safe registry of jobs.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*Job

	subs    map[int]func(Event)
	nextSub int

	now     func() time.Time
	newID   func() string
	log     logging.Logger
	metrics MetricsRecorder
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDGenerator replaces the job ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithLogger sets the manager logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithMetricsRecorder wires per-status job gauges.
func WithMetricsRecorder(r MetricsRecorder) Option {
	return func(m *Manager) { m.metrics = r }
}

// NewManager constructs an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		jobs:  make(map[string]*Job),
		subs:  make(map[int]func(Event)),
		now:   time.Now,
		newID: uuid.NewString,
		log:   logging.Noop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a new queued job.
func (m *Manager) Create(kind string) Job {
	m.mu.Lock()
	j := &Job{
		ID:        m.newID(),
		Kind:      kind,
		Status:    StatusQueued,
		CreatedAt: m.now(),
	}
	m.jobs[j.ID] = j
	snap := *j
	m.mu.Unlock()

	m.emit(Event{Type: EventCreated, Job: snap})
	return snap
}

// Get returns a snapshot of the job.
func (m *Manager) Get(id string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// List returns snapshots of all tracked jobs, oldest first.
func (m *Manager) List() []Job {
	m.mu.RLock()
	res := make([]Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		res = append(res, *j)
	}
	m.mu.RUnlock()

	sort.Slice(res, func(i, k int) bool {
		if !res[i].CreatedAt.Equal(res[k].CreatedAt) {
			return res[i].CreatedAt.Before(res[k].CreatedAt)
		}
		return res[i].ID < res[k].ID
	})
	return res
}

// Start moves a queued job to running.
func (m *Manager) Start(id string) error {
	return m.transition(id, StatusRunning, func(j *Job) {
		j.StartedAt = m.now()
	})
}

// SetProgress records progress in percent. Progress never decreases: lower
// values are ignored and values are clamped to [0, 100].
func (m *Manager) SetProgress(id string, percent float64) error {
	m.mu.Lock()
	j, ok := m.jobs[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if j.Status != StatusRunning {
		status := j.Status
		m.mu.Unlock()
		return fmt.Errorf("%w: progress on %s job %s", ErrInvalidTransition, status, id)
	}
	percent = max(0, min(100, percent))
	if percent <= j.Progress {
		m.mu.Unlock()
		return nil
	}
	j.Progress = percent
	snap := *j
	m.mu.Unlock()

	m.emit(Event{Type: EventProgress, Job: snap})
	return nil
}

// Complete marks a running job completed with its result.
func (m *Manager) Complete(id string, result any) error {
	return m.transition(id, StatusCompleted, func(j *Job) {
		j.Progress = 100
		j.Result = result
		j.FinishedAt = m.now()
	})
}

// Fail marks a queued or running job failed, capturing err.
func (m *Manager) Fail(id string, err error) error {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return m.transition(id, StatusFailed, func(j *Job) {
		j.Error = msg
		j.FinishedAt = m.now()
	})
}

// Cancel marks the job cancelled and removes it from the registry. A
// running analysis is not interrupted; its later updates fail with
// ErrJobNotFound and are dropped.
func (m *Manager) Cancel(id string) error {
	if err := m.transition(id, StatusCancelled, func(j *Job) {
		j.FinishedAt = m.now()
	}); err != nil {
		return err
	}

	m.mu.Lock()
	j, ok := m.jobs[id]
	if ok {
		delete(m.jobs, id)
	}
	m.mu.Unlock()
	if ok {
		m.emit(Event{Type: EventRemoved, Job: *j})
	}
	m.recordCounts()
	return nil
}

func (m *Manager) transition(id string, to Status, mutate func(*Job)) error {
	m.mu.Lock()
	j, ok := m.jobs[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if !canTransition(j.Status, to) {
		from := j.Status
		m.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s for job %s", ErrInvalidTransition, from, to, id)
	}
	j.Status = to
	if mutate != nil {
		mutate(j)
	}
	snap := *j
	m.mu.Unlock()

	m.log.Debug(context.Background(), "job status changed",
		logging.String("job_id", id),
		logging.String("kind", snap.Kind),
		logging.String("status", string(to)),
	)
	m.emit(Event{Type: EventStatusChanged, Job: snap})
	m.recordCounts()
	return nil
}

func (m *Manager) recordCounts() {
	if m.metrics == nil {
		return
	}
	counts := map[string]int{
		string(StatusQueued):    0,
		string(StatusRunning):   0,
		string(StatusCompleted): 0,
		string(StatusFailed):    0,
	}
	m.mu.RLock()
	for _, j := range m.jobs {
		counts[string(j.Status)]++
	}
	m.mu.RUnlock()
	m.metrics.SetJobCounts(counts)
}

// Subscribe registers a callback for job events. Callbacks run on the
// goroutine that made the change, outside the manager lock. It returns an
// unsubscribe function.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) emit(ev Event) {
	m.mu.RLock()
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, m.subs[id])
	}
	m.mu.RUnlock()

	for _, sub := range subs {
		sub(ev)
	}
}

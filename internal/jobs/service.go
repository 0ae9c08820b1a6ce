// Package jobs serializes snapshot builds and updates through a single
// worker so at most one writer touches a team's snapshot at a time.
package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fortuna/oncourt/internal/ingest/nba"
	"github.com/fortuna/oncourt/internal/store"
)

// Runner executes the actual ingestion work. Implemented by nba.Ingester.
type Runner interface {
	Build(ctx context.Context, team, season string, progress nba.Progress) (*store.Snapshot, error)
	Update(ctx context.Context, team, season string, progress nba.Progress) (*store.Snapshot, error)
}

// Invalidator drops cached snapshots after a job rewrites the store.
// Implemented by query.Service.
type Invalidator interface {
	Invalidate(team, season string)
}

const (
	queueCapacity = 32
	historyLimit  = 10
)

// Service owns the job queue and the single worker goroutine.
type Service struct {
	runner      Runner
	invalidator Invalidator

	mu      sync.RWMutex
	byID    map[string]*Job
	active  *Job
	history []*Job
	sinks   []EventSink

	queue  chan string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
// invalidator may be nil.
func NewService(runner Runner, invalidator Invalidator, logger *log.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	if logger == nil {
		logger = log.New(log.Writer(), "[jobs] ", log.LstdFlags)
	}
	return &Service{
		runner:      runner,
		invalidator: invalidator,
		byID:        make(map[string]*Job),
		queue:       make(chan string, queueCapacity),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// AddSink registers a fan-out target for job lifecycle events.
func (s *Service) AddSink(sink EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Start launches the background worker loop.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker and waits for the in-flight job to finish.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Enqueue validates and queues a job. A job for a team/season already
// queued or running is rejected so concurrent triggers cannot double-run.
func (s *Service) Enqueue(req Request) (*Job, error) {
	if req.Mode != ModeBuild && req.Mode != ModeUpdate {
		return nil, fmt.Errorf("unknown job mode %q", req.Mode)
	}
	team, err := nba.LookupTeam(req.Team)
	if err != nil {
		return nil, err
	}
	if req.Season == "" {
		return nil, fmt.Errorf("season is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dup := s.pendingLocked(team.Name, req.Season); dup != nil {
		return nil, fmt.Errorf("job %s already %s for %s %s", dup.ID, dup.Status, team.Name, req.Season)
	}

	job := &Job{
		ID:        uuid.NewString(),
		Team:      team.Name,
		Season:    req.Season,
		Mode:      req.Mode,
		Status:    StatusQueued,
		Message:   "Queued",
		CreatedAt: time.Now().UTC(),
	}

	select {
	case s.queue <- job.ID:
	default:
		return nil, fmt.Errorf("job queue is full")
	}

	s.byID[job.ID] = job
	s.emitLocked(job, "Job queued")
	return job.Copy(), nil
}

// Get returns a job by ID.
func (s *Service) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.byID[id]
	return job.Copy(), ok
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus() *StatusSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &StatusSummary{ActiveJob: s.active.Copy()}
	for _, j := range s.history {
		summary.History = append(summary.History, j.Copy())
	}
	return summary
}

func (s *Service) pendingLocked(team, season string) *Job {
	for _, j := range s.byID {
		if j.Team == team && j.Season == season &&
			(j.Status == StatusQueued || j.Status == StatusRunning) {
			return j
		}
	}
	return nil
}

func (s *Service) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case id := <-s.queue:
			s.execute(id)
		}
	}
}

func (s *Service) execute(id string) {
	s.mu.Lock()
	job, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	now := time.Now().UTC()
	job.Status = StatusRunning
	job.StartedAt = &now
	job.Message = "Running"
	s.active = job
	s.emitLocked(job, "Job started")
	s.mu.Unlock()

	s.logger.Printf("starting %s job %s: %s %s", job.Mode, job.ID, job.Team, job.Season)

	progress := func(gameID string, index, total int, ok bool) {
		s.mu.Lock()
		job.ProgressCurrent++
		job.ProgressTotal = total
		job.Message = fmt.Sprintf("Processed game %s (%d/%d)", gameID, job.ProgressCurrent, total)
		s.mu.Unlock()
	}

	var snap *store.Snapshot
	var err error
	switch job.Mode {
	case ModeBuild:
		snap, err = s.runner.Build(s.ctx, job.Team, job.Season, progress)
	case ModeUpdate:
		snap, err = s.runner.Update(s.ctx, job.Team, job.Season, progress)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	done := time.Now().UTC()
	job.CompletedAt = &done
	s.active = nil

	if err != nil {
		job.Status = StatusFailed
		job.Message = "Job failed"
		job.LastError = err.Error()
		s.logger.Printf("job %s failed: %v", job.ID, err)
		s.emitLocked(job, err.Error())
	} else {
		job.Status = StatusCompleted
		job.Message = "Job completed"
		job.GamesProcessed = snap.GamesProcessed
		job.EventCount = len(snap.Events)
		s.logger.Printf("job %s completed: %d games, %d events", job.ID, snap.GamesProcessed, len(snap.Events))
		s.emitLocked(job, "Job completed")
		if s.invalidator != nil {
			s.invalidator.Invalidate(job.Team, job.Season)
		}
	}

	s.history = append([]*Job{job}, s.history...)
	if len(s.history) > historyLimit {
		s.history = s.history[:historyLimit]
	}
}

func (s *Service) emitLocked(job *Job, message string) {
	ev := Event{
		JobID:    job.ID,
		Team:     job.Team,
		Season:   job.Season,
		Mode:     job.Mode,
		Status:   job.Status,
		Message:  message,
		Occurred: time.Now().UTC(),
	}
	for _, sink := range s.sinks {
		sink.OnJobEvent(ev)
	}
}

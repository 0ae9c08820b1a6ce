// Package scheduler runs the daily snapshot refresh. Games finish at
// night; one update pass per team each morning keeps snapshots current
// without hammering the upstream feeds.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fortuna/oncourt/internal/jobs"
)

// Config holds scheduler configuration.
type Config struct {
	Teams      []string // teams to refresh daily
	Season     string   // e.g. "2025-26"
	DailyHour  int      // local hour of day for the update pass
	MaxRetries int      // enqueue retries per team
	RetryDelay time.Duration
}

// DefaultConfig returns default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		Season:     "2025-26",
		DailyHour:  6,
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
	}
}

// Orchestrator enqueues update jobs on a daily schedule.
type Orchestrator struct {
	jobs    *jobs.Service
	config  *Config
	stopCtx context.Context
	cancel  context.CancelFunc
}

// NewOrchestrator creates a scheduler over the job service. Stop is safe
// to call at any point, including before Start.
func NewOrchestrator(jobService *jobs.Service, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	stopCtx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{jobs: jobService, config: config, stopCtx: stopCtx, cancel: cancel}
}

// Start blocks running the daily loop until the context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	log.Printf("[scheduler] daily refresh at %02d:00 for %d teams, season %s",
		o.config.DailyHour, len(o.config.Teams), o.config.Season)

	for {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), o.config.DailyHour, 0, 0, 0, now.Location())
		if now.After(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		log.Printf("[scheduler] next refresh: %s (in %v)",
			nextRun.Format("2006-01-02 15:04:05"), time.Until(nextRun).Round(time.Second))

		select {
		case <-ctx.Done():
			log.Println("[scheduler] stopped")
			return
		case <-o.stopCtx.Done():
			log.Println("[scheduler] stopped")
			return
		case <-time.After(time.Until(nextRun)):
			o.runRefresh(ctx)
		}
	}
}

// Stop cancels the daily loop.
func (o *Orchestrator) Stop() {
	o.cancel()
}

// TriggerRefresh enqueues an immediate update pass for all configured
// teams, used by the manual trigger endpoint.
func (o *Orchestrator) TriggerRefresh(ctx context.Context) error {
	if len(o.config.Teams) == 0 {
		return fmt.Errorf("no teams configured")
	}
	o.runRefresh(ctx)
	return nil
}

// GetStatus returns the current scheduler configuration for API callers.
func (o *Orchestrator) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"daily_hour": o.config.DailyHour,
		"teams":      o.config.Teams,
		"season":     o.config.Season,
	}
}

func (o *Orchestrator) runRefresh(ctx context.Context) {
	start := time.Now()
	log.Printf("[scheduler] refresh starting for %d teams", len(o.config.Teams))

	for _, team := range o.config.Teams {
		o.enqueueWithRetry(ctx, team)
	}

	log.Printf("[scheduler] refresh pass enqueued in %v", time.Since(start).Round(time.Millisecond))
}

// enqueueWithRetry retries transient enqueue failures (a full queue). A
// duplicate pending job is not an error; the team is already covered.
func (o *Orchestrator) enqueueWithRetry(ctx context.Context, team string) {
	req := jobs.Request{Team: team, Season: o.config.Season, Mode: jobs.ModeUpdate}

	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		job, err := o.jobs.Enqueue(req)
		if err == nil {
			log.Printf("[scheduler] enqueued update %s for %s", job.ID, job.Team)
			return
		}

		log.Printf("[scheduler] enqueue %s attempt %d/%d failed: %v", team, attempt, o.config.MaxRetries, err)
		if attempt < o.config.MaxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.config.RetryDelay):
			}
		}
	}
}

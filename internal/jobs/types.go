package jobs

import "time"

// Mode selects between a full rebuild and an incremental update.
type Mode string

const (
	ModeBuild  Mode = "build"
	ModeUpdate Mode = "update"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Request describes the work to enqueue.
type Request struct {
	Team   string `json:"team"`
	Season string `json:"season"`
	Mode   Mode   `json:"mode"`
}

// Job is one build/update run and its progress.
type Job struct {
	ID              string     `json:"id"`
	Team            string     `json:"team"`
	Season          string     `json:"season"`
	Mode            Mode       `json:"mode"`
	Status          Status     `json:"status"`
	Message         string     `json:"message,omitempty"`
	ProgressCurrent int        `json:"progress_current"`
	ProgressTotal   int        `json:"progress_total"`
	GamesProcessed  int        `json:"games_processed,omitempty"`
	EventCount      int        `json:"event_count,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Copy returns a shallow copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	return &cpy
}

// Event is a job lifecycle notification for stream and websocket fan-out.
type Event struct {
	JobID    string    `json:"job_id"`
	Team     string    `json:"team"`
	Season   string    `json:"season"`
	Mode     Mode      `json:"mode"`
	Status   Status    `json:"status"`
	Message  string    `json:"message,omitempty"`
	Occurred time.Time `json:"occurred"`
}

// EventSink receives job lifecycle events. Implementations must not block.
type EventSink interface {
	OnJobEvent(ev Event)
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	History   []*Job `json:"recent_jobs,omitempty"`
}

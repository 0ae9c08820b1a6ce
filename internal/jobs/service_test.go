package jobs

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fortuna/oncourt/internal/ingest/nba"
	"github.com/fortuna/oncourt/internal/store"
)

type stubRunner struct {
	mu      sync.Mutex
	builds  []string
	updates []string
	err     error
}

func (r *stubRunner) Build(ctx context.Context, team, season string, progress nba.Progress) (*store.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builds = append(r.builds, team)
	if r.err != nil {
		return nil, r.err
	}
	return &store.Snapshot{Team: team, Season: season, GamesProcessed: 3}, nil
}

func (r *stubRunner) Update(ctx context.Context, team, season string, progress nba.Progress) (*store.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, team)
	if r.err != nil {
		return nil, r.err
	}
	return &store.Snapshot{Team: team, Season: season, GamesProcessed: 3}, nil
}

type stubInvalidator struct {
	mu    sync.Mutex
	calls []string
}

func (i *stubInvalidator) Invalidate(team, season string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls = append(i.calls, team+"|"+season)
}

func waitForJob(svc *Service, id string, timeout time.Duration) *Job {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if job, ok := svc.Get(id); ok &&
			(job.Status == StatusCompleted || job.Status == StatusFailed) {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a started job service", t, func() {
		runner := &stubRunner{}
		inval := &stubInvalidator{}
		svc := NewService(runner, inval, nil)
		svc.Start()
		defer svc.Shutdown(context.Background())

		Convey("A build job runs to completion and invalidates the cache", func() {
			job, err := svc.Enqueue(Request{Team: "timberwolves", Season: "2025-26", Mode: ModeBuild})
			So(err, ShouldBeNil)
			So(job.Team, ShouldEqual, "Minnesota Timberwolves")
			So(job.Status, ShouldEqual, StatusQueued)

			done := waitForJob(svc, job.ID, 2*time.Second)
			So(done, ShouldNotBeNil)
			So(done.Status, ShouldEqual, StatusCompleted)
			So(done.GamesProcessed, ShouldEqual, 3)

			inval.mu.Lock()
			calls := append([]string(nil), inval.calls...)
			inval.mu.Unlock()
			So(calls, ShouldContain, "Minnesota Timberwolves|2025-26")
		})

		Convey("A failed run marks the job failed with the error", func() {
			runner.err = fmt.Errorf("feed outage")
			job, err := svc.Enqueue(Request{Team: "lakers", Season: "2025-26", Mode: ModeUpdate})
			So(err, ShouldBeNil)

			done := waitForJob(svc, job.ID, 2*time.Second)
			So(done, ShouldNotBeNil)
			So(done.Status, ShouldEqual, StatusFailed)
			So(done.LastError, ShouldContainSubstring, "feed outage")
		})

		Convey("Completed jobs land in history", func() {
			job, err := svc.Enqueue(Request{Team: "nuggets", Season: "2025-26", Mode: ModeBuild})
			So(err, ShouldBeNil)
			So(waitForJob(svc, job.ID, 2*time.Second), ShouldNotBeNil)

			summary := svc.GetStatus()
			So(len(summary.History), ShouldBeGreaterThanOrEqualTo, 1)
			So(summary.History[0].ID, ShouldEqual, job.ID)
		})
	})
}

func TestServiceValidation(t *testing.T) {
	Convey("Given a job service that is not draining its queue", t, func() {
		svc := NewService(&stubRunner{}, nil, nil)

		Convey("An unknown mode is rejected", func() {
			_, err := svc.Enqueue(Request{Team: "timberwolves", Season: "2025-26", Mode: "rebuild"})
			So(err, ShouldNotBeNil)
		})

		Convey("An unknown team is rejected", func() {
			_, err := svc.Enqueue(Request{Team: "globetrotters", Season: "2025-26", Mode: ModeBuild})
			So(err, ShouldWrap, nba.ErrUnknownTeam)
		})

		Convey("A missing season is rejected", func() {
			_, err := svc.Enqueue(Request{Team: "timberwolves", Mode: ModeBuild})
			So(err, ShouldNotBeNil)
		})

		Convey("A duplicate pending job for the same team and season is rejected", func() {
			first, err := svc.Enqueue(Request{Team: "timberwolves", Season: "2025-26", Mode: ModeBuild})
			So(err, ShouldBeNil)
			So(first, ShouldNotBeNil)

			_, err = svc.Enqueue(Request{Team: "minnesota", Season: "2025-26", Mode: ModeUpdate})
			So(err, ShouldNotBeNil)

			_, err = svc.Enqueue(Request{Team: "timberwolves", Season: "2024-25", Mode: ModeBuild})
			So(err, ShouldBeNil)
		})
	})
}

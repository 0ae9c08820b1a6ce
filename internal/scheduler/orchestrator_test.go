package scheduler

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func startReturnsWithin(o *Orchestrator, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		o.Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

func TestOrchestratorStop(t *testing.T) {
	Convey("Given an orchestrator", t, func() {
		o := NewOrchestrator(nil, DefaultConfig())

		Convey("Stop before Start still halts the loop", func() {
			o.Stop()
			So(startReturnsWithin(o, time.Second), ShouldBeTrue)
		})

		Convey("Stop after Start halts the loop", func() {
			done := make(chan struct{})
			go func() {
				o.Start(context.Background())
				close(done)
			}()
			o.Stop()
			select {
			case <-done:
				So(true, ShouldBeTrue)
			case <-time.After(time.Second):
				So("start never returned", ShouldBeEmpty)
			}
		})

		Convey("Cancelling the start context halts the loop", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				o.Start(ctx)
				close(done)
			}()
			cancel()
			select {
			case <-done:
				So(true, ShouldBeTrue)
			case <-time.After(time.Second):
				So("start never returned", ShouldBeEmpty)
			}
		})
	})
}

func TestTriggerRefreshValidation(t *testing.T) {
	Convey("A manual refresh with no teams configured is an error", t, func() {
		o := NewOrchestrator(nil, DefaultConfig())
		So(o.TriggerRefresh(context.Background()), ShouldNotBeNil)
	})
}

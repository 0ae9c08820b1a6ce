package nba

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fortuna/oncourt/internal/store"
)

func TestLineupTracker(t *testing.T) {
	Convey("Given a tracker seeded with five starters", t, func() {
		tracker, err := NewLineupTracker([]int{10, 20, 30, 40, 50})
		So(err, ShouldBeNil)

		Convey("Seeding with anything but five players fails", func() {
			_, err := NewLineupTracker([]int{10, 20, 30})
			So(err, ShouldNotBeNil)
		})

		Convey("A normal substitution swaps one player", func() {
			tracker.SubOut(30)
			overflowed := tracker.SubIn(60)
			So(overflowed, ShouldBeFalse)
			So(tracker.OnCourt(60), ShouldBeTrue)
			So(tracker.OnCourt(30), ShouldBeFalse)
			So(tracker.Size(), ShouldEqual, 5)
		})

		Convey("A sub-in without a matching sub-out clamps to the five most recent", func() {
			overflowed := tracker.SubIn(60)
			So(overflowed, ShouldBeTrue)
			So(tracker.Size(), ShouldEqual, 5)
			So(tracker.OnCourt(10), ShouldBeFalse)
			So(tracker.OnCourt(60), ShouldBeTrue)
		})

		Convey("Subbing in a player already on court changes nothing", func() {
			overflowed := tracker.SubIn(20)
			So(overflowed, ShouldBeFalse)
			So(tracker.Size(), ShouldEqual, 5)
		})

		Convey("A sub-out for an unknown player is ignored", func() {
			tracker.SubOut(99)
			So(tracker.Size(), ShouldEqual, 5)
		})

		Convey("Snapshot returns a sorted lineup", func() {
			tracker.SubOut(10)
			tracker.SubIn(5)
			So(tracker.Snapshot(), ShouldResemble, store.Lineup{5, 20, 30, 40, 50})
		})

		Convey("Snapshot is detached from tracker state", func() {
			snap := tracker.Snapshot()
			tracker.SubOut(10)
			tracker.SubIn(60)
			So(snap, ShouldResemble, store.Lineup{10, 20, 30, 40, 50})
		})
	})
}

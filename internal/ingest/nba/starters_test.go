package nba

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolveStarters(t *testing.T) {
	Convey("Given a box score", t, func() {
		Convey("Exactly five flagged players are trusted", func() {
			box := &BoxScore{Players: []BoxPlayer{
				{PersonID: 1, Starter: true},
				{PersonID: 2, Starter: true},
				{PersonID: 3, Position: "C"},
				{PersonID: 4, Starter: true},
				{PersonID: 5, Position: "G"},
				{PersonID: 6},
				{PersonID: 7},
			}}
			starters, fallback, err := ResolveStarters(box)
			So(err, ShouldBeNil)
			So(fallback, ShouldBeFalse)
			So(starters, ShouldResemble, []int{1, 2, 3, 4, 5})
		})

		Convey("No flags falls back to the five highest-minute players", func() {
			box := &BoxScore{Players: []BoxPlayer{
				{PersonID: 1, Minutes: 34},
				{PersonID: 2, Minutes: 12},
				{PersonID: 3, Minutes: 36},
				{PersonID: 4, Minutes: 28},
				{PersonID: 5, Minutes: 31},
				{PersonID: 6, Minutes: 30},
			}}
			starters, fallback, err := ResolveStarters(box)
			So(err, ShouldBeNil)
			So(fallback, ShouldBeTrue)
			So(starters, ShouldResemble, []int{3, 1, 5, 6, 4})
		})

		Convey("More than five flagged players also falls back to minutes", func() {
			box := &BoxScore{Players: []BoxPlayer{
				{PersonID: 1, Starter: true, Minutes: 30},
				{PersonID: 2, Starter: true, Minutes: 29},
				{PersonID: 3, Starter: true, Minutes: 28},
				{PersonID: 4, Starter: true, Minutes: 27},
				{PersonID: 5, Starter: true, Minutes: 26},
				{PersonID: 6, Position: "F", Minutes: 10},
			}}
			starters, fallback, err := ResolveStarters(box)
			So(err, ShouldBeNil)
			So(fallback, ShouldBeTrue)
			So(starters, ShouldResemble, []int{1, 2, 3, 4, 5})
		})

		Convey("Fewer than five players is unattributable", func() {
			box := &BoxScore{Players: []BoxPlayer{
				{PersonID: 1}, {PersonID: 2}, {PersonID: 3},
			}}
			_, _, err := ResolveStarters(box)
			So(err, ShouldNotBeNil)
		})
	})
}

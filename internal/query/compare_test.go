package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given a snapshot and an off filter", t, func() {
		snap := testSnapshot()
		deltas := Compare(snap, Filter{Off: []int{1}})

		Convey("Each delta is primary minus the with-them baseline", func() {
			byPlayer := map[int]RateDelta{}
			for _, d := range deltas {
				byPlayer[d.PlayerID] = d
			}

			d2 := byPlayer[2]
			So(d2.BaselineMinutes, ShouldAlmostEqual, 10)
			So(d2.Minutes, ShouldAlmostEqual, -2)  // 8 without vs 10 with
			So(d2.Points, ShouldAlmostEqual, -7.2) // scored only alongside player 1
		})

		Convey("The off player never appears in the comparison", func() {
			for _, d := range deltas {
				So(d.PlayerID, ShouldNotEqual, 1)
			}
		})

		Convey("A player absent from the baseline is omitted, not zero-filled", func() {
			for _, d := range deltas {
				So(d.PlayerID, ShouldNotEqual, 6) // never shared the floor with 1
			}
			So(len(deltas), ShouldEqual, 4)
		})

		Convey("Rows rank by baseline floor time", func() {
			for i := 1; i < len(deltas); i++ {
				So(deltas[i].BaselineMinutes, ShouldBeLessThanOrEqualTo, deltas[i-1].BaselineMinutes)
			}
		})
	})

	Convey("Compare without an off filter returns nothing", t, func() {
		snap := testSnapshot()
		So(Compare(snap, Filter{On: []int{1}}), ShouldBeNil)
	})
}

package nba

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClockNormalizer(t *testing.T) {
	Convey("Given a clock normalizer at tip-off", t, func() {
		clock := NewClockNormalizer()

		Convey("The first action of period 1 measures from 12:00", func() {
			elapsed, clamped := clock.Advance(1, "11:40")
			So(clamped, ShouldBeFalse)
			So(elapsed, ShouldEqual, 20)
		})

		Convey("Consecutive actions measure between clock readings", func() {
			clock.Advance(1, "11:40")
			elapsed, clamped := clock.Advance(1, "11:25")
			So(clamped, ShouldBeFalse)
			So(elapsed, ShouldEqual, 15)
		})

		Convey("ISO duration clocks parse the same as MM:SS", func() {
			elapsed, clamped := clock.Advance(1, "PT11M22.00S")
			So(clamped, ShouldBeFalse)
			So(elapsed, ShouldEqual, 38)
		})

		Convey("A regulation period boundary resets to 720 seconds", func() {
			clock.Advance(1, "0:03")
			elapsed, clamped := clock.Advance(2, "11:50")
			So(clamped, ShouldBeFalse)
			So(elapsed, ShouldEqual, 10)
		})

		Convey("An overtime period boundary resets to 300 seconds", func() {
			clock.Advance(4, "0:00")
			elapsed, clamped := clock.Advance(5, "4:45")
			So(clamped, ShouldBeFalse)
			So(elapsed, ShouldEqual, 15)
		})

		Convey("A negative delta is clamped to zero", func() {
			clock.Advance(1, "10:00")
			elapsed, clamped := clock.Advance(1, "11:00")
			So(clamped, ShouldBeTrue)
			So(elapsed, ShouldEqual, 0)
		})

		Convey("A delta above 120 seconds is clamped to zero", func() {
			clock.Advance(1, "11:00")
			elapsed, clamped := clock.Advance(1, "7:00")
			So(clamped, ShouldBeTrue)
			So(elapsed, ShouldEqual, 0)
		})

		Convey("An unparseable clock yields zero without flagging or corrupting state", func() {
			clock.Advance(1, "11:00")
			elapsed, clamped := clock.Advance(1, "garbage")
			So(clamped, ShouldBeFalse)
			So(elapsed, ShouldEqual, 0)

			elapsed, clamped = clock.Advance(1, "10:30")
			So(clamped, ShouldBeFalse)
			So(elapsed, ShouldEqual, 30)
		})
	})
}

func TestParseClock(t *testing.T) {
	Convey("parseClock handles both feed formats", t, func() {
		cases := []struct {
			in   string
			want float64
			ok   bool
		}{
			{"12:00", 720, true},
			{"0:37", 37, true},
			{"PT11M22.00S", 682, true},
			{"PT0M5.30S", 5.3, true},
			{"", 0, false},
			{"nonsense", 0, false},
		}
		for _, c := range cases {
			got, ok := parseClock(c.in)
			So(ok, ShouldEqual, c.ok)
			if c.ok {
				So(got, ShouldAlmostEqual, c.want, 0.001)
			}
		}
	})
}

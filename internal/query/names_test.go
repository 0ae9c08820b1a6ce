package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fortuna/oncourt/internal/store"
)

func TestResolvePlayer(t *testing.T) {
	Convey("Given a roster", t, func() {
		roster := []store.RosterEntry{
			{PlayerID: 1, Name: "Anthony Edwards"},
			{PlayerID: 2, Name: "Rudy Gobert"},
			{PlayerID: 3, Name: "Jaden McDaniels"},
			{PlayerID: 4, Name: "Julius Randle"},
		}

		Convey("Exact matches are case-insensitive", func() {
			id, err := ResolvePlayer(roster, "rudy gobert")
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 2)
		})

		Convey("Substring matches resolve partial names", func() {
			id, err := ResolvePlayer(roster, "gobert")
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 2)
		})

		Convey("An exact match wins over an earlier substring match", func() {
			withDup := append([]store.RosterEntry{{PlayerID: 9, Name: "Rudy Gobert Jr"}}, roster...)
			id, err := ResolvePlayer(withDup, "Rudy Gobert")
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 2)
		})

		Convey("Unknown names report ErrPlayerNotFound", func() {
			_, err := ResolvePlayer(roster, "Karl-Anthony Towns")
			So(err, ShouldWrap, ErrPlayerNotFound)
		})

		Convey("Empty names report ErrPlayerNotFound", func() {
			_, err := ResolvePlayer(roster, "   ")
			So(err, ShouldWrap, ErrPlayerNotFound)
		})

		Convey("ResolvePlayers fails on the first unknown name", func() {
			_, err := ResolvePlayers(roster, []string{"Edwards", "Nobody"})
			So(err, ShouldWrap, ErrPlayerNotFound)

			ids, err := ResolvePlayers(roster, []string{"Edwards", "McDaniels"})
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []int{1, 3})
		})
	})
}

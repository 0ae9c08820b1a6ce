package nba

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fortuna/oncourt/internal/store"
)

type stubSource struct {
	schedule    []string
	scheduleErr error
	actions     map[string][]Action
	actionsErr  map[string]error
	boxes       map[string]*BoxScore
}

func (s *stubSource) Schedule(ctx context.Context, teamID int, season string) ([]string, error) {
	return s.schedule, s.scheduleErr
}

func (s *stubSource) PlayByPlay(ctx context.Context, gameID string) ([]Action, error) {
	if err := s.actionsErr[gameID]; err != nil {
		return nil, err
	}
	return s.actions[gameID], nil
}

func (s *stubSource) BoxScore(ctx context.Context, gameID string, teamID int) (*BoxScore, error) {
	box, ok := s.boxes[gameID]
	if !ok {
		return nil, fmt.Errorf("no box score for %s", gameID)
	}
	return box, nil
}

func testBox() *BoxScore {
	return &BoxScore{
		TeamID: 1610612750,
		Players: []BoxPlayer{
			{PersonID: 1, Name: "Alpha One", Position: "G", Starter: true},
			{PersonID: 2, Name: "Bravo Two", Position: "G", Starter: true},
			{PersonID: 3, Name: "Charlie Three", Position: "F", Starter: true},
			{PersonID: 4, Name: "Delta Four", Position: "F", Starter: true},
			{PersonID: 5, Name: "Echo Five", Position: "C", Starter: true},
			{PersonID: 6, Name: "Foxtrot Six"},
		},
	}
}

// testGameActions yields 5 time events (120s each) plus one rebound.
func testGameActions() []Action {
	return []Action{
		{Period: 1, Clock: "10:00", ActionType: "rebound", Description: "rebound defensive", PersonID: 1, TeamID: 1610612750},
	}
}

func TestIngesterBuild(t *testing.T) {
	Convey("Given a source with a two-game schedule", t, func() {
		source := &stubSource{
			schedule: []string{"0022500001", "0022500002"},
			actions: map[string][]Action{
				"0022500001": testGameActions(),
				"0022500002": testGameActions(),
			},
			actionsErr: map[string]error{},
			boxes: map[string]*BoxScore{
				"0022500001": testBox(),
				"0022500002": testBox(),
			},
		}
		snapshots, err := store.NewFileStore(t.TempDir())
		So(err, ShouldBeNil)
		ingester := NewIngester(source, snapshots, nil)
		ctx := context.Background()

		Convey("Build persists a snapshot with events from every game", func() {
			snap, err := ingester.Build(ctx, "timberwolves", "2025-26", nil)
			So(err, ShouldBeNil)
			So(snap.Team, ShouldEqual, "Minnesota Timberwolves")
			So(snap.GamesProcessed, ShouldEqual, 2)
			So(len(snap.Events), ShouldEqual, 12)

			loaded, err := snapshots.Load(ctx, "Minnesota Timberwolves", "2025-26")
			So(err, ShouldBeNil)
			So(loaded.GamesProcessed, ShouldEqual, 2)
			So(len(loaded.Events), ShouldEqual, 12)

			Convey("The roster is rebuilt from floor time with box-score names", func() {
				So(len(snap.Roster), ShouldEqual, 5)
				names := map[int]string{}
				for _, entry := range snap.Roster {
					names[entry.PlayerID] = entry.Name
				}
				So(names[1], ShouldEqual, "Alpha One")
				So(names[5], ShouldEqual, "Echo Five")
			})
		})

		Convey("Build fails outright when the schedule cannot be fetched", func() {
			source.scheduleErr = fmt.Errorf("upstream down")
			_, err := ingester.Build(ctx, "timberwolves", "2025-26", nil)
			So(err, ShouldNotBeNil)

			_, err = snapshots.Load(ctx, "Minnesota Timberwolves", "2025-26")
			So(err, ShouldWrap, store.ErrNotBuilt)
		})

		Convey("A game that cannot be fetched is skipped, not fatal", func() {
			source.actionsErr["0022500002"] = fmt.Errorf("temporarily unavailable")
			snap, err := ingester.Build(ctx, "timberwolves", "2025-26", nil)
			So(err, ShouldBeNil)
			So(snap.GamesProcessed, ShouldEqual, 1)
			So(len(snap.Events), ShouldEqual, 6)
		})

		Convey("An unknown team never reaches the network", func() {
			_, err := ingester.Build(ctx, "the harlem globetrotters", "2025-26", nil)
			So(err, ShouldWrap, ErrUnknownTeam)
		})
	})
}

func TestIngesterUpdate(t *testing.T) {
	Convey("Given a built snapshot", t, func() {
		source := &stubSource{
			schedule: []string{"0022500001", "0022500002"},
			actions: map[string][]Action{
				"0022500001": testGameActions(),
				"0022500002": testGameActions(),
				"0022500003": testGameActions(),
			},
			actionsErr: map[string]error{},
			boxes: map[string]*BoxScore{
				"0022500001": testBox(),
				"0022500002": testBox(),
				"0022500003": testBox(),
			},
		}
		snapshots, err := store.NewFileStore(t.TempDir())
		So(err, ShouldBeNil)
		ingester := NewIngester(source, snapshots, nil)
		ctx := context.Background()

		built, err := ingester.Build(ctx, "timberwolves", "2025-26", nil)
		So(err, ShouldBeNil)

		Convey("Update with no new games leaves the event log unchanged", func() {
			updated, err := ingester.Update(ctx, "timberwolves", "2025-26", nil)
			So(err, ShouldBeNil)
			So(updated.GamesProcessed, ShouldEqual, built.GamesProcessed)
			So(updated.Events, ShouldResemble, built.Events)
			So(updated.Roster, ShouldResemble, built.Roster)
		})

		Convey("Update appends events for newly played games only", func() {
			source.schedule = append(source.schedule, "0022500003")
			updated, err := ingester.Update(ctx, "timberwolves", "2025-26", nil)
			So(err, ShouldBeNil)
			So(updated.GamesProcessed, ShouldEqual, 3)
			So(len(updated.Events), ShouldEqual, len(built.Events)+6)
			So(updated.Events[:len(built.Events)], ShouldResemble, built.Events)

			Convey("Re-running after the append is idempotent", func() {
				again, err := ingester.Update(ctx, "timberwolves", "2025-26", nil)
				So(err, ShouldBeNil)
				So(again.GamesProcessed, ShouldEqual, 3)
				So(again.Events, ShouldResemble, updated.Events)
			})
		})

		Convey("Update on an unbuilt team reports the missing snapshot", func() {
			_, err := ingester.Update(ctx, "lakers", "2025-26", nil)
			So(err, ShouldWrap, store.ErrNotBuilt)
		})
	})
}

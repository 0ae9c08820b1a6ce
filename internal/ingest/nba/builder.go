package nba

import (
	"fmt"
	"strings"

	"github.com/fortuna/oncourt/internal/anomaly"
	"github.com/fortuna/oncourt/internal/store"
)

// EventBuilder walks one game's action stream and emits immutable stat
// events tagged with the lineup active at each instant. Strictly
// sequential: lineup state carries a temporal ordering dependency, so one
// builder processes one game at a time.
type EventBuilder struct {
	team string
	mon  *anomaly.Monitor
}

// NewEventBuilder creates a builder for the named team. mon may be nil.
func NewEventBuilder(team string, mon *anomaly.Monitor) *EventBuilder {
	return &EventBuilder{team: team, mon: mon}
}

// BuildGame converts a game's chronological actions into stat events.
//
// Every interval of elapsed game clock fans out to one time-only event per
// on-court player, using the lineup in effect before the action. Counting
// stats attach to the acting player only while they are on court, with the
// lineup after any substitution already applied for the action.
func (b *EventBuilder) BuildGame(gameID string, teamID int, starters []int, actions []Action) ([]store.StatEvent, error) {
	tracker, err := NewLineupTracker(starters)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", gameID, err)
	}

	clock := NewClockNormalizer()
	var events []store.StatEvent

	for _, action := range actions {
		elapsed, clamped := clock.Advance(action.Period, action.Clock)
		if clamped {
			b.record(anomaly.KindClockDelta, gameID,
				fmt.Sprintf("implausible clock delta at period %d clock %q", action.Period, action.Clock))
		}

		if elapsed > 0 {
			lineup := tracker.Snapshot()
			for _, playerID := range lineup {
				events = append(events, store.StatEvent{
					PlayerID:    playerID,
					Lineup:      lineup,
					TimeSeconds: elapsed,
					GameID:      gameID,
				})
			}
		}

		if strings.Contains(action.ActionType, "substitution") {
			if action.TeamID == teamID && action.PersonID != 0 {
				switch action.SubType {
				case "in":
					if tracker.SubIn(action.PersonID) {
						b.record(anomaly.KindLineupOverflow, gameID,
							fmt.Sprintf("more than 5 on court after sub-in of %d, clamped to most recent 5", action.PersonID))
					}
				case "out":
					tracker.SubOut(action.PersonID)
				}
			}
			continue
		}

		lineup := tracker.Snapshot()
		made := strings.Contains(action.Description, "made") || action.ShotResult == "made"
		missed := strings.Contains(action.Description, "miss") || action.ShotResult == "missed"
		threePoint := strings.Contains(action.ActionType, "3pt") ||
			strings.Contains(action.Description, "3pt") ||
			strings.Contains(action.Description, "three")

		acting := action.PersonID != 0 && tracker.OnCourt(action.PersonID)

		switch {
		case acting && isFieldGoalAction(action.ActionType):
			var stats store.StatLine
			if made {
				stats.FGM = 1
				stats.FGA = 1
				if threePoint {
					stats.FG3M = 1
					stats.FG3A = 1
					stats.PTS = 3
				} else {
					stats.PTS = 2
				}
			} else if missed {
				stats.FGA = 1
				if threePoint {
					stats.FG3A = 1
				}
			}
			if !stats.IsZero() {
				events = append(events, store.StatEvent{
					PlayerID:   action.PersonID,
					Lineup:     lineup,
					Stats:      stats,
					IsTeamStat: true,
					GameID:     gameID,
				})
			}

		case acting && isFreeThrowAction(action):
			stats := store.StatLine{FTA: 1}
			if made {
				stats.FTM = 1
				stats.PTS = 1
			}
			events = append(events, store.StatEvent{
				PlayerID:   action.PersonID,
				Lineup:     lineup,
				Stats:      stats,
				IsTeamStat: true,
				GameID:     gameID,
			})

		case acting && strings.Contains(action.ActionType, "rebound"):
			events = append(events, store.StatEvent{
				PlayerID: action.PersonID,
				Lineup:   lineup,
				Stats:    store.StatLine{REB: 1},
				GameID:   gameID,
			})

		case acting && strings.Contains(action.ActionType, "turnover"):
			events = append(events, store.StatEvent{
				PlayerID:   action.PersonID,
				Lineup:     lineup,
				Stats:      store.StatLine{TOV: 1},
				IsTeamStat: true,
				GameID:     gameID,
			})
		}

		if made && action.AssistPersonID != 0 && tracker.OnCourt(action.AssistPersonID) {
			events = append(events, store.StatEvent{
				PlayerID: action.AssistPersonID,
				Lineup:   lineup,
				Stats:    store.StatLine{AST: 1},
				GameID:   gameID,
			})
		}
	}

	return events, nil
}

func (b *EventBuilder) record(kind anomaly.Kind, gameID, detail string) {
	if b.mon != nil {
		b.mon.Record(kind, b.team, gameID, detail)
	}
}

func isFieldGoalAction(actionType string) bool {
	for _, marker := range []string{"2pt", "3pt", "dunk", "layup", "shot"} {
		if strings.Contains(actionType, marker) {
			return true
		}
	}
	return false
}

func isFreeThrowAction(action Action) bool {
	return strings.Contains(action.ActionType, "freethrow") ||
		strings.Contains(action.Description, "free throw")
}

package nba

import (
	"fmt"
	"sort"

	"github.com/fortuna/oncourt/internal/store"
)

// LineupTracker holds the five on-court player IDs for one team and applies
// substitution actions in order. Membership is kept in sub-in order so an
// overflow can be clamped to the five most recently added players.
type LineupTracker struct {
	onCourt []int
}

// NewLineupTracker seeds the tracker with the starting five. A game whose
// starters cannot be resolved to exactly five players must not be tracked.
func NewLineupTracker(starters []int) (*LineupTracker, error) {
	if len(starters) != 5 {
		return nil, fmt.Errorf("need exactly 5 starters, got %d", len(starters))
	}
	onCourt := make([]int, 5)
	copy(onCourt, starters)
	return &LineupTracker{onCourt: onCourt}, nil
}

// SubIn adds a player. overflowed is true when the feed left more than five
// players on court and the tracker clamped back to the five most recently
// added; one bad substitution record should not invalidate the whole game.
func (t *LineupTracker) SubIn(playerID int) (overflowed bool) {
	if !t.OnCourt(playerID) {
		t.onCourt = append(t.onCourt, playerID)
	}
	if len(t.onCourt) > 5 {
		t.onCourt = t.onCourt[len(t.onCourt)-5:]
		return true
	}
	return false
}

// SubOut removes a player if present. A sub-out for a player the tracker
// does not know about is ignored, matching the feed's occasional missed
// sub-in records.
func (t *LineupTracker) SubOut(playerID int) {
	for i, id := range t.onCourt {
		if id == playerID {
			t.onCourt = append(t.onCourt[:i], t.onCourt[i+1:]...)
			return
		}
	}
}

// OnCourt reports whether the player is currently on the floor.
func (t *LineupTracker) OnCourt(playerID int) bool {
	for _, id := range t.onCourt {
		if id == playerID {
			return true
		}
	}
	return false
}

// Size returns the current on-court count. It can transiently drop below 5
// between a sub-out and the matching sub-in.
func (t *LineupTracker) Size() int {
	return len(t.onCourt)
}

// Players returns the current on-court IDs in sub-in order.
func (t *LineupTracker) Players() []int {
	out := make([]int, len(t.onCourt))
	copy(out, t.onCourt)
	return out
}

// Snapshot returns the current lineup as an immutable sorted set value.
func (t *LineupTracker) Snapshot() store.Lineup {
	snap := make(store.Lineup, len(t.onCourt))
	copy(snap, t.onCourt)
	sort.Ints(snap)
	return snap
}

package nba

import (
	"fmt"
	"sort"

	"github.com/fortuna/oncourt/internal/store"
)

// playerMeta is box-score identity metadata keyed by player ID.
type playerMeta struct {
	name     string
	position string
}

// BuildRoster derives the roster from the event log itself: every player
// with recorded floor time appears, ordered by cumulative seconds played
// descending. Players missing from meta (rare feed gaps) get a
// placeholder name so queries can still reference them by ID.
func BuildRoster(events []store.StatEvent, meta map[int]playerMeta) []store.RosterEntry {
	seconds := make(map[int]float64)
	var order []int
	for _, ev := range events {
		if ev.TimeSeconds <= 0 {
			continue
		}
		if _, seen := seconds[ev.PlayerID]; !seen {
			order = append(order, ev.PlayerID)
		}
		seconds[ev.PlayerID] += ev.TimeSeconds
	}

	sort.SliceStable(order, func(i, j int) bool {
		return seconds[order[i]] > seconds[order[j]]
	})

	roster := make([]store.RosterEntry, 0, len(order))
	for _, id := range order {
		entry := store.RosterEntry{PlayerID: id}
		if m, ok := meta[id]; ok {
			entry.Name = m.name
			entry.Position = m.position
		}
		if entry.Name == "" {
			entry.Name = fmt.Sprintf("Unknown-%d", id)
		}
		roster = append(roster, entry)
	}
	return roster
}

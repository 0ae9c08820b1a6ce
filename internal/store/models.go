package store

import (
	"sort"
	"time"
)

// Lineup is the set of exactly five players on the court for one team at a
// given instant. It is kept sorted so that snapshots of the same five
// players compare equal and membership tests stay cheap.
type Lineup []int

// NewLineup copies and sorts the given player IDs into a Lineup.
func NewLineup(playerIDs []int) Lineup {
	l := make(Lineup, len(playerIDs))
	copy(l, playerIDs)
	sort.Ints(l)
	return l
}

// Has reports whether playerID is part of the lineup.
func (l Lineup) Has(playerID int) bool {
	for _, id := range l {
		if id == playerID {
			return true
		}
	}
	return false
}

// HasAll reports whether every given player is part of the lineup.
func (l Lineup) HasAll(playerIDs []int) bool {
	for _, id := range playerIDs {
		if !l.Has(id) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one of the given players is part of the
// lineup.
func (l Lineup) HasAny(playerIDs []int) bool {
	for _, id := range playerIDs {
		if l.Has(id) {
			return true
		}
	}
	return false
}

// StatLine is the fixed set of counting stats an event can carry. Zero
// fields are omitted from JSON so the serialized form stays a sparse
// stat-name -> value object.
type StatLine struct {
	FGM  int `json:"FGM,omitempty"`
	FGA  int `json:"FGA,omitempty"`
	FG3M int `json:"FG3M,omitempty"`
	FG3A int `json:"FG3A,omitempty"`
	FTM  int `json:"FTM,omitempty"`
	FTA  int `json:"FTA,omitempty"`
	PTS  int `json:"PTS,omitempty"`
	REB  int `json:"REB,omitempty"`
	AST  int `json:"AST,omitempty"`
	TOV  int `json:"TOV,omitempty"`
}

// IsZero reports whether no stat is set.
func (s StatLine) IsZero() bool {
	return s == StatLine{}
}

// Add accumulates another stat line into this one.
func (s *StatLine) Add(other StatLine) {
	s.FGM += other.FGM
	s.FGA += other.FGA
	s.FG3M += other.FG3M
	s.FG3A += other.FG3A
	s.FTM += other.FTM
	s.FTA += other.FTA
	s.PTS += other.PTS
	s.REB += other.REB
	s.AST += other.AST
	s.TOV += other.TOV
}

// StatEvent attributes a floor-time interval or a counting statistic to one
// player and the lineup active at that instant. Events are appended once at
// build time and never mutated afterwards.
type StatEvent struct {
	PlayerID    int      `json:"player_id"`
	Lineup      Lineup   `json:"lineup"`
	Stats       StatLine `json:"stats"`
	TimeSeconds float64  `json:"time"`
	IsTeamStat  bool     `json:"is_team_stat"`
	GameID      string   `json:"game_id"`
}

// RosterEntry identifies one player who accrued floor time for the team
// this season. Rebuilt wholesale from the event log on every build/update
// so trades in either direction are reflected without manual edits.
type RosterEntry struct {
	PlayerID int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"pos"`
}

// Snapshot is the persisted event log for one (team, season). A snapshot is
// replaced atomically on build/update and never mutated in place.
type Snapshot struct {
	Team           string        `json:"team"`
	TeamID         int           `json:"team_id"`
	Season         string        `json:"season"`
	GamesProcessed int           `json:"games_processed"`
	BuiltAt        time.Time     `json:"built_at"`
	Roster         []RosterEntry `json:"roster"`
	Events         []StatEvent   `json:"events"`
}

// GameIDs returns the distinct game identifiers represented in the event
// log, in first-seen order.
func (s *Snapshot) GameIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, ev := range s.Events {
		if ev.GameID != "" && !seen[ev.GameID] {
			seen[ev.GameID] = true
			ids = append(ids, ev.GameID)
		}
	}
	return ids
}

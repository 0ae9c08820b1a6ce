package nba

// Action is one normalized play-by-play record. String fields are
// lowercased at parse time so classification is a plain substring check.
type Action struct {
	Period         int
	Clock          string
	ActionType     string
	SubType        string
	Description    string
	ShotResult     string
	PersonID       int
	AssistPersonID int
	TeamID         int
}

// BoxPlayer is one player's box-score record for a single game.
type BoxPlayer struct {
	PersonID int
	Name     string
	Position string
	Starter  bool
	Minutes  float64
}

// BoxScore holds the one team's side of a game box score that matters for
// starter resolution and roster naming.
type BoxScore struct {
	TeamID  int
	Players []BoxPlayer
}

package nba

import (
	"fmt"
	"sort"
)

// ResolveStarters determines the starting five from a box score.
//
// Explicit starter flags are trusted when they resolve to exactly five
// players (the feed marks starters with a flag or by giving only starters
// a position). Otherwise the five players with the most recorded minutes
// are used; that heuristic is a best-effort guess at unclear upstream
// data, so fallback is true when it was taken. Fewer than five candidates
// means the game cannot be attributed and must be skipped.
func ResolveStarters(box *BoxScore) (starters []int, fallback bool, err error) {
	var flagged []int
	for _, p := range box.Players {
		if p.Starter || p.Position != "" {
			flagged = append(flagged, p.PersonID)
		}
	}
	if len(flagged) == 5 {
		return flagged, false, nil
	}

	if len(box.Players) < 5 {
		return nil, false, fmt.Errorf("only %d players in box score", len(box.Players))
	}

	byMinutes := make([]BoxPlayer, len(box.Players))
	copy(byMinutes, box.Players)
	sort.SliceStable(byMinutes, func(i, j int) bool {
		return byMinutes[i].Minutes > byMinutes[j].Minutes
	})

	starters = make([]int, 5)
	for i := 0; i < 5; i++ {
		starters[i] = byMinutes[i].PersonID
	}
	return starters, true, nil
}

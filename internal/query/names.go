package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/oncourt/internal/store"
)

// ErrPlayerNotFound means a name resolved to no roster player.
var ErrPlayerNotFound = errors.New("player not found")

// ResolvePlayer maps a human-entered name to a roster player ID. Exact
// case-insensitive match wins; otherwise the first roster player whose
// name contains the input as a substring, so "gobert" finds Rudy Gobert.
func ResolvePlayer(roster []store.RosterEntry, name string) (int, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return 0, fmt.Errorf("%w: empty name", ErrPlayerNotFound)
	}

	for _, entry := range roster {
		if strings.ToLower(entry.Name) == needle {
			return entry.PlayerID, nil
		}
	}
	for _, entry := range roster {
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			return entry.PlayerID, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
}

// ResolvePlayers resolves a list of names, failing on the first miss.
func ResolvePlayers(roster []store.RosterEntry, names []string) ([]int, error) {
	if len(names) == 0 {
		return nil, nil
	}
	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, err := ResolvePlayer(roster, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

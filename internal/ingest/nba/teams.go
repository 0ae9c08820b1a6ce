package nba

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTeam means a name matched no NBA franchise.
var ErrUnknownTeam = errors.New("unknown team")

// Team is one NBA franchise. The numeric IDs are the league's stable
// franchise identifiers used by both the schedule and liveData endpoints.
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var franchises = []Team{
	{1610612737, "Atlanta Hawks"},
	{1610612738, "Boston Celtics"},
	{1610612751, "Brooklyn Nets"},
	{1610612766, "Charlotte Hornets"},
	{1610612741, "Chicago Bulls"},
	{1610612739, "Cleveland Cavaliers"},
	{1610612742, "Dallas Mavericks"},
	{1610612743, "Denver Nuggets"},
	{1610612765, "Detroit Pistons"},
	{1610612744, "Golden State Warriors"},
	{1610612745, "Houston Rockets"},
	{1610612754, "Indiana Pacers"},
	{1610612746, "Los Angeles Clippers"},
	{1610612747, "Los Angeles Lakers"},
	{1610612763, "Memphis Grizzlies"},
	{1610612748, "Miami Heat"},
	{1610612749, "Milwaukee Bucks"},
	{1610612750, "Minnesota Timberwolves"},
	{1610612740, "New Orleans Pelicans"},
	{1610612752, "New York Knicks"},
	{1610612760, "Oklahoma City Thunder"},
	{1610612753, "Orlando Magic"},
	{1610612755, "Philadelphia 76ers"},
	{1610612756, "Phoenix Suns"},
	{1610612757, "Portland Trail Blazers"},
	{1610612758, "Sacramento Kings"},
	{1610612759, "San Antonio Spurs"},
	{1610612761, "Toronto Raptors"},
	{1610612762, "Utah Jazz"},
	{1610612764, "Washington Wizards"},
}

// Teams returns every NBA franchise.
func Teams() []Team {
	out := make([]Team, len(franchises))
	copy(out, franchises)
	return out
}

// LookupTeam resolves a team by case-insensitive substring match against
// the franchise name, so "timberwolves" and "Minnesota Timberwolves" both
// work.
func LookupTeam(name string) (Team, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Team{}, fmt.Errorf("%w: empty name", ErrUnknownTeam)
	}
	for _, t := range franchises {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			return t, nil
		}
	}
	return Team{}, fmt.Errorf("%w: %s", ErrUnknownTeam, name)
}

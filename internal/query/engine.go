// Package query answers on/off lineup questions against a built snapshot.
// Filtering is pure set membership over each event's lineup, so arbitrary
// on/off combinations compose without any precomputed splits.
package query

import (
	"sort"

	"github.com/fortuna/oncourt/internal/store"
)

// MinQualifyingMinutes suppresses players below this floor-time threshold;
// smaller samples produce junk per-36 rates.
const MinQualifyingMinutes = 5.0

// Filter restricts aggregation to events whose lineup contains every On
// player and none of the Off players.
type Filter struct {
	On  []int `json:"on,omitempty"`
	Off []int `json:"off,omitempty"`
}

// PlayerRates holds one player's per-36 normalized production under a
// filter. Minutes and the shooting percentages are raw, everything else is
// rate-normalized.
type PlayerRates struct {
	PlayerID  int     `json:"player_id"`
	Name      string  `json:"name"`
	Minutes   float64 `json:"min"`
	Usage     float64 `json:"usg"`
	Points    float64 `json:"pts"`
	Rebounds  float64 `json:"reb"`
	Assists   float64 `json:"ast"`
	FG3M      float64 `json:"fg3m"`
	FG3A      float64 `json:"fg3a"`
	FG3Pct    float64 `json:"fg3_pct"`
	FGM       float64 `json:"fgm"`
	FGA       float64 `json:"fga"`
	FGPct     float64 `json:"fg_pct"`
	Turnovers float64 `json:"tov"`
	PRA       float64 `json:"pra"`
	PR        float64 `json:"pr"`
	PA        float64 `json:"pa"`
}

type possessionInputs struct {
	fga float64
	fta float64
	tov float64
}

// Aggregate filters the snapshot's event log and derives per-player rates.
// Results are ordered by minutes descending; ties keep roster order.
// Players named in the Off filter never appear.
func Aggregate(snap *store.Snapshot, f Filter) []PlayerRates {
	offIDs := toSet(f.Off)

	playerTime := make(map[int]float64)
	playerStats := make(map[int]store.StatLine)
	teamPoss := make(map[int]possessionInputs)

	for _, ev := range snap.Events {
		if !ev.Lineup.HasAll(f.On) {
			continue
		}
		if ev.Lineup.HasAny(f.Off) {
			continue
		}

		playerTime[ev.PlayerID] += ev.TimeSeconds

		line := playerStats[ev.PlayerID]
		line.Add(ev.Stats)
		playerStats[ev.PlayerID] = line

		// Team possession inputs are charged to everyone sharing the
		// floor; they form the usage-rate denominator.
		if ev.IsTeamStat {
			for _, onCourt := range ev.Lineup {
				poss := teamPoss[onCourt]
				poss.fga += float64(ev.Stats.FGA)
				poss.fta += float64(ev.Stats.FTA)
				poss.tov += float64(ev.Stats.TOV)
				teamPoss[onCourt] = poss
			}
		}
	}

	var results []PlayerRates
	for _, entry := range snap.Roster {
		pid := entry.PlayerID
		if offIDs[pid] {
			continue
		}

		mins := playerTime[pid] / 60
		if mins < MinQualifyingMinutes {
			continue
		}

		stats := playerStats[pid]
		mult := 36 / mins

		fgm := float64(stats.FGM)
		fga := float64(stats.FGA)
		fg3m := float64(stats.FG3M)
		fg3a := float64(stats.FG3A)
		fta := float64(stats.FTA)
		tov := float64(stats.TOV)
		pts := float64(stats.PTS)
		reb := float64(stats.REB)
		ast := float64(stats.AST)

		results = append(results, PlayerRates{
			PlayerID:  pid,
			Name:      entry.Name,
			Minutes:   mins,
			Usage:     usageRate(fga, fta, tov, teamPoss[pid]),
			Points:    pts * mult,
			Rebounds:  reb * mult,
			Assists:   ast * mult,
			FG3M:      fg3m * mult,
			FG3A:      fg3a * mult,
			FG3Pct:    pct(fg3m, fg3a),
			FGM:       fgm * mult,
			FGA:       fga * mult,
			FGPct:     pct(fgm, fga),
			Turnovers: tov * mult,
			PRA:       (pts + reb + ast) * mult,
			PR:        (pts + reb) * mult,
			PA:        (pts + ast) * mult,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Minutes > results[j].Minutes
	})
	return results
}

// usageRate is the share of team possessions a player consumed while on
// court: 100 × (FGA + 0.44×FTA + TOV) / (team FGA + 0.44×team FTA + team TOV).
// Zero when the denominator is zero.
func usageRate(fga, fta, tov float64, team possessionInputs) float64 {
	denom := team.fga + 0.44*team.fta + team.tov
	if denom == 0 {
		return 0
	}
	return 100 * (fga + 0.44*fta + tov) / denom
}

func pct(made, attempted float64) float64 {
	if attempted == 0 {
		return 0
	}
	return made / attempted * 100
}

func toSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

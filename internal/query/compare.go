package query

import (
	"sort"

	"github.com/fortuna/oncourt/internal/store"
)

// maxComparisonRows caps the comparison output at the teammates with the
// most baseline floor time.
const maxComparisonRows = 10

// RateDelta is the signed change in one teammate's rates between the
// primary filter and the baseline where the off players are on court
// instead. BaselineMinutes ranks the rows; every other field is
// primary minus baseline.
type RateDelta struct {
	PlayerID        int     `json:"player_id"`
	Name            string  `json:"name"`
	BaselineMinutes float64 `json:"baseline_min"`
	Minutes         float64 `json:"min"`
	Usage           float64 `json:"usg"`
	Points          float64 `json:"pts"`
	Rebounds        float64 `json:"reb"`
	Assists         float64 `json:"ast"`
	FG3M            float64 `json:"fg3m"`
	FG3Pct          float64 `json:"fg3_pct"`
	FGPct           float64 `json:"fg_pct"`
	Turnovers       float64 `json:"tov"`
	PRA             float64 `json:"pra"`
}

// Compare contrasts an off-filtered query against its with-them baseline:
// the same On requirement, plus the Off players required on court. Only
// players qualifying under both conditions produce a row; a player absent
// from either side is omitted rather than zero-filled. Returns nil when
// the filter has no Off component, since primary and baseline would be
// identical.
func Compare(snap *store.Snapshot, f Filter) []RateDelta {
	if len(f.Off) == 0 {
		return nil
	}

	primary := Aggregate(snap, f)

	baselineOn := make([]int, 0, len(f.On)+len(f.Off))
	baselineOn = append(baselineOn, f.On...)
	baselineOn = append(baselineOn, f.Off...)
	baseline := Aggregate(snap, Filter{On: baselineOn})

	baseByID := make(map[int]PlayerRates, len(baseline))
	for _, r := range baseline {
		baseByID[r.PlayerID] = r
	}

	offIDs := toSet(f.Off)

	var deltas []RateDelta
	for _, p := range primary {
		if offIDs[p.PlayerID] {
			continue
		}
		b, ok := baseByID[p.PlayerID]
		if !ok {
			continue
		}
		deltas = append(deltas, RateDelta{
			PlayerID:        p.PlayerID,
			Name:            p.Name,
			BaselineMinutes: b.Minutes,
			Minutes:         p.Minutes - b.Minutes,
			Usage:           p.Usage - b.Usage,
			Points:          p.Points - b.Points,
			Rebounds:        p.Rebounds - b.Rebounds,
			Assists:         p.Assists - b.Assists,
			FG3M:            p.FG3M - b.FG3M,
			FG3Pct:          p.FG3Pct - b.FG3Pct,
			FGPct:           p.FGPct - b.FGPct,
			Turnovers:       p.Turnovers - b.Turnovers,
			PRA:             p.PRA - b.PRA,
		})
	}

	sort.SliceStable(deltas, func(i, j int) bool {
		return deltas[i].BaselineMinutes > deltas[j].BaselineMinutes
	})
	if len(deltas) > maxComparisonRows {
		deltas = deltas[:maxComparisonRows]
	}
	return deltas
}

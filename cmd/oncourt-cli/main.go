// Command oncourt-cli builds, updates, and queries lineup snapshots from
// the terminal, without running the daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/fortuna/oncourt/internal/ingest/nba"
	"github.com/fortuna/oncourt/internal/query"
	"github.com/fortuna/oncourt/internal/store"
)

const (
	appName    = "oncourt-cli"
	appVersion = "1.0.0"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	var on, off stringList
	var (
		build       = flag.Bool("build", false, "Build the snapshot from scratch (full season fetch)")
		update      = flag.Bool("update", false, "Update the snapshot with games played since the last run")
		all         = flag.Bool("all", false, "Show unfiltered team rates")
		team        = flag.String("team", "Minnesota Timberwolves", "Team name (substring match)")
		season      = flag.String("season", "2025-26", "Season, e.g. 2025-26")
		dir         = flag.String("dir", "data", "Snapshot directory")
		concurrency = flag.Int("concurrency", 1, "Parallel game fetches during build/update")
	)
	flag.Var(&on, "on", "Player who must be ON court (repeatable)")
	flag.Var(&off, "out", "Player who must be OFF court (repeatable)")
	flag.Parse()

	snapshots, err := store.NewFileStore(*dir)
	if err != nil {
		log.Fatalf("open snapshot dir: %v", err)
	}

	ctx := context.Background()

	switch {
	case *build, *update:
		ingester := nba.NewIngester(nba.NewClient(), snapshots, nil)
		ingester.SetConcurrency(*concurrency)

		progress := func(gameID string, index, total int, ok bool) {
			mark := "✓"
			if !ok {
				mark = "✗"
			}
			log.Printf("  %s game %s (%d remaining)", mark, gameID, total-index-1)
		}

		var snap *store.Snapshot
		if *build {
			snap, err = ingester.Build(ctx, *team, *season, progress)
		} else {
			snap, err = ingester.Update(ctx, *team, *season, progress)
		}
		if err != nil {
			log.Fatalf("ingestion failed: %v", err)
		}
		log.Printf("✓ %s %s: %d games, %d events, %d roster players",
			snap.Team, snap.Season, snap.GamesProcessed, len(snap.Events), len(snap.Roster))

	case *all, len(on) > 0, len(off) > 0:
		svc := query.NewService(snapshots, nil)
		result, err := svc.Query(ctx, query.Request{
			Team:   *team,
			Season: *season,
			On:     on,
			Off:    off,
		})
		if err != nil {
			log.Fatalf("query failed: %v", err)
		}
		printResult(result, on, off)

	default:
		fmt.Printf("%s v%s - lineup on/off stats\n\n", appName, appVersion)
		fmt.Println("Usage:")
		fmt.Println("  oncourt-cli --build --team \"Minnesota Timberwolves\"   # first run")
		fmt.Println("  oncourt-cli --update                                    # daily refresh")
		fmt.Println("  oncourt-cli --all                                       # unfiltered rates")
		fmt.Println("  oncourt-cli --on \"Gobert\" --out \"Edwards\"           # on/off combo")
	}
}

func printResult(result *query.Result, on, off []string) {
	var parts []string
	if len(on) > 0 {
		parts = append(parts, fmt.Sprintf("%s ON", strings.Join(on, ", ")))
	}
	if len(off) > 0 {
		parts = append(parts, fmt.Sprintf("%s OFF", strings.Join(off, ", ")))
	}
	filterText := "ALL PLAYERS (no filter)"
	if len(parts) > 0 {
		filterText = strings.Join(parts, " + ")
	}

	line := strings.Repeat("=", 130)
	fmt.Println()
	fmt.Println(line)
	fmt.Printf("  %s: %s\n", strings.ToUpper(result.Team), filterText)
	fmt.Printf("  %s | %d games\n", result.Season, result.GamesProcessed)
	fmt.Println(line)

	fmt.Printf("\n%-22s %-7s %-7s %-7s %-7s %-7s %-6s %-6s %-7s %-6s %-6s %-7s %-6s %-7s\n",
		"PLAYER", "MIN", "USG%", "PTS", "REB", "AST", "3PM", "3PA", "3P%", "FGM", "FGA", "FG%", "TOV", "PRA")
	fmt.Println(strings.Repeat("-", 130))

	for _, p := range result.Players {
		fmt.Printf("%-22s %-7.0f %-7.1f %-7.1f %-7.1f %-7.1f %-6.1f %-6.1f %-7.1f %-6.1f %-6.1f %-7.1f %-6.1f %-7.1f\n",
			p.Name, p.Minutes, p.Usage, p.Points, p.Rebounds, p.Assists,
			p.FG3M, p.FG3A, p.FG3Pct, p.FGM, p.FGA, p.FGPct, p.Turnovers, p.PRA)
	}

	if len(result.Comparison) > 0 {
		fmt.Println()
		fmt.Printf("  CHANGE vs WITH %s (positive = better without)\n", strings.Join(off, ", "))
		fmt.Println(strings.Repeat("-", 130))
		fmt.Printf("%-22s %-9s %-8s %-8s %-8s %-8s %-8s %-8s %-8s\n",
			"PLAYER", "BASE MIN", "USG%", "PTS", "REB", "AST", "3P%", "FG%", "PRA")
		for _, d := range result.Comparison {
			fmt.Printf("%-22s %-9.0f %+-8.1f %+-8.1f %+-8.1f %+-8.1f %+-8.1f %+-8.1f %+-8.1f\n",
				d.Name, d.BaselineMinutes, d.Usage, d.Points, d.Rebounds, d.Assists,
				d.FG3Pct, d.FGPct, d.PRA)
		}
	}

	fmt.Println(line)
	fmt.Println()
}

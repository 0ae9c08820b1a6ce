package nba

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fortuna/oncourt/internal/anomaly"
	"github.com/fortuna/oncourt/internal/store"
)

// Source abstracts the remote game feeds. Implemented by Client; tests
// substitute canned documents.
type Source interface {
	Schedule(ctx context.Context, teamID int, season string) ([]string, error)
	PlayByPlay(ctx context.Context, gameID string) ([]Action, error)
	BoxScore(ctx context.Context, gameID string, teamID int) (*BoxScore, error)
}

// RosterEnricher fills gaps in roster metadata (positions, jerseys) from a
// secondary source. Enrichment is best-effort and must never fail a build.
type RosterEnricher interface {
	Enrich(ctx context.Context, team string, roster []store.RosterEntry) []store.RosterEntry
}

// Ingester turns a season of remote game documents into a persisted
// snapshot. Build replaces the snapshot wholesale; Update appends events
// for games not yet represented. Neither writes anything on total upstream
// failure.
type Ingester struct {
	source      Source
	snapshots   store.Store
	mon         *anomaly.Monitor
	enricher    RosterEnricher
	concurrency int
}

// NewIngester creates an ingester. mon may be nil.
func NewIngester(source Source, snapshots store.Store, mon *anomaly.Monitor) *Ingester {
	return &Ingester{
		source:      source,
		snapshots:   snapshots,
		mon:         mon,
		concurrency: 1,
	}
}

// WithRosterEnricher attaches an optional roster metadata enricher.
func (i *Ingester) WithRosterEnricher(e RosterEnricher) *Ingester {
	i.enricher = e
	return i
}

// SetConcurrency bounds how many games are fetched in parallel. Games are
// independent; the source's inter-request spacing still applies globally.
func (i *Ingester) SetConcurrency(n int) {
	if n > 0 {
		i.concurrency = n
	}
}

// Progress receives per-game completion callbacks during a build/update.
type Progress func(gameID string, index, total int, ok bool)

// Build fetches the full season schedule and writes a fresh snapshot.
func (i *Ingester) Build(ctx context.Context, teamName, season string, progress Progress) (*store.Snapshot, error) {
	team, err := LookupTeam(teamName)
	if err != nil {
		return nil, err
	}

	gameIDs, err := i.source.Schedule(ctx, team.ID, season)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	log.Printf("[ingest] %s %s: %d games on schedule", team.Name, season, len(gameIDs))

	results := i.processGames(ctx, team, gameIDs, progress)

	snap := &store.Snapshot{
		Team:    team.Name,
		TeamID:  team.ID,
		Season:  season,
		BuiltAt: time.Now().UTC(),
	}
	meta := make(map[int]playerMeta)
	for _, res := range results {
		if !res.ok {
			continue
		}
		snap.GamesProcessed++
		snap.Events = append(snap.Events, res.events...)
		mergeMeta(meta, res.meta)
	}

	snap.Roster = i.buildRoster(ctx, team.Name, snap.Events, meta)

	if err := i.snapshots.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	log.Printf("[ingest] ✓ %s %s: %d/%d games, %d events", team.Name, season, snap.GamesProcessed, len(gameIDs), len(snap.Events))
	return snap, nil
}

// Update loads the existing snapshot, processes only games not already
// represented in its event log, and republishes the merged snapshot. The
// roster is rebuilt from the full merged event set so trades are picked up
// without manual edits. Re-running with no new games changes nothing but
// the roster ordering and build timestamp.
func (i *Ingester) Update(ctx context.Context, teamName, season string, progress Progress) (*store.Snapshot, error) {
	team, err := LookupTeam(teamName)
	if err != nil {
		return nil, err
	}

	prior, err := i.snapshots.Load(ctx, team.Name, season)
	if err != nil {
		return nil, err
	}

	gameIDs, err := i.source.Schedule(ctx, team.ID, season)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}

	existing := make(map[string]bool)
	for _, id := range prior.GameIDs() {
		existing[id] = true
	}

	var newIDs []string
	for _, id := range gameIDs {
		if !existing[id] {
			newIDs = append(newIDs, id)
		}
	}
	log.Printf("[ingest] %s %s: %d new games (cache has %d)", team.Name, season, len(newIDs), prior.GamesProcessed)

	results := i.processGames(ctx, team, newIDs, progress)

	snap := &store.Snapshot{
		Team:           team.Name,
		TeamID:         team.ID,
		Season:         season,
		GamesProcessed: prior.GamesProcessed,
		BuiltAt:        time.Now().UTC(),
		Events:         prior.Events,
	}

	meta := make(map[int]playerMeta)
	for _, entry := range prior.Roster {
		meta[entry.PlayerID] = playerMeta{name: entry.Name, position: entry.Position}
	}
	for _, res := range results {
		if !res.ok {
			continue
		}
		snap.GamesProcessed++
		snap.Events = append(snap.Events, res.events...)
		mergeMeta(meta, res.meta)
	}

	snap.Roster = i.buildRoster(ctx, team.Name, snap.Events, meta)

	if err := i.snapshots.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	log.Printf("[ingest] ✓ %s %s updated: %d games, %d events", team.Name, season, snap.GamesProcessed, len(snap.Events))
	return snap, nil
}

type gameResult struct {
	gameID string
	events []store.StatEvent
	meta   map[int]playerMeta
	ok     bool
}

// processGames runs per-game processing through a bounded worker pool and
// returns results in schedule order. A failed game is skipped and logged;
// it never fails the batch.
func (i *Ingester) processGames(ctx context.Context, team Team, gameIDs []string, progress Progress) []gameResult {
	results := make([]gameResult, len(gameIDs))

	sem := make(chan struct{}, i.concurrency)
	done := make(chan int)

	for idx, gameID := range gameIDs {
		go func(idx int, gameID string) {
			sem <- struct{}{}
			defer func() {
				<-sem
				done <- idx
			}()

			res := gameResult{gameID: gameID}
			events, meta, err := i.processGame(ctx, team, gameID)
			if err != nil {
				log.Printf("[ingest] skipping game %s: %v", gameID, err)
				i.mon.Record(anomaly.KindGameSkipped, team.Name, gameID, err.Error())
			} else {
				res.events = events
				res.meta = meta
				res.ok = true
				i.mon.GameProcessed(team.Name, len(events))
			}
			results[idx] = res
		}(idx, gameID)
	}

	for range gameIDs {
		idx := <-done
		if progress != nil {
			progress(results[idx].gameID, idx, len(gameIDs), results[idx].ok)
		}
	}
	return results
}

// processGame converts one game into stat events. Lineup state is strictly
// ordered, so everything after the fetches is sequential.
func (i *Ingester) processGame(ctx context.Context, team Team, gameID string) ([]store.StatEvent, map[int]playerMeta, error) {
	box, err := i.source.BoxScore(ctx, gameID, team.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("box score: %w", err)
	}

	starters, fallback, err := ResolveStarters(box)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve starters: %w", err)
	}
	if fallback {
		i.mon.Record(anomaly.KindStarterFallback, team.Name, gameID, "starter flags unresolved, used top-5 by minutes")
	}

	actions, err := i.source.PlayByPlay(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("play-by-play: %w", err)
	}
	if len(actions) == 0 {
		return nil, nil, fmt.Errorf("empty action stream")
	}

	builder := NewEventBuilder(team.Name, i.mon)
	events, err := builder.BuildGame(gameID, team.ID, starters, actions)
	if err != nil {
		return nil, nil, err
	}

	meta := make(map[int]playerMeta, len(box.Players))
	for _, p := range box.Players {
		meta[p.PersonID] = playerMeta{name: p.Name, position: p.Position}
	}
	return events, meta, nil
}

func (i *Ingester) buildRoster(ctx context.Context, teamName string, events []store.StatEvent, meta map[int]playerMeta) []store.RosterEntry {
	roster := BuildRoster(events, meta)
	if i.enricher != nil {
		roster = i.enricher.Enrich(ctx, teamName, roster)
	}
	return roster
}

func mergeMeta(dst, src map[int]playerMeta) {
	for id, m := range src {
		existing, ok := dst[id]
		if !ok {
			dst[id] = m
			continue
		}
		if existing.name == "" {
			existing.name = m.name
		}
		if existing.position == "" {
			existing.position = m.position
		}
		dst[id] = existing
	}
}

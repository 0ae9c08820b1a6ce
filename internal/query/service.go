package query

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/fortuna/oncourt/internal/ingest/nba"
	"github.com/fortuna/oncourt/internal/store"
)

// ResultCache caches serialized query results, typically backed by Redis.
// Get reports whether the key was present.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, v interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// Request is one on/off question. On and Off hold player names as entered
// by the caller; resolution against the roster happens inside Query.
type Request struct {
	Team   string   `json:"team"`
	Season string   `json:"season"`
	On     []string `json:"on,omitempty"`
	Off    []string `json:"off,omitempty"`
}

// Result is the full answer to a Request.
type Result struct {
	Team           string        `json:"team"`
	Season         string        `json:"season"`
	GamesProcessed int           `json:"games_processed"`
	BuiltAt        time.Time     `json:"built_at"`
	Filter         Filter        `json:"filter"`
	Players        []PlayerRates `json:"players"`
	Comparison     []RateDelta   `json:"comparison,omitempty"`
}

const (
	snapshotTTL  = 10 * time.Minute
	resultTTL    = 5 * time.Minute
	resultKeyFmt = "oncourt:query:%s:%s:on=%v:off=%v"
)

type cachedSnapshot struct {
	snap     *store.Snapshot
	loadedAt time.Time
}

// Service serves queries from snapshots, keeping recently used snapshots
// in memory so repeated queries against the same team avoid a store read.
type Service struct {
	snapshots store.Store
	results   ResultCache

	mu     sync.RWMutex
	cached map[string]*cachedSnapshot
}

// NewService creates a query service. results may be nil to disable
// result caching.
func NewService(snapshots store.Store, results ResultCache) *Service {
	return &Service{
		snapshots: snapshots,
		results:   results,
		cached:    make(map[string]*cachedSnapshot),
	}
}

// Query resolves names, filters the event log, and returns rates plus a
// comparison when an off filter is present. Returns store.ErrNotBuilt
// when no snapshot exists for the team/season, and ErrPlayerNotFound when
// a name does not resolve.
func (s *Service) Query(ctx context.Context, req Request) (*Result, error) {
	snap, err := s.snapshot(ctx, req.Team, req.Season)
	if err != nil {
		return nil, err
	}

	onIDs, err := ResolvePlayers(snap.Roster, req.On)
	if err != nil {
		return nil, err
	}
	offIDs, err := ResolvePlayers(snap.Roster, req.Off)
	if err != nil {
		return nil, err
	}
	sort.Ints(onIDs)
	sort.Ints(offIDs)
	f := Filter{On: onIDs, Off: offIDs}

	key := fmt.Sprintf(resultKeyFmt, snap.Team, snap.Season, onIDs, offIDs)
	if s.results != nil {
		var cached Result
		hit, err := s.results.GetJSON(ctx, key, &cached)
		if err != nil {
			log.Printf("[query] result cache read failed: %v", err)
		} else if hit && cached.BuiltAt.Equal(snap.BuiltAt) {
			return &cached, nil
		}
	}

	res := &Result{
		Team:           snap.Team,
		Season:         snap.Season,
		GamesProcessed: snap.GamesProcessed,
		BuiltAt:        snap.BuiltAt,
		Filter:         f,
		Players:        Aggregate(snap, f),
		Comparison:     Compare(snap, f),
	}

	if s.results != nil {
		if err := s.results.SetJSON(ctx, key, res, resultTTL); err != nil {
			log.Printf("[query] result cache write failed: %v", err)
		}
	}
	return res, nil
}

// Roster returns the snapshot's roster in cumulative-minutes order.
func (s *Service) Roster(ctx context.Context, team, season string) ([]store.RosterEntry, error) {
	snap, err := s.snapshot(ctx, team, season)
	if err != nil {
		return nil, err
	}
	return snap.Roster, nil
}

// Invalidate drops any in-memory snapshot for the team so the next query
// reloads from the store. Call after a build or update finishes.
func (s *Service) Invalidate(team, season string) {
	s.mu.Lock()
	delete(s.cached, snapshotKey(team, season))
	s.mu.Unlock()
}

func (s *Service) snapshot(ctx context.Context, team, season string) (*store.Snapshot, error) {
	franchise, err := nba.LookupTeam(team)
	if err != nil {
		return nil, err
	}
	team = franchise.Name
	key := snapshotKey(team, season)

	s.mu.RLock()
	entry, ok := s.cached[key]
	s.mu.RUnlock()
	if ok && time.Since(entry.loadedAt) < snapshotTTL {
		return entry.snap, nil
	}

	snap, err := s.snapshots.Load(ctx, team, season)
	if err != nil {
		return nil, err
	}
	log.Printf("[query] loaded snapshot %s %s: %d games, %d events", snap.Team, snap.Season, snap.GamesProcessed, len(snap.Events))

	s.mu.Lock()
	s.cached[key] = &cachedSnapshot{snap: snap, loadedAt: time.Now()}
	s.mu.Unlock()
	return snap, nil
}

func snapshotKey(team, season string) string {
	return team + "|" + season
}

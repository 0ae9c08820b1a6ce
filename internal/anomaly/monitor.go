// Package anomaly tracks feed-quality problems encountered during
// ingestion. The lineup-overflow clamp and the minutes-based starter
// fallback are best-effort recoveries from unclear upstream data, so their
// rates are exported as metrics and fanned out to operator sinks instead
// of being silently absorbed.
package anomaly

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Kind classifies an anomaly event.
type Kind string

const (
	KindClockDelta      Kind = "clock_delta"
	KindLineupOverflow  Kind = "lineup_overflow"
	KindStarterFallback Kind = "starter_fallback"
	KindGameSkipped     Kind = "game_skipped"
)

// Event is one anomaly occurrence, suitable for JSON fan-out.
type Event struct {
	Kind     Kind      `json:"kind"`
	Team     string    `json:"team"`
	GameID   string    `json:"game_id,omitempty"`
	Detail   string    `json:"detail,omitempty"`
	Occurred time.Time `json:"occurred"`
}

// Sink receives anomaly events. Implementations must not block; slow
// consumers should buffer or drop.
type Sink interface {
	OnAnomaly(ev Event)
}

// Monitor counts anomalies per team and forwards each occurrence to the
// registered sinks.
type Monitor struct {
	anomalies      *prometheus.CounterVec
	gamesProcessed *prometheus.CounterVec
	eventsBuilt    *prometheus.CounterVec

	mu    sync.RWMutex
	sinks []Sink
}

// NewMonitor creates a monitor and registers its collectors.
func NewMonitor(reg prometheus.Registerer) *Monitor {
	m := &Monitor{
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oncourt",
			Name:      "ingest_anomalies_total",
			Help:      "Feed anomalies encountered during ingestion, by kind.",
		}, []string{"team", "kind"}),
		gamesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oncourt",
			Name:      "games_processed_total",
			Help:      "Games successfully converted into stat events.",
		}, []string{"team"}),
		eventsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oncourt",
			Name:      "stat_events_built_total",
			Help:      "Stat events appended to snapshots.",
		}, []string{"team"}),
	}

	if reg != nil {
		reg.MustRegister(m.anomalies, m.gamesProcessed, m.eventsBuilt)
	}
	return m
}

// AddSink registers a fan-out target for anomaly events.
func (m *Monitor) AddSink(s Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, s)
}

// Record counts one anomaly and notifies sinks. Safe on a nil monitor so
// pure components can stay wiring-free in tests.
func (m *Monitor) Record(kind Kind, team, gameID, detail string) {
	if m == nil {
		return
	}
	m.anomalies.WithLabelValues(team, string(kind)).Inc()
	log.Printf("[anomaly] %s team=%s game=%s %s", kind, team, gameID, detail)

	ev := Event{Kind: kind, Team: team, GameID: gameID, Detail: detail, Occurred: time.Now()}

	m.mu.RLock()
	sinks := m.sinks
	m.mu.RUnlock()
	for _, s := range sinks {
		s.OnAnomaly(ev)
	}
}

// GameProcessed counts one successfully processed game and its events.
func (m *Monitor) GameProcessed(team string, eventCount int) {
	if m == nil {
		return
	}
	m.gamesProcessed.WithLabelValues(team).Inc()
	m.eventsBuilt.WithLabelValues(team).Add(float64(eventCount))
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore persists each snapshot as one JSONB row keyed by
// (team, season). The upsert runs in a transaction so readers see either
// the prior snapshot or the new one.
type PostgresStore struct {
	conn *sql.DB
}

// NewPostgresStore opens a connection pool and applies the schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ps := &PostgresStore{conn: db}
	if err := ps.migrate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// Close closes the connection pool.
func (ps *PostgresStore) Close() error {
	if ps.conn != nil {
		return ps.conn.Close()
	}
	return nil
}

// HealthCheck pings the database.
func (ps *PostgresStore) HealthCheck(ctx context.Context) error {
	return ps.conn.PingContext(ctx)
}

func (ps *PostgresStore) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS onoff_snapshots (
			team       TEXT NOT NULL,
			season     TEXT NOT NULL,
			built_at   TIMESTAMPTZ NOT NULL,
			snapshot   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (team, season)
		)
	`
	if _, err := ps.conn.Exec(query); err != nil {
		return fmt.Errorf("create snapshots table: %w", err)
	}
	return nil
}

// Load reads and decodes the snapshot row for a (team, season).
func (ps *PostgresStore) Load(ctx context.Context, team, season string) (*Snapshot, error) {
	var raw []byte
	err := ps.conn.QueryRowContext(ctx,
		`SELECT snapshot FROM onoff_snapshots WHERE team = $1 AND season = $2`,
		team, season,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s %s: %w", team, season, ErrNotBuilt)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save upserts the snapshot row in a transaction.
func (ps *PostgresStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tx, err := ps.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO onoff_snapshots (team, season, built_at, snapshot, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (team, season)
		DO UPDATE SET built_at = EXCLUDED.built_at,
		              snapshot = EXCLUDED.snapshot,
		              updated_at = NOW()
	`, snap.Team, snap.Season, snap.BuiltAt, data)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

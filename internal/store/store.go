package store

import (
	"context"
	"errors"
)

// ErrNotBuilt is returned when no snapshot exists for a (team, season).
// Callers surface this as "not built yet" rather than an empty result.
var ErrNotBuilt = errors.New("snapshot not built")

// Store persists one snapshot per (team, season).
//
// Save must publish by replacement: a concurrent Load sees either the prior
// snapshot or the new one, never a partial write. Load must return
// ErrNotBuilt (possibly wrapped) when nothing has been persisted yet.
type Store interface {
	Load(ctx context.Context, team, season string) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// Package contracts defines the interfaces between the computation
// core's HTTP surface and its persistence collaborators.
package contracts

import (
	"context"

	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
)

// Store is the persistence collaborator: it materializes whole
// collections for the core and owns all durable writes.
type Store interface {
	// Ping checks connectivity
	Ping(ctx context.Context) error

	// LoadGameLogs returns the full game-log collection
	LoadGameLogs(ctx context.Context) ([]models.GameLog, error)

	// LoadPropLines returns all prop lines grouped by source
	LoadPropLines(ctx context.Context) (map[string][]models.PropLine, error)

	// ListPropDates returns the distinct dates with known prop lines
	ListPropDates(ctx context.Context) ([]string, error)

	// ImportGameLogs upserts canonical game logs, deduped on
	// (playerId, playerName, gameDate). Returns the rows written.
	ImportGameLogs(ctx context.Context, logs []models.GameLog) (int, error)

	// ImportPropLines replaces a source's lines for each date present
	// in the batch. Returns the rows written.
	ImportPropLines(ctx context.Context, source string, lines []models.PropLine) (int, error)

	// SimulateLine is the explicit test-support mutation: it reads the
	// target line, applies the new value, and returns the updated row.
	// Exactly one of newLine/delta is set.
	SimulateLine(ctx context.Context, id int64, newLine, delta *float64) (*models.PropLine, error)

	// Close releases the underlying connections
	Close() error
}

// SnapshotStore archives per-date prop-line snapshots for later
// line-movement diffing
type SnapshotStore interface {
	// Save stores a date's snapshot, overwriting any previous one
	Save(ctx context.Context, date string, snap *models.Snapshot) error

	// Get returns the snapshot for a date; exists=false means the
	// date was never archived (a legitimate empty state)
	Get(ctx context.Context, date string) (*models.Snapshot, bool, error)
}

// LeaderboardCache memoizes the aggregator's output outside the core,
// with explicit warm and invalidate operations
type LeaderboardCache interface {
	Get(ctx context.Context) (*models.CachedLeaderboards, bool, error)
	Warm(ctx context.Context, lb models.Leaderboards) (*models.CachedLeaderboards, error)
	Invalidate(ctx context.Context) error
}

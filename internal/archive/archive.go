// Package archive stores per-date prop-line snapshots in Redis so
// later line movement can be diffed against the open lines.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
)

const keyPrefix = "protracker:archive:"

// RedisStore implements contracts.SnapshotStore
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a snapshot store over an existing Redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save stores a date's snapshot. Re-archiving overwrites: last write
// wins, no merge. Archives carry no TTL; line history is small and
// deliberately durable.
func (s *RedisStore) Save(ctx context.Context, date string, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+date, data, 0).Err()
}

// Get returns the snapshot for a date. A missing key is the explicit
// "never archived" state, not an error.
func (s *RedisStore) Get(ctx context.Context, date string) (*models.Snapshot, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+date).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, true, nil
}

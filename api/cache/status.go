package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"videoDubber/api/database"
	"videoDubber/api/models"
)

const (
	statusKeyPrefix = "job:status:"
	statusTTL       = 10 * time.Minute
)

// StatusCache keeps the latest progress of each job so status polls rarely
// reach Postgres.
type StatusCache struct {
	cache *database.Cache
}

func NewStatusCache(cache *database.Cache) *StatusCache {
	return &StatusCache{cache: cache}
}

func (sc *StatusCache) Get(ctx context.Context, jobID string) (*models.Progress, error) {
	data, err := sc.cache.Get(ctx, statusKey(jobID))
	if err != nil {
		return nil, err
	}

	var progress models.Progress
	if err := json.Unmarshal([]byte(data), &progress); err != nil {
		return nil, fmt.Errorf("decode cached status: %w", err)
	}

	return &progress, nil
}

func (sc *StatusCache) Set(ctx context.Context, jobID string, progress models.Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}

	return sc.cache.Set(ctx, statusKey(jobID), data, statusTTL)
}

func statusKey(jobID string) string {
	return statusKeyPrefix + jobID
}

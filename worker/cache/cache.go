package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Same key layout and TTL the API reads from.
const (
	statusKeyPrefix = "job:status:"
	statusTTL       = 10 * time.Minute
)

type Entry struct {
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	Step         string `json:"step"`
	OutputPath   string `json:"output_path,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type StatusCache struct {
	client *redis.Client
}

func NewStatusCache(client *redis.Client) *StatusCache {
	return &StatusCache{client: client}
}

func (c *StatusCache) Set(ctx context.Context, jobID string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statusKeyPrefix+jobID, data, statusTTL).Err()
}

// Package cache provides an owner-keyed cache of task lists backed by Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/visorry/task-management-system/internal/models"
)

// TaskCache caches each user's task list under a key derived from the
// owner id, so a hit can never serve another tenant's data. Entries are
// invalidated on every mutation and expire on a short TTL as a backstop.
// A nil TaskCache disables caching.
type TaskCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTaskCache creates a TaskCache. Returns nil when client is nil.
func NewTaskCache(client *redis.Client, ttl time.Duration) *TaskCache {
	if client == nil {
		return nil
	}
	return &TaskCache{client: client, ttl: ttl}
}

func taskListKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("tasks:%s", ownerID)
}

// GetTasks returns the cached task list for the owner, or ok=false on a
// miss or any Redis failure. Failures are soft; the caller falls through
// to the store.
func (c *TaskCache) GetTasks(ctx context.Context, ownerID uuid.UUID) ([]models.Task, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, taskListKey(ownerID)).Bytes()
	if err != nil {
		return nil, false
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, false
	}
	return tasks, true
}

// SetTasks stores the owner's task list.
func (c *TaskCache) SetTasks(ctx context.Context, ownerID uuid.UUID, tasks []models.Task) {
	if c == nil {
		return
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	c.client.Set(ctx, taskListKey(ownerID), data, c.ttl)
}

// Invalidate drops the owner's cached task list. Called after every
// create, update, and delete.
func (c *TaskCache) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	if c == nil {
		return
	}
	c.client.Del(ctx, taskListKey(ownerID))
}

// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/taskora/internal/platform/constants"
)

// countsTTL bounds staleness if an invalidation is ever lost.
const countsTTL = 10 * time.Minute

// RedisCountCache implements [CountCache] using Redis.
//
// # Failure Policy
//
// Redis being down must never fail a project read. Every error here is
// logged at debug level and treated as a cache miss; callers fall back to
// the SQL count.
type RedisCountCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewCountCache creates a new Redis-backed task-count cache.
func NewCountCache(client *redis.Client, logger *slog.Logger) *RedisCountCache {
	return &RedisCountCache{client: client, logger: logger}
}

// key builds the Redis key for a project's task counts.
func (cache *RedisCountCache) key(projectID string) string {
	return constants.RedisPrefixProjectCounts + projectID
}

/*
Get returns the cached counts for a project.

Returns:
  - TaskCounts: Cached value (zero value on miss)
  - bool: false on miss, corrupt entry, or Redis failure
*/
func (cache *RedisCountCache) Get(ctx context.Context, projectID string) (TaskCounts, bool) {
	raw, err := cache.client.Get(ctx, cache.key(projectID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.Debug("project_count_cache_get_failed", slog.String("error", err.Error()))
		}
		return TaskCounts{}, false
	}

	var counts TaskCounts
	if err := json.Unmarshal(raw, &counts); err != nil {
		// Corrupt entry; drop it so the next write repopulates cleanly.
		cache.client.Del(ctx, cache.key(projectID))
		return TaskCounts{}, false
	}

	return counts, true
}

/*
Set stores the counts for a project with a bounded TTL.
*/
func (cache *RedisCountCache) Set(ctx context.Context, projectID string, counts TaskCounts) {
	raw, err := json.Marshal(counts)
	if err != nil {
		return
	}

	if err := cache.client.Set(ctx, cache.key(projectID), raw, countsTTL).Err(); err != nil {
		cache.logger.Debug("project_count_cache_set_failed", slog.String("error", err.Error()))
	}
}

/*
Invalidate drops the cached counts for a project.

Called by the task service after every task write so that the next project
read recomputes fresh counts.
*/
func (cache *RedisCountCache) Invalidate(ctx context.Context, projectID string) {
	if err := cache.client.Del(ctx, cache.key(projectID)).Err(); err != nil {
		cache.logger.Debug("project_count_cache_invalidate_failed", slog.String("error", err.Error()))
	}
}

// NoopCountCache is a [CountCache] that caches nothing.
//
// Used when Redis is not configured and in service tests.
type NoopCountCache struct{}

func (NoopCountCache) Get(context.Context, string) (TaskCounts, bool) { return TaskCounts{}, false }
func (NoopCountCache) Set(context.Context, string, TaskCounts)        {}
func (NoopCountCache) Invalidate(context.Context, string)             {}

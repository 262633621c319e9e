package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	dom "taskdesk/internal/domain"
	"taskdesk/internal/repo"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "todo:list:"

// TodoCache caches list query results in Redis, one key per normalized query.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// Key returns the cache key for a list query. Exported so the service can
// reuse it as a singleflight key.
func (c *TodoCache) Key(q repo.ListQuery) string {
	parts := []string{
		q.Filter, q.Sort, q.Order,
		strconv.Itoa(q.Limit), strconv.Itoa(q.Offset),
		strings.ToLower(strings.TrimSpace(q.Search)),
	}
	return keyListPrefix + strings.Join(parts, ":")
}

// GetList returns the cached result for q, or nil on miss.
func (c *TodoCache) GetList(ctx context.Context, q repo.ListQuery) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, c.Key(q)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Todo
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []dom.Todo{}
	}
	return list, nil
}

// SetList stores the result for q.
func (c *TodoCache) SetList(ctx context.Context, q repo.ListQuery, list []dom.Todo) error {
	if list == nil {
		list = []dom.Todo{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.Key(q), b, c.ttl).Err()
}

// InvalidateAll removes every cached list query (cache invalidation on write).
func (c *TodoCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyListPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

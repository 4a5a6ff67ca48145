// Package cache provides a Redis-backed read-through cache for computed
// analytics views. Every cached value is a JSON snapshot of one view for one
// survey; invalidation drops all views of a survey at once.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds staleness when invalidation is missed
const DefaultTTL = 5 * time.Minute

// AnalyticsCache stores computed analytics views keyed by survey and view
// name. A miss is not an error.
type AnalyticsCache interface {
	// Get loads the cached view into dest and reports whether it was found
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores the view under key with the configured TTL
	Set(ctx context.Context, key string, value interface{}) error

	// InvalidateSurvey drops every cached view for the survey
	InvalidateSurvey(ctx context.Context, surveyID string) error
}

// ViewKey builds the cache key for a survey's view. Params distinguish
// variants of the same view, like trend granularity or a version filter.
func ViewKey(surveyID, view string, params ...string) string {
	key := fmt.Sprintf("analytics:%s:%s", surveyID, view)
	if len(params) > 0 {
		key += ":" + strings.Join(params, ":")
	}
	return key
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed analytics cache. A non-positive ttl
// falls back to DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) AnalyticsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// #IMPLEMENTATION_DECISION: A corrupt entry is treated as a miss so
		// one bad write cannot wedge a view; the recompute overwrites it
		return false, nil
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *redisCache) InvalidateSurvey(ctx context.Context, surveyID string) error {
	pattern := fmt.Sprintf("analytics:%s:*", surveyID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

type noopCache struct{}

// NewNoopCache returns a cache that never stores anything. Used when no
// Redis address is configured so services keep a single code path.
func NewNoopCache() AnalyticsCache {
	return noopCache{}
}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (noopCache) Set(ctx context.Context, key string, value interface{}) error {
	return nil
}

func (noopCache) InvalidateSurvey(ctx context.Context, surveyID string) error {
	return nil
}

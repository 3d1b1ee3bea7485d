package shipment

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL matches the five-minute status cache of the tool this
// service replaces.
const DefaultTTL = 5 * time.Minute

// Cached memoizes tracker lookups in redis. Statuses are advisory, so a
// cache failure falls straight through to the inner tracker.
type Cached struct {
	inner Tracker
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCached(inner Tracker, rdb *redis.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cached{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(awb string) string { return "shipment:awb:" + awb }

func (c *Cached) Status(ctx context.Context, awb string) string {
	awb = strings.TrimSpace(awb)
	if awb == "" {
		return ""
	}
	if v, err := c.rdb.Get(ctx, cacheKey(awb)).Result(); err == nil {
		return v
	}
	status := c.inner.Status(ctx, awb)
	if status != "" && status != StatusUnavailable {
		_ = c.rdb.Set(ctx, cacheKey(awb), status, c.ttl).Err()
	}
	return status
}

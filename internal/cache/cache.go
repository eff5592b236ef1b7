package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const trendingKey = "events:trending"

// Cache tracks event page views and a trending ranking in Redis. All
// operations are best effort; callers treat errors as non-fatal.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func viewsKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:views:%s", eventID.String())
}

func (c *Cache) IncrementEventViews(ctx context.Context, eventID uuid.UUID) error {
	if err := c.rdb.Incr(ctx, viewsKey(eventID)).Err(); err != nil {
		return err
	}
	return c.rdb.ZIncrBy(ctx, trendingKey, 1, eventID.String()).Err()
}

func (c *Cache) EventViews(ctx context.Context, eventID uuid.UUID) (int64, error) {
	views, err := c.rdb.Get(ctx, viewsKey(eventID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return views, err
}

// TopEvents returns up to n event IDs ordered by view count, most
// viewed first. Members that fail to parse as UUIDs are skipped.
func (c *Cache) TopEvents(ctx context.Context, n int64) ([]uuid.UUID, error) {
	members, err := c.rdb.ZRevRange(ctx, trendingKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Cache) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

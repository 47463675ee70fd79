package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"goboard/db"
	"goboard/logger"

	"github.com/redis/go-redis/v9"
)

// ViewCounter batches post view increments through Redis so that hot
// posts do not hammer the store with one write per page view. Counters
// are folded back into the store by a periodic flusher; the store stays
// the single source of truth for the views column.
type ViewCounter struct {
	client   *redis.Client
	store    db.PostStore
	log      *logger.Logger
	interval time.Duration
}

// NewViewCounter wires a counter to the given cache and store.
func NewViewCounter(rc *RedisCache, store db.PostStore, interval time.Duration) *ViewCounter {
	return &ViewCounter{
		client:   rc.Client(),
		store:    store,
		log:      logger.L(),
		interval: interval,
	}
}

// Incr records one view for the post and returns the number of views
// pending flush, so callers can report an up-to-date total before the
// flusher catches up.
func (vc *ViewCounter) Incr(ctx context.Context, postID int64) (int64, error) {
	return vc.client.Incr(ctx, ViewKeyPrefix+strconv.FormatInt(postID, 10)).Result()
}

// Run flushes counters every interval until the context is cancelled,
// then performs a final flush.
func (vc *ViewCounter) Run(ctx context.Context) {
	ticker := time.NewTicker(vc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := vc.Flush(flushCtx); err != nil {
				vc.log.Error("Final view counter flush failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
			cancel()
			return
		case <-ticker.C:
			if err := vc.Flush(ctx); err != nil {
				vc.log.Error("View counter flush failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

// Flush drains all pending counters into the store.
func (vc *ViewCounter) Flush(ctx context.Context) error {
	counts := make(map[int64]int64)

	iter := vc.client.Scan(ctx, 0, ViewKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := vc.client.GetDel(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return err
		}

		id, err := strconv.ParseInt(strings.TrimPrefix(key, ViewKeyPrefix), 10, 64)
		if err != nil {
			vc.log.Error("Skipping malformed view counter key", map[string]interface{}{
				"key": key,
			})
			continue
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		counts[id] += n
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(counts) == 0 {
		return nil
	}

	vc.log.Debug("Flushing view counters", map[string]interface{}{
		"posts": len(counts),
	})
	return vc.store.AddViews(ctx, counts)
}

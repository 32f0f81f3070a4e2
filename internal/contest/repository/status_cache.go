// Package repository holds the redis-backed read caches in front of
// the submission store.
package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/amylase/rime-judge/internal/common/cache"
	"github.com/amylase/rime-judge/internal/contest/model"
	"github.com/amylase/rime-judge/internal/contest/store"
	"github.com/amylase/rime-judge/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	statusKeyPrefix  = "submission:status:"
	defaultStatusTTL = 30 * time.Minute
)

// StatusCache keeps the latest status of each submission in redis so
// contestant polling does not hit the store. Writes are best effort;
// the store remains the source of truth and misses fall back to it.
type StatusCache struct {
	cache cache.Cache
	store store.SubmissionStore
	ttl   time.Duration
}

// NewStatusCache creates a status cache over the given backends.
func NewStatusCache(cacheClient cache.Cache, submissionStore store.SubmissionStore, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = defaultStatusTTL
	}
	return &StatusCache{
		cache: cacheClient,
		store: submissionStore,
		ttl:   ttl,
	}
}

// ReportStatus records the latest status of a submission. Failures are
// logged and swallowed so judging is never blocked on the cache.
func (c *StatusCache) ReportStatus(ctx context.Context, id int64, status model.SubmissionStatus) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, statusKey(id), string(status), c.ttl); err != nil {
		logger.Warn(ctx, "cache submission status failed",
			zap.Int64("submission_id", id), zap.Error(err))
	}
}

// GetStatus returns the latest known status of a submission, reading
// through to the store on a cache miss and backfilling the cache.
// Returns store.ErrNotFound if the submission does not exist.
func (c *StatusCache) GetStatus(ctx context.Context, id int64) (model.SubmissionStatus, error) {
	if c.cache != nil {
		value, err := c.cache.Get(ctx, statusKey(id))
		if err != nil {
			logger.Warn(ctx, "read submission status cache failed",
				zap.Int64("submission_id", id), zap.Error(err))
		} else if value != "" {
			if status, ok := model.ParseStatus(value); ok {
				return status, nil
			}
		}
	}

	submission, err := c.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	c.ReportStatus(ctx, id, submission.Status)
	return submission.Status, nil
}

func statusKey(id int64) string {
	return statusKeyPrefix + strconv.FormatInt(id, 10)
}

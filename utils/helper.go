package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/ahadnetwork/inventory_backend/config"
	"github.com/bsm/redislock"
)

// ParseTimestamp parses the date strings that show up in webhook rows.
// A missing or unparseable date falls back to the Unix epoch so the entry
// sorts before every validly dated entry instead of blocking the ledger.
func ParseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Unix(0, 0).UTC()
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"02/01/2006",
		"1/2/2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Unix(0, 0).UTC()
}

// SyncLock serializes reconciliation runs across instances. The returned
// release func must be called when the run finishes. A second caller gets
// an error instead of waiting; overlapping syncs must not interleave.
func SyncLock(ctx context.Context, lockType string, moduleName string, functionName string) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		// Single-instance fallback: no redis, no competing writers.
		return func() {}, nil
	}
	lockKey := fmt.Sprintf("%s:lock", lockType)
	lock, err := locker.Obtain(ctx, lockKey, 60*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, "utils", functionName, "Could not obtain sync lock", lockKey, err)
		return nil, errors.New("sync already running")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining sync lock", lockKey, err)
		return nil, err
	}
	return func() { _ = lock.Release(ctx) }, nil
}

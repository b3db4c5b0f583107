package cache

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/roccohia/labubu-watcher/logger"
	watcherrors "github.com/roccohia/labubu-watcher/pkg/errors"
)

// LeaseKeyPrefix prefixes the per-target lease keys
const LeaseKeyPrefix = "labubu:lock:"

// RunLease keeps two runs of the same target from overlapping
type RunLease struct {
	cache CacheService
	ttl   time.Duration
	log   *logger.Logger
}

// NewRunLease creates a lease manager. The ttl bounds how long a crashed run
// can block the next one.
func NewRunLease(cache CacheService, ttl time.Duration) *RunLease {
	return &RunLease{cache: cache, ttl: ttl, log: logger.ForComponent("cache")}
}

// Acquire takes the lease for target on behalf of owner. It returns a locked
// error when another owner holds it. The release func gives the lease back and
// is safe to call once the lease expired.
func (l *RunLease) Acquire(target, owner string) (func(), error) {
	key := LeaseKeyPrefix + target
	value := []byte(owner)

	err := l.cache.Add(key, value, l.ttl)
	if errors.Is(err, ErrNotStored) {
		return nil, watcherrors.NewLocked(target)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lease %s: %w", key, err)
	}

	l.log.Debug().Str("key", key).Str("owner", owner).Msg("lease acquired")
	release := func() {
		held, err := l.cache.Get(key)
		if err != nil || !bytes.Equal(held, value) {
			return
		}
		if err := l.cache.Delete(key); err != nil && !errors.Is(err, ErrCacheMiss) {
			l.log.Warn().Err(err).Str("key", key).Msg("lease release failed")
		}
	}
	return release, nil
}

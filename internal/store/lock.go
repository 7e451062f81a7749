package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"viewpulse/internal/report"
)

const lockRetryDelay = 50 * time.Millisecond

// CategoryLocker hands out per-category advisory file locks under one
// directory. Locks exclude other processes as well as other goroutines.
type CategoryLocker struct {
	dir     string
	timeout time.Duration
}

// NewCategoryLocker creates lock files as <dir>/<CATEGORY>.lock. A timeout of
// zero waits until the context is done.
func NewCategoryLocker(dir string, timeout time.Duration) *CategoryLocker {
	return &CategoryLocker{dir: dir, timeout: timeout}
}

// Lock blocks until the category lock is held, the timeout passes, or ctx is done.
func (l *CategoryLocker) Lock(ctx context.Context, category report.Category) (Unlock, error) {
	key := report.Key{Category: category}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, Fail("lock", "category", key, err)
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	fl := flock.New(filepath.Join(l.dir, category.String()+".lock"))
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, Fail("lock", "category", key, ErrLockTimeout)
		}
		return nil, Fail("lock", "category", key, err)
	}
	if !ok {
		return nil, Fail("lock", "category", key, ErrLockTimeout)
	}
	return func() error {
		if err := fl.Unlock(); err != nil {
			return fmt.Errorf("release %s lock: %w", category, err)
		}
		return nil
	}, nil
}

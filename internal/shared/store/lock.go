package store

import (
	"context"
	"time"

	"github.com/gofrs/flock"
	"github.com/reshetovitsme/tg-channel-relay/internal/shared/errors"
	"github.com/samber/oops"
)

const lockFile = ".relay.lock"

// Lock takes the advisory lock guarding a whole load-mutate-save cycle.
// It retries until wait elapses and returns errors.ErrLocked if another
// process still holds the lock. Runs that bypass Lock are not safe to overlap.
func (s *Store) Lock(ctx context.Context, wait time.Duration) (func() error, error) {
	fl := flock.New(s.Path(lockFile))

	lockCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	locked, err := fl.TryLockContext(lockCtx, 100*time.Millisecond)
	if ctx.Err() != nil {
		if locked {
			_ = fl.Unlock()
		}
		return nil, ctx.Err()
	}
	if err != nil && lockCtx.Err() == nil {
		return nil, oops.With("lock_file", fl.Path(), "context", "failed to acquire state lock").Wrap(err)
	}
	if !locked {
		return nil, errors.ErrLocked
	}

	return fl.Unlock, nil
}

package ledger

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/aitk/pkg/errors"
	"github.com/arthur-debert/aitk/pkg/logging"
	"github.com/gofrs/flock"
)

// AcquireLock takes an exclusive advisory lock on path, waiting up to
// timeout. The returned func releases it.
func AcquireLock(ctx context.Context, path string, timeout time.Duration) (unlock func(), err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrLock, "cannot create lock directory %s", filepath.Dir(path))
	}

	fl := flock.New(path)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := fl.TryLockContext(ctx, 250*time.Millisecond)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrLock, "acquiring setup lock %s", path).WithDetail("path", path)
	}
	if !ok {
		return nil, errors.Newf(errors.ErrLock,
			"could not acquire lock, another aitk run may be in progress. If none is active, delete %s and retry", path).
			WithDetail("path", path)
	}

	logger := logging.GetLogger("ledger")
	logger.Debug().Str("tag", "STATE").Str("path", path).Msg("lock acquired")
	return func() {
		if err := fl.Unlock(); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("failed to release lock")
		}
	}, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/shinji-kodama/portable-git/internal/model"
)

// lockRetryDelay is how often a busy install lock is retried.
const lockRetryDelay = 100 * time.Millisecond

// acquireInstallLock takes the inter-process lock that serializes installs
// into one package directory. The returned func releases it.
func acquireInstallLock(ctx context.Context, lockPath string, timeout time.Duration) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, model.WrapCLIError(model.ExitEnvironmentError,
			fmt.Sprintf("failed to create %s", filepath.Dir(lockPath)), err)
	}

	fileLock := flock.New(lockPath)
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return nil, model.WrapCLIError(model.ExitUserCancelled, "cancelled while waiting for install lock", ctx.Err())
		case errors.Is(err, context.DeadlineExceeded):
			return nil, model.WrapCLIError(model.ExitLockTimeout,
				fmt.Sprintf("another install holds %s (timeout after %v)", lockPath, timeout), err)
		default:
			return nil, model.WrapCLIError(model.ExitGeneralError, "failed to acquire install lock", err)
		}
	}
	if !locked {
		return nil, model.NewCLIError(model.ExitLockTimeout,
			fmt.Sprintf("another install holds %s (timeout after %v)", lockPath, timeout))
	}

	return func() { _ = fileLock.Unlock() }, nil
}

package tagstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const (
	lockBackoffMin = time.Millisecond
	lockBackoffMax = 25 * time.Millisecond
)

// fileLock is an exclusive flock(2) held on a dedicated lock file next to the
// store. It is advisory: only Add and CreateSchema take it.
type fileLock struct {
	file *os.File
}

// lockPath names the lock file. The first Add, or CreateSchema on a free path,
// creates it and it then stays next to the store. It is never removed:
// unlinking a file other processes wait on would split the lock.
func lockPath(storePath string) string {
	return storePath + ".lock"
}

// acquireLock polls a non-blocking exclusive flock with exponential backoff
// until it succeeds, timeout elapses, or ctx is done.
func acquireLock(ctx context.Context, path string, timeout time.Duration) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //nolint:gosec // path derives from the configured store
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	backoff := lockBackoffMin

	for {
		err = flockRetryEINTR(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &fileLock{file: file}, nil
		}

		if !errors.Is(err, unix.EWOULDBLOCK) {
			_ = file.Close()

			return nil, fmt.Errorf("flock: %w", err)
		}

		if !time.Now().Before(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w after %s", ErrLockTimeout, timeout)
		}

		timer := time.NewTimer(backoff)

		select {
		case <-ctx.Done():
			timer.Stop()
			_ = file.Close()

			return nil, fmt.Errorf("wait for lock: %w", ctx.Err())
		case <-timer.C:
		}

		backoff = min(backoff*2, lockBackoffMax)
	}
}

// Close releases the lock. It is safe to call more than once.
func (l *fileLock) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	unlockErr := flockRetryEINTR(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if unlockErr != nil {
		unlockErr = fmt.Errorf("unlock: %w", unlockErr)
	}

	if closeErr != nil {
		closeErr = fmt.Errorf("close lock file: %w", closeErr)
	}

	return errors.Join(unlockErr, closeErr)
}

func flockRetryEINTR(fd int, how int) error {
	for {
		err := unix.Flock(fd, how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

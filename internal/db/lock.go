package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrStoreBusy is returned when another process holds the store lock.
var ErrStoreBusy = errors.New("store is locked by another ops process")

const lockRetryDelay = 100 * time.Millisecond

// StoreLock is an advisory cross-process lock next to the database file.
// Mutating commands hold it for their whole duration so two processes never
// interleave deletion sessions on the same store.
type StoreLock struct {
	fl *flock.Flock
}

// LockPath returns the lock file path used for the database at dbPath.
func LockPath(dbPath string) string {
	return dbPath + ".lock"
}

// AcquireLock takes the store lock, waiting until ctx is done.
// In-memory databases are process-private and get a no-op lock.
func AcquireLock(ctx context.Context, dbPath string) (*StoreLock, error) {
	if dbPath == memoryPath {
		return &StoreLock{}, nil
	}
	fl := flock.New(LockPath(dbPath))
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s", ErrStoreBusy, LockPath(dbPath))
		}
		return nil, fmt.Errorf("acquiring store lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrStoreBusy, LockPath(dbPath))
	}
	return &StoreLock{fl: fl}, nil
}

// Release unlocks the store. Safe to call more than once.
func (l *StoreLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("releasing store lock: %w", err)
	}
	return nil
}

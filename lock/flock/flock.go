// Package flock implements lock.Locker with one flock(2)-ed file per
// interface under the configured lock dir.
package flock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/projecteru2/macchanger/lock"
)

// poll interval while another run holds the interface.
const retryDelay = 100 * time.Millisecond

var _ lock.Locker = (*Lock)(nil)

// Lock is an exclusive advisory lock on a single interface's lock file.
// The file is never removed, so later runs reuse it.
type Lock struct {
	fl *flock.Flock
}

// New returns an unlocked Lock on path.
func New(path string) *Lock {
	return &Lock{fl: flock.New(path)}
}

// Lock creates the lock dir on first use, then waits for the flock.
// Setup failures are reported as lock.ErrUnavailable.
func (l *Lock) Lock(ctx context.Context) error {
	path := l.fl.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("%w: create lock dir for %s: %w", lock.ErrUnavailable, path, err)
	}
	locked, err := l.fl.TryLockContext(ctx, retryDelay)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return fmt.Errorf("%w: open %s: %w", lock.ErrUnavailable, path, err)
		}
		return fmt.Errorf("wait for %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("wait for %s: interface busy", path)
	}
	return nil
}

// Unlock drops the flock and closes the file.
func (l *Lock) Unlock(_ context.Context) error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", l.fl.Path(), err)
	}
	return nil
}

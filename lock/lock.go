// Package lock keeps two macchanger runs from interleaving their
// read-modify-write cycles on the same interface.
package lock

import (
	"context"
	"errors"

	"github.com/projecteru2/core/log"
)

// ErrUnavailable means the lock itself could not be set up (lock dir not
// creatable, lock file not openable), as opposed to being held elsewhere.
var ErrUnavailable = errors.New("lock unavailable")

// Locker guards one interface. Lock blocks until acquired or ctx is done.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// Nop is a Locker that never blocks, used when locking is disabled.
type Nop struct{}

func (Nop) Lock(context.Context) error   { return nil }
func (Nop) Unlock(context.Context) error { return nil }

// Optional wraps l so an ErrUnavailable from Lock is logged and the caller
// proceeds unlocked. Unprivileged runs cannot create the default lock dir
// and must still see the interface error they are about to get.
// Contention and cancellation errors still fail. Logged at info: the
// console log writer shares stdout with the printed address.
func Optional(l Locker) Locker {
	return &optional{l: l}
}

type optional struct {
	l    Locker
	held bool
}

func (o *optional) Lock(ctx context.Context) error {
	err := o.l.Lock(ctx)
	switch {
	case err == nil:
		o.held = true
		return nil
	case errors.Is(err, ErrUnavailable):
		log.WithFunc("lock.Optional").Infof(ctx, "continuing without lock: %v", err)
		return nil
	default:
		return err
	}
}

func (o *optional) Unlock(ctx context.Context) error {
	if !o.held {
		return nil
	}
	o.held = false
	return o.l.Unlock(ctx)
}

// WithLock runs fn while holding l. l is released whether or not fn fails.
func WithLock(ctx context.Context, l Locker, fn func() error) error {
	if err := l.Lock(ctx); err != nil {
		return err
	}
	defer l.Unlock(ctx) //nolint:errcheck
	return fn()
}

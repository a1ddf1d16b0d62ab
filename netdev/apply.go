package netdev

import (
	"context"
	"errors"
	"fmt"

	"github.com/projecteru2/core/log"

	"github.com/projecteru2/macchanger/mac"
)

// Result reports one completed read-modify-write cycle.
type Result struct {
	Previous mac.Address `json:"previous"`
	Current  mac.Address `json:"current"`
	// Record is what was written back to the OS.
	Record Record `json:"record"`
}

// Apply replaces the hardware address of name with addr.
//
// The full current record is read first and only its address payload is
// replaced before it is written back, so every other OS-managed field
// round-trips unchanged. One channel serves both calls and is closed on
// every path. Nothing is retried.
func Apply(ctx context.Context, b Backend, name string, addr mac.Address) (*Result, error) {
	logger := log.WithFunc("netdev.Apply")
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var res *Result
	err := withChannel(ctx, b, func(ch Channel) error {
		cur, err := get(ctx, ch, name)
		if err != nil {
			return err
		}
		logger.Debugf(ctx, "%s: current %s (family %d, flags %#x)", name, cur.Address(), cur.Family, cur.Flags)

		next := cur.WithAddress(addr)
		if err := ch.Set(ctx, name, next); err != nil {
			return classify(err, ErrApply, "set hardware address of "+name)
		}
		res = &Result{Previous: cur.Address(), Current: addr, Record: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "%s: %s -> %s via %s", name, res.Previous, res.Current, b.Type())
	return res, nil
}

// Read returns the current record of name without modifying anything.
func Read(ctx context.Context, b Backend, name string) (Record, error) {
	if err := ValidateName(name); err != nil {
		return Record{}, err
	}
	var rec Record
	err := withChannel(ctx, b, func(ch Channel) (err error) {
		rec, err = get(ctx, ch, name)
		return err
	})
	return rec, err
}

// withChannel opens a channel, calls fn and always closes the channel.
func withChannel(ctx context.Context, b Backend, fn func(Channel) error) error {
	ch, err := b.Open(ctx)
	if err != nil {
		return classify(err, ErrChannelOpen, b.Type())
	}
	defer func() {
		if cerr := ch.Close(); cerr != nil {
			log.WithFunc("netdev.withChannel").Warnf(ctx, "close %s channel: %v", b.Type(), cerr)
		}
	}()
	return fn(ch)
}

func get(ctx context.Context, ch Channel, name string) (Record, error) {
	rec, err := ch.Get(ctx, name)
	if err != nil {
		if errors.Is(err, ErrInterfaceNotFound) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("read hardware address of %s: %w", name, err)
	}
	return rec, nil
}

// classify makes sure err carries sentinel, adding context when it does not.
func classify(err, sentinel error, what string) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", sentinel, what, err)
}

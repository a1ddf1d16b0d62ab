// Package netdevtest provides an in-memory netdev.Backend for tests.
package netdevtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/projecteru2/macchanger/netdev"
)

// compile-time interface check.
var _ netdev.Backend = (*Backend)(nil)

// Backend keeps interface records in memory and counts calls.
// Set the *Err fields to simulate OS failures.
type Backend struct {
	mu      sync.Mutex
	records map[string]netdev.Record

	OpenErr error
	GetErr  error
	SetErr  error
	// CloseErr is returned by Channel.Close after it has been counted.
	CloseErr error

	Opens, Gets, Sets, Closes int
	// Written holds every record passed to Set, in order.
	Written []netdev.Record
}

// New returns a Backend preloaded with recs, keyed by Record.Name.
func New(recs ...netdev.Record) *Backend {
	b := &Backend{records: map[string]netdev.Record{}}
	for _, r := range recs {
		b.records[r.Name] = r
	}
	return b
}

func (b *Backend) Type() string { return "fake" }

// Record returns the stored record of name.
func (b *Backend) Record(name string) (netdev.Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.records[name]
	return r, ok
}

// Open hands out a channel bound to b.
func (b *Backend) Open(_ context.Context) (netdev.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Opens++
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	return &channel{b: b}, nil
}

type channel struct {
	b      *Backend
	closed bool
}

func (c *channel) Get(_ context.Context, name string) (netdev.Record, error) {
	b := c.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.closed {
		return netdev.Record{}, fmt.Errorf("get on closed channel")
	}
	b.Gets++
	if b.GetErr != nil {
		return netdev.Record{}, b.GetErr
	}
	r, ok := b.records[name]
	if !ok {
		return netdev.Record{}, fmt.Errorf("%w: %s", netdev.ErrInterfaceNotFound, name)
	}
	return r, nil
}

func (c *channel) Set(_ context.Context, name string, rec netdev.Record) error {
	b := c.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.closed {
		return fmt.Errorf("set on closed channel")
	}
	b.Sets++
	if b.SetErr != nil {
		return b.SetErr
	}
	if _, ok := b.records[name]; !ok {
		return fmt.Errorf("%w: %s", netdev.ErrInterfaceNotFound, name)
	}
	b.records[name] = rec
	b.Written = append(b.Written, rec)
	return nil
}

func (c *channel) Close() error {
	c.b.mu.Lock()
	defer c.b.mu.Unlock()
	c.closed = true
	c.b.Closes++
	return c.b.CloseErr
}

//go:build !linux

package netlink

import (
	"context"
	"errors"
	"fmt"

	"github.com/projecteru2/macchanger/netdev"
)

// Open always fails: rtnetlink is Linux only.
func (n *Netlink) Open(_ context.Context) (netdev.Channel, error) {
	return nil, fmt.Errorf("%w: %s: %w", netdev.ErrChannelOpen, typ, errors.ErrUnsupported)
}

//go:build !linux

package ioctl

import (
	"context"
	"errors"
	"fmt"

	"github.com/projecteru2/macchanger/netdev"
)

// Open always fails: SIOCSIFHWADDR is Linux only.
func (i *Ioctl) Open(_ context.Context) (netdev.Channel, error) {
	return nil, fmt.Errorf("%w: %s: %w", netdev.ErrChannelOpen, typ, errors.ErrUnsupported)
}

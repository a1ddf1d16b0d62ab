package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projecteru2/macchanger/config"
	"github.com/projecteru2/macchanger/lock"
	"github.com/projecteru2/macchanger/lock/flock"
	"github.com/projecteru2/macchanger/netdev"
	"github.com/projecteru2/macchanger/netdev/ioctl"
	"github.com/projecteru2/macchanger/netdev/netlink"
)

// newBackend is replaced in tests.
var newBackend = initBackend

// initBackend builds the hardware address backend selected by conf.
func initBackend(conf *config.Config) (netdev.Backend, error) {
	switch conf.Backend {
	case config.BackendIoctl:
		return ioctl.New(conf), nil
	case config.BackendNetlink:
		return netlink.New(conf), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", conf.Backend)
	}
}

// interfaceLocker returns the cross-process lock for ifName. A lock dir the
// caller cannot write degrades to running unlocked. ifName must already have
// passed netdev.ValidateName, it becomes part of a file path.
func interfaceLocker(ifName string) lock.Locker {
	path := conf.InterfaceLock(ifName)
	if path == "" {
		return lock.Nop{}
	}
	return lock.Optional(flock.New(path))
}

// commandContext returns the command context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// Package netlink reads and writes hardware addresses over rtnetlink.
package netlink

import (
	"github.com/projecteru2/macchanger/config"
	"github.com/projecteru2/macchanger/netdev"
)

const typ = config.BackendNetlink

// compile-time interface check.
var _ netdev.Backend = (*Netlink)(nil)

// Netlink is the rtnetlink backend.
type Netlink struct {
	netns string
}

// New creates a Netlink backend for conf's network namespace.
func New(conf *config.Config) *Netlink {
	return &Netlink{netns: conf.NetnsFile()}
}

func (n *Netlink) Type() string { return typ }

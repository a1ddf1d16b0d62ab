// Package ioctl reads and writes hardware addresses with the
// SIOCGIFHWADDR and SIOCSIFHWADDR requests on a datagram socket.
package ioctl

import (
	"github.com/projecteru2/macchanger/config"
	"github.com/projecteru2/macchanger/netdev"
)

const typ = config.BackendIoctl

// compile-time interface check.
var _ netdev.Backend = (*Ioctl)(nil)

// Ioctl is the socket ioctl backend.
type Ioctl struct {
	netns string
}

// New creates an Ioctl backend for conf's network namespace.
func New(conf *config.Config) *Ioctl {
	return &Ioctl{netns: conf.NetnsFile()}
}

func (i *Ioctl) Type() string { return typ }

package ioctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unsafe"

	cns "github.com/containernetworking/plugins/pkg/ns"
	"golang.org/x/sys/unix"

	"github.com/projecteru2/macchanger/netdev"
)

// sockaddr is 'struct sockaddr'. unix.RawSockaddr is not used because the
// signedness of its Data field differs between architectures.
type sockaddr struct {
	Family uint16
	Data   [14]byte
}

// ifreqHwaddr is linux/if.h 'struct ifreq' with the ifr_hwaddr union arm.
type ifreqHwaddr struct {
	Name   [unix.IFNAMSIZ]byte
	Hwaddr sockaddr
	_      [8]byte // rest of the union (struct ifmap on 64-bit)
}

// Open creates the AF_INET datagram socket the requests are issued on.
// With a namespace configured the socket is created inside it and stays
// bound to it after the thread switches back.
func (i *Ioctl) Open(_ context.Context) (netdev.Channel, error) {
	var fd int
	open := func() (err error) {
		fd, err = unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, unix.IPPROTO_UDP)
		if err != nil {
			return os.NewSyscallError("socket", err)
		}
		return nil
	}
	var err error
	if i.netns == "" {
		err = open()
	} else {
		err = cns.WithNetNSPath(i.netns, func(_ cns.NetNS) error { return open() })
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", netdev.ErrChannelOpen, typ, err)
	}
	return &channel{fd: fd}, nil
}

type channel struct {
	fd int
}

func (c *channel) Get(_ context.Context, name string) (netdev.Record, error) {
	ifr, err := newIfreq(name)
	if err != nil {
		return netdev.Record{}, err
	}
	if err := ioctl(c.fd, unix.SIOCGIFHWADDR, ifr); err != nil {
		if isNotFound(err) {
			return netdev.Record{}, fmt.Errorf("%w: %s: %w", netdev.ErrInterfaceNotFound, name, err)
		}
		return netdev.Record{}, err
	}
	return toRecord(ifr), nil
}

func (c *channel) Set(_ context.Context, name string, rec netdev.Record) error {
	ifr, err := newIfreq(name)
	if err != nil {
		return err
	}
	ifr.Hwaddr = toSockaddr(rec)
	if err := ioctl(c.fd, unix.SIOCSIFHWADDR, ifr); err != nil {
		return fmt.Errorf("%w: %s: %w", netdev.ErrApply, name, err)
	}
	return nil
}

func (c *channel) Close() error {
	return unix.Close(c.fd)
}

// ioctl is the only place the raw system call is made.
func ioctl(fd int, req uint, ifr *ifreqHwaddr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(unsafe.Pointer(ifr)))
	if errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}

func newIfreq(name string) (*ifreqHwaddr, error) {
	if err := netdev.ValidateName(name); err != nil {
		return nil, err
	}
	ifr := &ifreqHwaddr{}
	copy(ifr.Name[:], name)
	return ifr, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, unix.ENODEV) || errors.Is(err, unix.ENXIO)
}

func toRecord(ifr *ifreqHwaddr) netdev.Record {
	return netdev.Record{
		Name:   unix.ByteSliceToString(ifr.Name[:]),
		Family: ifr.Hwaddr.Family,
		Data:   ifr.Hwaddr.Data,
	}
}

func toSockaddr(rec netdev.Record) sockaddr {
	return sockaddr{Family: rec.Family, Data: rec.Data}
}

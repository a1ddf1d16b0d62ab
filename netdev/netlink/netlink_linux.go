package netlink

import (
	"context"
	"errors"
	"fmt"

	"github.com/containernetworking/plugins/pkg/netlinksafe"
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"

	"github.com/projecteru2/macchanger/mac"
	"github.com/projecteru2/macchanger/netdev"
)

// encapFamily maps netlink's EncapType names back to ARPHRD values so
// records from both backends carry the same family discriminant.
var encapFamily = map[string]uint16{
	"ether":    unix.ARPHRD_ETHER,
	"loopback": unix.ARPHRD_LOOPBACK,
	"ieee802":  unix.ARPHRD_IEEE802,
	"none":     unix.ARPHRD_NONE,
}

// Open creates a route netlink handle, in the configured namespace if any.
func (n *Netlink) Open(_ context.Context) (netdev.Channel, error) {
	h, err := n.handle()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", netdev.ErrChannelOpen, typ, err)
	}
	return &channel{h: h}, nil
}

func (n *Netlink) handle() (netlinksafe.Handle, error) {
	if n.netns == "" {
		return netlinksafe.NewHandle(unix.NETLINK_ROUTE)
	}
	ns, err := netns.GetFromPath(n.netns)
	if err != nil {
		return netlinksafe.Handle{}, fmt.Errorf("open netns %s: %w", n.netns, err)
	}
	defer ns.Close() //nolint:errcheck
	return netlinksafe.NewHandleAt(ns, unix.NETLINK_ROUTE)
}

type channel struct {
	h netlinksafe.Handle
}

func (c *channel) Get(_ context.Context, name string) (netdev.Record, error) {
	link, err := c.h.LinkByName(name)
	if err != nil {
		if isNotFound(err) {
			return netdev.Record{}, fmt.Errorf("%w: %s: %w", netdev.ErrInterfaceNotFound, name, err)
		}
		return netdev.Record{}, err
	}
	return toRecord(link.Attrs()), nil
}

// Set resolves the link again by the index the record was read with, so a
// link renamed or replaced in between is not written to.
func (c *channel) Set(_ context.Context, name string, rec netdev.Record) error {
	link, err := c.h.LinkByIndex(rec.Index)
	if err != nil {
		return fmt.Errorf("%w: %s (index %d): %w", netdev.ErrApply, name, rec.Index, err)
	}
	if got := link.Attrs().Name; got != name {
		return fmt.Errorf("%w: index %d is now %q, not %q", netdev.ErrApply, rec.Index, got, name)
	}
	if err := c.h.LinkSetHardwareAddr(link, rec.Address().HardwareAddr()); err != nil {
		return fmt.Errorf("%w: %s: %w", netdev.ErrApply, name, err)
	}
	return nil
}

func (c *channel) Close() error {
	c.h.Close()
	return nil
}

func isNotFound(err error) bool {
	var lnf netlink.LinkNotFoundError
	return errors.As(err, &lnf) || errors.Is(err, unix.ENODEV)
}

func toRecord(attrs *netlink.LinkAttrs) netdev.Record {
	rec := netdev.Record{
		Name:   attrs.Name,
		Family: encapFamily[attrs.EncapType],
		Flags:  attrs.RawFlags,
		Index:  attrs.Index,
	}
	// Interfaces without a 48-bit address (tun, ip6tnl) leave the payload short.
	copy(rec.Data[:mac.Len], attrs.HardwareAddr)
	return rec
}

package netdevtest

import (
	"os"
	"testing"

	"github.com/containernetworking/plugins/pkg/ns"
	"github.com/containernetworking/plugins/pkg/testutils"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"

	"github.com/projecteru2/macchanger/mac"
)

// SandboxAddr is the address a Sandbox link starts with.
var SandboxAddr = mac.FromBytes([6]byte{0x52, 0x54, 0x00, 0x12, 0x34, 0x56})

// Sandbox creates a throwaway network namespace holding one dummy link
// named link and returns the namespace path. Anything that writes a
// hardware address against the kernel runs there, never on host links.
// It skips t unless running as root.
func Sandbox(t *testing.T, link string) string {
	t.Helper()
	if os.Geteuid() != 0 {
		t.Skip("needs root to create a network namespace")
	}

	netNS, err := testutils.NewNS()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = netNS.Close()
		_ = testutils.UnmountNS(netNS)
	})

	err = netNS.Do(func(ns.NetNS) error {
		return netlink.LinkAdd(&netlink.Dummy{LinkAttrs: netlink.LinkAttrs{
			Name:         link,
			HardwareAddr: SandboxAddr.HardwareAddr(),
		}})
	})
	require.NoError(t, err)
	return netNS.Path()
}

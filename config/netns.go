package config

import (
	"path/filepath"
	"strings"
)

// NetnsPath is where iproute2 mounts named network namespaces.
const NetnsPath = "/var/run/netns"

// NetnsFile resolves NetNS to a namespace file. A bare name is looked up
// under NetnsPath the way `ip netns exec` does; anything containing a
// slash is used as-is. Empty means the current namespace.
func (c *Config) NetnsFile() string {
	switch {
	case c.NetNS == "":
		return ""
	case strings.Contains(c.NetNS, "/"):
		return filepath.Clean(c.NetNS)
	default:
		return filepath.Join(NetnsPath, c.NetNS)
	}
}

// InterfaceLock returns the lock file guarding ifName, or "" when locking
// is disabled. Locks are per namespace so equal names in different
// namespaces do not contend.
func (c *Config) InterfaceLock(ifName string) string {
	if c.LockDir == "" {
		return ""
	}
	name := ifName + ".lock"
	if c.NetNS != "" {
		name = filepath.Base(c.NetnsFile()) + "." + name
	}
	return filepath.Join(c.LockDir, name)
}

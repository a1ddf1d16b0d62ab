package config

import (
	"fmt"
	"slices"

	coretypes "github.com/projecteru2/core/types"

	"github.com/projecteru2/macchanger/mac"
)

// Backend names.
const (
	BackendIoctl   = "ioctl"
	BackendNetlink = "netlink"
)

// Backends lists the accepted values of Config.Backend.
var Backends = []string{BackendIoctl, BackendNetlink}

// Config holds global macchanger configuration.
type Config struct {
	// Backend selects how the hardware address is read and written:
	// "ioctl" (SIOCGIFHWADDR/SIOCSIFHWADDR) or "netlink" (rtnetlink).
	// Env: MACCHANGER_BACKEND. Default: ioctl.
	Backend string `json:"backend" mapstructure:"backend"`
	// NetNS is a network namespace name (under /var/run/netns) or path.
	// Empty means the caller's namespace.
	// Env: MACCHANGER_NETNS.
	NetNS string `json:"netns" mapstructure:"netns"`
	// LockDir holds one lock file per interface so concurrent invocations
	// on the same interface do not interleave. Empty disables locking.
	// Env: MACCHANGER_LOCK_DIR. Default: /run/macchanger.
	LockDir string `json:"lock_dir" mapstructure:"lock_dir"`
	// Address holds the control-bit defaults; CLI flags override them.
	Address mac.Options `json:"address" mapstructure:"address"`
	// Log configuration, uses eru core's ServerLogConfig. The default level
	// is warn: the console writer shares stdout with the printed address.
	Log coretypes.ServerLogConfig `json:"log" mapstructure:"log"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendIoctl,
		LockDir: "/run/macchanger",
		Log: coretypes.ServerLogConfig{
			Level: "warn",
		},
	}
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("unknown backend %q, want one of %v", c.Backend, Backends)
	}
	return nil
}

package netdev

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/projecteru2/macchanger/mac"
)

// IFNAMSIZ from linux/if.h, including the trailing NUL.
const IFNAMSIZ = 16

var (
	// ErrChannelOpen means the OS refused a control channel (privilege, resources).
	ErrChannelOpen = errors.New("open control channel")
	// ErrInterfaceNotFound means the named interface does not exist at read time.
	ErrInterfaceNotFound = errors.New("interface not found")
	// ErrApply means the OS rejected the write (permission, device state).
	ErrApply = errors.New("apply hardware address")
	// ErrInvalidName means the interface name can never be valid.
	ErrInvalidName = errors.New("invalid interface name")
)

// Backend opens control channels to the OS networking subsystem.
type Backend interface {
	Type() string
	Open(ctx context.Context) (Channel, error)
}

// Channel issues hardware-address requests. A Channel is used for one
// get→set cycle and closed afterwards.
type Channel interface {
	Get(ctx context.Context, name string) (Record, error)
	Set(ctx context.Context, name string, rec Record) error
	Close() error
}

// Record is the OS's current hardware-address record for one interface.
// It is borrowed for a single get→modify→set cycle and never cached.
type Record struct {
	Name   string `json:"name"`
	Family uint16 `json:"family"`
	Flags  uint32 `json:"flags"`
	Index  int    `json:"index"`
	// Data is the address payload (sa_data); the hardware address
	// occupies the first mac.Len bytes.
	Data [14]byte `json:"data"`
}

// Address returns the hardware address held in the payload.
func (r Record) Address() mac.Address {
	var a mac.Address
	copy(a[:], r.Data[:mac.Len])
	return a
}

// WithAddress returns a copy of r whose payload is a, zero padded.
// All other fields are preserved.
func (r Record) WithAddress(a mac.Address) Record {
	r.Data = [14]byte{}
	b := a.Bytes()
	copy(r.Data[:], b[:])
	return r
}

// ValidateName rejects names no OS interface can carry. It follows the
// kernel's dev_valid_name: non-empty, shorter than IFNAMSIZ, not "." or
// "..", and free of '/', ':', NUL and whitespace. Names are also used to
// build lock file paths, so this must run before anything touches disk.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) >= IFNAMSIZ:
		return fmt.Errorf("%w: %q exceeds %d bytes", ErrInvalidName, name, IFNAMSIZ-1)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if i := strings.IndexAny(name, "/:\x00 \t\n\v\f\r"); i >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, name[i])
	}
	return nil
}

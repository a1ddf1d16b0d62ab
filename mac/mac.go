package mac

import (
	"crypto/rand"
	"fmt"
	"net"
)

// Control bits of the first octet (IEEE 802).
const (
	// GroupBit is the I/G bit: 0 = unicast (individual), 1 = multicast (group).
	GroupBit byte = 0x01
	// LocalBit is the U/L bit: 0 = universally administered, 1 = locally administered.
	LocalBit byte = 0x02
)

// Len is the number of octets in an Address.
const Len = 6

// Address is a 48-bit link-layer hardware address.
//
//	first octet: [7..2 identifier][1 U/L][0 I/G]
//
// The remaining 46 bits carry no meaning here.
type Address [Len]byte

// Options selects control-bit overrides applied on top of the
// unicast, locally-administered default.
type Options struct {
	Multicast bool `json:"multicast" mapstructure:"multicast"`
	Universal bool `json:"universal" mapstructure:"universal"`
}

// Generate returns a random unicast, locally-administered address.
func Generate() Address {
	var a Address
	_, _ = rand.Read(a[:]) // never fails since go1.24
	a[0] = a[0]&^(GroupBit|LocalBit) | LocalBit
	return a
}

// New generates an address and applies opts. Multicast is applied first,
// then universal; the two touch different bits so the order is not observable.
func New(opts Options) Address {
	a := Generate()
	if opts.Multicast {
		a.SetMulticast()
	}
	if opts.Universal {
		a.SetUniversal()
	}
	return a
}

// FromBytes builds an Address from six octets.
func FromBytes(b [Len]byte) Address { return Address(b) }

// FromHardwareAddr converts a 48-bit net.HardwareAddr.
func FromHardwareAddr(hw net.HardwareAddr) (Address, error) {
	var a Address
	if len(hw) != Len {
		return a, fmt.Errorf("hardware address %q: want %d octets, got %d", hw, Len, len(hw))
	}
	copy(a[:], hw)
	return a, nil
}

// Parse parses any 48-bit form accepted by net.ParseMAC.
func Parse(s string) (Address, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return Address{}, fmt.Errorf("parse MAC %q: %w", s, err)
	}
	return FromHardwareAddr(hw)
}

// SetMulticast sets the I/G bit.
func (a *Address) SetMulticast() { a[0] |= GroupBit }

// SetUnicast clears the I/G bit.
func (a *Address) SetUnicast() { a[0] &^= GroupBit }

// SetUniversal clears the U/L bit. It is an absolute set, not a toggle:
// calling it twice leaves the address universally administered.
func (a *Address) SetUniversal() { a[0] &^= LocalBit }

// SetLocal sets the U/L bit.
func (a *Address) SetLocal() { a[0] |= LocalBit }

// IsMulticast reports whether the I/G bit is set (group address).
func (a Address) IsMulticast() bool { return a[0]&GroupBit != 0 }

// IsUnicast reports whether the I/G bit is clear.
func (a Address) IsUnicast() bool { return !a.IsMulticast() }

// IsLocal reports whether the U/L bit is set (locally administered).
func (a Address) IsLocal() bool { return a[0]&LocalBit != 0 }

// IsUniversal reports whether the U/L bit is clear (vendor assigned OUI).
func (a Address) IsUniversal() bool { return !a.IsLocal() }

// Bytes returns the six octets in order.
func (a Address) Bytes() [Len]byte { return a }

// HardwareAddr returns a freshly allocated net.HardwareAddr.
func (a Address) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, Len)
	copy(hw, a[:])
	return hw
}

// String renders lower-case colon-separated hex, e.g. 02:1a:3f:00:ff:0b.
func (a Address) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// Describe names the control-bit state, e.g. "unicast, local".
func (a Address) Describe() string {
	cast, admin := "unicast", "local"
	if a.IsMulticast() {
		cast = "multicast"
	}
	if a.IsUniversal() {
		admin = "universal"
	}
	return cast + ", " + admin
}

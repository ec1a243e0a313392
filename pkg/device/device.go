package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/synmap/synmap-go/pkg/model"
	"github.com/synmap/synmap-go/pkg/sysex"
)

// Device errors.
var (
	ErrNoRoot        = errors.New("device has no address map")
	ErrUnknownFormat = errors.New("unknown address format")
)

// AddressFormat selects how bit addresses are labeled for display.
type AddressFormat uint8

const (
	// AddressBits prints the raw bit address.
	AddressBits AddressFormat = iota
	// AddressHex3 prints the byte address as three 7-bit hex bytes ("02 01 00").
	AddressHex3
	// AddressDecimal prints the byte offset in decimal.
	AddressDecimal
)

// String returns the format name.
func (f AddressFormat) String() string {
	switch f {
	case AddressBits:
		return "bits"
	case AddressHex3:
		return "hex3"
	case AddressDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// ParseAddressFormat maps a name back to an AddressFormat.
func ParseAddressFormat(s string) (AddressFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bits":
		return AddressBits, nil
	case "hex3":
		return AddressHex3, nil
	case "decimal":
		return AddressDecimal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Format labels a bit address. Addresses not on a byte boundary get a
// ".n" suffix with the bit offset into the byte.
func (f AddressFormat) Format(bit int64) string {
	if bit < 0 {
		return "--"
	}
	byteAddr, rem := bit/7, bit%7
	var s string
	switch f {
	case AddressHex3:
		hi, mid, lo := sysex.SplitAddress(uint32(byteAddr))
		s = fmt.Sprintf("%02X %02X %02X", hi, mid, lo)
	case AddressDecimal:
		s = fmt.Sprintf("%d", byteAddr)
	default:
		return fmt.Sprintf("%d", bit)
	}
	if rem != 0 {
		s += fmt.Sprintf(".%d", rem)
	}
	return s
}

// Info describes a device model for listings.
type Info struct {
	Name        string
	Description string
	Author      string
	Identity    sysex.Identity
	Framing     sysex.Framing
	Format      AddressFormat
}

// Device is a synthesizer model: identity, framing and its address map.
type Device struct {
	info Info
	root *model.Group
}

// New creates a device around root and resolves the map.
func New(info Info, root *model.Group) (*Device, error) {
	if root == nil {
		return nil, ErrNoRoot
	}
	if err := info.Identity.Validate(); err != nil {
		return nil, fmt.Errorf("device %q: %w", info.Name, err)
	}
	if err := root.Resolve(); err != nil {
		return nil, fmt.Errorf("device %q: %w", info.Name, err)
	}
	return &Device{info: info, root: root}, nil
}

// Info returns the device description.
func (d *Device) Info() Info { return d.info }

// Name returns the registry name.
func (d *Device) Name() string { return d.info.Name }

// Identity returns the manufacturer, model and device number.
func (d *Device) Identity() sysex.Identity { return d.info.Identity }

// SetDeviceNumber changes the device number used in dumps and expected
// in received frames.
func (d *Device) SetDeviceNumber(n byte) error {
	id := d.info.Identity
	id.DeviceNumber = n
	if err := id.Validate(); err != nil {
		return err
	}
	d.info.Identity = id
	return nil
}

// Framing returns the dump framing.
func (d *Device) Framing() sysex.Framing { return d.info.Framing }

// Root returns the resolved address map.
func (d *Device) Root() *model.Group { return d.root }

// FormatAddress labels a bit address in the device's convention.
func (d *Device) FormatAddress(bit int64) string {
	return d.info.Format.Format(bit)
}

// Reset restores every parameter to its default value.
func (d *Device) Reset() {
	for _, l := range model.Leaves(d.root) {
		l.Contents().Reset()
	}
}

// Leaves returns every parameter in map order.
func (d *Device) Leaves() []*model.Leaf {
	return model.Leaves(d.root)
}

func (d *Device) options(opts []sysex.Option) []sysex.Option {
	return append([]sysex.Option{sysex.WithDevice(d.info.Name)}, opts...)
}

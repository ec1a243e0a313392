package sysex

import (
	"errors"
	"fmt"
	"strings"
)

// MIDI framing bytes.
const (
	StatusSysEx    byte = 0xF0
	EndOfExclusive byte = 0xF7
)

// Address space limits.
const (
	// MaxByteAddress is the largest address expressible in three 7-bit bytes.
	MaxByteAddress uint32 = 0x1FFFFF

	// MaxCount is the largest byte count expressible in two 7-bit bytes.
	MaxCount = 0x3FFF

	// MaxBitAddress bounds the end of a dumped bit range.
	MaxBitAddress int64 = 7 * 0x3FFFFF
)

// Framing and identity errors.
var (
	ErrFraming      = errors.New("malformed sysex frame")
	ErrIdentity     = errors.New("frame is for a different device")
	ErrChecksum     = errors.New("checksum mismatch")
	ErrTruncated    = errors.New("frame is truncated")
	ErrDataByte     = errors.New("byte is not a 7-bit data byte")
	ErrUnknownFrame = errors.New("unknown framing")
)

// Identity names the device a dump is addressed to.
type Identity struct {
	Manufacturer byte
	Model        byte

	// DeviceNumber selects one of several identical units (0-15). It is
	// ignored by framings without a device-number byte.
	DeviceNumber byte
}

// Validate checks that every identity byte fits its wire slot.
func (id Identity) Validate() error {
	if id.Manufacturer > 0x7F {
		return fmt.Errorf("%w: manufacturer %#02x", ErrDataByte, id.Manufacturer)
	}
	if id.Model > 0x7F {
		return fmt.Errorf("%w: model %#02x", ErrDataByte, id.Model)
	}
	if id.DeviceNumber > 0x0F {
		return fmt.Errorf("%w: device number %d exceeds 15", ErrDataByte, id.DeviceNumber)
	}
	return nil
}

// String formats the identity as hex bytes.
func (id Identity) String() string {
	return fmt.Sprintf("mfr=%02X model=%02X dev=%d", id.Manufacturer, id.Model, id.DeviceNumber)
}

// Framing selects a bulk-dump header layout.
type Framing uint8

const (
	// FramingXG: F0, manufacturer, device number, model, count, address,
	// data, checksum, F7. The checksum covers count, address and data.
	FramingXG Framing = iota

	// FramingEmbedded: manufacturer, model, count, address, data, checksum.
	// The checksum also covers the manufacturer and model bytes.
	FramingEmbedded
)

// String returns the framing name.
func (f Framing) String() string {
	switch f {
	case FramingXG:
		return "xg"
	case FramingEmbedded:
		return "embedded"
	default:
		return "unknown"
	}
}

// ParseFraming maps a name back to a Framing.
func ParseFraming(s string) (Framing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xg":
		return FramingXG, nil
	case "embedded":
		return FramingEmbedded, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFrame, s)
}

func (f Framing) valid() bool {
	return f == FramingXG || f == FramingEmbedded
}

// HasStatus reports whether frames start with F0 and end with F7.
func (f Framing) HasStatus() bool { return f == FramingXG }

// HasDeviceNumber reports whether the header carries a device-number byte.
func (f Framing) HasDeviceNumber() bool { return f == FramingXG }

// HeaderLen returns the number of bytes before the payload.
func (f Framing) HeaderLen() int {
	n := 7
	if f.HasStatus() {
		n++
	}
	if f.HasDeviceNumber() {
		n++
	}
	return n
}

// TrailerLen returns the number of bytes after the payload.
func (f Framing) TrailerLen() int {
	if f.HasStatus() {
		return 2
	}
	return 1
}

// FrameLen returns the total frame size for count payload bytes.
func (f Framing) FrameLen(count int) int {
	return f.HeaderLen() + count + f.TrailerLen()
}

// header builds the header bytes and the checksum folded over them.
func (f Framing) header(id Identity, addr uint32, count int) ([]byte, byte) {
	hdr := make([]byte, 0, f.HeaderLen())
	var sum byte

	if f.HasStatus() {
		hdr = append(hdr, StatusSysEx)
	}
	hdr = append(hdr, id.Manufacturer)
	if f.HasDeviceNumber() {
		// Bulk dump messages use the 0n form of the device byte.
		hdr = append(hdr, id.DeviceNumber&0x0F)
	}
	hdr = append(hdr, id.Model)
	if f == FramingEmbedded {
		sum += id.Manufacturer + id.Model
	}

	ah, am, al := SplitAddress(addr)
	body := []byte{byte(count>>7) & 0x7F, byte(count) & 0x7F, ah, am, al}
	for _, b := range body {
		sum += b
	}
	hdr = append(hdr, body...)
	return hdr, sum & 0x7F
}

// Checksum returns the 7-bit two's complement of the sum of data.
func Checksum(data ...byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return negate(sum)
}

func negate(sum byte) byte {
	return (0x80 - sum&0x7F) & 0x7F
}

// SplitAddress returns the three 7-bit bytes of a 21-bit byte address.
func SplitAddress(addr uint32) (hi, mid, lo byte) {
	return byte(addr>>14) & 0x7F, byte(addr>>7) & 0x7F, byte(addr) & 0x7F
}

// JoinAddress combines three 7-bit bytes into a byte address.
func JoinAddress(hi, mid, lo byte) uint32 {
	return uint32(hi&0x7F)<<14 | uint32(mid&0x7F)<<7 | uint32(lo&0x7F)
}

// BitAddress converts a byte address to the map's bit address.
func BitAddress(byteAddr uint32) int64 {
	return int64(byteAddr) * 7
}

// ByteAddress converts a 7-bit aligned bit address to a byte address.
func ByteAddress(bit int64) (uint32, error) {
	if bit < 0 || bit%7 != 0 {
		return 0, fmt.Errorf("%w: bit address %d", ErrUnaligned, bit)
	}
	b := bit / 7
	if b > int64(MaxByteAddress) {
		return 0, fmt.Errorf("%w: byte address %#x exceeds %#x", ErrInvalidBounds, b, MaxByteAddress)
	}
	return uint32(b), nil
}

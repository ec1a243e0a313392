package table

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/synmap/synmap-go/pkg/sysex"
)

// Table is a complete device table.
type Table struct {
	Name          string               `yaml:"name"`
	Description   string               `yaml:"description,omitempty"`
	Author        string               `yaml:"author,omitempty"`
	Manufacturer  uint8                `yaml:"manufacturer"`
	Model         uint8                `yaml:"model"`
	DeviceNumber  uint8                `yaml:"device_number,omitempty"`
	Framing       string               `yaml:"framing"`
	AddressFormat string               `yaml:"address_format,omitempty"`
	Ranges        map[string]*RangeDef `yaml:"ranges"`
	Nodes         []*NodeDef           `yaml:"nodes"`
}

// RangeDef is a named, reusable Range.
type RangeDef struct {
	// Enumerable defaults to true.
	Enumerable *bool         `yaml:"enumerable,omitempty"`
	Icon       string        `yaml:"icon,omitempty"`
	Subranges  []SubrangeDef `yaml:"subranges"`
}

// SubrangeDef is one subrange. Exactly one rendering is chosen:
//   - label: a single value at lower
//   - enum: one label per value starting at lower
//   - offset (with optional base): numbers from lower to upper
//
// Bounds are raw 32-bit patterns; a lower bound above the upper one wraps.
type SubrangeDef struct {
	Lower  int64    `yaml:"lower"`
	Upper  *int64   `yaml:"upper,omitempty"`
	Label  string   `yaml:"label,omitempty"`
	Enum   []string `yaml:"enum,omitempty"`
	Offset *int64   `yaml:"offset,omitempty"`
	Base   int      `yaml:"base,omitempty"`
}

// NodeDef is a group (with children) or a parameter (with ranges).
type NodeDef struct {
	Label    string     `yaml:"label"`
	Address  *ByteAddr  `yaml:"address,omitempty"`
	Repeat   *RepeatDef `yaml:"repeat,omitempty"`
	Children []*NodeDef `yaml:"children,omitempty"`

	// Parameter fields.
	Range   string   `yaml:"range,omitempty"`
	Views   []string `yaml:"views,omitempty"`
	Default int64    `yaml:"default,omitempty"`
	Bits    uint8    `yaml:"bits,omitempty"`

	// Signed sign-extends received values from Bits.
	Signed bool `yaml:"signed,omitempty"`

	// line is the source line, zero for tables built in Go.
	line int
}

// IsGroup reports whether the node has children.
func (n *NodeDef) IsGroup() bool { return len(n.Children) > 0 }

// RepeatDef expands a node into Count numbered copies.
type RepeatDef struct {
	Count int `yaml:"count"`

	// Stride is the byte distance between copies. Zero places copies
	// back to back.
	Stride ByteAddr `yaml:"stride,omitempty"`

	// Label is a printf format taking the copy number; it defaults to
	// the node label followed by the number.
	Label string `yaml:"label,omitempty"`

	// First is the number of the first copy (default 1).
	First *int `yaml:"first,omitempty"`
}

// ByteAddr is a byte address in the device's 21-bit space.
type ByteAddr uint32

// At returns a pointer to a ByteAddr, for tables written in Go.
func At(addr uint32) *ByteAddr {
	a := ByteAddr(addr)
	return &a
}

// Int64 returns a pointer to v, for tables written in Go.
func Int64(v int64) *int64 { return &v }

// Bool returns a pointer to v, for tables written in Go.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for tables written in Go.
func Int(v int) *int { return &v }

// ParseByteAddr accepts a decimal or 0x-prefixed integer, or three
// space-separated hex bytes ("02 01 00").
func ParseByteAddr(s string) (ByteAddr, error) {
	s = strings.TrimSpace(s)
	if parts := strings.Fields(s); len(parts) == 3 {
		var b [3]byte
		for i, p := range parts {
			v, err := strconv.ParseUint(p, 16, 8)
			if err != nil || v > 0x7F {
				return 0, fmt.Errorf("invalid address byte %q in %q", p, s)
			}
			b[i] = byte(v)
		}
		return ByteAddr(sysex.JoinAddress(b[0], b[1], b[2])), nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	if v > uint64(sysex.MaxByteAddress) {
		return 0, fmt.Errorf("address %q exceeds %#x", s, sysex.MaxByteAddress)
	}
	return ByteAddr(v), nil
}

// UnmarshalYAML decodes an integer or hex-triplet scalar.
func (a *ByteAddr) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: address must be a scalar", value.Line)
	}
	v, err := ParseByteAddr(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*a = v
	return nil
}

// MarshalYAML writes the address as a hex triplet.
func (a ByteAddr) MarshalYAML() (any, error) {
	hi, mid, lo := sysex.SplitAddress(uint32(a))
	return fmt.Sprintf("%02X %02X %02X", hi, mid, lo), nil
}

var nodeFields = map[string]bool{
	"label": true, "address": true, "repeat": true, "children": true,
	"range": true, "views": true, "default": true, "bits": true, "signed": true,
}

// UnmarshalYAML records the node's line for error messages. Node.Decode
// does not inherit the decoder's KnownFields, so keys are checked here.
func (n *NodeDef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if k := value.Content[i]; !nodeFields[k.Value] {
				return fmt.Errorf("line %d: unknown node field %q", k.Line, k.Value)
			}
		}
	}
	type plain NodeDef
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*n = NodeDef(p)
	n.line = value.Line
	return nil
}

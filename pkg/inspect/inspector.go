package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/synmap/synmap-go/pkg/device"
	"github.com/synmap/synmap-go/pkg/model"
	"github.com/synmap/synmap-go/pkg/sysex"
)

// Inspector errors.
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrAmbiguous    = errors.New("ambiguous label")
	ErrNotParameter = errors.New("node is not a parameter")
	ErrUnknownValue = errors.New("value not found in range")
)

// Inspector provides inspection and editing of a device's address map.
type Inspector struct {
	device *device.Device
}

// NewInspector creates a new Inspector for the given device.
func NewInspector(d *device.Device) *Inspector {
	return &Inspector{device: d}
}

// Device returns the underlying device.
func (i *Inspector) Device() *device.Device {
	return i.device
}

// Find returns the node a parsed path names.
func (i *Inspector) Find(p *Path) (model.Node, error) {
	root := i.device.Root()
	if p.IsAddress {
		bit := sysex.BitAddress(p.Address)
		leaf, ok := model.Locate(root, bit)
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrInaccessible, i.device.FormatAddress(bit))
		}
		return leaf, nil
	}

	var n model.Node = root
	for _, seg := range p.Segments {
		g, ok := n.(*model.Group)
		if !ok {
			return nil, fmt.Errorf("%w: %q has no children", ErrNodeNotFound, n.Path())
		}
		next, err := matchChild(g, seg)
		if err != nil {
			return nil, err
		}
		n = next
	}
	return n, nil
}

// Resolve parses input and returns the node it names.
func (i *Inspector) Resolve(input string) (model.Node, error) {
	p, err := ParsePath(input)
	if err != nil {
		return nil, err
	}
	return i.Find(p)
}

// Parameter resolves input to a leaf.
func (i *Inspector) Parameter(input string) (*model.Leaf, error) {
	n, err := i.Resolve(input)
	if err != nil {
		return nil, err
	}
	l, ok := n.(*model.Leaf)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotParameter, input)
	}
	return l, nil
}

// ParamInfo is a snapshot of one parameter for display.
type ParamInfo struct {
	Path     string
	Address  string
	BitSize  uint8
	Value    int32
	Default  int32
	Display  string
	Selected int
	Ranges   int
	Icon     string
}

// Info snapshots l.
func (i *Inspector) Info(l *model.Leaf) *ParamInfo {
	c := l.Contents()
	return &ParamInfo{
		Path:     l.Path(),
		Address:  i.device.FormatAddress(l.Address()),
		BitSize:  c.BitSize(),
		Value:    c.Value(),
		Default:  c.Default(),
		Display:  c.Display(),
		Selected: c.Selected(),
		Ranges:   len(c.Ranges()),
		Icon:     c.Range().Icon(),
	}
}

// Get reads the parameter at input.
func (i *Inspector) Get(input string) (*ParamInfo, error) {
	l, err := i.Parameter(input)
	if err != nil {
		return nil, err
	}
	return i.Info(l), nil
}

// Set writes value to the parameter at input. See ParseValue for the
// accepted forms.
func (i *Inspector) Set(input, value string) (*ParamInfo, error) {
	l, err := i.Parameter(input)
	if err != nil {
		return nil, err
	}
	v, err := ParseValue(l.Contents(), value)
	if err != nil {
		return nil, err
	}
	l.Contents().Set(v)
	return i.Info(l), nil
}

// Step moves the parameter to the next (up) or previous member of its
// selected range. It reports false when the value did not move.
func (i *Inspector) Step(input string, up bool) (*ParamInfo, bool, error) {
	l, err := i.Parameter(input)
	if err != nil {
		return nil, false, err
	}
	var moved bool
	if up {
		moved = l.Contents().Increment()
	} else {
		moved = l.Contents().Decrement()
	}
	return i.Info(l), moved, nil
}

// SelectRange switches the display range of the parameter at input.
func (i *Inspector) SelectRange(input string, idx int) (*ParamInfo, error) {
	l, err := i.Parameter(input)
	if err != nil {
		return nil, err
	}
	if err := l.Contents().SelectRange(idx); err != nil {
		return nil, err
	}
	return i.Info(l), nil
}

// Reset restores every parameter at or below input to its default and
// returns how many parameters it touched.
func (i *Inspector) Reset(input string) (int, error) {
	n, err := i.Resolve(input)
	if err != nil {
		return 0, err
	}
	leaves := model.Leaves(n)
	for _, l := range leaves {
		l.Contents().Reset()
	}
	return len(leaves), nil
}

// ParseValue maps text onto a value for c.
//
// Supported forms:
//   - "#64", "#0x40" - a raw value, stored as is
//   - "C", "Hall 1" - a display label of the selected range
//   - "64" - a raw number, if no label matches
func ParseValue(c *model.Contents, text string) (int32, error) {
	text = strings.TrimSpace(text)
	if raw, ok := strings.CutPrefix(text, "#"); ok {
		return parseRaw(raw)
	}
	if v, ok := labelValue(c.Range(), text); ok {
		return v, nil
	}
	if v, err := parseRaw(text); err == nil {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownValue, text)
}

// parseRaw accepts decimal or 0x-prefixed values, signed or as 32-bit patterns.
func parseRaw(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownValue, s)
	}
	if v < -1<<31 || v > 1<<32-1 {
		return 0, fmt.Errorf("%w: %q exceeds 32 bits", ErrUnknownValue, s)
	}
	return int32(uint32(v)), nil
}

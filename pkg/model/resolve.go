package model

import (
	"errors"
	"fmt"
	"sort"
)

// Lookup errors. They describe inaccessible regions and are part of normal
// control flow for callers that scan address ranges.
var (
	ErrUnresolved   = errors.New("map is not resolved")
	ErrInaccessible = errors.New("address is not covered by any parameter")
	ErrCrossesNode  = errors.New("read extends past the parameter")
	ErrFieldSize    = errors.New("invalid field size")
)

// Resolve assigns addresses to every node of the map rooted at g.
//
// Nodes are visited depth-first in map order. A node without a desired
// address starts at the next free address; a node with one starts there,
// leaving an inaccessible gap. A desired address below the next free address
// is a configuration error and leaves the map unresolved.
func (g *Group) Resolve() error {
	if g.parent != nil {
		return fmt.Errorf("%w: %q has a parent", ErrNotRoot, g.label)
	}
	g.resolved = false
	if _, err := resolve(g, 0); err != nil {
		return err
	}
	g.resolved = true
	return nil
}

func resolve(n Node, next int64) (int64, error) {
	b := n.base()

	addr := next
	switch {
	case b.desired == AutoAddress:
	case b.desired < 0:
		return 0, fmt.Errorf("%w: %q requests %d", ErrInvalidAddress, displayPath(n), b.desired)
	case b.desired < next:
		return 0, fmt.Errorf("%w: %q requests %d, next free is %d", ErrAddressOverlap, displayPath(n), b.desired, next)
	default:
		addr = b.desired
	}
	b.address = addr

	switch v := n.(type) {
	case *Leaf:
		size := v.contents.BitSize()
		b.total = uint64(size)
		b.end = addr + int64(size)
	case *Group:
		cur := addr
		var total uint64
		for _, c := range v.children {
			end, err := resolve(c, cur)
			if err != nil {
				return 0, err
			}
			cur = end
			total += c.TotalBits()
		}
		b.total = total
		b.end = cur
	}
	return b.end, nil
}

func displayPath(n Node) string {
	if p := n.Path(); p != "" {
		return p
	}
	return n.Label()
}

func rootOf(n Node) *Group {
	switch v := n.(type) {
	case *Group:
		return v.Root()
	case *Leaf:
		return v.Root()
	}
	return nil
}

func within(n Node, addr int64) bool {
	return addr >= n.Address() && addr < n.End()
}

// Locate finds the leaf covering addr.
//
// The search starts at from, which may be any node of a resolved map: it
// climbs to the first ancestor whose extent contains addr and then descends.
// Starting at the previously located leaf makes monotonic scans cheap. The
// result is false for padding gaps, addresses outside the map and
// unresolved maps.
func Locate(from Node, addr int64) (*Leaf, bool) {
	if from == nil || isNilNode(from) {
		return nil, false
	}
	if root := rootOf(from); root != nil && !root.resolved {
		return nil, false
	}
	if l, ok := from.(*Leaf); ok && l.parent == nil {
		return nil, false
	}

	n := from
	for !within(n, addr) {
		p := n.Parent()
		if p == nil {
			return nil, false
		}
		n = p
	}

	for {
		switch v := n.(type) {
		case *Leaf:
			return v, true
		case *Group:
			c := v.childAt(addr)
			if c == nil {
				return nil, false
			}
			n = c
		default:
			return nil, false
		}
	}
}

// childAt returns the child whose extent contains addr.
func (g *Group) childAt(addr int64) Node {
	idx := sort.Search(len(g.children), func(i int) bool {
		return g.children[i].Address() > addr
	}) - 1
	if idx >= 0 && within(g.children[idx], addr) {
		return g.children[idx]
	}
	return nil
}

// GetData reads size bits starting at addr from the leaf that covers addr.
func GetData(from Node, addr int64, size uint8) (uint32, error) {
	l, err := locateForData(from, addr)
	if err != nil {
		return 0, err
	}
	return l.Data(addr, size)
}

// SetData writes the low size bits of v at addr into the covering leaf.
func SetData(from Node, addr int64, size uint8, v uint32) error {
	l, err := locateForData(from, addr)
	if err != nil {
		return err
	}
	return l.SetData(addr, size, v)
}

func locateForData(from Node, addr int64) (*Leaf, error) {
	if from != nil && !isNilNode(from) {
		if root := rootOf(from); root == nil || !root.resolved {
			return nil, ErrUnresolved
		}
	}
	l, ok := Locate(from, addr)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInaccessible, addr)
	}
	return l, nil
}

// fieldShift validates a field of size bits at addr and returns its shift
// within the leaf value. Bit offset 0 is the most significant bit, matching
// the order in which bytes appear on the wire.
func (l *Leaf) fieldShift(addr int64, size uint8) (uint8, error) {
	if size == 0 || size > MaxBitSize {
		return 0, fmt.Errorf("%w: %d", ErrFieldSize, size)
	}
	if l.address < 0 || addr < l.address {
		return 0, fmt.Errorf("%w: %d is outside %q", ErrInaccessible, addr, displayPath(l))
	}
	bs := int64(l.contents.BitSize())
	off := addr - l.address
	if off+int64(size) > bs {
		return 0, fmt.Errorf("%w: %q holds %d bits, read of %d at offset %d", ErrCrossesNode, displayPath(l), bs, size, off)
	}
	return uint8(bs - off - int64(size)), nil
}

// Data extracts size bits at addr from the leaf's value.
func (l *Leaf) Data(addr int64, size uint8) (uint32, error) {
	shift, err := l.fieldShift(addr, size)
	if err != nil {
		return 0, err
	}
	return getBits(l.contents.Bits(), shift, size), nil
}

// SetData replaces size bits at addr in the leaf's value.
func (l *Leaf) SetData(addr int64, size uint8, v uint32) error {
	shift, err := l.fieldShift(addr, size)
	if err != nil {
		return err
	}
	l.contents.setField(shift, size, v)
	return nil
}

func getBits(v uint32, shift, size uint8) uint32 {
	return (v >> shift) & mask(size)
}

func setBits(v uint32, shift, size uint8, field uint32) uint32 {
	m := mask(size) << shift
	return (v &^ m) | ((field << shift) & m)
}

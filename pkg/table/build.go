package table

import (
	"fmt"
	"strings"

	"github.com/synmap/synmap-go/pkg/device"
	"github.com/synmap/synmap-go/pkg/model"
	"github.com/synmap/synmap-go/pkg/sysex"
)

// Build validates t and assembles a resolved device from it.
func Build(t *Table) (*device.Device, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	framing, err := sysex.ParseFraming(t.Framing)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTable, t.Name, err)
	}
	format, err := device.ParseAddressFormat(t.AddressFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTable, t.Name, err)
	}

	b := &builder{table: t, ranges: make(map[string]*model.Range, len(t.Ranges))}
	for name, def := range t.Ranges {
		r, err := buildRange(def)
		if err != nil {
			return nil, fmt.Errorf("%s: range %q: %w", t.Name, name, err)
		}
		b.ranges[name] = r
	}

	root := model.NewGroup(t.Name)
	for _, n := range t.Nodes {
		nodes, err := b.expand(n, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name, err)
		}
		if err := root.Add(nodes...); err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name, err)
		}
	}

	info := device.Info{
		Name:        t.Name,
		Description: t.Description,
		Author:      t.Author,
		Identity: sysex.Identity{
			Manufacturer: t.Manufacturer,
			Model:        t.Model,
			DeviceNumber: t.DeviceNumber,
		},
		Framing: framing,
		Format:  format,
	}
	return device.New(info, root)
}

// raw32 maps a table integer onto the 32-bit pattern the model stores.
func raw32(v int64) int32 {
	return int32(uint32(v))
}

func buildRange(def *RangeDef) (*model.Range, error) {
	r := model.NewRange()
	for _, s := range def.Subranges {
		var err error
		switch {
		case s.Label != "":
			err = r.AddSingle(raw32(s.Lower), s.Label)
		case len(s.Enum) > 0:
			err = r.AddEnum(raw32(s.Lower), s.Enum...)
		default:
			vt := model.ValueType(model.NewNumeric(*s.Offset))
			if s.Base != 0 {
				vt = model.NewNumericBase(*s.Offset, s.Base)
			}
			err = r.Add(raw32(s.Lower), raw32(*s.Upper), vt)
		}
		if err != nil {
			return nil, err
		}
	}
	if def.Enumerable != nil {
		if err := r.SetEnumerable(*def.Enumerable); err != nil {
			return nil, err
		}
	}
	if def.Icon != "" {
		if err := r.SetIcon(def.Icon); err != nil {
			return nil, err
		}
	}
	return r, nil
}

type builder struct {
	table  *Table
	ranges map[string]*model.Range
}

// expand returns the node, or its numbered copies if it repeats. offset is
// added to every explicit address in the subtree.
func (b *builder) expand(n *NodeDef, offset int64) ([]model.Node, error) {
	if n.Repeat == nil {
		node, err := b.node(n, n.Label, offset)
		if err != nil {
			return nil, err
		}
		return []model.Node{node}, nil
	}

	first := 1
	if n.Repeat.First != nil {
		first = *n.Repeat.First
	}
	format := n.Repeat.Label
	if format == "" {
		format = n.Label + " %d"
	}
	if !strings.Contains(format, "%") {
		format += " %d"
	}

	out := make([]model.Node, 0, n.Repeat.Count)
	for i := 0; i < n.Repeat.Count; i++ {
		label := fmt.Sprintf(format, first+i)
		node, err := b.node(n, label, offset+int64(i)*int64(n.Repeat.Stride))
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func (b *builder) node(n *NodeDef, label string, offset int64) (model.Node, error) {
	var opts []model.NodeOption
	if n.Address != nil {
		opts = append(opts, model.WithAddress(sysex.BitAddress(uint32(int64(*n.Address)+offset))))
	}

	where := label
	if n.line > 0 {
		where = fmt.Sprintf("line %d (%s)", n.line, label)
	}

	if n.IsGroup() {
		g := model.NewGroup(label, opts...)
		for _, c := range n.Children {
			nodes, err := b.expand(c, offset)
			if err != nil {
				return nil, err
			}
			if err := g.Add(nodes...); err != nil {
				return nil, fmt.Errorf("%s: %w", where, err)
			}
		}
		return g, nil
	}

	ranges := make([]*model.Range, 0, 1+len(n.Views))
	for _, name := range append([]string{n.Range}, n.Views...) {
		ranges = append(ranges, b.ranges[name])
	}
	c, err := model.NewContents(raw32(n.Default), ranges...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	if n.Bits != 0 {
		if err := c.SetBitSize(n.Bits); err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
	}
	c.SetSigned(n.Signed)
	l, err := model.NewLeaf(label, c, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	return l, nil
}

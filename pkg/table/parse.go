package table

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTable reports a structurally invalid table.
var ErrInvalidTable = errors.New("invalid device table")

// Load reads and validates a table file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a YAML table.
func Parse(data []byte) (*Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the table for errors that do not need a built map:
// missing fields, unknown range references, malformed nodes.
func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTable)
	}
	if t.Manufacturer > 0x7F || t.Model > 0x7F {
		return fmt.Errorf("%w: manufacturer and model must be 7-bit bytes", ErrInvalidTable)
	}
	if len(t.Nodes) == 0 {
		return fmt.Errorf("%w: %s has no nodes", ErrInvalidTable, t.Name)
	}
	for name, r := range t.Ranges {
		if r == nil || len(r.Subranges) == 0 {
			return fmt.Errorf("%w: range %q has no subranges", ErrInvalidTable, name)
		}
		for i, s := range r.Subranges {
			if err := s.validate(); err != nil {
				return fmt.Errorf("%w: range %q subrange %d: %v", ErrInvalidTable, name, i, err)
			}
		}
	}
	for _, n := range t.Nodes {
		if err := t.validateNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (s SubrangeDef) validate() error {
	kinds := 0
	if s.Label != "" {
		kinds++
	}
	if len(s.Enum) > 0 {
		kinds++
	}
	if s.Offset != nil {
		kinds++
	}
	switch {
	case kinds == 0:
		return errors.New("needs one of label, enum or offset")
	case kinds > 1:
		return errors.New("label, enum and offset are mutually exclusive")
	case s.Offset != nil && s.Upper == nil:
		return errors.New("numeric subrange needs upper")
	case s.Offset == nil && s.Upper != nil:
		return errors.New("upper is only valid with offset")
	}
	return nil
}

func (t *Table) validateNode(n *NodeDef) error {
	where := n.Label
	if n.line > 0 {
		where = fmt.Sprintf("line %d (%s)", n.line, n.Label)
	}
	if n.Label == "" {
		return fmt.Errorf("%w: %s: node without label", ErrInvalidTable, where)
	}
	if r := n.Repeat; r != nil {
		if r.Count < 1 {
			return fmt.Errorf("%w: %s: repeat count must be positive", ErrInvalidTable, where)
		}
		if r.Stride != 0 && n.Address == nil {
			return fmt.Errorf("%w: %s: repeat stride needs an address", ErrInvalidTable, where)
		}
	}
	if n.IsGroup() {
		if n.Range != "" || len(n.Views) > 0 || n.Bits != 0 || n.Signed {
			return fmt.Errorf("%w: %s: a group cannot have range, views, bits or signed", ErrInvalidTable, where)
		}
		for _, c := range n.Children {
			if err := t.validateNode(c); err != nil {
				return err
			}
		}
		return nil
	}
	if n.Range == "" {
		return fmt.Errorf("%w: %s: parameter without range", ErrInvalidTable, where)
	}
	for _, name := range append([]string{n.Range}, n.Views...) {
		if _, ok := t.Ranges[name]; !ok {
			return fmt.Errorf("%w: %s: unknown range %q", ErrInvalidTable, where, name)
		}
	}
	return nil
}

package model

import (
	"strconv"
	"strings"
)

// Unknown is the display string for values that no ValueType can render.
const Unknown = "???"

// ValueType renders raw parameter values as display strings.
//
// Implementations are immutable and safe for concurrent use. A single
// ValueType is typically shared by every Contents cell built from the same
// device table entry.
type ValueType interface {
	// Display returns the display string for v, or Unknown.
	Display(v int32) string

	// Lower returns the lowest value the type can render.
	Lower() int64

	// Count returns the number of values the type can render.
	Count() int
}

// Enumeration renders values as an ordered list of strings starting at a
// lower bound.
type Enumeration struct {
	lower  int64
	values []string
}

// NewEnumeration creates an enumeration whose first label belongs to lower.
func NewEnumeration(lower int64, values ...string) *Enumeration {
	v := make([]string, len(values))
	copy(v, values)
	return &Enumeration{lower: lower, values: v}
}

// SingleValue creates an enumeration of exactly one label.
func SingleValue(lower int64, label string) *Enumeration {
	return NewEnumeration(lower, label)
}

// Display returns values[v-lower] if the index is in range.
func (e *Enumeration) Display(v int32) string {
	idx := int64(v) - e.lower
	if idx < 0 || idx >= int64(len(e.values)) {
		return Unknown
	}
	return e.values[idx]
}

// Lower returns the value of the first label.
func (e *Enumeration) Lower() int64 { return e.lower }

// Count returns the number of labels.
func (e *Enumeration) Count() int { return len(e.values) }

// Labels returns a copy of the labels.
func (e *Enumeration) Labels() []string {
	out := make([]string, len(e.values))
	copy(out, e.values)
	return out
}

// Numeric renders values as integers after adding an offset.
//
// The rendered quantity is limited to the 8-bit domain [0, 255]; anything
// outside renders as Unknown.
type Numeric struct {
	offset int64
	base   int
}

// NumericMax is the largest quantity a Numeric renders.
const NumericMax = 255

// NewNumeric creates a decimal numeric type.
func NewNumeric(offset int64) *Numeric {
	return &Numeric{offset: offset, base: 10}
}

// NewNumericBase creates a numeric type rendering in the given radix (2-36).
func NewNumericBase(offset int64, base int) *Numeric {
	if base < 2 || base > 36 {
		base = 10
	}
	return &Numeric{offset: offset, base: base}
}

// Display returns v+offset in the configured radix.
func (n *Numeric) Display(v int32) string {
	q := int64(v) + n.offset
	if q < 0 || q > NumericMax {
		return Unknown
	}
	s := strconv.FormatInt(q, n.base)
	return strings.ToUpper(s)
}

// Lower returns the offset.
func (n *Numeric) Lower() int64 { return n.offset }

// Count returns the size of the rendered domain.
func (n *Numeric) Count() int { return NumericMax + 1 }

// Base returns the rendering radix.
func (n *Numeric) Base() int { return n.base }

// Compile-time interface satisfaction checks.
var (
	_ ValueType = (*Enumeration)(nil)
	_ ValueType = (*Numeric)(nil)
)

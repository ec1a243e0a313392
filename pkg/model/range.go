package model

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"sort"
)

// Range errors.
var (
	ErrRangeOverlap  = errors.New("subrange overlaps an existing subrange")
	ErrRangeFrozen   = errors.New("range is frozen")
	ErrNilValueType  = errors.New("subrange has no value type")
	ErrEmptyEnumSpan = errors.New("enumeration has no labels")
)

// Subrange is a contiguous, inclusive span of raw values bound to one ValueType.
//
// Bounds are unsigned 32-bit quantities and never wrap: wrapping requests are
// split into two subranges by Range.Add.
type Subrange struct {
	Lower uint32
	Upper uint32
	Type  ValueType
}

// Count returns the number of values in the subrange.
func (s Subrange) Count() uint64 {
	return uint64(s.Upper-s.Lower) + 1
}

// Contains reports whether u lies within the subrange.
func (s Subrange) Contains(u uint32) bool {
	return u >= s.Lower && u <= s.Upper
}

// String formats the subrange bounds.
func (s Subrange) String() string {
	return fmt.Sprintf("[%#x, %#x]", s.Lower, s.Upper)
}

// Range is an ordered union of disjoint subranges.
//
// Values are raw bit patterns compared as unsigned 32-bit quantities, so a
// signed int32 argument of -1 denotes 0xFFFFFFFF. A Range is built once while
// a device table is assembled and frozen when it is attached to a Contents;
// after that it is read-only and safe to share between goroutines.
type Range struct {
	subs       []Subrange
	frozen     bool
	enumerable bool
	icon       string
}

// NewRange creates an empty, enumerable range.
func NewRange() *Range {
	return &Range{enumerable: true}
}

// Add inserts the subrange [lower, upper] bound to vt.
//
// If lower is above upper when both are read as unsigned values, the request
// wraps around 0xFFFFFFFF and is stored as [lower, 0xFFFFFFFF] and [0, upper].
// Overlap with any existing subrange is reported as ErrRangeOverlap and
// leaves the range unchanged.
func (r *Range) Add(lower, upper int32, vt ValueType) error {
	if r.frozen {
		return ErrRangeFrozen
	}
	if vt == nil {
		return ErrNilValueType
	}

	lo, hi := uint32(lower), uint32(upper)
	if lo <= hi {
		idx, err := r.slot(Subrange{Lower: lo, Upper: hi})
		if err != nil {
			return err
		}
		r.insertAt(idx, Subrange{Lower: lo, Upper: hi, Type: vt})
		return nil
	}

	high := Subrange{Lower: lo, Upper: math.MaxUint32, Type: vt}
	low := Subrange{Lower: 0, Upper: hi, Type: vt}
	hiIdx, err := r.slot(high)
	if err != nil {
		return err
	}
	loIdx, err := r.slot(low)
	if err != nil {
		return err
	}
	// low sorts before high, so inserting it shifts high's slot by one.
	r.insertAt(loIdx, low)
	r.insertAt(hiIdx+1, high)
	return nil
}

// AddSingle adds a subrange holding the single value v with a fixed label.
func (r *Range) AddSingle(v int32, label string) error {
	return r.Add(v, v, SingleValue(int64(v), label))
}

// AddEnum adds consecutive values starting at lower, one per label.
func (r *Range) AddEnum(lower int32, labels ...string) error {
	if len(labels) == 0 {
		return ErrEmptyEnumSpan
	}
	upper := lower + int32(len(labels)-1)
	return r.Add(lower, upper, NewEnumeration(int64(lower), labels...))
}

// AddNumeric adds [lower, upper] rendered as integers shifted by offset.
func (r *Range) AddNumeric(lower, upper int32, offset int64) error {
	return r.Add(lower, upper, NewNumeric(offset))
}

// slot returns the insertion index for s or ErrRangeOverlap.
func (r *Range) slot(s Subrange) (int, error) {
	idx := sort.Search(len(r.subs), func(i int) bool {
		return r.subs[i].Lower > s.Lower
	})
	if idx > 0 && r.subs[idx-1].Upper >= s.Lower {
		return 0, fmt.Errorf("%w: %s intersects %s", ErrRangeOverlap, s, r.subs[idx-1])
	}
	if idx < len(r.subs) && r.subs[idx].Lower <= s.Upper {
		return 0, fmt.Errorf("%w: %s intersects %s", ErrRangeOverlap, s, r.subs[idx])
	}
	return idx, nil
}

func (r *Range) insertAt(idx int, s Subrange) {
	r.subs = append(r.subs, Subrange{})
	copy(r.subs[idx+1:], r.subs[idx:])
	r.subs[idx] = s
}

// Freeze makes the range read-only. Freezing twice is harmless.
func (r *Range) Freeze() { r.frozen = true }

// Frozen reports whether the range is read-only.
func (r *Range) Frozen() bool { return r.frozen }

// SetEnumerable controls whether editors may step through the range.
func (r *Range) SetEnumerable(enumerable bool) error {
	if r.frozen {
		return ErrRangeFrozen
	}
	r.enumerable = enumerable
	return nil
}

// Enumerable reports whether successor/predecessor stepping is meaningful.
func (r *Range) Enumerable() bool { return r.enumerable }

// SetIcon attaches a presentation hint. The model never interprets it.
func (r *Range) SetIcon(key string) error {
	if r.frozen {
		return ErrRangeFrozen
	}
	r.icon = key
	return nil
}

// Icon returns the presentation hint.
func (r *Range) Icon() string { return r.icon }

// Subranges returns a copy of the subranges in ascending order.
func (r *Range) Subranges() []Subrange {
	out := make([]Subrange, len(r.subs))
	copy(out, r.subs)
	return out
}

// Len returns the number of subranges.
func (r *Range) Len() int { return len(r.subs) }

// find returns the index of the subrange containing u, or -1.
func (r *Range) find(u uint32) int {
	idx := sort.Search(len(r.subs), func(i int) bool {
		return r.subs[i].Lower > u
	}) - 1
	if idx >= 0 && u <= r.subs[idx].Upper {
		return idx
	}
	return -1
}

// Contains reports whether x is a member of the range.
func (r *Range) Contains(x int32) bool {
	return r.find(uint32(x)) >= 0
}

// Successor returns the smallest member strictly above x.
func (r *Range) Successor(x int32) (int32, bool) {
	u := uint32(x)
	idx := sort.Search(len(r.subs), func(i int) bool {
		return r.subs[i].Upper > u
	})
	if idx == len(r.subs) {
		return 0, false
	}
	s := r.subs[idx]
	if u >= s.Lower {
		return int32(u + 1), true
	}
	return int32(s.Lower), true
}

// Predecessor returns the largest member strictly below x.
func (r *Range) Predecessor(x int32) (int32, bool) {
	u := uint32(x)
	idx := sort.Search(len(r.subs), func(i int) bool {
		return r.subs[i].Lower >= u
	}) - 1
	if idx < 0 {
		return 0, false
	}
	s := r.subs[idx]
	if u <= s.Upper {
		return int32(u - 1), true
	}
	return int32(s.Upper), true
}

// Lowest returns the lower bound of the first subrange.
func (r *Range) Lowest() (int32, bool) {
	if len(r.subs) == 0 {
		return 0, false
	}
	return int32(r.subs[0].Lower), true
}

// Highest returns the upper bound of the last subrange.
func (r *Range) Highest() (int32, bool) {
	if len(r.subs) == 0 {
		return 0, false
	}
	return int32(r.subs[len(r.subs)-1].Upper), true
}

// Count returns the number of members across all subranges.
func (r *Range) Count() uint64 {
	var n uint64
	for _, s := range r.subs {
		n += s.Count()
	}
	return n
}

// RequiredBitSize returns ceil(log2(Count())).
func (r *Range) RequiredBitSize() uint8 {
	n := r.Count()
	if n <= 1 {
		return 0
	}
	return uint8(bits.Len64(n - 1))
}

// Display renders x through the value type of its subrange.
// It reports false when x falls in a gap or beyond every subrange.
func (r *Range) Display(x int32) (string, bool) {
	idx := r.find(uint32(x))
	if idx < 0 {
		return "", false
	}
	return r.subs[idx].Type.Display(x), true
}

// Cursor is a caller-owned lookup accelerator for a Range.
//
// It remembers the subrange of the previous lookup so that sequential scans
// (stepping a value up or down) resolve in constant time. A Cursor must not be
// shared between goroutines; the Range it reads may be.
type Cursor struct {
	r   *Range
	idx int
}

// Cursor returns a new cursor positioned before the first subrange.
func (r *Range) Cursor() *Cursor {
	return &Cursor{r: r, idx: -1}
}

func (c *Cursor) seek(u uint32) int {
	subs := c.r.subs
	for _, i := range [3]int{c.idx, c.idx + 1, c.idx - 1} {
		if i >= 0 && i < len(subs) && subs[i].Contains(u) {
			c.idx = i
			return i
		}
	}
	if i := c.r.find(u); i >= 0 {
		c.idx = i
		return i
	}
	return -1
}

// Contains reports whether x is a member of the cursor's range.
func (c *Cursor) Contains(x int32) bool {
	return c.seek(uint32(x)) >= 0
}

// Display renders x like Range.Display.
func (c *Cursor) Display(x int32) (string, bool) {
	idx := c.seek(uint32(x))
	if idx < 0 {
		return "", false
	}
	return c.r.subs[idx].Type.Display(x), true
}

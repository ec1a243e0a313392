package model

import (
	"errors"
	"fmt"
	"sync"
)

// MaxBitSize is the widest value a Contents cell can hold.
const MaxBitSize = 32

// Contents errors.
var (
	ErrNoRange          = errors.New("contents needs at least one range")
	ErrRangeIndex       = errors.New("range index out of bounds")
	ErrBitSizeTooSmall  = errors.New("bit size below the minimum required by an attached range")
	ErrBitSizeTooLarge  = errors.New("bit size exceeds 32")
	ErrAlreadyAttached  = errors.New("contents already attached to a leaf")
	ErrContentsRequired = errors.New("leaf requires contents")
)

// ChangeFunc is called after a Contents value changed.
type ChangeFunc func(old, new int32)

// Contents is the value cell of a leaf parameter.
//
// It holds the current and default value, the bit width used on the wire and
// one or more selectable Range views. All methods are safe for concurrent use;
// observers are invoked after the internal lock is released.
type Contents struct {
	mu       sync.Mutex
	ranges   []*Range
	selected int
	value    int32
	def      int32
	bitSize  uint8
	signed   bool

	observers map[int]ChangeFunc
	nextObs   int

	// owner is set once the cell is attached to a leaf.
	owner *Leaf
}

// NewContents creates a cell with the given default value and range views.
// The first range is selected. Every range is frozen.
//
// The initial bit size is the smallest multiple of 7 (one MIDI data byte)
// that holds the widest range, capped at MaxBitSize.
func NewContents(def int32, ranges ...*Range) (*Contents, error) {
	if len(ranges) == 0 {
		return nil, ErrNoRange
	}
	rs := make([]*Range, len(ranges))
	for i, r := range ranges {
		if r == nil {
			return nil, fmt.Errorf("%w: range %d is nil", ErrNoRange, i)
		}
		r.Freeze()
		rs[i] = r
	}

	c := &Contents{
		ranges:    rs,
		value:     def,
		def:       def,
		observers: make(map[int]ChangeFunc),
	}
	c.bitSize = defaultBitSize(c.minBitSize())
	return c, nil
}

func defaultBitSize(min uint8) uint8 {
	if min == 0 {
		min = 1
	}
	n := (min + 6) / 7 * 7
	if n > MaxBitSize {
		n = MaxBitSize
	}
	return n
}

func (c *Contents) minBitSize() uint8 {
	var min uint8
	for _, r := range c.ranges {
		if n := r.RequiredBitSize(); n > min {
			min = n
		}
	}
	return min
}

// MinBitSize returns the bit size required by the widest attached range.
func (c *Contents) MinBitSize() uint8 {
	return c.minBitSize()
}

// BitSize returns the number of bits the value occupies in the address space.
func (c *Contents) BitSize() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bitSize
}

// SetBitSize changes the bit width. The owning leaf, if any, adjusts the
// tree's size bookkeeping and marks the map unresolved.
func (c *Contents) SetBitSize(n uint8) error {
	if n > MaxBitSize {
		return fmt.Errorf("%w: %d", ErrBitSizeTooLarge, n)
	}
	if min := c.minBitSize(); n < min {
		return fmt.Errorf("%w: %d < %d", ErrBitSizeTooSmall, n, min)
	}

	c.mu.Lock()
	old := c.bitSize
	c.bitSize = n
	owner := c.owner
	c.mu.Unlock()

	if owner != nil && old != n {
		owner.resized(old, n)
	}
	return nil
}

// Value returns the current value.
func (c *Contents) Value() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Default returns the default value.
func (c *Contents) Default() int32 {
	return c.def
}

// Set stores v. Values outside the selected range are accepted; they render
// as Unknown.
func (c *Contents) Set(v int32) {
	c.mu.Lock()
	old := c.value
	c.value = v
	c.mu.Unlock()
	c.notify(old, v)
}

// Reset restores the default value.
func (c *Contents) Reset() {
	c.Set(c.def)
}

// Increment steps to the successor in the selected range.
// It reports whether the value changed.
func (c *Contents) Increment() bool {
	return c.step((*Range).Successor)
}

// Decrement steps to the predecessor in the selected range.
// It reports whether the value changed.
func (c *Contents) Decrement() bool {
	return c.step((*Range).Predecessor)
}

func (c *Contents) step(next func(*Range, int32) (int32, bool)) bool {
	c.mu.Lock()
	r := c.ranges[c.selected]
	if !r.Enumerable() {
		c.mu.Unlock()
		return false
	}
	v, ok := next(r, c.value)
	if !ok {
		c.mu.Unlock()
		return false
	}
	old := c.value
	c.value = v
	c.mu.Unlock()
	c.notify(old, v)
	return true
}

// Lowermost sets the value to the lowest member of the selected range.
func (c *Contents) Lowermost() {
	c.clamp((*Range).Lowest)
}

// Uppermost sets the value to the highest member of the selected range.
func (c *Contents) Uppermost() {
	c.clamp((*Range).Highest)
}

func (c *Contents) clamp(bound func(*Range) (int32, bool)) {
	c.mu.Lock()
	v, ok := bound(c.ranges[c.selected])
	if !ok {
		c.mu.Unlock()
		return
	}
	old := c.value
	c.value = v
	c.mu.Unlock()
	c.notify(old, v)
}

// SelectRange switches the active range view.
func (c *Contents) SelectRange(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.ranges) {
		return fmt.Errorf("%w: %d (have %d)", ErrRangeIndex, idx, len(c.ranges))
	}
	c.selected = idx
	return nil
}

// Selected returns the index of the active range view.
func (c *Contents) Selected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Range returns the active range view.
func (c *Contents) Range() *Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ranges[c.selected]
}

// Ranges returns all range views.
func (c *Contents) Ranges() []*Range {
	out := make([]*Range, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// Display renders the current value through the active range.
func (c *Contents) Display() string {
	c.mu.Lock()
	r, v := c.ranges[c.selected], c.value
	c.mu.Unlock()
	if s, ok := r.Display(v); ok {
		return s
	}
	return Unknown
}

// Bits returns the value truncated to BitSize bits.
func (c *Contents) Bits() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uint32(c.value) & mask(c.bitSize)
}

// SetSigned makes SetBits and SetData sign-extend wire values from BitSize
// bits, so that negative members of a wrapping range survive a round trip.
func (c *Contents) SetSigned(signed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signed = signed
}

// Signed reports whether wire values are sign-extended.
func (c *Contents) Signed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.signed
}

// SetBits stores a raw wire value truncated to BitSize bits.
func (c *Contents) SetBits(b uint32) {
	c.mu.Lock()
	old := c.value
	c.value = c.fromWire(b & mask(c.bitSize))
	v := c.value
	c.mu.Unlock()
	c.notify(old, v)
}

// fromWire converts a masked wire value. Callers hold c.mu.
func (c *Contents) fromWire(raw uint32) int32 {
	if c.signed && c.bitSize > 0 && c.bitSize < 32 && raw&(1<<(c.bitSize-1)) != 0 {
		raw |= ^mask(c.bitSize)
	}
	return int32(raw)
}

// Observe registers fn for value changes. The returned func removes it.
func (c *Contents) Observe(fn ChangeFunc) (cancel func()) {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Contents) notify(old, new int32) {
	if old == new {
		return
	}
	c.mu.Lock()
	fns := make([]ChangeFunc, 0, len(c.observers)+1)
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	owner := c.owner
	c.mu.Unlock()

	for _, fn := range fns {
		fn(old, new)
	}
	if owner != nil {
		owner.changed(old, new)
	}
}

func mask(n uint8) uint32 {
	if n >= 32 {
		return 0xFFFFFFFF
	}
	return uint32(1)<<n - 1
}

// setField replaces one bit field of the raw value atomically.
func (c *Contents) setField(shift, size uint8, field uint32) {
	c.mu.Lock()
	old := c.value
	raw := setBits(uint32(c.value)&mask(c.bitSize), shift, size, field)
	c.value = c.fromWire(raw)
	v := c.value
	c.mu.Unlock()
	c.notify(old, v)
}

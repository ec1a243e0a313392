package sysex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/synmap/synmap-go/pkg/log"
	"github.com/synmap/synmap-go/pkg/model"
)

// Dump is a decoded bulk dump.
type Dump struct {
	Framing  Framing
	Identity Identity

	// Address is the byte address of the first payload byte.
	Address uint32

	// Data holds the payload, one 7-bit byte per 7 map bits.
	Data []byte

	// Checksum is the received checksum byte.
	Checksum byte

	// ChecksumOK reports whether Checksum matches the frame contents.
	ChecksumOK bool

	// Raw is the frame the dump was parsed from.
	Raw []byte
}

// Start returns the bit address of the first payload byte.
func (d *Dump) Start() int64 { return BitAddress(d.Address) }

// End returns the bit address following the payload.
func (d *Dump) End() int64 { return d.Start() + 7*int64(len(d.Data)) }

// Parse decodes one frame addressed to id.
//
// Structural problems (wrong framing bytes, foreign identity, a byte count
// that disagrees with the payload) are errors. A bad checksum is not: it is
// reported through Dump.ChecksumOK and handled by Apply's policy.
func Parse(f Framing, id Identity, frame []byte) (*Dump, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFrame, f)
	}
	if len(frame) < f.FrameLen(0) {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncated, len(frame), f.FrameLen(0))
	}

	body := frame
	if f.HasStatus() {
		if frame[0] != StatusSysEx {
			return nil, fmt.Errorf("%w: starts with %#02x, want F0", ErrFraming, frame[0])
		}
		if frame[len(frame)-1] != EndOfExclusive {
			return nil, fmt.Errorf("%w: no end of exclusive", ErrTruncated)
		}
		body = frame[1 : len(frame)-1]
	}
	for i, b := range body {
		if b > 0x7F {
			return nil, fmt.Errorf("%w: %#02x at offset %d", ErrDataByte, b, i)
		}
	}

	p := 0
	next := func() byte {
		b := body[p]
		p++
		return b
	}

	var sum byte
	mfr := next()
	var dev byte
	if f.HasDeviceNumber() {
		dev = next()
	}
	mdl := next()
	if mfr != id.Manufacturer || mdl != id.Model {
		return nil, fmt.Errorf("%w: got mfr=%02X model=%02X, want %s", ErrIdentity, mfr, mdl, id)
	}
	if f.HasDeviceNumber() {
		if dev&0xF0 != 0 {
			return nil, fmt.Errorf("%w: device byte %#02x is not a bulk dump", ErrFraming, dev)
		}
		if dev != id.DeviceNumber {
			return nil, fmt.Errorf("%w: device number %d, want %d", ErrIdentity, dev, id.DeviceNumber)
		}
	}
	if f == FramingEmbedded {
		sum += mfr + mdl
	}

	bh, bl := next(), next()
	ah, am, al := next(), next(), next()
	sum += bh + bl + ah + am + al
	count := int(bh)<<7 | int(bl)

	payload := body[p : len(body)-1]
	switch {
	case len(payload) < count:
		return nil, fmt.Errorf("%w: %d payload bytes, header says %d", ErrTruncated, len(payload), count)
	case len(payload) > count:
		return nil, fmt.Errorf("%w: %d payload bytes, header says %d", ErrFraming, len(payload), count)
	}
	for _, b := range payload {
		sum += b
	}
	cs := body[len(body)-1]

	d := &Dump{
		Framing:    f,
		Identity:   Identity{Manufacturer: mfr, Model: mdl, DeviceNumber: dev},
		Address:    JoinAddress(ah, am, al),
		Data:       append([]byte(nil), payload...),
		Checksum:   cs,
		ChecksumOK: negate(sum) == cs,
		Raw:        append([]byte(nil), frame...),
	}
	return d, nil
}

// Policy decides what Apply does with a dump whose checksum failed.
type Policy uint8

const (
	// ChecksumReject refuses the dump; nothing is written.
	ChecksumReject Policy = iota
	// ChecksumWarn applies the dump and reports the mismatch.
	ChecksumWarn
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case ChecksumReject:
		return "reject"
	case ChecksumWarn:
		return "warn"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a name back to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return ChecksumReject, nil
	case "warn":
		return ChecksumWarn, nil
	}
	return 0, fmt.Errorf("unknown checksum policy %q", s)
}

// Result summarizes an Apply call.
type Result struct {
	// Applied counts payload bytes written into a leaf.
	Applied int

	// Skipped counts payload bytes that fell into padding or beyond the map.
	Skipped int

	// ChecksumOK is copied from the dump.
	ChecksumOK bool

	// Changes lists leaves whose value changed, in map order.
	Changes []model.Change
}

type target struct {
	leaf *model.Leaf
	pos  int64
	b    byte
}

// Apply writes the payload of d into the map rooted at root.
//
// Every payload byte is located before anything is written, so a dump that
// does not fit the map (a byte straddling two parameters) changes nothing.
func Apply(root *model.Group, d *Dump, policy Policy, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	if root == nil || !root.Resolved() {
		return nil, model.ErrUnresolved
	}

	if o.logging() && d.Raw != nil {
		o.emit(log.Event{
			Direction: log.DirectionIn,
			Layer:     log.LayerFrame,
			Category:  log.CategoryMessage,
			Frame:     log.NewFrameEvent(d.Raw),
		})
	}

	if !d.ChecksumOK {
		err := fmt.Errorf("%w: got %#02x at byte address %#x", ErrChecksum, d.Checksum, d.Address)
		start := d.Start()
		if policy != ChecksumWarn {
			o.emitError(log.DirectionIn, err, &start, "apply: rejected")
			return nil, err
		}
		o.emitError(log.DirectionIn, err, &start, "apply: applied anyway")
	}

	res := &Result{ChecksumOK: d.ChecksumOK}
	targets := make([]target, 0, len(d.Data))
	var cursor model.Node = root
	for i, b := range d.Data {
		pos := d.Start() + 7*int64(i)
		leaf, ok := model.Locate(cursor, pos)
		if !ok {
			res.Skipped++
			continue
		}
		cursor = leaf
		if _, err := leaf.Data(pos, 7); err != nil {
			o.emitError(log.DirectionIn, err, &pos, "apply")
			return nil, err
		}
		targets = append(targets, target{leaf: leaf, pos: pos, b: b})
	}

	var order []*model.Leaf
	before := make(map[*model.Leaf]int32)
	for _, t := range targets {
		if _, seen := before[t.leaf]; !seen {
			before[t.leaf] = t.leaf.Contents().Value()
			order = append(order, t.leaf)
		}
		if err := t.leaf.SetData(t.pos, 7, uint32(t.b)); err != nil {
			return nil, err
		}
		res.Applied++
	}

	for _, l := range order {
		old, cur := before[l], l.Contents().Value()
		if old == cur {
			continue
		}
		res.Changes = append(res.Changes, model.Change{Leaf: l, Old: old, New: cur})
		o.emit(log.Event{
			Direction: log.DirectionIn,
			Layer:     log.LayerMap,
			Category:  log.CategoryParam,
			Param: &log.ParamEvent{
				Path:    l.Path(),
				Address: l.Address(),
				Old:     old,
				New:     cur,
				Display: l.Contents().Display(),
			},
		})
	}

	de := dumpEvent(d.Framing, d.Identity, d.Address, len(d.Data), d.Checksum, d.ChecksumOK)
	de.Applied, de.Skipped = res.Applied, res.Skipped
	o.emit(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerMap,
		Category:  log.CategoryMessage,
		Dump:      de,
	})
	return res, nil
}

// ApplyFrame parses frame and applies it.
func ApplyFrame(root *model.Group, f Framing, id Identity, frame []byte, policy Policy, opts ...Option) (*Result, error) {
	d, err := Parse(f, id, frame)
	if err != nil {
		return nil, err
	}
	return Apply(root, d, policy, opts...)
}

// IsChecksumError reports whether err is a rejected checksum.
func IsChecksumError(err error) bool {
	return errors.Is(err, ErrChecksum)
}

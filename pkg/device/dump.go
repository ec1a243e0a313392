package device

import (
	"fmt"

	"github.com/synmap/synmap-go/pkg/model"
	"github.com/synmap/synmap-go/pkg/sysex"
)

// Block is a contiguous, padding-free bit range of the map.
type Block struct {
	Start int64
	End   int64
}

// Len returns the number of payload bytes of the block.
func (b Block) Len() int { return int((b.End - b.Start) / 7) }

// Blocks splits the leaves below n into dumpable runs. A run ends at a
// padding gap or when it would exceed the 14-bit byte count.
func Blocks(n model.Node) []Block {
	var out []Block
	for _, l := range model.Leaves(n) {
		start, end := l.Address(), l.End()
		if k := len(out); k > 0 && out[k-1].End == start && (end-out[k-1].Start)/7 <= sysex.MaxCount {
			out[k-1].End = end
			continue
		}
		out = append(out, Block{Start: start, End: end})
	}
	return out
}

// NewStream opens a dump of [start, end).
func (d *Device) NewStream(start, end int64, opts ...sysex.Option) (*sysex.Stream, error) {
	return sysex.NewStream(d.root, d.info.Framing, d.info.Identity, start, end, d.options(opts)...)
}

// DumpRange returns one frame covering [start, end).
func (d *Device) DumpRange(start, end int64, opts ...sysex.Option) ([]byte, error) {
	s, err := d.NewStream(start, end, opts...)
	if err != nil {
		return nil, err
	}
	return s.Bytes()
}

// DumpNode returns the frames covering n, one per Block.
func (d *Device) DumpNode(n model.Node, opts ...sysex.Option) ([][]byte, error) {
	if !d.root.Resolved() {
		return nil, model.ErrUnresolved
	}
	var frames [][]byte
	for _, b := range Blocks(n) {
		frame, err := d.DumpRange(b.Start, b.End, opts...)
		if err != nil {
			return nil, fmt.Errorf("dump %s: %w", d.FormatAddress(b.Start), err)
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// Dump returns the frames covering the whole map.
func (d *Device) Dump(opts ...sysex.Option) ([][]byte, error) {
	return d.DumpNode(d.root, opts...)
}

// Apply parses one frame and writes it into the map.
func (d *Device) Apply(frame []byte, policy sysex.Policy, opts ...sysex.Option) (*sysex.Result, error) {
	return sysex.ApplyFrame(d.root, d.info.Framing, d.info.Identity, frame, policy, d.options(opts)...)
}

// ApplySyx applies every message of a .syx byte stream in order. It stops at
// the first error and returns the results gathered so far.
func (d *Device) ApplySyx(data []byte, policy sysex.Policy, opts ...sysex.Option) ([]*sysex.Result, error) {
	msgs, err := sysex.SplitMessages(data)
	if err != nil {
		return nil, err
	}
	var results []*sysex.Result
	for i, msg := range msgs {
		frame, err := d.info.Framing.Unwrap(msg)
		if err != nil {
			return results, fmt.Errorf("message %d: %w", i, err)
		}
		res, err := d.Apply(frame, policy, opts...)
		if err != nil {
			return results, fmt.Errorf("message %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Syx wraps frames into the bytes of a .syx file.
func (d *Device) Syx(frames [][]byte) []byte {
	var out []byte
	for _, f := range frames {
		out = append(out, d.info.Framing.Wrap(f)...)
	}
	return out
}

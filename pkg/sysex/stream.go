package sysex

import (
	"errors"
	"fmt"
	"io"

	"github.com/synmap/synmap-go/pkg/log"
	"github.com/synmap/synmap-go/pkg/model"
)

// Stream precondition errors.
var (
	ErrInvalidBounds = errors.New("invalid dump bounds")
	ErrUnaligned     = errors.New("address is not on a 7-bit boundary")
	ErrCountOverflow = errors.New("byte count exceeds 14 bits")
)

type streamState uint8

const (
	stateHeader streamState = iota
	statePayload
	stateTrailer
	stateDone
	stateFailed
)

func (st streamState) String() string {
	switch st {
	case stateHeader:
		return "HEADER"
	case statePayload:
		return "PAYLOAD"
	case stateTrailer:
		return "TRAILER"
	case stateDone:
		return "DONE"
	case stateFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// Stream produces the bytes of one bulk dump of [start, end) of a resolved
// map. It is single-pass: once exhausted or failed it keeps returning the same
// result. A Stream is not safe for concurrent use.
type Stream struct {
	root    *model.Group
	framing Framing
	id      Identity
	addr    uint32
	count   int
	end     int64

	state  streamState
	header []byte
	hpos   int
	pos    int64
	cursor model.Node
	sum    byte

	trailer []byte
	tpos    int

	err  error
	opts options
	sent []byte
}

// NewStream validates the dump bounds and returns a producer positioned at
// the first header byte. start and end are bit addresses on 7-bit boundaries.
func NewStream(root *model.Group, f Framing, id Identity, start, end int64, opts ...Option) (*Stream, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFrame, f)
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if root == nil || !root.Resolved() {
		return nil, model.ErrUnresolved
	}
	if start < 0 || end < start || end > MaxBitAddress {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidBounds, start, end)
	}
	if start%7 != 0 || end%7 != 0 {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrUnaligned, start, end)
	}
	addr, err := ByteAddress(start)
	if err != nil {
		return nil, err
	}
	count := (end - start) / 7
	if count > MaxCount {
		return nil, fmt.Errorf("%w: %d bytes", ErrCountOverflow, count)
	}

	s := &Stream{
		root:    root,
		framing: f,
		id:      id,
		addr:    addr,
		count:   int(count),
		end:     end,
		pos:     start,
		cursor:  root,
		opts:    newOptions(opts),
	}
	s.header, s.sum = f.header(id, addr, s.count)
	if s.opts.logging() {
		s.sent = make([]byte, 0, f.FrameLen(s.count))
	}
	return s, nil
}

// Len returns the total number of bytes the stream produces.
func (s *Stream) Len() int {
	return s.framing.FrameLen(s.count)
}

// Address returns the byte address written into the header.
func (s *Stream) Address() uint32 { return s.addr }

// Count returns the number of payload bytes.
func (s *Stream) Count() int { return s.count }

// SessionID returns the session ID used for recorded events.
func (s *Stream) SessionID() string { return s.opts.session }

// ReadByte returns the next byte of the dump, or io.EOF after the trailer.
func (s *Stream) ReadByte() (byte, error) {
	b, err := s.next()
	if err != nil {
		return 0, err
	}
	if s.sent != nil {
		s.sent = append(s.sent, b)
	}
	if s.state == stateDone {
		s.finish()
	}
	return b, nil
}

func (s *Stream) next() (byte, error) {
	switch s.state {
	case stateHeader:
		b := s.header[s.hpos]
		s.hpos++
		if s.hpos == len(s.header) {
			s.enterPayload()
		}
		return b, nil

	case statePayload:
		b, err := s.payloadByte()
		if err != nil {
			return 0, s.fail(err)
		}
		s.sum += b
		s.pos += 7
		if s.pos >= s.end {
			s.enterTrailer()
		}
		return b, nil

	case stateTrailer:
		b := s.trailer[s.tpos]
		s.tpos++
		if s.tpos == len(s.trailer) {
			s.setState(stateDone, "")
		}
		return b, nil

	case stateFailed:
		return 0, s.err
	}
	return 0, io.EOF
}

func (s *Stream) enterPayload() {
	if s.pos >= s.end {
		s.enterTrailer()
		return
	}
	s.setState(statePayload, "")
}

func (s *Stream) enterTrailer() {
	s.trailer = []byte{negate(s.sum)}
	if s.framing.HasStatus() {
		s.trailer = append(s.trailer, EndOfExclusive)
	}
	s.setState(stateTrailer, "")
}

// setState moves the stream to st and records the transition.
func (s *Stream) setState(st streamState, reason string) {
	old := s.state
	s.state = st
	s.opts.emit(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerFrame,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityStream,
			OldState: old.String(),
			NewState: st.String(),
			Reason:   reason,
		},
	})
}

func (s *Stream) payloadByte() (byte, error) {
	if !s.root.Resolved() {
		return 0, model.ErrUnresolved
	}
	leaf, ok := model.Locate(s.cursor, s.pos)
	if !ok {
		return 0, fmt.Errorf("%w: bit address %d", model.ErrInaccessible, s.pos)
	}
	s.cursor = leaf
	v, err := leaf.Data(s.pos, 7)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func (s *Stream) fail(err error) error {
	s.err = err
	pos := s.pos
	s.opts.emitError(log.DirectionOut, err, &pos, "dump")
	s.setState(stateFailed, err.Error())
	return err
}

func (s *Stream) finish() {
	if !s.opts.logging() {
		return
	}
	s.opts.emit(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerFrame,
		Category:  log.CategoryMessage,
		Frame:     log.NewFrameEvent(s.sent),
	})
	s.opts.emit(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerMap,
		Category:  log.CategoryMessage,
		Dump:      dumpEvent(s.framing, s.id, s.addr, s.count, s.trailer[0], true),
	})
	s.sent = nil
}

// Read fills p with dump bytes. It returns io.EOF once the dump is complete.
func (s *Stream) Read(p []byte) (int, error) {
	for i := range p {
		b, err := s.ReadByte()
		if err != nil {
			if i > 0 && err == io.EOF {
				return i, nil
			}
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}

// Bytes drains the stream and returns the complete frame.
func (s *Stream) Bytes() ([]byte, error) {
	out := make([]byte, 0, s.Len())
	for {
		b, err := s.ReadByte()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
}

// Encode dumps [start, end) of root into a complete frame.
func Encode(root *model.Group, f Framing, id Identity, start, end int64, opts ...Option) ([]byte, error) {
	s, err := NewStream(root, f, id, start, end, opts...)
	if err != nil {
		return nil, err
	}
	return s.Bytes()
}

var (
	_ io.Reader     = (*Stream)(nil)
	_ io.ByteReader = (*Stream)(nil)
)

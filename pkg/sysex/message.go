package sysex

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// Wrap turns a frame into a MIDI message. XG frames already carry F0/F7;
// embedded frames are enclosed in a plain SysEx envelope.
func (f Framing) Wrap(frame []byte) midi.Message {
	if f.HasStatus() {
		return midi.Message(append([]byte(nil), frame...))
	}
	return midi.SysEx(frame)
}

// Unwrap extracts the frame from a MIDI SysEx message.
func (f Framing) Unwrap(msg midi.Message) ([]byte, error) {
	var inner []byte
	if !msg.GetSysEx(&inner) {
		return nil, fmt.Errorf("%w: not a sysex message", ErrFraming)
	}
	if f.HasStatus() {
		return append([]byte(nil), msg...), nil
	}
	return append([]byte(nil), inner...), nil
}

// ParseMessage unwraps msg and parses the frame.
func ParseMessage(f Framing, id Identity, msg midi.Message) (*Dump, error) {
	frame, err := f.Unwrap(msg)
	if err != nil {
		return nil, err
	}
	return Parse(f, id, frame)
}

// SplitMessages cuts a raw .syx byte stream into F0 ... F7 messages.
// Bytes outside a message are an error.
func SplitMessages(data []byte) ([]midi.Message, error) {
	var out []midi.Message
	start := -1
	for i, b := range data {
		switch {
		case b == StatusSysEx:
			if start >= 0 {
				return nil, fmt.Errorf("%w: F0 at offset %d inside message starting at %d", ErrFraming, i, start)
			}
			start = i
		case b == EndOfExclusive:
			if start < 0 {
				return nil, fmt.Errorf("%w: F7 at offset %d without F0", ErrFraming, i)
			}
			out = append(out, midi.Message(append([]byte(nil), data[start:i+1]...)))
			start = -1
		case start < 0:
			return nil, fmt.Errorf("%w: stray byte %#02x at offset %d", ErrFraming, b, i)
		}
	}
	if start >= 0 {
		return nil, fmt.Errorf("%w: message at offset %d has no F7", ErrTruncated, start)
	}
	return out, nil
}

// Package sysex encodes and decodes MIDI System-Exclusive bulk dumps of a
// device address map.
//
// A bulk dump transfers a contiguous block of parameter memory. The payload
// carries one MIDI data byte per 7 bits of the map's bit address space, and
// the header names the start address and byte count. A 7-bit two's
// complement checksum closes the payload.
//
// # Framings
//
// Device families disagree on the header layout, so every device picks one
// Framing:
//
//	FramingXG:       F0 mm dd oo bh bl ah am al <data> cs F7
//	FramingEmbedded:    mm    oo bh bl ah am al <data> cs
//
// where mm is the manufacturer ID, dd the device number, oo the model ID, bh/bl
// the 14-bit byte count and ah/am/al the 21-bit byte address. The XG checksum
// covers count, address and data. The embedded checksum also covers the
// manufacturer and model bytes. Embedded frames travel inside a caller-defined
// envelope; Framing.Wrap puts them into a plain F0 ... F7 message.
//
// # Dumping
//
// A Stream is a lazy, single-pass producer of the frame bytes. It implements
// io.Reader and io.ByteReader and returns io.EOF once the trailer is out.
//
//	s, err := sysex.NewStream(root, sysex.FramingXG, id, start, end)
//	frame, err := s.Bytes()
//
// # Reading
//
// Parse decodes a received frame into a Dump; Apply writes its payload back
// into the map. Payload bytes that land in padding are skipped and counted.
// A checksum mismatch is rejected by default; ChecksumWarn applies anyway and
// reports the mismatch.
package sysex

package sysex

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/synmap/synmap-go/pkg/log"
	"github.com/synmap/synmap-go/pkg/log/mocks"
	"github.com/synmap/synmap-go/pkg/model"
)

var xgID = Identity{Manufacturer: 0x43, Model: 0x4C}

func leaf(t *testing.T, label string, bits uint8, value int32, opts ...model.NodeOption) *model.Leaf {
	t.Helper()
	r := model.NewRange()
	require.NoError(t, r.AddNumeric(0, int32(uint32(1)<<bits-1), 0))
	c, err := model.NewContents(value, r)
	require.NoError(t, err)
	require.NoError(t, c.SetBitSize(bits))
	l, err := model.NewLeaf(label, c, opts...)
	require.NoError(t, err)
	return l
}

func resolvedRoot(t *testing.T, children ...model.Node) *model.Group {
	t.Helper()
	root := model.NewGroup("root")
	require.NoError(t, root.Add(children...))
	require.NoError(t, root.Resolve())
	return root
}

func TestGoldenVectorXG(t *testing.T) {
	root := resolvedRoot(t, leaf(t, "v", 7, 0x10))

	got, err := Encode(root, FramingXG, xgID, 0, 7)
	require.NoError(t, err)

	want := []byte{0xF0, 0x43, 0x00, 0x4C, 0x00, 0x01, 0x00, 0x00, 0x00, 0x10, 0x6F, 0xF7}
	assert.Equal(t, want, got)

	// (0x100 - ((0x00+0x01+0x00+0x00+0x00+0x10) & 0x7F)) & 0x7F
	assert.Equal(t, byte((0x100-((0x00+0x01+0x00+0x00+0x00+0x10)&0x7F))&0x7F), got[10])
}

func TestGoldenVectorEmbedded(t *testing.T) {
	root := resolvedRoot(t, leaf(t, "v", 7, 0x10))

	got, err := Encode(root, FramingEmbedded, xgID, 0, 7)
	require.NoError(t, err)

	want := []byte{0x43, 0x4C, 0x00, 0x01, 0x00, 0x00, 0x00, 0x10, 0x60}
	assert.Equal(t, want, got)
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, byte(0x6F), Checksum(0x00, 0x01, 0x00, 0x00, 0x00, 0x10))
	assert.Equal(t, byte(0x00), Checksum())
	assert.Equal(t, byte(0x00), Checksum(0x40, 0x40))
	assert.Equal(t, byte(0x01), Checksum(0x7F))
}

func TestAddressHelpers(t *testing.T) {
	hi, mid, lo := SplitAddress(0x08_0105)
	assert.Equal(t, [3]byte{0x20, 0x02, 0x05}, [3]byte{hi, mid, lo})
	assert.Equal(t, uint32(0x080105), JoinAddress(hi, mid, lo))

	hi, mid, lo = SplitAddress(JoinAddress(0x02, 0x01, 0x00))
	assert.Equal(t, [3]byte{0x02, 0x01, 0x00}, [3]byte{hi, mid, lo})

	assert.Equal(t, int64(70), BitAddress(10))
	addr, err := ByteAddress(70)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), addr)

	_, err = ByteAddress(71)
	assert.ErrorIs(t, err, ErrUnaligned)
	_, err = ByteAddress(BitAddress(MaxByteAddress) + 7)
	assert.ErrorIs(t, err, ErrInvalidBounds)
}

func TestStreamMultiByteLeaf(t *testing.T) {
	// A 14-bit value travels most significant 7 bits first.
	root := resolvedRoot(t,
		leaf(t, "word", 14, 0x1234),
		leaf(t, "byte", 7, 0x7F),
	)

	got, err := Encode(root, FramingXG, xgID, 0, 21)
	require.NoError(t, err)

	payload := got[FramingXG.HeaderLen() : len(got)-FramingXG.TrailerLen()]
	assert.Equal(t, []byte{0x24, 0x34, 0x7F}, payload)
	assert.Equal(t, Checksum(got[4:len(got)-2]...), got[len(got)-2])
}

func TestStreamSubrangeAddress(t *testing.T) {
	root := resolvedRoot(t,
		leaf(t, "a", 7, 1),
		leaf(t, "b", 7, 2),
		leaf(t, "c", 7, 3),
	)

	got, err := Encode(root, FramingXG, xgID, 7, 21)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x43, 0x00, 0x4C, 0x00, 0x02, 0x00, 0x00, 0x01, 0x02, 0x03}, got[:11])
}

func TestStreamDeviceNumber(t *testing.T) {
	root := resolvedRoot(t, leaf(t, "v", 7, 0))
	id := xgID
	id.DeviceNumber = 5

	got, err := Encode(root, FramingXG, id, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, byte(0x05), got[2])
}

func TestStreamPreconditions(t *testing.T) {
	root := resolvedRoot(t, leaf(t, "v", 7, 0))

	tests := []struct {
		name       string
		start, end int64
		want       error
	}{
		{"negative start", -7, 7, ErrInvalidBounds},
		{"end before start", 14, 7, ErrInvalidBounds},
		{"end beyond address space", 0, MaxBitAddress + 7, ErrInvalidBounds},
		{"unaligned start", 3, 7, ErrUnaligned},
		{"unaligned end", 0, 8, ErrUnaligned},
		{"count overflow", 0, 7 * (MaxCount + 1), ErrCountOverflow},
		{"start beyond byte address space", 7 * 0x200000, 7*0x200000 + 7, ErrInvalidBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStream(root, FramingXG, xgID, tt.start, tt.end)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := NewStream(root, Framing(9), xgID, 0, 7)
	assert.ErrorIs(t, err, ErrUnknownFrame)

	_, err = NewStream(root, FramingXG, Identity{Manufacturer: 0x80}, 0, 7)
	assert.ErrorIs(t, err, ErrDataByte)

	_, err = NewStream(root, FramingXG, Identity{DeviceNumber: 16}, 0, 7)
	assert.ErrorIs(t, err, ErrDataByte)
}

func TestStreamRequiresResolvedMap(t *testing.T) {
	root := model.NewGroup("root")
	require.NoError(t, root.Add(leaf(t, "v", 7, 0)))

	_, err := NewStream(root, FramingXG, xgID, 0, 7)
	assert.ErrorIs(t, err, model.ErrUnresolved)

	_, err = NewStream(nil, FramingXG, xgID, 0, 7)
	assert.ErrorIs(t, err, model.ErrUnresolved)
}

func TestStreamPaddingFails(t *testing.T) {
	root := resolvedRoot(t,
		leaf(t, "a", 7, 1),
		leaf(t, "b", 7, 2, model.WithAddress(14)),
	)

	s, err := NewStream(root, FramingXG, xgID, 0, 21)
	require.NoError(t, err)

	out, err := s.Bytes()
	assert.ErrorIs(t, err, model.ErrInaccessible)
	assert.Equal(t, FramingXG.HeaderLen()+1, len(out))

	// Failure is sticky.
	_, err = s.ReadByte()
	assert.ErrorIs(t, err, model.ErrInaccessible)
}

func TestStreamCrossingLeafFails(t *testing.T) {
	root := resolvedRoot(t,
		leaf(t, "nib", 4, 1),
		leaf(t, "b", 10, 2),
	)

	_, err := Encode(root, FramingXG, xgID, 0, 14)
	assert.ErrorIs(t, err, model.ErrCrossesNode)
}

func TestStreamEOFIsSticky(t *testing.T) {
	root := resolvedRoot(t, leaf(t, "v", 7, 0x10))
	s, err := NewStream(root, FramingEmbedded, xgID, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, 9, s.Len())

	_, err = s.Bytes()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.ReadByte()
		assert.Equal(t, io.EOF, err)
	}
	n, err := s.Read(make([]byte, 4))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}

func TestStreamAsReader(t *testing.T) {
	root := resolvedRoot(t,
		leaf(t, "a", 7, 1),
		leaf(t, "b", 7, 2),
		leaf(t, "c", 14, 0x3FFF),
	)
	want, err := Encode(root, FramingXG, xgID, 0, 28)
	require.NoError(t, err)

	s, err := NewStream(root, FramingXG, xgID, 0, 28)
	require.NoError(t, err)
	got, err := io.ReadAll(iotest.OneByteReader(s))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	s, err = NewStream(root, FramingXG, xgID, 0, 28)
	require.NoError(t, err)
	require.NoError(t, iotest.TestReader(s, want))
}

func TestStreamEmptyRange(t *testing.T) {
	root := resolvedRoot(t, leaf(t, "v", 7, 0))
	got, err := Encode(root, FramingXG, xgID, 7, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x43, 0x00, 0x4C, 0x00, 0x00, 0x00, 0x00, 0x01, 0x7F, 0xF7}, got)
}

func TestStreamLogsFrameAndHeader(t *testing.T) {
	root := resolvedRoot(t, leaf(t, "v", 7, 0x10))
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	var events []log.Event
	logger := mocks.NewMockLogger(t)
	logger.EXPECT().Log(mock.Anything).Run(func(e log.Event) { events = append(events, e) })

	s, err := NewStream(root, FramingXG, xgID, 0, 7,
		WithLogger(logger), WithSessionID("sess"), WithDevice("xg"), withClock(func() time.Time { return ts }))
	require.NoError(t, err)
	frame, err := s.Bytes()
	require.NoError(t, err)

	events = messages(events)
	require.Len(t, events, 2)
	assert.Equal(t, log.LayerFrame, events[0].Layer)
	assert.Equal(t, frame, events[0].Frame.Data)
	assert.Equal(t, "sess", events[0].SessionID)
	assert.Equal(t, "xg", events[0].Device)
	assert.Equal(t, ts, events[0].Timestamp)

	require.NotNil(t, events[1].Dump)
	assert.Equal(t, log.DirectionOut, events[1].Direction)
	assert.Equal(t, byte(0x6F), events[1].Dump.Checksum)
	assert.Equal(t, uint16(1), events[1].Dump.Count)
	require.NotNil(t, events[1].Dump.DeviceNumber)
}

// messages drops state transitions from events.
func messages(events []log.Event) []log.Event {
	var out []log.Event
	for _, e := range events {
		if e.Category != log.CategoryState {
			out = append(out, e)
		}
	}
	return out
}

func transitions(events []log.Event) []string {
	var out []string
	for _, e := range events {
		if e.StateChange != nil {
			out = append(out, e.StateChange.OldState+">"+e.StateChange.NewState)
		}
	}
	return out
}

func TestStreamLogsStateTransitions(t *testing.T) {
	var events []log.Event
	logger := mocks.NewMockLogger(t)
	logger.EXPECT().Log(mock.Anything).Run(func(e log.Event) { events = append(events, e) })

	root := resolvedRoot(t, leaf(t, "v", 7, 0x10))
	_, err := Encode(root, FramingXG, xgID, 0, 7, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, []string{"HEADER>PAYLOAD", "PAYLOAD>TRAILER", "TRAILER>DONE"}, transitions(events))
	for _, e := range events {
		if e.StateChange != nil {
			assert.Equal(t, log.StateEntityStream, e.StateChange.Entity)
		}
	}

	// An empty range goes straight from header to trailer.
	events = nil
	_, err = Encode(root, FramingXG, xgID, 7, 7, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, []string{"HEADER>TRAILER", "TRAILER>DONE"}, transitions(events))
}

func TestStreamLogsFailure(t *testing.T) {
	var events []log.Event
	logger := mocks.NewMockLogger(t)
	logger.EXPECT().Log(mock.Anything).Run(func(e log.Event) { events = append(events, e) })

	root := resolvedRoot(t,
		leaf(t, "a", 7, 1),
		leaf(t, "b", 7, 2, model.WithAddress(14)),
	)
	_, err := Encode(root, FramingXG, xgID, 0, 21, WithLogger(logger))
	require.ErrorIs(t, err, model.ErrInaccessible)

	assert.Equal(t, []string{"HEADER>PAYLOAD", "PAYLOAD>FAILED"}, transitions(events))
	last := events[len(events)-1]
	require.NotNil(t, last.StateChange)
	assert.Equal(t, err.Error(), last.StateChange.Reason)
}

func TestStreamStateEventsReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream"+log.FileExt)
	fl, err := log.NewFileLogger(path)
	require.NoError(t, err)

	root := resolvedRoot(t, leaf(t, "v", 7, 0x10))
	_, err = Encode(root, FramingXG, xgID, 0, 7, WithLogger(fl), WithSessionID("sess"))
	require.NoError(t, err)
	require.NoError(t, fl.Close())

	cat := log.CategoryState
	r, err := log.NewFilteredReader(path, log.Filter{Category: &cat})
	require.NoError(t, err)
	defer r.Close()
	events, err := r.All()
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, "sess", events[0].SessionID)
	require.NotNil(t, events[2].StateChange)
	assert.Equal(t, log.StateEntityStream, events[2].StateChange.Entity)
	assert.Equal(t, "TRAILER", events[2].StateChange.OldState)
	assert.Equal(t, "DONE", events[2].StateChange.NewState)
}

func TestStreamWithoutLoggerKeepsNoFrame(t *testing.T) {
	root := resolvedRoot(t, leaf(t, "v", 7, 0x10))
	for _, l := range []log.Logger{nil, log.NoopLogger{}} {
		s, err := NewStream(root, FramingXG, xgID, 0, 7, WithLogger(l))
		require.NoError(t, err)
		assert.False(t, s.opts.logging())
		_, err = s.Bytes()
		require.NoError(t, err)
		assert.Nil(t, s.sent)
	}
}

func TestStreamDefaultSessionIsUUID(t *testing.T) {
	root := resolvedRoot(t, leaf(t, "v", 7, 0))
	a, err := NewStream(root, FramingXG, xgID, 0, 7)
	require.NoError(t, err)
	b, err := NewStream(root, FramingXG, xgID, 0, 7)
	require.NoError(t, err)

	assert.Len(t, a.SessionID(), 36)
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestParseRoundTrip(t *testing.T) {
	for _, f := range []Framing{FramingXG, FramingEmbedded} {
		t.Run(f.String(), func(t *testing.T) {
			root := resolvedRoot(t, leaf(t, "a", 7, 0x11), leaf(t, "b", 14, 0x2222))
			frame, err := Encode(root, f, xgID, 0, 21)
			require.NoError(t, err)

			d, err := Parse(f, xgID, frame)
			require.NoError(t, err)
			assert.True(t, d.ChecksumOK)
			assert.Equal(t, uint32(0), d.Address)
			assert.Equal(t, []byte{0x11, 0x44, 0x22}, d.Data)
			assert.Equal(t, int64(21), d.End())
			assert.Equal(t, frame, d.Raw)
		})
	}
}

func TestParseErrors(t *testing.T) {
	good := []byte{0xF0, 0x43, 0x00, 0x4C, 0x00, 0x01, 0x00, 0x00, 0x00, 0x10, 0x6F, 0xF7}
	with := func(i int, b byte) []byte {
		out := append([]byte(nil), good...)
		out[i] = b
		return out
	}

	tests := []struct {
		name  string
		frame []byte
		id    Identity
		want  error
	}{
		{"too short", good[:5], xgID, ErrTruncated},
		{"no F0", with(0, 0x00), xgID, ErrFraming},
		{"no F7", good[:len(good)-1], xgID, ErrTruncated},
		{"high bit in body", with(9, 0x90), xgID, ErrDataByte},
		{"other manufacturer", with(1, 0x41), xgID, ErrIdentity},
		{"other model", with(3, 0x4B), xgID, ErrIdentity},
		{"other device", with(2, 0x01), xgID, ErrIdentity},
		{"parameter change device byte", with(2, 0x10), xgID, ErrFraming},
		{"count too large", with(5, 0x02), xgID, ErrTruncated},
		{"count too small", with(5, 0x00), xgID, ErrFraming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(FramingXG, tt.id, tt.frame)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse(Framing(7), xgID, good)
	assert.ErrorIs(t, err, ErrUnknownFrame)
}

func TestParseBadChecksumIsNotAnError(t *testing.T) {
	frame := []byte{0xF0, 0x43, 0x00, 0x4C, 0x00, 0x01, 0x00, 0x00, 0x00, 0x10, 0x00, 0xF7}
	d, err := Parse(FramingXG, xgID, frame)
	require.NoError(t, err)
	assert.False(t, d.ChecksumOK)
}

func TestApply(t *testing.T) {
	a := leaf(t, "a", 7, 0)
	w := leaf(t, "w", 14, 0)
	root := resolvedRoot(t, a, w)

	frame := mustFrame(t, FramingXG, 0, []byte{0x05, 0x01, 0x02})
	res, err := ApplyFrame(root, FramingXG, xgID, frame, ChecksumReject)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Applied)
	assert.Zero(t, res.Skipped)
	assert.True(t, res.ChecksumOK)
	assert.Equal(t, int32(5), a.Contents().Value())
	assert.Equal(t, int32(0x82), w.Contents().Value())
	require.Len(t, res.Changes, 2)
	assert.Equal(t, model.Change{Leaf: a, Old: 0, New: 5}, res.Changes[0])
	assert.Equal(t, model.Change{Leaf: w, Old: 0, New: 0x82}, res.Changes[1])
}

func TestApplySkipsPadding(t *testing.T) {
	a := leaf(t, "a", 7, 0)
	b := leaf(t, "b", 7, 0, model.WithAddress(21))
	root := resolvedRoot(t, a, b)

	frame := mustFrame(t, FramingEmbedded, 0, []byte{1, 2, 3, 4, 5})
	res, err := ApplyFrame(root, FramingEmbedded, xgID, frame, ChecksumReject)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, int32(1), a.Contents().Value())
	assert.Equal(t, int32(4), b.Contents().Value())
}

func TestApplyChecksumPolicies(t *testing.T) {
	a := leaf(t, "a", 7, 0)
	root := resolvedRoot(t, a)

	frame := mustFrame(t, FramingXG, 0, []byte{0x33})
	frame[len(frame)-2] ^= 0x01
	d, err := Parse(FramingXG, xgID, frame)
	require.NoError(t, err)
	require.False(t, d.ChecksumOK)

	_, err = Apply(root, d, ChecksumReject)
	assert.ErrorIs(t, err, ErrChecksum)
	assert.True(t, IsChecksumError(err))
	assert.Equal(t, int32(0), a.Contents().Value())

	var events []log.Event
	logger := mocks.NewMockLogger(t)
	logger.EXPECT().Log(mock.Anything).Run(func(e log.Event) { events = append(events, e) })

	res, err := Apply(root, d, ChecksumWarn, WithLogger(logger))
	require.NoError(t, err)
	assert.False(t, res.ChecksumOK)
	assert.Equal(t, int32(0x33), a.Contents().Value())

	var categories []log.Category
	for _, e := range events {
		categories = append(categories, e.Category)
	}
	assert.Equal(t, []log.Category{log.CategoryMessage, log.CategoryError, log.CategoryParam, log.CategoryMessage}, categories)
	assert.Equal(t, "a", events[2].Param.Path)
	assert.Equal(t, 1, events[3].Dump.Applied)
}

func TestApplyCrossingLeafChangesNothing(t *testing.T) {
	a := leaf(t, "a", 7, 0)
	nib := leaf(t, "nib", 4, 0)
	root := resolvedRoot(t, a, nib)

	frame := mustFrame(t, FramingXG, 0, []byte{0x11, 0x01})
	_, err := ApplyFrame(root, FramingXG, xgID, frame, ChecksumReject)
	assert.ErrorIs(t, err, model.ErrCrossesNode)
	assert.Equal(t, int32(0), a.Contents().Value())
}

func TestApplyRequiresResolvedMap(t *testing.T) {
	root := model.NewGroup("root")
	require.NoError(t, root.Add(leaf(t, "a", 7, 0)))
	_, err := Apply(root, &Dump{ChecksumOK: true}, ChecksumReject)
	assert.ErrorIs(t, err, model.ErrUnresolved)
}

func TestApplyNotifiesObservers(t *testing.T) {
	a := leaf(t, "a", 7, 0)
	root := resolvedRoot(t, a)

	var seen []model.Change
	root.Observe(func(c model.Change) { seen = append(seen, c) })

	_, err := ApplyFrame(root, FramingXG, xgID, mustFrame(t, FramingXG, 0, []byte{9}), ChecksumReject)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, int32(9), seen[0].New)
}

func TestPolicyAndFramingNames(t *testing.T) {
	for _, p := range []Policy{ChecksumReject, ChecksumWarn} {
		got, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, ChecksumReject, p)
	_, err = ParsePolicy("ignore")
	assert.Error(t, err)

	for _, f := range []Framing{FramingXG, FramingEmbedded} {
		got, err := ParseFraming(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err = ParseFraming("roland")
	assert.True(t, errors.Is(err, ErrUnknownFrame))
}

// mustFrame builds a frame by hand with a correct checksum.
func mustFrame(t *testing.T, f Framing, addr uint32, data []byte) []byte {
	t.Helper()
	hdr, sum := f.header(xgID, addr, len(data))
	frame := append(hdr, data...)
	for _, b := range data {
		sum += b
	}
	frame = append(frame, negate(sum))
	if f.HasStatus() {
		frame = append(frame, EndOfExclusive)
	}
	return frame
}

func TestWrapUnwrap(t *testing.T) {
	xg := mustFrame(t, FramingXG, 0, []byte{1})
	msg := FramingXG.Wrap(xg)
	assert.Equal(t, xg, []byte(msg))
	back, err := FramingXG.Unwrap(msg)
	require.NoError(t, err)
	assert.Equal(t, xg, back)

	emb := mustFrame(t, FramingEmbedded, 0, []byte{1})
	msg = FramingEmbedded.Wrap(emb)
	assert.Equal(t, StatusSysEx, msg[0])
	assert.Equal(t, EndOfExclusive, msg[len(msg)-1])
	assert.True(t, bytes.Equal(emb, msg[1:len(msg)-1]))

	d, err := ParseMessage(FramingEmbedded, xgID, msg)
	require.NoError(t, err)
	assert.True(t, d.ChecksumOK)
}

func TestSplitMessages(t *testing.T) {
	a := mustFrame(t, FramingXG, 0, []byte{1})
	b := mustFrame(t, FramingXG, 1, []byte{2, 3})
	msgs, err := SplitMessages(append(append([]byte(nil), a...), b...))
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, a, []byte(msgs[0]))
	assert.Equal(t, b, []byte(msgs[1]))

	_, err = SplitMessages([]byte{0x00, 0xF0, 0xF7})
	assert.ErrorIs(t, err, ErrFraming)
	_, err = SplitMessages([]byte{0xF0, 0x43})
	assert.ErrorIs(t, err, ErrTruncated)
	_, err = SplitMessages([]byte{0xF0, 0xF0, 0xF7})
	assert.ErrorIs(t, err, ErrFraming)
	_, err = SplitMessages([]byte{0xF7})
	assert.ErrorIs(t, err, ErrFraming)
}

package log

import (
	"time"
)

// Event is a protocol event captured while producing or ingesting a dump.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID groups the events of one dump or read (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction is OUT for dumps and IN for reads.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Device is the registry name of the device model, if known.
	Device string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Dump        *DumpEvent        `cbor:"11,keyasint,omitempty"`
	Param       *ParamEvent       `cbor:"12,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Direction indicates the direction of data flow relative to the editor.
type Direction uint8

const (
	// DirectionIn indicates a dump received from a device.
	DirectionIn Direction = 0
	// DirectionOut indicates a dump produced for a device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where the event was captured.
type Layer uint8

const (
	// LayerFrame is the raw SysEx byte level.
	LayerFrame Layer = 0
	// LayerMap is the address map level (header fields, parameters).
	LayerMap Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerFrame:
		return "FRAME"
	case LayerMap:
		return "MAP"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a dump frame or its decoded form.
	CategoryMessage Category = 0
	// CategoryParam indicates a parameter value change.
	CategoryParam Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryParam:
		return "PARAM"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw SysEx bytes.
type FrameEvent struct {
	// Size is the frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame (may be truncated for large dumps).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MaxFrameData is the number of frame bytes kept in a FrameEvent.
const MaxFrameData = 512

// NewFrameEvent copies up to MaxFrameData bytes of b.
func NewFrameEvent(b []byte) *FrameEvent {
	fe := &FrameEvent{Size: len(b)}
	n := len(b)
	if n > MaxFrameData {
		n = MaxFrameData
		fe.Truncated = true
	}
	fe.Data = append([]byte(nil), b[:n]...)
	return fe
}

// DumpEvent captures the decoded header of a bulk dump.
type DumpEvent struct {
	// Framing names the header layout ("xg", "embedded").
	Framing string `cbor:"1,keyasint"`

	// Manufacturer is the manufacturer ID byte.
	Manufacturer uint8 `cbor:"2,keyasint"`

	// Model is the model ID byte.
	Model uint8 `cbor:"3,keyasint"`

	// DeviceNumber is the device-number byte, if the framing carries one.
	DeviceNumber *uint8 `cbor:"4,keyasint,omitempty"`

	// Address is the 21-bit byte address of the first payload byte.
	Address uint32 `cbor:"5,keyasint"`

	// Count is the number of payload bytes.
	Count uint16 `cbor:"6,keyasint"`

	// Checksum is the checksum byte as sent.
	Checksum uint8 `cbor:"7,keyasint"`

	// ChecksumOK is false if a received checksum did not verify.
	ChecksumOK bool `cbor:"8,keyasint"`

	// Applied is the number of payload bytes written into the map (reads only).
	Applied int `cbor:"9,keyasint,omitempty"`

	// Skipped is the number of payload bytes that fell into padding (reads only).
	Skipped int `cbor:"10,keyasint,omitempty"`
}

// ParamEvent captures a parameter value change caused by a read.
type ParamEvent struct {
	// Path is the node path below the root.
	Path string `cbor:"1,keyasint"`

	// Address is the bit address of the parameter.
	Address int64 `cbor:"2,keyasint"`

	// Old is the previous raw value.
	Old int32 `cbor:"3,keyasint"`

	// New is the raw value after the change.
	New int32 `cbor:"4,keyasint"`

	// Display is the rendered new value.
	Display string `cbor:"5,keyasint,omitempty"`
}

// StateChangeEvent captures stream and session lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityStream indicates a dump stream state change.
	StateEntityStream StateEntity = 0
	// StateEntityMap indicates a map state change (resolution, reset).
	StateEntityMap StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityStream:
		return "STREAM"
	case StateEntityMap:
		return "MAP"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Address is the bit address involved, if any.
	Address *int64 `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}

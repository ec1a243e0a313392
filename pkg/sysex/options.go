package sysex

import (
	"time"

	"github.com/google/uuid"

	"github.com/synmap/synmap-go/pkg/log"
)

// Option configures a Stream or an Apply call.
type Option func(*options)

type options struct {
	logger  log.Logger
	session string
	device  string
	now     func() time.Time
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.session == "" {
		o.session = uuid.NewString()
	}
	o.logger = log.OrNoop(o.logger)
	return o
}

// WithLogger records protocol events to l. A nil l disables recording.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSessionID sets the session ID of recorded events. The default is a
// fresh random UUID per Stream or Apply call.
func WithSessionID(id string) Option {
	return func(o *options) { o.session = id }
}

// WithDevice sets the device name of recorded events.
func WithDevice(name string) Option {
	return func(o *options) { o.device = name }
}

func withClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func (o *options) logging() bool {
	_, off := o.logger.(log.NoopLogger)
	return !off
}

func (o *options) emit(e log.Event) {
	if !o.logging() {
		return
	}
	e.Timestamp = o.now()
	e.SessionID = o.session
	e.Device = o.device
	o.logger.Log(e)
}

func (o *options) emitError(dir log.Direction, err error, addr *int64, context string) {
	o.emit(log.Event{
		Direction: dir,
		Layer:     log.LayerMap,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerMap,
			Message: err.Error(),
			Address: addr,
			Context: context,
		},
	})
}

func dumpEvent(f Framing, id Identity, addr uint32, count int, checksum byte, ok bool) *log.DumpEvent {
	de := &log.DumpEvent{
		Framing:      f.String(),
		Manufacturer: id.Manufacturer,
		Model:        id.Model,
		Address:      addr,
		Count:        uint16(count),
		Checksum:     checksum,
		ChecksumOK:   ok,
	}
	if f.HasDeviceNumber() {
		n := id.DeviceNumber
		de.DeviceNumber = &n
	}
	return de
}

package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter mirrors protocol events into an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates an adapter logging at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter logging at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event as one record. Error events are logged at Warn or
// above regardless of the configured level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}
	if event.Device != "" {
		attrs = append(attrs, slog.String("device", event.Device))
	}

	level := a.level
	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("size", event.Frame.Size),
			slog.String("data", hex.EncodeToString(event.Frame.Data)),
		)
		if event.Frame.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	case event.Dump != nil:
		d := event.Dump
		attrs = append(attrs,
			slog.String("framing", d.Framing),
			slog.Int("manufacturer", int(d.Manufacturer)),
			slog.Int("model", int(d.Model)),
			slog.Uint64("address", uint64(d.Address)),
			slog.Int("count", int(d.Count)),
			slog.Bool("checksum_ok", d.ChecksumOK),
		)
		if d.DeviceNumber != nil {
			attrs = append(attrs, slog.Int("device_number", int(*d.DeviceNumber)))
		}
		if d.Applied > 0 || d.Skipped > 0 {
			attrs = append(attrs, slog.Int("applied", d.Applied), slog.Int("skipped", d.Skipped))
		}
	case event.Param != nil:
		attrs = append(attrs,
			slog.String("path", event.Param.Path),
			slog.Int64("address", event.Param.Address),
			slog.Int("old", int(event.Param.Old)),
			slog.Int("new", int(event.Param.New)),
		)
		if event.Param.Display != "" {
			attrs = append(attrs, slog.String("display", event.Param.Display))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Address != nil {
			attrs = append(attrs, slog.Int64("error_address", *event.Error.Address))
		}
		if level < slog.LevelWarn {
			level = slog.LevelWarn
		}
	}

	a.logger.LogAttrs(context.Background(), level, "sysex", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)

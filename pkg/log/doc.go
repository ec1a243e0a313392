// Package log captures SysEx protocol events for synmap.
//
// Every bulk dump produced and every bulk read applied can be recorded as a
// sequence of Events: the raw frame bytes, the decoded header, individual
// parameter changes and errors. This is separate from operational logging
// (slog); protocol capture is a machine-readable trace that can be replayed
// and filtered later.
//
// # Basic Usage
//
//	// Mirror events to the console
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// Record to a file
//	fl, _ := log.NewFileLogger("session.synlog")
//	defer fl.Close()
//
//	// Both
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # Event Layers
//
//   - Frame: raw SysEx bytes as sent or received (FrameEvent)
//   - Map: the decoded dump header and the parameters it touched
//     (DumpEvent, ParamEvent)
//
// State changes and errors have dedicated payloads.
//
// # File Format
//
// Log files are a concatenation of CBOR-encoded events with integer keys,
// conventionally named *.synlog. The synmap log subcommand prints them.
package log

package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/synmap/synmap-go/pkg/log"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// eventType returns a short label for the payload of event.
func eventType(event log.Event) string {
	switch {
	case event.Frame != nil:
		return "Frame"
	case event.Dump != nil:
		return "Dump"
	case event.Param != nil:
		return "Param"
	case event.StateChange != nil:
		return "State"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [sess:id] DIRECTION LAYER Type device
	ts := event.Timestamp.UTC().Format(timeLayout)
	fmt.Fprintf(w, "%s [sess:%s] %-3s %-5s %s", ts, shortenID(event.SessionID),
		event.Direction.String(), event.Layer.String(), eventType(event))
	if event.Device != "" {
		fmt.Fprintf(w, " (%s)", event.Device)
	}
	fmt.Fprintln(w)

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Dump != nil:
		formatDumpDetails(w, event.Dump)
	case event.Param != nil:
		formatParamDetails(w, event.Param)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", strings.ToUpper(hex.EncodeToString(frame.Data)))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatDumpDetails(w io.Writer, d *log.DumpEvent) {
	fmt.Fprintf(w, "  Framing: %s  Manufacturer: %02X  Model: %02X", d.Framing, d.Manufacturer, d.Model)
	if d.DeviceNumber != nil {
		fmt.Fprintf(w, "  Device: %d", *d.DeviceNumber)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Address: %s  Count: %d\n", byteAddr(d.Address), d.Count)
	status := "ok"
	if !d.ChecksumOK {
		status = "MISMATCH"
	}
	fmt.Fprintf(w, "  Checksum: %02X (%s)\n", d.Checksum, status)
	if d.Applied > 0 || d.Skipped > 0 {
		fmt.Fprintf(w, "  Applied: %d  Skipped: %d\n", d.Applied, d.Skipped)
	}
}

func formatParamDetails(w io.Writer, p *log.ParamEvent) {
	fmt.Fprintf(w, "  %s @%d\n", p.Path, p.Address)
	fmt.Fprintf(w, "  %d -> %d", p.Old, p.New)
	if p.Display != "" {
		fmt.Fprintf(w, " (%s)", p.Display)
	}
	fmt.Fprintln(w)
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Address != nil {
		fmt.Fprintf(w, "  Address: %d\n", *err.Address)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "frame":
		return log.LayerFrame, nil
	case "map":
		return log.LayerMap, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be frame or map)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "param":
		return log.CategoryParam, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, param, state, or error)", s)
	}
}

// RunView prints every event of the file matching filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}

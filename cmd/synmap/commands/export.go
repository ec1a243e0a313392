package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/synmap/synmap-go/pkg/log"
	"github.com/synmap/synmap-go/pkg/sysex"
)

// exporter writes events in one output format.
type exporter interface {
	write(event log.Event) error
	flush() error
}

// RunExport converts the events of a protocol log to jsonl or csv and writes
// them to output, or to stdout when output is empty.
func RunExport(path, format, output string) error {
	newExporter, ok := exporters[format]
	if !ok {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	ex, err := newExporter(w)
	if err != nil {
		return err
	}
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := ex.write(event); err != nil {
			return err
		}
	}
	return ex.flush()
}

var exporters = map[string]func(io.Writer) (exporter, error){
	"jsonl": newJSONLExporter,
	"csv":   newCSVExporter,
}

// jsonlExporter writes one JSON object per event.
type jsonlExporter struct {
	enc *json.Encoder
}

func newJSONLExporter(w io.Writer) (exporter, error) {
	return &jsonlExporter{enc: json.NewEncoder(w)}, nil
}

func (e *jsonlExporter) write(event log.Event) error {
	if err := e.enc.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return nil
}

func (e *jsonlExporter) flush() error { return nil }

// csvExporter flattens each event into one row.
type csvExporter struct {
	cw *csv.Writer
}

var csvHeader = []string{"timestamp", "session_id", "direction", "layer", "category", "device", "type", "address", "detail"}

func newCSVExporter(w io.Writer) (exporter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &csvExporter{cw: cw}, nil
}

func (e *csvExporter) write(event log.Event) error {
	addr, detail := csvDetail(event)
	row := []string{
		event.Timestamp.UTC().Format(timeLayout),
		event.SessionID,
		event.Direction.String(),
		event.Layer.String(),
		event.Category.String(),
		event.Device,
		eventType(event),
		addr,
		detail,
	}
	if err := e.cw.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

func (e *csvExporter) flush() error {
	e.cw.Flush()
	return e.cw.Error()
}

// csvDetail returns the byte address column ("hh mm ll", empty when the
// event has none) and a short detail text.
func csvDetail(event log.Event) (addr, detail string) {
	switch {
	case event.Frame != nil:
		return "", strconv.Itoa(event.Frame.Size)
	case event.Dump != nil:
		return byteAddr(event.Dump.Address), strconv.Itoa(int(event.Dump.Count))
	case event.Param != nil:
		return bitAddr(event.Param.Address), event.Param.Path + "=" + event.Param.Display
	case event.StateChange != nil:
		return "", event.StateChange.NewState
	case event.Error != nil:
		if event.Error.Address != nil {
			addr = bitAddr(*event.Error.Address)
		}
		return addr, event.Error.Message
	}
	return "", ""
}

func byteAddr(a uint32) string {
	hi, mid, lo := sysex.SplitAddress(a)
	return fmt.Sprintf("%02X %02X %02X", hi, mid, lo)
}

func bitAddr(bit int64) string {
	a, err := sysex.ByteAddress(bit)
	if err != nil {
		return strconv.FormatInt(bit, 10)
	}
	return byteAddr(a)
}

package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/synmap/synmap-go/pkg/device"
	"github.com/synmap/synmap-go/pkg/inspect"
	"github.com/synmap/synmap-go/pkg/model"
	"github.com/synmap/synmap-go/pkg/sysex"
)

// TreeOptions controls the tree command.
type TreeOptions struct {
	Path      string
	Raw       bool
	Addresses bool
}

// RunTree prints the node at opts.Path and everything below it.
func RunTree(d *device.Device, opts TreeOptions, w io.Writer) error {
	path := opts.Path
	if path == "" {
		path = "/"
	}
	n, err := inspect.NewInspector(d).Resolve(path)
	if err != nil {
		return err
	}
	f := inspect.NewFormatter()
	f.ShowAddresses = opts.Addresses
	f.ShowRaw = opts.Raw
	fmt.Fprint(w, f.FormatTree(d, n))
	return nil
}

// Dump output formats.
const (
	FormatHex = "hex"
	FormatSyx = "syx"
)

// DumpOptions controls the dump command.
type DumpOptions struct {
	// Path names the node to dump; empty dumps the whole map.
	Path string

	// Start and End select a bit range instead of a node when End > 0.
	Start, End int64

	// Format is hex or syx.
	Format string

	// Output is the file to write; empty writes to the command's writer.
	Output string

	// Set lists path=value assignments applied before dumping.
	Set []string
}

// RunDump renders dump frames of a node or an address range.
func RunDump(d *device.Device, opts DumpOptions, w io.Writer, sopts ...sysex.Option) error {
	if err := applyAssignments(d, opts.Set); err != nil {
		return err
	}

	frames, err := dumpFrames(d, opts, sopts)
	if err != nil {
		return err
	}

	var data []byte
	switch opts.Format {
	case "", FormatHex:
		var sb strings.Builder
		for _, f := range frames {
			sb.WriteString(inspect.HexDump(f))
			sb.WriteString("\n")
		}
		data = []byte(sb.String())
	case FormatSyx:
		data = d.Syx(frames)
	default:
		return fmt.Errorf("unknown format: %s (supported: hex, syx)", opts.Format)
	}

	if opts.Output == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(w, "Wrote %d frames (%d bytes) to %s\n", len(frames), len(data), opts.Output)
	return nil
}

func dumpFrames(d *device.Device, opts DumpOptions, sopts []sysex.Option) ([][]byte, error) {
	if opts.End > 0 {
		frame, err := d.DumpRange(opts.Start, opts.End, sopts...)
		if err != nil {
			return nil, err
		}
		return [][]byte{frame}, nil
	}

	var n model.Node = d.Root()
	if opts.Path != "" {
		var err error
		if n, err = inspect.NewInspector(d).Resolve(opts.Path); err != nil {
			return nil, err
		}
	}
	frames, err := d.DumpNode(n, sopts...)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%s holds no parameters", n.Path())
	}
	return frames, nil
}

// applyAssignments sets each "path=value" entry through the inspector.
func applyAssignments(d *device.Device, sets []string) error {
	if len(sets) == 0 {
		return nil
	}
	in := inspect.NewInspector(d)
	for _, s := range sets {
		path, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid assignment %q (want path=value)", s)
		}
		if _, err := in.Set(strings.TrimSpace(path), value); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// ApplyResult summarizes an apply command.
type ApplyResult struct {
	Messages  int
	Applied   int
	Skipped   int
	BadChecks int
	Changes   []model.Change
}

// RunApply reads a .syx file into d and prints every changed parameter.
func RunApply(d *device.Device, path string, policy sysex.Policy, w io.Writer, sopts ...sysex.Option) (*ApplyResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	results, applyErr := d.ApplySyx(data, policy, sopts...)

	sum := &ApplyResult{Messages: len(results)}
	f := inspect.NewFormatter()
	for _, r := range results {
		sum.Applied += r.Applied
		sum.Skipped += r.Skipped
		if !r.ChecksumOK {
			sum.BadChecks++
		}
		for _, c := range r.Changes {
			fmt.Fprintln(w, f.FormatChange(c))
		}
		sum.Changes = append(sum.Changes, r.Changes...)
	}

	fmt.Fprintf(w, "%d messages, %d bytes applied, %d skipped, %d changes\n",
		sum.Messages, sum.Applied, sum.Skipped, len(sum.Changes))
	if sum.BadChecks > 0 {
		fmt.Fprintf(w, "warning: %d messages had a bad checksum\n", sum.BadChecks)
	}
	return sum, applyErr
}

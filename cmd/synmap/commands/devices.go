package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/synmap/synmap-go/pkg/builtin"
	"github.com/synmap/synmap-go/pkg/device"
	"github.com/synmap/synmap-go/pkg/model"
	"github.com/synmap/synmap-go/pkg/table"
)

// OpenRegistry returns the built-in devices plus every table found in dirs.
// A table whose name is already registered is an error.
func OpenRegistry(dirs []string) (*device.Registry, error) {
	r := builtin.Registry()
	for _, dir := range dirs {
		paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
		if err != nil {
			return nil, err
		}
		sort.Strings(paths)
		for _, path := range paths {
			t, err := table.Load(path)
			if err != nil {
				return nil, err
			}
			ctor := func() (*device.Device, error) { return table.Build(t) }
			if err := r.Register(t.Name, ctor); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	return r, nil
}

// OpenDevice builds the named device and applies a device number
// override when number is set.
func OpenDevice(r *device.Registry, name string, number *int) (*device.Device, error) {
	d, err := r.New(name)
	if err != nil {
		return nil, err
	}
	if number != nil {
		if *number < 0 || *number > 0x0F {
			return nil, fmt.Errorf("device number must be 0-15, got %d", *number)
		}
		if err := d.SetDeviceNumber(byte(*number)); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// RunList prints one line per registered device.
func RunList(r *device.Registry, w io.Writer) error {
	names := r.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "No devices")
		return nil
	}

	fmt.Fprintf(w, "%-12s %-20s %-9s %-7s %6s  %s\n", "NAME", "IDENTITY", "FRAMING", "FORMAT", "PARAMS", "DESCRIPTION")
	for _, name := range names {
		d, err := r.New(name)
		if err != nil {
			fmt.Fprintf(w, "%-12s error: %v\n", name, err)
			continue
		}
		info := d.Info()
		fmt.Fprintf(w, "%-12s %-20s %-9s %-7s %6d  %s\n",
			name, info.Identity.String(), info.Framing.String(), info.Format.String(),
			len(d.Leaves()), info.Description)
	}
	return nil
}

// DeviceSummary describes the layout of one device.
type DeviceSummary struct {
	Name   string
	Params int
	Groups int
	Blocks []device.Block

	// Span is the number of bits from the first address to the end of
	// the map; Padding the inaccessible bits within it.
	Span    int64
	Padding int64
}

// Summarize counts the nodes and contiguous runs of d.
func Summarize(d *device.Device) DeviceSummary {
	root := d.Root()
	s := DeviceSummary{Name: d.Name(), Blocks: device.Blocks(root)}
	_ = model.Walk(root, func(n model.Node, _ int) error {
		switch n.(type) {
		case *model.Group:
			s.Groups++
		case *model.Leaf:
			s.Params++
		}
		return nil
	})
	s.Span = root.End() - root.Address()
	s.Padding = s.Span - int64(root.TotalBits())
	return s
}

// RunInfo prints the identity and layout of d.
func RunInfo(d *device.Device, w io.Writer) error {
	info := d.Info()
	s := Summarize(d)
	fmt.Fprintf(w, "Device:      %s\n", info.Name)
	if info.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", info.Description)
	}
	if info.Author != "" {
		fmt.Fprintf(w, "Author:      %s\n", info.Author)
	}
	fmt.Fprintf(w, "Identity:    %s\n", info.Identity)
	fmt.Fprintf(w, "Framing:     %s\n", info.Framing)
	fmt.Fprintf(w, "Addresses:   %s\n", info.Format)
	fmt.Fprintf(w, "Parameters:  %d in %d groups\n", s.Params, s.Groups)
	fmt.Fprintf(w, "Span:        %d bits (%d padding)\n", s.Span, s.Padding)
	fmt.Fprintf(w, "Dump frames: %d\n", len(s.Blocks))
	for _, b := range s.Blocks {
		fmt.Fprintf(w, "  %s  %d bytes\n", d.FormatAddress(b.Start), b.Len())
	}
	return nil
}

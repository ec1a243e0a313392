package inspect

import (
	"fmt"
	"strings"

	"github.com/synmap/synmap-go/pkg/device"
	"github.com/synmap/synmap-go/pkg/model"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowAddresses prefixes each node with its address label
	ShowAddresses bool

	// ShowRaw appends the raw value to each parameter
	ShowRaw bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowAddresses: true,
		ShowRaw:       false,
		IndentWidth:   2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatTree renders n and everything below it, one node per line.
func (f *Formatter) FormatTree(d *device.Device, n model.Node) string {
	var sb strings.Builder
	_ = model.Walk(n, func(node model.Node, depth int) error {
		var line strings.Builder
		if f.ShowAddresses {
			fmt.Fprintf(&line, "[%s] ", d.FormatAddress(node.Address()))
		}
		switch v := node.(type) {
		case *model.Group:
			line.WriteString(v.Label())
			line.WriteString("/")
		case *model.Leaf:
			fmt.Fprintf(&line, "%s = %s", v.Label(), v.Contents().Display())
			if f.ShowRaw {
				fmt.Fprintf(&line, " (%s)", f.FormatRaw(v.Contents()))
			}
		}
		sb.WriteString(f.Indent(depth, line.String()))
		sb.WriteString("\n")
		return nil
	})
	return sb.String()
}

// FormatRaw formats the raw value of c in hex, padded to its bit size.
func (f *Formatter) FormatRaw(c *model.Contents) string {
	digits := (int(c.BitSize()) + 3) / 4
	return fmt.Sprintf("0x%0*X", digits, c.Bits())
}

// FormatParam formats a parameter snapshot on one line.
func (f *Formatter) FormatParam(info *ParamInfo) string {
	var sb strings.Builder
	if f.ShowAddresses {
		fmt.Fprintf(&sb, "[%s] ", info.Address)
	}
	fmt.Fprintf(&sb, "%s = %s", info.Path, info.Display)
	if f.ShowRaw {
		fmt.Fprintf(&sb, " (raw %d, %d bits)", info.Value, info.BitSize)
	}
	if info.Ranges > 1 {
		fmt.Fprintf(&sb, " [view %d/%d]", info.Selected+1, info.Ranges)
	}
	return sb.String()
}

// FormatChange formats a value change as "path: old -> new" using display
// text of the parameter's selected range.
func (f *Formatter) FormatChange(c model.Change) string {
	r := c.Leaf.Contents().Range()
	display := func(v int32) string {
		if s, ok := r.Display(v); ok {
			return s
		}
		return model.Unknown
	}
	return fmt.Sprintf("%s: %s -> %s", c.Leaf.Path(), display(c.Old), display(c.New))
}

// HexDump formats bytes as uppercase hex pairs, 16 per line.
func HexDump(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		switch {
		case i == 0:
		case i%16 == 0:
			sb.WriteString("\n")
		default:
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

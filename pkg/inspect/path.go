// Package inspect provides address map inspection and parameter editing.
//
// The inspect package offers a unified interface for:
//   - Parsing path expressions (e.g., "System/Master Volume" or "@00 00 04")
//   - Resolving labels to nodes
//   - Reading and writing parameters by their display value
//   - Formatting trees, parameters and frames for display
package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/synmap/synmap-go/pkg/sysex"
	"github.com/synmap/synmap-go/pkg/table"
)

// Path errors.
var (
	ErrEmptyPath   = errors.New("empty path")
	ErrInvalidPath = errors.New("invalid path format")
)

// Path represents a parsed inspection path.
// Format: label/label/... from the root, or @address for a byte address.
type Path struct {
	// Segments are node labels from the root down; empty for the root.
	Segments []string

	// Address is the byte address of an "@" path.
	Address uint32

	// IsAddress indicates the path names a byte address instead of labels.
	IsAddress bool

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string into a Path struct.
//
// Supported formats:
//   - "/" - the root group
//   - "System/Master Volume" - labels from the root (a leading "/" is allowed)
//   - "@00 00 04", "@0x84", "@132" - the parameter covering a byte address
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	p := &Path{Raw: input}

	if rest, ok := strings.CutPrefix(input, "@"); ok {
		addr, err := table.ParseByteAddr(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		p.Address = uint32(addr)
		p.IsAddress = true
		return p, nil
	}

	input = strings.TrimPrefix(input, "/")
	if input == "" {
		return p, nil
	}
	if strings.Contains(input, "//") || strings.HasSuffix(input, "/") {
		return nil, ErrInvalidPath
	}

	for _, part := range strings.Split(input, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, ErrInvalidPath
		}
		p.Segments = append(p.Segments, part)
	}
	return p, nil
}

// IsRoot reports whether the path names the root group.
func (p *Path) IsRoot() bool {
	return !p.IsAddress && len(p.Segments) == 0
}

// String returns the path as a string.
func (p *Path) String() string {
	if p.IsAddress {
		hi, mid, lo := sysex.SplitAddress(p.Address)
		return fmt.Sprintf("@%02X %02X %02X", hi, mid, lo)
	}
	return "/" + strings.Join(p.Segments, "/")
}

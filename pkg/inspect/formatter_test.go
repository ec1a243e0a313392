package inspect

import (
	"strings"
	"testing"

	"github.com/synmap/synmap-go/pkg/builtin"
	"github.com/synmap/synmap-go/pkg/model"
)

func TestFormatTree(t *testing.T) {
	d, err := builtin.NewNCDemo()
	if err != nil {
		t.Fatal(err)
	}
	insp := NewInspector(d)
	n, err := insp.Resolve("Patch/Envelope")
	if err != nil {
		t.Fatal(err)
	}

	f := NewFormatter()
	got := f.FormatTree(d, n)
	want := "[6] Envelope/\n" +
		"  [6] Attack = 0\n" +
		"  [7] Decay = 64\n" +
		"  [8] Sustain = 127\n" +
		"  [9] Release = 32\n"
	if got != want {
		t.Errorf("FormatTree =\n%s\nwant\n%s", got, want)
	}

	f.ShowAddresses = false
	f.ShowRaw = true
	f.IndentWidth = 4
	got = f.FormatTree(d, n)
	if !strings.Contains(got, "    Decay = 64 (0x40)\n") {
		t.Errorf("FormatTree with raw values =\n%s", got)
	}
}

func TestFormatRaw(t *testing.T) {
	d, err := builtin.NewNCDemo()
	if err != nil {
		t.Fatal(err)
	}
	insp := NewInspector(d)
	wave, err := insp.Parameter("Patch/Wave")
	if err != nil {
		t.Fatal(err)
	}
	wave.Contents().Set(0x101)
	if got := NewFormatter().FormatRaw(wave.Contents()); got != "0x0101" {
		t.Errorf("FormatRaw = %q, want 0x0101", got)
	}
}

func TestFormatParam(t *testing.T) {
	info := &ParamInfo{
		Path:     "System/Master Volume",
		Address:  "00 00 04",
		BitSize:  7,
		Value:    127,
		Display:  "127",
		Selected: 0,
		Ranges:   2,
	}
	f := NewFormatter()
	if got, want := f.FormatParam(info), "[00 00 04] System/Master Volume = 127 [view 1/2]"; got != want {
		t.Errorf("FormatParam = %q, want %q", got, want)
	}
	f.ShowAddresses = false
	f.ShowRaw = true
	info.Ranges = 1
	if got, want := f.FormatParam(info), "System/Master Volume = 127 (raw 127, 7 bits)"; got != want {
		t.Errorf("FormatParam = %q, want %q", got, want)
	}
}

func TestFormatChange(t *testing.T) {
	insp := newXGInspector(t)
	l, err := insp.Parameter("Effect 1/Reverb Type")
	if err != nil {
		t.Fatal(err)
	}
	f := NewFormatter()
	got := f.FormatChange(model.Change{Leaf: l, Old: 0x80, New: 0x900})
	if want := "Effect 1/Reverb Type: Hall 1 -> Canyon"; got != want {
		t.Errorf("FormatChange = %q, want %q", got, want)
	}
	got = f.FormatChange(model.Change{Leaf: l, Old: 0x80, New: 0x7F})
	if want := "Effect 1/Reverb Type: Hall 1 -> ???"; got != want {
		t.Errorf("FormatChange = %q, want %q", got, want)
	}
}

func TestHexDump(t *testing.T) {
	if got := HexDump(nil); got != "" {
		t.Errorf("HexDump(nil) = %q", got)
	}
	if got, want := HexDump([]byte{0xF0, 0x43, 0x00, 0x4C}), "F0 43 00 4C"; got != want {
		t.Errorf("HexDump = %q, want %q", got, want)
	}
	data := make([]byte, 18)
	got := HexDump(data)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 || len(strings.Fields(lines[0])) != 16 || len(strings.Fields(lines[1])) != 2 {
		t.Errorf("HexDump(18 bytes) =\n%s", got)
	}
}
